package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/models"
)

type BannerOrder struct {
	ID    uuid.UUID
	Order int
}

func (r *GormRepo) ListGalleries(ctx context.Context, includeHidden bool) ([]models.Gallery, error) {
	q := r.DB.WithContext(ctx).Model(&models.Gallery{})
	if !includeHidden {
		q = q.Where("published = ?", true)
	}
	out := []models.Gallery{}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) CreateGallery(ctx context.Context, g *models.Gallery) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *GormRepo) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Gallery](ctx, r.DB, id)
}

func (r *GormRepo) ListBanners(ctx context.Context, includeInactive bool) ([]models.Banner, error) {
	q := r.DB.WithContext(ctx).Model(&models.Banner{})
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	out := []models.Banner{}
	if err := q.Order("sort_order ASC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	return getByID[models.Banner](ctx, r.DB, id)
}

// CreateBanner stores b, placing it after every existing banner when its order is unset.
// CreateBanner inserts b. appendLast overrides b.SortOrder with one past the current maximum.
func (r *GormRepo) CreateBanner(ctx context.Context, b *models.Banner, appendLast bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if appendLast {
			var max int
			if err := tx.Model(&models.Banner{}).Select("COALESCE(MAX(sort_order), 0)").Scan(&max).Error; err != nil {
				return err
			}
			b.SortOrder = max + 1
		}
		return tx.Create(b).Error
	})
}

func (r *GormRepo) SaveBanner(ctx context.Context, b *models.Banner) error {
	return r.DB.WithContext(ctx).Save(b).Error
}

func (r *GormRepo) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Banner](ctx, r.DB, id)
}

// ReorderBanners applies every position or none. An unknown id aborts with gorm.ErrRecordNotFound.
func (r *GormRepo) ReorderBanners(ctx context.Context, orders []BannerOrder) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			res := tx.Model(&models.Banner{}).Where("id = ?", o.ID).Update("sort_order", o.Order)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *GormRepo) ListNotices(ctx context.Context, includeHidden bool, offset, limit int) (int64, []models.Notice, error) {
	q := r.DB.WithContext(ctx).Model(&models.Notice{})
	if !includeHidden {
		q = q.Where("published = ?", true)
	}
	return paginate[models.Notice](q, "created_at DESC", offset, limit, nil)
}

func (r *GormRepo) GetNotice(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	return getByID[models.Notice](ctx, r.DB, id)
}

func (r *GormRepo) CreateNotice(ctx context.Context, n *models.Notice) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *GormRepo) SaveNotice(ctx context.Context, n *models.Notice) error {
	return r.DB.WithContext(ctx).Save(n).Error
}

func (r *GormRepo) DeleteNotice(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Notice](ctx, r.DB, id)
}

func (r *GormRepo) ListStudents(ctx context.Context, query string, offset, limit int) (int64, []models.Student, error) {
	q := r.DB.WithContext(ctx).Model(&models.Student{})
	if query != "" {
		p := like(query)
		q = q.Where("lower(name) LIKE lower(?) OR lower(email) LIKE lower(?) OR phone LIKE ?", p, p, p)
	}
	return paginate[models.Student](q, "created_at DESC", offset, limit, nil)
}

func (r *GormRepo) GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return getByID[models.Student](ctx, r.DB, id)
}

func (r *GormRepo) CreateStudent(ctx context.Context, s *models.Student) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SaveStudent(ctx context.Context, s *models.Student) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *GormRepo) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Student](ctx, r.DB, id)
}
