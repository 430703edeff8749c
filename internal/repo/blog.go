package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/models"
)

type PostFilter struct {
	CategorySlug  string
	TagSlug       string
	Query         string
	AuthorID      *uuid.UUID
	OnlyPublished bool
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return getByID[models.Category](ctx, r.DB, id)
}

func (r *GormRepo) SlugTaken(ctx context.Context, model any, slug string, except uuid.UUID) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(model).Where("slug = ?", slug)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) CountPostsInCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Post{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Category](ctx, r.DB, id)
}

func (r *GormRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) CreateTag(ctx context.Context, t *models.Tag) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) FindTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	out := []models.Tag{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", publicAuthor).Preload("Category").Preload("Tags")
}

func (r *GormRepo) ListPosts(ctx context.Context, f PostFilter, offset, limit int) (int64, []models.Post, error) {
	q := r.DB.WithContext(ctx).Model(&models.Post{})
	if f.OnlyPublished {
		q = q.Where("posts.published = ?", true)
	}
	if f.AuthorID != nil {
		q = q.Where("posts.author_id = ?", *f.AuthorID)
	}
	if f.CategorySlug != "" {
		q = q.Where("posts.category_id IN (?)",
			r.DB.Model(&models.Category{}).Select("id").Where("slug = ?", f.CategorySlug))
	}
	if f.TagSlug != "" {
		q = q.Where("posts.id IN (?)",
			r.DB.Table("post_tags").Select("post_tags.post_id").
				Joins("JOIN tags ON tags.id = post_tags.tag_id").
				Where("tags.slug = ?", f.TagSlug))
	}
	if f.Query != "" {
		p := like(f.Query)
		q = q.Where("lower(posts.title) LIKE lower(?) OR lower(posts.excerpt) LIKE lower(?)", p, p)
	}
	return paginate[models.Post](q, "posts.published_at DESC, posts.created_at DESC", offset, limit, withPostRelations)
}

func (r *GormRepo) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var p models.Post
	if err := withPostRelations(r.DB.WithContext(ctx)).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	if err := withPostRelations(r.DB.WithContext(ctx)).First(&p, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) CreatePost(ctx context.Context, p *models.Post) error {
	return r.DB.WithContext(ctx).Omit("Author", "Category").Create(p).Error
}

// UpdatePost saves p and replaces its tag set.
func (r *GormRepo) UpdatePost(ctx context.Context, p *models.Post, tags []models.Tag) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Category", "Tags").Save(p).Error; err != nil {
			return err
		}
		if tags == nil {
			return nil
		}
		if err := tx.Model(p).Association("Tags").Replace(tags); err != nil {
			return err
		}
		p.Tags = tags
		return nil
	})
}

// DeletePost removes a post together with its comments and tag links.
func (r *GormRepo) DeletePost(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return deleteByID[models.Post](ctx, tx, id)
	})
}

func (r *GormRepo) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	var out []models.Comment
	if err := r.DB.WithContext(ctx).
		Preload("User", publicAuthor).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return getByID[models.Comment](ctx, r.DB, id)
}

func (r *GormRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	return r.DB.WithContext(ctx).Omit("User").Create(c).Error
}

// DeleteCommentThread removes a comment and every reply below it.
func (r *GormRepo) DeleteCommentThread(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uuid.UUID{id}
		frontier := []uuid.UUID{id}
		for len(frontier) > 0 {
			var next []uuid.UUID
			if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &next).Error; err != nil {
				return err
			}
			ids = append(ids, next...)
			frontier = next
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
