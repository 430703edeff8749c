package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/models"
)

type DoctorFilter struct {
	Specialization string
	Query          string
	IncludeHidden  bool
}

func (r *GormRepo) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	return r.DB.WithContext(ctx).Omit("Scopes").Create(d).Error
}

func (r *GormRepo) GetDoctor(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.DB.WithContext(ctx).Preload("Scopes").First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepo) GetDoctorByUser(ctx context.Context, userID uuid.UUID) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.DB.WithContext(ctx).First(&d, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepo) ListDoctors(ctx context.Context, f DoctorFilter, offset, limit int) (int64, []models.Doctor, error) {
	q := r.DB.WithContext(ctx).Model(&models.Doctor{})
	if !f.IncludeHidden {
		q = q.Where("is_active = ?", true)
	}
	if f.Specialization != "" {
		q = q.Where("lower(specialization) = lower(?)", f.Specialization)
	}
	if f.Query != "" {
		p := like(f.Query)
		q = q.Where("lower(name) LIKE lower(?) OR lower(specialization) LIKE lower(?)", p, p)
	}
	return paginate[models.Doctor](q, "name ASC", offset, limit, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Scopes")
	})
}

func (r *GormRepo) SaveDoctor(ctx context.Context, d *models.Doctor) error {
	return r.DB.WithContext(ctx).Omit("Scopes").Save(d).Error
}

func (r *GormRepo) CreateScope(ctx context.Context, s *models.Scope) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) GetScope(ctx context.Context, id uuid.UUID) (*models.Scope, error) {
	return getByID[models.Scope](ctx, r.DB, id)
}

func (r *GormRepo) ListScopes(ctx context.Context, doctorID *uuid.UUID) ([]models.Scope, error) {
	q := r.DB.WithContext(ctx).Model(&models.Scope{})
	if doctorID != nil {
		q = q.Where("doctor_id = ?", *doctorID)
	}
	var out []models.Scope
	if err := q.Order("title ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) DeleteScope(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Scope](ctx, r.DB, id)
}
