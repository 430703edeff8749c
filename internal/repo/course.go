package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/models"
)

type CourseOrderFilter struct {
	UserID *uuid.UUID
	Status string
}

func (r *GormRepo) ListCourses(ctx context.Context, includeInactive bool, offset, limit int) (int64, []models.Course, error) {
	q := r.DB.WithContext(ctx).Model(&models.Course{})
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	return paginate[models.Course](q, "created_at DESC", offset, limit, nil)
}

func (r *GormRepo) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return getByID[models.Course](ctx, r.DB, id)
}

func (r *GormRepo) CreateCourse(ctx context.Context, c *models.Course) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) SaveCourse(ctx context.Context, c *models.Course) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Course](ctx, r.DB, id)
}

func (r *GormRepo) CountCourseOrders(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.CourseOrder{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

// HasOpenCourseOrder reports whether the user already holds a non-cancelled order for the course.
func (r *GormRepo) HasOpenCourseOrder(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.CourseOrder{}).
		Where("user_id = ? AND course_id = ? AND status <> ?", userID, courseID, models.CourseOrderCancelled).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateCourseOrder(ctx context.Context, o *models.CourseOrder) error {
	return r.DB.WithContext(ctx).Omit("Course").Create(o).Error
}

func (r *GormRepo) GetCourseOrder(ctx context.Context, id uuid.UUID) (*models.CourseOrder, error) {
	var o models.CourseOrder
	if err := r.DB.WithContext(ctx).Preload("Course").First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListCourseOrders(ctx context.Context, f CourseOrderFilter, offset, limit int) (int64, []models.CourseOrder, error) {
	q := r.DB.WithContext(ctx).Model(&models.CourseOrder{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return paginate[models.CourseOrder](q, "created_at DESC", offset, limit, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Course")
	})
}

func (r *GormRepo) UpdateCourseOrderStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.CourseOrder{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
