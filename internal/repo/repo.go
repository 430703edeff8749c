package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTokenRevoked      = errors.New("refresh token expired or revoked")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn against a repo bound to a single database transaction.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func getByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) (*T, error) {
	var v T
	if err := db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// paginate counts q and loads one page of it. with, when set, only shapes the page query.
func paginate[T any](q *gorm.DB, order string, offset, limit int, with func(*gorm.DB) *gorm.DB) (int64, []T, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]T, 0, limit)
	page := q.Order(order).Offset(offset).Limit(limit)
	if with != nil {
		page = with(page)
	}
	if err := page.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// like wraps s for a case-insensitive substring match.
func like(s string) string {
	return "%" + s + "%"
}

func publicAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "image", "role")
}
