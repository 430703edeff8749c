package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/med_clinic/internal/models"
)

// NextCounter atomically increments the named counter, creating it at 1, and returns the new value.
func (r *GormRepo) NextCounter(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c := models.Counter{Name: name, Value: 1}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{"value": gorm.Expr("counters.value + 1")}),
		}).Create(&c).Error; err != nil {
			return err
		}

		var cur models.Counter
		if err := tx.First(&cur, "name = ?", name).Error; err != nil {
			return err
		}
		value = cur.Value
		return nil
	})
	return value, err
}
