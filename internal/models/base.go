package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// StringList is a text[] column on postgres and a text column elsewhere.
type StringList pq.StringArray

func (StringList) GormDataType() string { return "stringlist" }

func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (s StringList) Value() (driver.Value, error) {
	return pq.StringArray(s).Value()
}

func (s *StringList) Scan(src any) error {
	return (*pq.StringArray)(s).Scan(src)
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{}, &RefreshToken{},
		&Counter{}, &Appointment{},
		&Doctor{}, &Scope{},
		&Category{}, &Tag{}, &Post{}, &Comment{},
		&ForumCategory{}, &ForumTopic{}, &ForumPost{}, &ForumVote{},
		&Book{}, &Cart{}, &CartItem{}, &Order{}, &OrderItem{},
		&Course{}, &CourseOrder{},
		&Gallery{}, &Banner{}, &Notice{}, &Student{},
	}
}
