package models

import (
	"time"

	"github.com/google/uuid"
)

type Gallery struct {
	Base
	Title       string `gorm:"not null" json:"title"`
	Image       string `gorm:"not null" json:"image"`
	Description string `json:"description,omitempty"`
	Published   bool   `gorm:"index"    json:"published"`
}

// Banner is a home page slide; lower SortOrder is shown first.
type Banner struct {
	Base
	Heading     string `gorm:"not null"       json:"heading"`
	Description string `gorm:"not null"       json:"description"`
	Image       string `gorm:"not null"       json:"image"`
	Button      string `gorm:"not null"       json:"button"`
	Link        string `json:"link,omitempty"`
	SortOrder   int    `gorm:"not null;index" json:"order"`
	IsActive    bool   `gorm:"index"          json:"isActive"`
}

type Notice struct {
	Base
	Title       string     `gorm:"not null"  json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	Attachment  string     `json:"attachment,omitempty"`
	Published   bool       `gorm:"index"     json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type Student struct {
	Base
	Name     string     `gorm:"not null"       json:"name"`
	Email    string     `gorm:"index"          json:"email,omitempty"`
	Phone    string     `json:"phone,omitempty"`
	CourseID *uuid.UUID `gorm:"type:uuid;index" json:"courseId,omitempty"`
	Batch    string     `json:"batch,omitempty"`
	Address  string     `json:"address,omitempty"`
	Image    string     `json:"image,omitempty"`
	Note     string     `json:"note,omitempty"`
}
