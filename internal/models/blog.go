package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Category struct {
	Base
	Name        string `gorm:"not null"             json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description,omitempty"`
}

type Tag struct {
	Base
	Name string `gorm:"not null"             json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
}

type Post struct {
	Base
	Title       string         `gorm:"not null"                 json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null"     json:"slug"`
	Excerpt     string         `json:"excerpt,omitempty"`
	Content     datatypes.JSON `json:"content"`
	CoverImage  string         `json:"coverImage,omitempty"`
	Published   bool           `gorm:"index"                    json:"published"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"authorId"`
	Author      *User          `gorm:"foreignKey:AuthorID"      json:"author,omitempty"`
	CategoryID  uuid.UUID      `gorm:"type:uuid;index;not null" json:"categoryId"`
	Category    *Category      `gorm:"foreignKey:CategoryID"    json:"category,omitempty"`
	Tags        []Tag          `gorm:"many2many:post_tags"      json:"tags"`
}

type Comment struct {
	Base
	PostID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"postId"`
	UserID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`
	User     *User      `gorm:"foreignKey:UserID"        json:"user,omitempty"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"          json:"parentId,omitempty"`
	Content  string     `gorm:"type:text;not null"       json:"content"`
	Replies  []Comment  `gorm:"-"                        json:"replies"`
}
