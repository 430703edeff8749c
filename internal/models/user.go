package models

import "github.com/google/uuid"

const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
	RoleUser   = "user"
)

type User struct {
	Base
	Name         string `gorm:"not null"             json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `gorm:"not null"             json:"-"`
	Role         string `gorm:"not null;index"       json:"role"`
	Image        string `json:"image,omitempty"`
}

type RefreshToken struct {
	Base
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64     `gorm:"not null"             json:"expiresAt"`
	Revoked   bool      `gorm:"default:false"        json:"revoked"`
}
