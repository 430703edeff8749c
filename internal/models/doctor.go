package models

import "github.com/google/uuid"

type Doctor struct {
	Base
	UserID         uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Name           string     `gorm:"not null"                      json:"name"`
	Specialization string     `gorm:"index"                         json:"specialization"`
	Qualification  string     `json:"qualification,omitempty"`
	Experience     int        `json:"experience"`
	Fee            int64      `json:"fee"`
	AvailableDays  StringList `json:"availableDays"`
	AvailableTime  string     `json:"availableTime,omitempty"`
	Bio            string     `gorm:"type:text"                     json:"bio,omitempty"`
	Image          string     `json:"image,omitempty"`
	IsActive       bool       `json:"isActive"`
	Scopes         []Scope    `gorm:"foreignKey:DoctorID"           json:"scopes,omitempty"`
}

// Scope is a treatment area a doctor offers.
type Scope struct {
	Base
	DoctorID    uuid.UUID `gorm:"type:uuid;index;not null" json:"doctorId"`
	Title       string    `gorm:"not null"                 json:"title"`
	Description string    `gorm:"type:text"                json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
}
