package models

import "github.com/google/uuid"

const (
	CourseOrderPending       = "PENDING"
	CourseOrderConfirmed     = "CONFIRMED"
	CourseOrderAccessGranted = "ACCESS_GRANTED"
	CourseOrderCancelled     = "CANCELLED"
	CourseOrderCompleted     = "COMPLETED"
)

var CourseOrderStatuses = []string{
	CourseOrderPending, CourseOrderConfirmed, CourseOrderAccessGranted, CourseOrderCancelled, CourseOrderCompleted,
}

type Course struct {
	Base
	Title       string     `gorm:"not null"  json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Instructor  string     `json:"instructor,omitempty"`
	Duration    string     `json:"duration,omitempty"`
	Price       int64      `gorm:"not null"  json:"price"`
	Image       string     `json:"image,omitempty"`
	Highlights  StringList `json:"highlights"`
	IsActive    bool       `gorm:"index"     json:"isActive"`
}

type CourseOrder struct {
	Base
	CourseID      uuid.UUID `gorm:"type:uuid;index;not null" json:"courseId"`
	Course        *Course   `gorm:"foreignKey:CourseID"      json:"course,omitempty"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	PaymentMethod string    `json:"paymentMethod"`
	TransactionID string    `json:"transactionId"`
	Phone         string    `json:"phone"`
	Amount        int64     `json:"amount"`
	Status        string    `gorm:"not null;index"           json:"status"`
}
