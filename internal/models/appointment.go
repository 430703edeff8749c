package models

import "github.com/google/uuid"

const (
	AppointmentPending   = "PENDING"
	AppointmentConfirmed = "CONFIRMED"
	AppointmentCancelled = "CANCELLED"
	AppointmentCompleted = "COMPLETED"
	AppointmentNoShow    = "NO_SHOW"
)

var AppointmentStatuses = []string{
	AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted, AppointmentNoShow,
}

type Appointment struct {
	Base
	Serial      string     `gorm:"uniqueIndex;not null" json:"serial"`
	UserID      *uuid.UUID `gorm:"type:uuid;index"      json:"userId,omitempty"`
	PatientName string     `gorm:"not null"             json:"patientName"`
	Phone       string     `gorm:"not null"             json:"phone"`
	Email       string     `json:"email,omitempty"`
	Age         int        `json:"age,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Date        string     `gorm:"size:10;index"        json:"date"`
	TimeSlot    string     `json:"timeSlot,omitempty"`
	DoctorName  string     `gorm:"index"                json:"doctorName,omitempty"`
	Department  string     `json:"department,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Status      string     `gorm:"not null;index"       json:"status"`
}

// Counter is a named sequence used to mint human-readable serials.
type Counter struct {
	Name  string `gorm:"primaryKey" json:"name"`
	Value int64  `gorm:"not null"   json:"value"`
}
