package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/models"
)

var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

func (a Actor) IsDoctor() bool { return a.Role == models.RoleDoctor }

// Owns reports whether a may modify a row created by owner.
func (a Actor) Owns(owner uuid.UUID) bool {
	return a.IsAdmin() || (a.ID != uuid.Nil && a.ID == owner)
}

// notFound turns gorm.ErrRecordNotFound into ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}
	return err
}

// isDuplicate reports a unique constraint violation on postgres or sqlite.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{"duplicate key", "UNIQUE constraint failed", "SQLSTATE 23505"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
