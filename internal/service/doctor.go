package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

type DoctorService struct {
	Repo *repo.GormRepo
}

type DoctorInput struct {
	Name           *string
	Specialization *string
	Qualification  *string
	Experience     *int
	Fee            *int64
	AvailableDays  []string
	AvailableTime  *string
	Bio            *string
	Image          *string
	IsActive       *bool
}

type ScopeInput struct {
	Title       string
	Description string
	Icon        string
}

func (s *DoctorService) List(ctx context.Context, f repo.DoctorFilter, offset, limit int) (int64, []models.Doctor, error) {
	return s.Repo.ListDoctors(ctx, f, offset, limit)
}

func (s *DoctorService) Get(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	d, err := s.Repo.GetDoctor(ctx, id)
	if err != nil {
		return nil, notFound(err, "doctor")
	}
	return d, nil
}

// Onboard creates the caller's doctor profile and promotes a plain user to doctor.
func (s *DoctorService) Onboard(ctx context.Context, actor Actor, in DoctorInput) (*models.Doctor, error) {
	if in.Specialization == nil || strings.TrimSpace(*in.Specialization) == "" {
		return nil, fmt.Errorf("specialization is required: %w", ErrValidation)
	}
	if err := validateDoctorNumbers(in); err != nil {
		return nil, err
	}

	var d *models.Doctor
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		u, err := tx.GetUserByID(ctx, actor.ID)
		if err != nil {
			return notFound(err, "user")
		}
		if _, err := tx.GetDoctorByUser(ctx, actor.ID); err == nil {
			return fmt.Errorf("doctor profile already exists: %w", ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		d = &models.Doctor{UserID: u.ID, Name: u.Name, IsActive: true}
		applyDoctorInput(d, in)
		if err := tx.CreateDoctor(ctx, d); err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("doctor profile already exists: %w", ErrConflict)
			}
			return err
		}
		if u.Role == models.RoleUser {
			return tx.UpdateUserRole(ctx, u.ID, models.RoleDoctor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DoctorService) UpdateOwn(ctx context.Context, actor Actor, in DoctorInput) (*models.Doctor, error) {
	if err := validateDoctorNumbers(in); err != nil {
		return nil, err
	}
	d, err := s.Repo.GetDoctorByUser(ctx, actor.ID)
	if err != nil {
		return nil, notFound(err, "doctor profile")
	}
	applyDoctorInput(d, in)
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Specialization) == "" {
		return nil, fmt.Errorf("name and specialization cannot be empty: %w", ErrValidation)
	}
	if err := s.Repo.SaveDoctor(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DoctorService) ListScopes(ctx context.Context, doctorID *uuid.UUID) ([]models.Scope, error) {
	return s.Repo.ListScopes(ctx, doctorID)
}

// CreateScope attaches a scope to the caller's profile. Admins may target any doctor.
func (s *DoctorService) CreateScope(ctx context.Context, actor Actor, doctorID *uuid.UUID, in ScopeInput) (*models.Scope, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}

	var owner *models.Doctor
	var err error
	if actor.IsAdmin() && doctorID != nil {
		owner, err = s.Repo.GetDoctor(ctx, *doctorID)
		if err != nil {
			return nil, notFound(err, "doctor")
		}
	} else {
		owner, err = s.Repo.GetDoctorByUser(ctx, actor.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("doctor profile required: %w", ErrForbidden)
		}
		if err != nil {
			return nil, err
		}
	}

	sc := &models.Scope{DoctorID: owner.ID, Title: in.Title, Description: in.Description, Icon: in.Icon}
	if err := s.Repo.CreateScope(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *DoctorService) DeleteScope(ctx context.Context, actor Actor, id uuid.UUID) error {
	sc, err := s.Repo.GetScope(ctx, id)
	if err != nil {
		return notFound(err, "scope")
	}
	if !actor.IsAdmin() {
		d, err := s.Repo.GetDoctorByUser(ctx, actor.ID)
		if err != nil || d.ID != sc.DoctorID {
			return fmt.Errorf("not your scope: %w", ErrForbidden)
		}
	}
	return notFound(s.Repo.DeleteScope(ctx, id), "scope")
}

func validateDoctorNumbers(in DoctorInput) error {
	if in.Experience != nil && *in.Experience < 0 {
		return fmt.Errorf("experience cannot be negative: %w", ErrValidation)
	}
	if in.Fee != nil && *in.Fee < 0 {
		return fmt.Errorf("fee cannot be negative: %w", ErrValidation)
	}
	return nil
}

func applyDoctorInput(d *models.Doctor, in DoctorInput) {
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.Specialization != nil {
		d.Specialization = strings.TrimSpace(*in.Specialization)
	}
	if in.Qualification != nil {
		d.Qualification = *in.Qualification
	}
	if in.Experience != nil {
		d.Experience = *in.Experience
	}
	if in.Fee != nil {
		d.Fee = *in.Fee
	}
	if in.AvailableDays != nil {
		d.AvailableDays = models.StringList(in.AvailableDays)
	}
	if in.AvailableTime != nil {
		d.AvailableTime = *in.AvailableTime
	}
	if in.Bio != nil {
		d.Bio = *in.Bio
	}
	if in.Image != nil {
		d.Image = *in.Image
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
}
