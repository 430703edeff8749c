package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/med_clinic/internal/models"
)

type AppointmentFilter struct {
	Status     string
	DoctorName string
	Date       string
	Query      string
	UserID     *uuid.UUID
}

func (r *GormRepo) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return getByID[models.Appointment](ctx, r.DB, id)
}

func (r *GormRepo) ListAppointments(ctx context.Context, f AppointmentFilter, offset, limit int) (int64, []models.Appointment, error) {
	q := r.DB.WithContext(ctx).Model(&models.Appointment{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DoctorName != "" {
		q = q.Where("lower(doctor_name) = lower(?)", f.DoctorName)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Query != "" {
		p := like(f.Query)
		q = q.Where("lower(patient_name) LIKE lower(?) OR phone LIKE ? OR serial LIKE ?", p, p, p)
	}
	return paginate[models.Appointment](q, "created_at DESC", offset, limit, nil)
}

func (r *GormRepo) SaveAppointment(ctx context.Context, a *models.Appointment) error {
	return r.DB.WithContext(ctx).Save(a).Error
}

func (r *GormRepo) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Appointment](ctx, r.DB, id)
}
