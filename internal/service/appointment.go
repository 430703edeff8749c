package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/mykafka"
	"github.com/Skotchmaster/med_clinic/internal/notify"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

const appointmentCounter = "appointment"

type AppointmentService struct {
	Repo   *repo.GormRepo
	SMS    notify.SMSSender
	Events mykafka.Publisher
}

type AppointmentInput struct {
	PatientName string
	Phone       string
	Email       string
	Age         int
	Gender      string
	Date        string
	TimeSlot    string
	DoctorName  string
	Department  string
	Reason      string
}

type AppointmentUpdate struct {
	Status     *string
	DoctorName *string
	Notes      *string
}

type AppointmentStatusChanged struct {
	Type          string    `json:"type"`
	AppointmentID uuid.UUID `json:"appointmentId"`
	Serial        string    `json:"serial"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	At            time.Time `json:"at"`
}

func FormatSerial(n int64) string {
	return fmt.Sprintf("APT-%06d", n)
}

// Book stores a PENDING appointment under the next serial. userID may be nil for guests.
func (s *AppointmentService) Book(ctx context.Context, userID *uuid.UUID, in AppointmentInput) (*models.Appointment, error) {
	in.PatientName = strings.TrimSpace(in.PatientName)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.PatientName == "" || in.Phone == "" {
		return nil, fmt.Errorf("patient name and phone are required: %w", ErrValidation)
	}
	if in.Date != "" {
		if _, err := time.Parse(time.DateOnly, in.Date); err != nil {
			return nil, fmt.Errorf("date must be YYYY-MM-DD: %w", ErrValidation)
		}
	}
	if in.Age < 0 {
		return nil, fmt.Errorf("age cannot be negative: %w", ErrValidation)
	}

	a := &models.Appointment{
		UserID:      userID,
		PatientName: in.PatientName,
		Phone:       in.Phone,
		Email:       strings.TrimSpace(in.Email),
		Age:         in.Age,
		Gender:      in.Gender,
		Date:        in.Date,
		TimeSlot:    in.TimeSlot,
		DoctorName:  strings.TrimSpace(in.DoctorName),
		Department:  in.Department,
		Reason:      in.Reason,
		Status:      models.AppointmentPending,
	}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		n, err := tx.NextCounter(ctx, appointmentCounter)
		if err != nil {
			return err
		}
		a.Serial = FormatSerial(n)
		return tx.CreateAppointment(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List applies f on behalf of actor. Doctors only ever see their own bookings.
func (s *AppointmentService) List(ctx context.Context, actor Actor, f repo.AppointmentFilter, offset, limit int) (int64, []models.Appointment, error) {
	if f.Status != "" && !slices.Contains(models.AppointmentStatuses, f.Status) {
		return 0, nil, fmt.Errorf("unknown status %q: %w", f.Status, ErrValidation)
	}
	if actor.IsDoctor() {
		d, err := s.Repo.GetDoctorByUser(ctx, actor.ID)
		if err != nil {
			return 0, nil, fmt.Errorf("doctor profile required: %w", ErrForbidden)
		}
		f.DoctorName = d.Name
	}
	return s.Repo.ListAppointments(ctx, f, offset, limit)
}

func (s *AppointmentService) ListOwn(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Appointment, error) {
	return s.Repo.ListAppointments(ctx, repo.AppointmentFilter{UserID: &userID}, offset, limit)
}

func (s *AppointmentService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Appointment, error) {
	a, err := s.Repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, notFound(err, "appointment")
	}
	if actor.IsAdmin() || actor.IsDoctor() {
		return a, nil
	}
	if a.UserID != nil && *a.UserID == actor.ID {
		return a, nil
	}
	return nil, fmt.Errorf("not your appointment: %w", ErrForbidden)
}

// Update applies u. Any status may follow any other; a change notifies the patient.
func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, u AppointmentUpdate) (*models.Appointment, error) {
	l := logging.FromContext(ctx).With("svc", "appointment.update")

	if u.Status != nil && !slices.Contains(models.AppointmentStatuses, *u.Status) {
		return nil, fmt.Errorf("unknown status %q: %w", *u.Status, ErrValidation)
	}
	a, err := s.Repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, notFound(err, "appointment")
	}

	prev := a.Status
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.DoctorName != nil {
		a.DoctorName = strings.TrimSpace(*u.DoctorName)
	}
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
	if err := s.Repo.SaveAppointment(ctx, a); err != nil {
		return nil, err
	}

	if a.Status != prev {
		if s.SMS != nil {
			msg := notify.AppointmentMessage(a.PatientName, a.Serial, a.Status, a.Date, a.TimeSlot)
			if err := s.SMS.SendSMS(ctx, a.Phone, msg); err != nil {
				l.Error("appointment_sms_failed", "serial", a.Serial, "error", err)
			}
		}

		key := a.ID.String()
		if a.UserID != nil {
			key = a.UserID.String()
		}
		ev := AppointmentStatusChanged{
			Type:          "appointment_status_changed",
			AppointmentID: a.ID,
			Serial:        a.Serial,
			From:          prev,
			To:            a.Status,
			At:            time.Now().UTC(),
		}
		publish(ctx, s.Events, mykafka.TopicAppointments, key, ev)
	}
	return a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.Repo.DeleteAppointment(ctx, id), "appointment")
}
