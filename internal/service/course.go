package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/mykafka"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

type CourseService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

type CourseInput struct {
	Title       *string
	Description *string
	Instructor  *string
	Duration    *string
	Price       *int64
	Image       *string
	Highlights  []string
	IsActive    *bool
}

type CourseOrderInput struct {
	PaymentMethod string
	TransactionID string
	Phone         string
}

type CourseOrderEvent struct {
	Type     string    `json:"type"`
	OrderID  uuid.UUID `json:"orderId"`
	CourseID uuid.UUID `json:"courseId"`
	UserID   uuid.UUID `json:"userId"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
}

func (s *CourseService) List(ctx context.Context, includeInactive bool, offset, limit int) (int64, []models.Course, error) {
	return s.Repo.ListCourses(ctx, includeInactive, offset, limit)
}

func (s *CourseService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Course, error) {
	c, err := s.Repo.GetCourse(ctx, id)
	if err != nil {
		return nil, notFound(err, "course")
	}
	if !c.IsActive && !actor.IsAdmin() {
		return nil, fmt.Errorf("course not found: %w", ErrNotFound)
	}
	return c, nil
}

func (s *CourseService) Create(ctx context.Context, in CourseInput) (*models.Course, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if in.Price == nil {
		return nil, fmt.Errorf("price is required: %w", ErrValidation)
	}
	c := &models.Course{IsActive: true, Highlights: models.StringList{}}
	if err := applyCourseInput(c, in); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateCourse(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, id uuid.UUID, in CourseInput) (*models.Course, error) {
	c, err := s.Repo.GetCourse(ctx, id)
	if err != nil {
		return nil, notFound(err, "course")
	}
	if err := applyCourseInput(c, in); err != nil {
		return nil, err
	}
	if c.Title == "" {
		return nil, fmt.Errorf("title cannot be empty: %w", ErrValidation)
	}
	if err := s.Repo.SaveCourse(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete refuses while orders still reference the course; deactivate it instead.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.Repo.CountCourseOrders(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("course has %d orders, deactivate it instead: %w", n, ErrConflict)
	}
	return notFound(s.Repo.DeleteCourse(ctx, id), "course")
}

// Order records a PENDING purchase. A user may hold one open order per course.
func (s *CourseService) Order(ctx context.Context, actor Actor, courseID uuid.UUID, in CourseOrderInput) (*models.CourseOrder, error) {
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.TransactionID = strings.TrimSpace(in.TransactionID)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.PaymentMethod == "" || in.TransactionID == "" || in.Phone == "" {
		return nil, fmt.Errorf("paymentMethod, transactionId and phone are required: %w", ErrValidation)
	}
	c, err := s.Get(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}
	open, err := s.Repo.HasOpenCourseOrder(ctx, actor.ID, courseID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, fmt.Errorf("course already ordered: %w", ErrConflict)
	}

	o := &models.CourseOrder{
		CourseID:      c.ID,
		UserID:        actor.ID,
		PaymentMethod: in.PaymentMethod,
		TransactionID: in.TransactionID,
		Phone:         in.Phone,
		Amount:        c.Price,
		Status:        models.CourseOrderPending,
	}
	if err := s.Repo.CreateCourseOrder(ctx, o); err != nil {
		return nil, err
	}
	o.Course = c
	s.publishOrder(ctx, "course_order_created", o)
	return o, nil
}

func (s *CourseService) ListOrders(ctx context.Context, actor Actor, status string, offset, limit int) (int64, []models.CourseOrder, error) {
	if status != "" && !slices.Contains(models.CourseOrderStatuses, status) {
		return 0, nil, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}
	f := repo.CourseOrderFilter{Status: status}
	if !actor.IsAdmin() {
		f.UserID = &actor.ID
	}
	return s.Repo.ListCourseOrders(ctx, f, offset, limit)
}

// UpdateOrderStatus accepts any known status; transitions are not enforced.
func (s *CourseService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*models.CourseOrder, error) {
	if !slices.Contains(models.CourseOrderStatuses, status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}
	if err := s.Repo.UpdateCourseOrderStatus(ctx, id, status); err != nil {
		return nil, notFound(err, "course order")
	}
	o, err := s.Repo.GetCourseOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "course order")
	}
	s.publishOrder(ctx, "course_order_status_changed", o)
	return o, nil
}

func (s *CourseService) publishOrder(ctx context.Context, kind string, o *models.CourseOrder) {
	publish(ctx, s.Events, mykafka.TopicCourses, o.UserID.String(), CourseOrderEvent{
		Type:     kind,
		OrderID:  o.ID,
		CourseID: o.CourseID,
		UserID:   o.UserID,
		Status:   o.Status,
		At:       time.Now().UTC(),
	})
}

func applyCourseInput(c *models.Course, in CourseInput) error {
	if in.Price != nil && *in.Price < 0 {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Instructor != nil {
		c.Instructor = *in.Instructor
	}
	if in.Duration != nil {
		c.Duration = *in.Duration
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.Image != nil {
		c.Image = *in.Image
	}
	if in.Highlights != nil {
		c.Highlights = models.StringList(in.Highlights)
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}
