package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

type ContentService struct {
	Repo *repo.GormRepo
}

type GalleryInput struct {
	Title       string
	Image       string
	Description string
	Published   *bool
}

type BannerInput struct {
	Heading     *string
	Description *string
	Image       *string
	Button      *string
	Link        *string
	Order       *int
	IsActive    *bool
}

type NoticeInput struct {
	Title      *string
	Content    *string
	Attachment *string
	Published  *bool
}

type StudentInput struct {
	Name     *string
	Email    *string
	Phone    *string
	CourseID *uuid.UUID
	Batch    *string
	Address  *string
	Image    *string
	Note     *string
}

func (s *ContentService) ListGalleries(ctx context.Context, includeHidden bool) ([]models.Gallery, error) {
	return s.Repo.ListGalleries(ctx, includeHidden)
}

func (s *ContentService) CreateGallery(ctx context.Context, in GalleryInput) (*models.Gallery, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Image = strings.TrimSpace(in.Image)
	if in.Title == "" || in.Image == "" {
		return nil, fmt.Errorf("title and image are required: %w", ErrValidation)
	}
	g := &models.Gallery{Title: in.Title, Image: in.Image, Description: in.Description, Published: true}
	if in.Published != nil {
		g.Published = *in.Published
	}
	if err := s.Repo.CreateGallery(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *ContentService) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	return notFound(s.Repo.DeleteGallery(ctx, id), "gallery")
}

func (s *ContentService) ListBanners(ctx context.Context, includeInactive bool) ([]models.Banner, error) {
	return s.Repo.ListBanners(ctx, includeInactive)
}

func (s *ContentService) GetBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	b, err := s.Repo.GetBanner(ctx, id)
	if err != nil {
		return nil, notFound(err, "banner")
	}
	return b, nil
}

// CreateBanner requires heading, description, image and button. A missing order
// places the banner after the current last one.
func (s *ContentService) CreateBanner(ctx context.Context, in BannerInput) (*models.Banner, error) {
	b := &models.Banner{IsActive: true}
	applyBannerInput(b, in)
	if err := validateBanner(b); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateBanner(ctx, b, in.Order == nil); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *ContentService) UpdateBanner(ctx context.Context, id uuid.UUID, in BannerInput) (*models.Banner, error) {
	b, err := s.Repo.GetBanner(ctx, id)
	if err != nil {
		return nil, notFound(err, "banner")
	}
	applyBannerInput(b, in)
	if err := validateBanner(b); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveBanner(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *ContentService) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	return notFound(s.Repo.DeleteBanner(ctx, id), "banner")
}

// ReorderBanners applies every position or none.
func (s *ContentService) ReorderBanners(ctx context.Context, orders []repo.BannerOrder) ([]models.Banner, error) {
	if len(orders) == 0 {
		return nil, fmt.Errorf("no banners to reorder: %w", ErrValidation)
	}
	seen := make(map[uuid.UUID]struct{}, len(orders))
	for _, o := range orders {
		if o.ID == uuid.Nil {
			return nil, fmt.Errorf("banner id is required: %w", ErrValidation)
		}
		if _, dup := seen[o.ID]; dup {
			return nil, fmt.Errorf("banner %s listed twice: %w", o.ID, ErrValidation)
		}
		seen[o.ID] = struct{}{}
	}
	if err := s.Repo.ReorderBanners(ctx, orders); err != nil {
		return nil, notFound(err, "banner")
	}
	return s.Repo.ListBanners(ctx, true)
}

func (s *ContentService) ListNotices(ctx context.Context, includeHidden bool, offset, limit int) (int64, []models.Notice, error) {
	return s.Repo.ListNotices(ctx, includeHidden, offset, limit)
}

func (s *ContentService) GetNotice(ctx context.Context, actor Actor, id uuid.UUID) (*models.Notice, error) {
	n, err := s.Repo.GetNotice(ctx, id)
	if err != nil {
		return nil, notFound(err, "notice")
	}
	if !n.Published && !actor.IsAdmin() {
		return nil, fmt.Errorf("notice not found: %w", ErrNotFound)
	}
	return n, nil
}

func (s *ContentService) CreateNotice(ctx context.Context, in NoticeInput) (*models.Notice, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	n := &models.Notice{}
	if in.Published == nil {
		published := true
		in.Published = &published
	}
	applyNoticeInput(n, in)
	if err := s.Repo.CreateNotice(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *ContentService) UpdateNotice(ctx context.Context, id uuid.UUID, in NoticeInput) (*models.Notice, error) {
	n, err := s.Repo.GetNotice(ctx, id)
	if err != nil {
		return nil, notFound(err, "notice")
	}
	applyNoticeInput(n, in)
	if n.Title == "" {
		return nil, fmt.Errorf("title cannot be empty: %w", ErrValidation)
	}
	if err := s.Repo.SaveNotice(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *ContentService) DeleteNotice(ctx context.Context, id uuid.UUID) error {
	return notFound(s.Repo.DeleteNotice(ctx, id), "notice")
}

func (s *ContentService) ListStudents(ctx context.Context, query string, offset, limit int) (int64, []models.Student, error) {
	return s.Repo.ListStudents(ctx, strings.TrimSpace(query), offset, limit)
}

func (s *ContentService) GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	st, err := s.Repo.GetStudent(ctx, id)
	if err != nil {
		return nil, notFound(err, "student")
	}
	return st, nil
}

func (s *ContentService) CreateStudent(ctx context.Context, in StudentInput) (*models.Student, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	st := &models.Student{}
	if err := s.applyStudentInput(ctx, st, in); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateStudent(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *ContentService) UpdateStudent(ctx context.Context, id uuid.UUID, in StudentInput) (*models.Student, error) {
	st, err := s.Repo.GetStudent(ctx, id)
	if err != nil {
		return nil, notFound(err, "student")
	}
	if err := s.applyStudentInput(ctx, st, in); err != nil {
		return nil, err
	}
	if st.Name == "" {
		return nil, fmt.Errorf("name cannot be empty: %w", ErrValidation)
	}
	if err := s.Repo.SaveStudent(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *ContentService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	return notFound(s.Repo.DeleteStudent(ctx, id), "student")
}

func (s *ContentService) applyStudentInput(ctx context.Context, st *models.Student, in StudentInput) error {
	if in.CourseID != nil {
		if _, err := s.Repo.GetCourse(ctx, *in.CourseID); err != nil {
			return fmt.Errorf("unknown course: %w", ErrValidation)
		}
		st.CourseID = in.CourseID
	}
	if in.Name != nil {
		st.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		st.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		st.Phone = *in.Phone
	}
	if in.Batch != nil {
		st.Batch = *in.Batch
	}
	if in.Address != nil {
		st.Address = *in.Address
	}
	if in.Image != nil {
		st.Image = *in.Image
	}
	if in.Note != nil {
		st.Note = *in.Note
	}
	return nil
}

func validateBanner(b *models.Banner) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"heading", b.Heading},
		{"description", b.Description},
		{"image", b.Image},
		{"button", b.Button},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), ErrValidation)
	}
	return nil
}

func applyBannerInput(b *models.Banner, in BannerInput) {
	if in.Heading != nil {
		b.Heading = strings.TrimSpace(*in.Heading)
	}
	if in.Description != nil {
		b.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil {
		b.Image = strings.TrimSpace(*in.Image)
	}
	if in.Button != nil {
		b.Button = strings.TrimSpace(*in.Button)
	}
	if in.Link != nil {
		b.Link = *in.Link
	}
	if in.Order != nil {
		b.SortOrder = *in.Order
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
}

func applyNoticeInput(n *models.Notice, in NoticeInput) {
	if in.Title != nil {
		n.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.Attachment != nil {
		n.Attachment = *in.Attachment
	}
	if in.Published != nil {
		if *in.Published && n.PublishedAt == nil {
			now := time.Now().UTC()
			n.PublishedAt = &now
		}
		n.Published = *in.Published
	}
}
