package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"

	"github.com/Skotchmaster/med_clinic/internal/es"
	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

// Indexer keeps the full-text search index in step with the database.
type Indexer interface {
	Index(ctx context.Context, index, id string, doc any) error
	Delete(ctx context.Context, index, id string) error
}

type BlogService struct {
	Repo    *repo.GormRepo
	Indexer Indexer
}

type CategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
}

type PostInput struct {
	Title      *string
	Slug       *string
	Excerpt    *string
	Content    json.RawMessage
	CoverImage *string
	Published  *bool
	CategoryID *uuid.UUID
	TagIDs     []uuid.UUID
}

// PostDocument is the search projection of a published post.
type PostDocument struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

func (s *BlogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *BlogService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	return c, nil
}

func (s *BlogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	c := &models.Category{}
	applyCategoryInput(c, in)
	if err := s.ensureSlugFree(ctx, &models.Category{}, c.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, conflictOnDuplicate(err, "category slug")
	}
	return c, nil
}

func (s *BlogService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	applyCategoryInput(c, in)
	if c.Name == "" || c.Slug == "" {
		return nil, fmt.Errorf("name cannot be empty: %w", ErrValidation)
	}
	if err := s.ensureSlugFree(ctx, &models.Category{}, c.Slug, c.ID); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, conflictOnDuplicate(err, "category slug")
	}
	return c, nil
}

// DeleteCategory refuses while posts still reference the category.
func (s *BlogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	n, err := s.Repo.CountPostsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("category still has %d posts: %w", n, ErrConflict)
	}
	return notFound(s.Repo.DeleteCategory(ctx, id), "category")
}

func (s *BlogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.Repo.ListTags(ctx)
}

func (s *BlogService) CreateTag(ctx context.Context, name, tagSlug string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	t := &models.Tag{Name: name, Slug: slugOr(tagSlug, name)}
	if err := s.ensureSlugFree(ctx, &models.Tag{}, t.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateTag(ctx, t); err != nil {
		return nil, conflictOnDuplicate(err, "tag slug")
	}
	return t, nil
}

// ListPosts hides drafts unless includeDrafts is set.
func (s *BlogService) ListPosts(ctx context.Context, f repo.PostFilter, includeDrafts bool, offset, limit int) (int64, []models.Post, error) {
	f.OnlyPublished = !includeDrafts
	return s.Repo.ListPosts(ctx, f, offset, limit)
}

// GetPost resolves a post by slug; drafts are visible to their author, admins and doctors.
func (s *BlogService) GetPost(ctx context.Context, actor Actor, postSlug string) (*models.Post, error) {
	p, err := s.Repo.GetPostBySlug(ctx, postSlug)
	if err != nil {
		return nil, notFound(err, "post")
	}
	if !p.Published && !actor.Owns(p.AuthorID) && !actor.IsDoctor() {
		return nil, fmt.Errorf("post not found: %w", ErrNotFound)
	}
	return p, nil
}

func (s *BlogService) CreatePost(ctx context.Context, actor Actor, in PostInput) (*models.Post, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if in.CategoryID == nil || *in.CategoryID == uuid.Nil {
		return nil, fmt.Errorf("categoryId is required: %w", ErrValidation)
	}
	if _, err := s.Repo.GetCategory(ctx, *in.CategoryID); err != nil {
		return nil, fmt.Errorf("unknown category: %w", ErrValidation)
	}

	p := &models.Post{AuthorID: actor.ID}
	applyPostInput(p, in)
	if err := s.ensureSlugFree(ctx, &models.Post{}, p.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	p.Tags = tags

	if err := s.Repo.CreatePost(ctx, p); err != nil {
		return nil, conflictOnDuplicate(err, "post slug")
	}
	created, err := s.Repo.GetPost(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s.syncIndex(ctx, created)
	return created, nil
}

func (s *BlogService) UpdatePost(ctx context.Context, actor Actor, id uuid.UUID, in PostInput) (*models.Post, error) {
	p, err := s.Repo.GetPost(ctx, id)
	if err != nil {
		return nil, notFound(err, "post")
	}
	if !actor.Owns(p.AuthorID) {
		return nil, fmt.Errorf("not your post: %w", ErrForbidden)
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("title cannot be empty: %w", ErrValidation)
	}
	if in.CategoryID != nil {
		if _, err := s.Repo.GetCategory(ctx, *in.CategoryID); err != nil {
			return nil, fmt.Errorf("unknown category: %w", ErrValidation)
		}
	}

	applyPostInput(p, in)
	if err := s.ensureSlugFree(ctx, &models.Post{}, p.Slug, p.ID); err != nil {
		return nil, err
	}
	var tags []models.Tag
	if in.TagIDs != nil {
		if tags, err = s.resolveTags(ctx, in.TagIDs); err != nil {
			return nil, err
		}
	}
	p.Author, p.Category = nil, nil
	if err := s.Repo.UpdatePost(ctx, p, tags); err != nil {
		return nil, conflictOnDuplicate(err, "post slug")
	}
	updated, err := s.Repo.GetPost(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s.syncIndex(ctx, updated)
	return updated, nil
}

func (s *BlogService) DeletePost(ctx context.Context, actor Actor, id uuid.UUID) error {
	p, err := s.Repo.GetPost(ctx, id)
	if err != nil {
		return notFound(err, "post")
	}
	if !actor.Owns(p.AuthorID) {
		return fmt.Errorf("not your post: %w", ErrForbidden)
	}
	if err := s.Repo.DeletePost(ctx, id); err != nil {
		return notFound(err, "post")
	}
	p.Published = false
	s.syncIndex(ctx, p)
	return nil
}

// syncIndex mirrors p into the search index; failures only log.
func (s *BlogService) syncIndex(ctx context.Context, p *models.Post) {
	if s.Indexer == nil {
		return
	}
	l := logging.FromContext(ctx).With("svc", "blog.index", "post_id", p.ID)

	var err error
	if p.Published {
		err = s.Indexer.Index(ctx, es.IndexPosts, p.ID.String(), NewPostDocument(p))
	} else {
		err = s.Indexer.Delete(ctx, es.IndexPosts, p.ID.String())
	}
	if err != nil {
		l.Error("post_index_failed", "error", err)
	}
}

func NewPostDocument(p *models.Post) PostDocument {
	doc := PostDocument{
		ID:          p.ID.String(),
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Tags:        make([]string, 0, len(p.Tags)),
		PublishedAt: p.PublishedAt,
	}
	if p.Category != nil {
		doc.Category = p.Category.Name
	}
	for _, t := range p.Tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	return doc
}

func (s *BlogService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	tags, err := s.Repo.FindTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(ids)) {
		return nil, fmt.Errorf("unknown tag id: %w", ErrValidation)
	}
	return tags, nil
}

func (s *BlogService) ensureSlugFree(ctx context.Context, model any, value string, except uuid.UUID) error {
	if value == "" {
		return fmt.Errorf("slug cannot be empty: %w", ErrValidation)
	}
	taken, err := s.Repo.SlugTaken(ctx, model, value, except)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("slug %q already in use: %w", value, ErrConflict)
	}
	return nil
}

func applyCategoryInput(c *models.Category, in CategoryInput) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		c.Slug = slug.Make(*in.Slug)
	} else if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
}

func applyPostInput(p *models.Post, in PostInput) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		p.Slug = slug.Make(*in.Slug)
	} else if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		p.Content = datatypes.JSON(in.Content)
	}
	if in.CoverImage != nil {
		p.CoverImage = *in.CoverImage
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Published != nil {
		if *in.Published && !p.Published {
			now := time.Now().UTC()
			p.PublishedAt = &now
		}
		if !*in.Published {
			p.PublishedAt = nil
		}
		p.Published = *in.Published
	}
}

func slugOr(explicit, from string) string {
	if strings.TrimSpace(explicit) != "" {
		return slug.Make(explicit)
	}
	return slug.Make(from)
}

func conflictOnDuplicate(err error, what string) error {
	if isDuplicate(err) {
		return fmt.Errorf("%s already in use: %w", what, ErrConflict)
	}
	return err
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
