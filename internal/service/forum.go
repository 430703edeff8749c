package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/mykafka"
	"github.com/Skotchmaster/med_clinic/internal/repo"
	"github.com/Skotchmaster/med_clinic/internal/util"
)

type ForumService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

type ForumCategoryInput struct {
	Name        string
	Slug        string
	Description string
	Order       int
}

type TopicInput struct {
	CategoryID uuid.UUID
	Title      string
	Content    string
}

type ForumPostInput struct {
	Content  string
	ParentID *uuid.UUID
}

type VoteInput struct {
	TargetType string
	TargetID   uuid.UUID
	VoteType   string
}

// TopicPage is a category together with one page of its topics.
type TopicPage struct {
	Category *models.ForumCategory
	Total    int64
	Topics   []models.ForumTopic
}

// TopicThread is a topic with its post tree.
type TopicThread struct {
	Topic *models.ForumTopic `json:"topic"`
	Posts []models.ForumPost `json:"posts"`
}

type ForumVoteEvent struct {
	Type       string    `json:"type"`
	UserID     uuid.UUID `json:"userId"`
	TargetType string    `json:"targetType"`
	TargetID   uuid.UUID `json:"targetId"`
	Vote       string    `json:"vote"`
	At         time.Time `json:"at"`
}

func (s *ForumService) ListCategories(ctx context.Context) ([]models.ForumCategory, error) {
	return s.Repo.ListForumCategories(ctx)
}

func (s *ForumService) CreateCategory(ctx context.Context, in ForumCategoryInput) (*models.ForumCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	c := &models.ForumCategory{
		Name:        in.Name,
		Slug:        slugOr(in.Slug, in.Name),
		Description: in.Description,
		SortOrder:   in.Order,
	}
	if c.Slug == "" {
		return nil, fmt.Errorf("slug cannot be empty: %w", ErrValidation)
	}
	taken, err := s.Repo.SlugTaken(ctx, &models.ForumCategory{}, c.Slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("slug %q already in use: %w", c.Slug, ErrConflict)
	}
	if err := s.Repo.CreateForumCategory(ctx, c); err != nil {
		return nil, conflictOnDuplicate(err, "forum category slug")
	}
	return c, nil
}

func (s *ForumService) CategoryBySlug(ctx context.Context, categorySlug string) (*models.ForumCategory, error) {
	c, err := s.Repo.GetForumCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, notFound(err, "forum category")
	}
	return c, nil
}

func (s *ForumService) CategoryPage(ctx context.Context, actor Actor, categorySlug string, offset, limit int) (*TopicPage, error) {
	c, err := s.CategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	total, topics, err := s.ListTopics(ctx, actor, repo.TopicFilter{CategoryID: &c.ID}, offset, limit)
	if err != nil {
		return nil, err
	}
	c.TopicCount = total
	return &TopicPage{Category: c, Total: total, Topics: topics}, nil
}

// ListTopics returns pinned topics first, then newest, each with tallies and post counts.
func (s *ForumService) ListTopics(ctx context.Context, actor Actor, f repo.TopicFilter, offset, limit int) (int64, []models.ForumTopic, error) {
	total, topics, err := s.Repo.ListTopics(ctx, f, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	ids := make([]uuid.UUID, len(topics))
	for i, t := range topics {
		ids[i] = t.ID
	}
	tallies, err := s.Repo.Tallies(ctx, models.TargetTopic, ids, actor.ID)
	if err != nil {
		return 0, nil, err
	}
	counts, err := s.Repo.CountPostsByTopic(ctx, ids)
	if err != nil {
		return 0, nil, err
	}
	for i := range topics {
		topics[i].Tally = tallies[topics[i].ID]
		topics[i].PostCount = counts[topics[i].ID]
	}
	return total, topics, nil
}

func (s *ForumService) CreateTopic(ctx context.Context, actor Actor, in TopicInput) (*models.ForumTopic, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.CategoryID == uuid.Nil || in.Title == "" || in.Content == "" {
		return nil, fmt.Errorf("categoryId, title and content are required: %w", ErrValidation)
	}
	if _, err := s.Repo.GetForumCategory(ctx, in.CategoryID); err != nil {
		return nil, notFound(err, "forum category")
	}

	t := &models.ForumTopic{
		CategoryID: in.CategoryID,
		AuthorID:   actor.ID,
		Title:      in.Title,
		Slug:       topicSlug(in.Title),
		Content:    in.Content,
	}
	if err := s.Repo.CreateTopic(ctx, t); err != nil {
		return nil, conflictOnDuplicate(err, "topic slug")
	}
	return t, nil
}

// Thread loads a topic by slug with its post tree and counts the view.
func (s *ForumService) Thread(ctx context.Context, actor Actor, topicSlug string) (*TopicThread, error) {
	t, err := s.Repo.GetTopicBySlug(ctx, topicSlug)
	if err != nil {
		return nil, notFound(err, "topic")
	}
	if err := s.Repo.IncrementTopicViews(ctx, t.ID); err != nil {
		return nil, err
	}
	t.Views++

	tt, err := s.Repo.Tallies(ctx, models.TargetTopic, []uuid.UUID{t.ID}, actor.ID)
	if err != nil {
		return nil, err
	}
	t.Tally = tt[t.ID]

	posts, err := s.Repo.ListTopicPosts(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	pt, err := s.Repo.Tallies(ctx, models.TargetPost, ids, actor.ID)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Tally = pt[posts[i].ID]
	}
	t.PostCount = int64(len(posts))

	return &TopicThread{Topic: t, Posts: ForumPostTree(posts)}, nil
}

func ForumPostTree(rows []models.ForumPost) []models.ForumPost {
	return util.BuildTree(rows,
		func(p models.ForumPost) uuid.UUID { return p.ID },
		func(p models.ForumPost) *uuid.UUID { return p.ParentID },
		func(p *models.ForumPost, replies []models.ForumPost) { p.Replies = replies },
	)
}

func (s *ForumService) Reply(ctx context.Context, actor Actor, topicSlug string, in ForumPostInput) (*models.ForumPost, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", ErrValidation)
	}
	t, err := s.Repo.GetTopicBySlug(ctx, topicSlug)
	if err != nil {
		return nil, notFound(err, "topic")
	}
	if t.IsLocked {
		return nil, fmt.Errorf("topic is locked: %w", ErrForbidden)
	}
	if in.ParentID != nil {
		parent, err := s.Repo.GetForumPost(ctx, *in.ParentID)
		if err != nil || parent.TopicID != t.ID {
			return nil, fmt.Errorf("parent post does not belong to this topic: %w", ErrValidation)
		}
	}

	p := &models.ForumPost{TopicID: t.ID, AuthorID: actor.ID, ParentID: in.ParentID, Content: content}
	if err := s.Repo.CreateForumPost(ctx, p); err != nil {
		return nil, err
	}
	p.Replies = []models.ForumPost{}
	return p, nil
}

// Accept marks postID as its topic's answer. Only the topic author or an admin may.
func (s *ForumService) Accept(ctx context.Context, actor Actor, postID uuid.UUID) (*models.ForumPost, error) {
	p, err := s.Repo.GetForumPost(ctx, postID)
	if err != nil {
		return nil, notFound(err, "post")
	}
	t, err := s.Repo.GetTopic(ctx, p.TopicID)
	if err != nil {
		return nil, notFound(err, "topic")
	}
	if !actor.Owns(t.AuthorID) {
		return nil, fmt.Errorf("only the topic author can accept an answer: %w", ErrForbidden)
	}
	if err := s.Repo.AcceptForumPost(ctx, t.ID, p.ID); err != nil {
		return nil, notFound(err, "post")
	}
	p.IsAccepted = true
	return p, nil
}

func (s *ForumService) Moderate(ctx context.Context, topicSlug string, pinned, locked *bool) (*models.ForumTopic, error) {
	t, err := s.Repo.GetTopicBySlug(ctx, topicSlug)
	if err != nil {
		return nil, notFound(err, "topic")
	}
	if err := s.Repo.SetTopicFlags(ctx, t.ID, pinned, locked); err != nil {
		return nil, notFound(err, "topic")
	}
	if pinned != nil {
		t.IsPinned = *pinned
	}
	if locked != nil {
		t.IsLocked = *locked
	}
	return t, nil
}

// Vote toggles the caller's vote and returns the target's fresh tally.
func (s *ForumService) Vote(ctx context.Context, actor Actor, in VoteInput) (models.Tally, error) {
	if in.TargetType != models.TargetTopic && in.TargetType != models.TargetPost {
		return models.Tally{}, fmt.Errorf("targetType must be topic or post: %w", ErrValidation)
	}
	if in.VoteType != models.VoteUp && in.VoteType != models.VoteDown {
		return models.Tally{}, fmt.Errorf("voteType must be UPVOTE or DOWNVOTE: %w", ErrValidation)
	}
	if in.TargetID == uuid.Nil {
		return models.Tally{}, fmt.Errorf("targetId is required: %w", ErrValidation)
	}
	ok, err := s.Repo.VoteTargetExists(ctx, in.TargetType, in.TargetID)
	if err != nil {
		return models.Tally{}, err
	}
	if !ok {
		return models.Tally{}, fmt.Errorf("%s not found: %w", in.TargetType, ErrNotFound)
	}

	vote, err := s.Repo.ToggleVote(ctx, actor.ID, in.TargetType, in.TargetID, in.VoteType)
	if isDuplicate(err) {
		// a concurrent first vote won the insert; toggle against its row
		vote, err = s.Repo.ToggleVote(ctx, actor.ID, in.TargetType, in.TargetID, in.VoteType)
		err = conflictOnDuplicate(err, "vote")
	}
	if err != nil {
		return models.Tally{}, err
	}
	tallies, err := s.Repo.Tallies(ctx, in.TargetType, []uuid.UUID{in.TargetID}, actor.ID)
	if err != nil {
		return models.Tally{}, err
	}

	publish(ctx, s.Events, mykafka.TopicForum, actor.ID.String(), ForumVoteEvent{
		Type:       "forum_vote_toggled",
		UserID:     actor.ID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Vote:       vote,
		At:         time.Now().UTC(),
	})
	return tallies[in.TargetID], nil
}

// topicSlug suffixes the title slug so equal titles never collide.
func topicSlug(title string) string {
	base := slug.Make(title)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
