package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/repo"
	"github.com/Skotchmaster/med_clinic/internal/util"
)

const maxCommentLen = 5000

type CommentService struct {
	Repo *repo.GormRepo
}

type CommentInput struct {
	PostID   uuid.UUID
	ParentID *uuid.UUID
	Content  string
}

// Tree returns the comments of a post as a forest ordered by creation time.
func (s *CommentService) Tree(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.Repo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return CommentTree(rows), nil
}

func CommentTree(rows []models.Comment) []models.Comment {
	return util.BuildTree(rows,
		func(c models.Comment) uuid.UUID { return c.ID },
		func(c models.Comment) *uuid.UUID { return c.ParentID },
		func(c *models.Comment, replies []models.Comment) { c.Replies = replies },
	)
}

func (s *CommentService) Create(ctx context.Context, actor Actor, in CommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if in.PostID == uuid.Nil || content == "" {
		return nil, fmt.Errorf("postId and content are required: %w", ErrValidation)
	}
	if len(content) > maxCommentLen {
		return nil, fmt.Errorf("comment longer than %d characters: %w", maxCommentLen, ErrValidation)
	}
	if _, err := s.Repo.GetPost(ctx, in.PostID); err != nil {
		return nil, notFound(err, "post")
	}
	if in.ParentID != nil {
		parent, err := s.Repo.GetComment(ctx, *in.ParentID)
		if err != nil || parent.PostID != in.PostID {
			return nil, fmt.Errorf("parent comment does not belong to this post: %w", ErrValidation)
		}
	}

	c := &models.Comment{PostID: in.PostID, UserID: actor.ID, ParentID: in.ParentID, Content: content}
	if err := s.Repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	c.Replies = []models.Comment{}
	return c, nil
}

// Delete removes the comment and its replies. Only the author or an admin may do so.
func (s *CommentService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	c, err := s.Repo.GetComment(ctx, id)
	if err != nil {
		return notFound(err, "comment")
	}
	if !actor.Owns(c.UserID) {
		return fmt.Errorf("not your comment: %w", ErrForbidden)
	}
	return notFound(s.Repo.DeleteCommentThread(ctx, id), "comment")
}
