package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/models"
)

type TopicFilter struct {
	CategoryID *uuid.UUID
	Query      string
}

func (r *GormRepo) ListForumCategories(ctx context.Context) ([]models.ForumCategory, error) {
	var cats []models.ForumCategory
	if err := r.DB.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}

	var counts []struct {
		CategoryID uuid.UUID
		N          int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.ForumTopic{}).
		Select("category_id, count(*) AS n").
		Group("category_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byID[c.CategoryID] = c.N
	}
	for i := range cats {
		cats[i].TopicCount = byID[cats[i].ID]
	}
	return cats, nil
}

func (r *GormRepo) GetForumCategoryBySlug(ctx context.Context, slug string) (*models.ForumCategory, error) {
	var c models.ForumCategory
	if err := r.DB.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) GetForumCategory(ctx context.Context, id uuid.UUID) (*models.ForumCategory, error) {
	return getByID[models.ForumCategory](ctx, r.DB, id)
}

func (r *GormRepo) CreateForumCategory(ctx context.Context, c *models.ForumCategory) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func withTopicRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", publicAuthor).Preload("Category")
}

func (r *GormRepo) ListTopics(ctx context.Context, f TopicFilter, offset, limit int) (int64, []models.ForumTopic, error) {
	q := r.DB.WithContext(ctx).Model(&models.ForumTopic{})
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Query != "" {
		p := like(f.Query)
		q = q.Where("lower(title) LIKE lower(?) OR lower(content) LIKE lower(?)", p, p)
	}
	return paginate[models.ForumTopic](q, "is_pinned DESC, created_at DESC", offset, limit, withTopicRelations)
}

func (r *GormRepo) GetTopicBySlug(ctx context.Context, slug string) (*models.ForumTopic, error) {
	var t models.ForumTopic
	if err := withTopicRelations(r.DB.WithContext(ctx)).First(&t, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) GetTopic(ctx context.Context, id uuid.UUID) (*models.ForumTopic, error) {
	return getByID[models.ForumTopic](ctx, r.DB, id)
}

func (r *GormRepo) CreateTopic(ctx context.Context, t *models.ForumTopic) error {
	return r.DB.WithContext(ctx).Omit("Author", "Category").Create(t).Error
}

func (r *GormRepo) IncrementTopicViews(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.ForumTopic{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *GormRepo) CountPostsByTopic(ctx context.Context, topicIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(topicIDs))
	if len(topicIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		TopicID uuid.UUID
		N       int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.ForumPost{}).
		Select("topic_id, count(*) AS n").
		Where("topic_id IN ?", topicIDs).
		Group("topic_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TopicID] = row.N
	}
	return out, nil
}

// ListTopicPosts returns a topic's posts, accepted answer first, then oldest first.
func (r *GormRepo) ListTopicPosts(ctx context.Context, topicID uuid.UUID) ([]models.ForumPost, error) {
	var out []models.ForumPost
	if err := r.DB.WithContext(ctx).
		Preload("Author", publicAuthor).
		Where("topic_id = ?", topicID).
		Order("is_accepted DESC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetForumPost(ctx context.Context, id uuid.UUID) (*models.ForumPost, error) {
	return getByID[models.ForumPost](ctx, r.DB, id)
}

func (r *GormRepo) CreateForumPost(ctx context.Context, p *models.ForumPost) error {
	return r.DB.WithContext(ctx).Omit("Author").Create(p).Error
}

// AcceptForumPost marks postID as the only accepted answer of topicID.
func (r *GormRepo) AcceptForumPost(ctx context.Context, topicID, postID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ForumPost{}).
			Where("topic_id = ? AND is_accepted = ?", topicID, true).
			UpdateColumn("is_accepted", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.ForumPost{}).
			Where("id = ? AND topic_id = ?", postID, topicID).
			UpdateColumn("is_accepted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) VoteTargetExists(ctx context.Context, targetType string, id uuid.UUID) (bool, error) {
	var model any
	switch targetType {
	case models.TargetTopic:
		model = &models.ForumTopic{}
	case models.TargetPost:
		model = &models.ForumPost{}
	default:
		return false, nil
	}
	var n int64
	if err := r.DB.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ToggleVote applies one vote submission and returns the caller's resulting vote,
// empty when the submission withdrew it.
func (r *GormRepo) ToggleVote(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID, voteType string) (string, error) {
	var result string
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v models.ForumVote
		err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).First(&v).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			result = voteType
			return tx.Create(&models.ForumVote{
				UserID:     userID,
				TargetType: targetType,
				TargetID:   targetID,
				Type:       voteType,
			}).Error
		case err != nil:
			return err
		case v.Type == voteType:
			result = ""
			return tx.Delete(&v).Error
		default:
			result = voteType
			return tx.Model(&v).Update("type", voteType).Error
		}
	})
	return result, err
}

// Tallies aggregates votes per target. userID, when not Nil, fills UserVote.
func (r *GormRepo) Tallies(ctx context.Context, targetType string, ids []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]models.Tally, error) {
	out := make(map[uuid.UUID]models.Tally, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		TargetID uuid.UUID
		Type     string
		N        int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.ForumVote{}).
		Select("target_id, type, count(*) AS n").
		Where("target_type = ? AND target_id IN ?", targetType, ids).
		Group("target_id, type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		t := out[row.TargetID]
		switch row.Type {
		case models.VoteUp:
			t.Upvotes = row.N
		case models.VoteDown:
			t.Downvotes = row.N
		}
		t.NetVotes = t.Upvotes - t.Downvotes
		out[row.TargetID] = t
	}

	if userID != uuid.Nil {
		var mine []models.ForumVote
		if err := r.DB.WithContext(ctx).
			Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, ids).
			Find(&mine).Error; err != nil {
			return nil, err
		}
		for _, v := range mine {
			t := out[v.TargetID]
			t.UserVote = v.Type
			out[v.TargetID] = t
		}
	}
	return out, nil
}

// SetTopicFlags updates the moderation flags that are not nil.
func (r *GormRepo) SetTopicFlags(ctx context.Context, id uuid.UUID, pinned, locked *bool) error {
	updates := map[string]any{}
	if pinned != nil {
		updates["is_pinned"] = *pinned
	}
	if locked != nil {
		updates["is_locked"] = *locked
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&models.ForumTopic{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
