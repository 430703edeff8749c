package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/mykafka"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

type forumFixture struct {
	svc    *ForumService
	events *mykafka.Recorder
	author *models.User
	voter  *models.User
	topic  *models.ForumTopic
}

func newForumFixture(t *testing.T) forumFixture {
	t.Helper()
	r := newTestRepo(t)
	events := &mykafka.Recorder{}
	svc := &ForumService{Repo: r, Events: events}
	ctx := context.Background()

	author := seedUser(t, r, "author", models.RoleUser)
	voter := seedUser(t, r, "voter", models.RoleUser)
	cat, err := svc.CreateCategory(ctx, ForumCategoryInput{Name: "General Health"})
	require.NoError(t, err)
	assert.Equal(t, "general-health", cat.Slug)

	topic, err := svc.CreateTopic(ctx, actorOf(author), TopicInput{CategoryID: cat.ID, Title: "Sleep advice", Content: "How many hours?"})
	require.NoError(t, err)
	return forumFixture{svc: svc, events: events, author: author, voter: voter, topic: topic}
}

func TestForumService_VoteToggle(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()
	vote := func(u *models.User, kind string) models.Tally {
		tally, err := f.svc.Vote(ctx, actorOf(u), VoteInput{TargetType: models.TargetTopic, TargetID: f.topic.ID, VoteType: kind})
		require.NoError(t, err)
		return tally
	}

	base := vote(f.author, models.VoteUp)
	assert.EqualValues(t, 1, base.NetVotes)

	up := vote(f.voter, models.VoteUp)
	assert.EqualValues(t, 2, up.NetVotes)
	assert.Equal(t, models.VoteUp, up.UserVote)

	again := vote(f.voter, models.VoteUp)
	assert.Equal(t, base.NetVotes, again.NetVotes, "same vote twice withdraws it")
	assert.Empty(t, again.UserVote)

	up = vote(f.voter, models.VoteUp)
	down := vote(f.voter, models.VoteDown)
	assert.Equal(t, up.NetVotes-2, down.NetVotes, "switching up to down moves net by -2")
	assert.EqualValues(t, 1, down.Upvotes)
	assert.EqualValues(t, 1, down.Downvotes)
	assert.Equal(t, models.VoteDown, down.UserVote)

	assert.Len(t, f.events.Topic(mykafka.TopicForum), 5)
}

func TestForumService_VoteValidation(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()
	a := actorOf(f.voter)

	_, err := f.svc.Vote(ctx, a, VoteInput{TargetType: "comment", TargetID: f.topic.ID, VoteType: models.VoteUp})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Vote(ctx, a, VoteInput{TargetType: models.TargetTopic, TargetID: f.topic.ID, VoteType: "LIKE"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Vote(ctx, a, VoteInput{TargetType: models.TargetPost, TargetID: uuid.New(), VoteType: models.VoteUp})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForumService_ThreadTreeAndAccept(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	first, err := f.svc.Reply(ctx, actorOf(f.voter), f.topic.Slug, ForumPostInput{Content: "Eight hours"})
	require.NoError(t, err)
	second, err := f.svc.Reply(ctx, actorOf(f.voter), f.topic.Slug, ForumPostInput{Content: "Seven"})
	require.NoError(t, err)
	reply, err := f.svc.Reply(ctx, actorOf(f.author), f.topic.Slug, ForumPostInput{Content: "Thanks", ParentID: &first.ID})
	require.NoError(t, err)

	_, err = f.svc.Accept(ctx, actorOf(f.voter), second.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Accept(ctx, actorOf(f.author), second.ID)
	require.NoError(t, err)

	thread, err := f.svc.Thread(ctx, actorOf(f.voter), f.topic.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 1, thread.Topic.Views)
	assert.EqualValues(t, 3, thread.Topic.PostCount)
	require.Len(t, thread.Posts, 2)
	assert.Equal(t, second.ID, thread.Posts[0].ID, "accepted answer comes first")
	assert.True(t, thread.Posts[0].IsAccepted)
	assert.Equal(t, first.ID, thread.Posts[1].ID)
	require.Len(t, thread.Posts[1].Replies, 1)
	assert.Equal(t, reply.ID, thread.Posts[1].Replies[0].ID)

	_, err = f.svc.Thread(ctx, Actor{}, f.topic.Slug)
	require.NoError(t, err)
	_, topics, err := f.svc.ListTopics(ctx, Actor{}, repo.TopicFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.EqualValues(t, 2, topics[0].Views)
	assert.EqualValues(t, 3, topics[0].PostCount)
}

func TestForumService_LockedTopicRejectsReplies(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	_, err := f.svc.Moderate(ctx, f.topic.Slug, nil, ptr(true))
	require.NoError(t, err)
	_, err = f.svc.Reply(ctx, actorOf(f.voter), f.topic.Slug, ForumPostInput{Content: "late"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestForumService_CategoryPageCountsTopics(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	page, err := f.svc.CategoryPage(ctx, Actor{}, "general-health", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.EqualValues(t, 1, page.Category.TopicCount)

	_, err = f.svc.CategoryPage(ctx, Actor{}, "missing", 0, 10)
	assert.ErrorIs(t, err, ErrNotFound)

	cats, err := f.svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.EqualValues(t, 1, cats[0].TopicCount)

	_, err = f.svc.CreateCategory(ctx, ForumCategoryInput{Name: "General Health"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestForumService_VoteRetriesLostInsertRace(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()
	db := f.svc.Repo.DB

	// Slip a competing row in right before the vote insert, as a parallel request would.
	injected := false
	err := db.Callback().Create().Before("gorm:create").Register("test:vote_race", func(tx *gorm.DB) {
		if injected || tx.Statement.Table != "forum_votes" {
			return
		}
		injected = true
		now := time.Now().UTC()
		_, execErr := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO forum_votes (id, created_at, updated_at, user_id, target_type, target_id, type) VALUES (?, ?, ?, ?, ?, ?, ?)",
			uuid.NewString(), now, now, f.voter.ID.String(), models.TargetTopic, f.topic.ID.String(), models.VoteUp)
		if execErr != nil {
			_ = tx.AddError(execErr)
		}
	})
	require.NoError(t, err)

	tally, err := f.svc.Vote(ctx, actorOf(f.voter), VoteInput{TargetType: models.TargetTopic, TargetID: f.topic.ID, VoteType: models.VoteUp})
	require.NoError(t, err)
	assert.True(t, injected)
	assert.EqualValues(t, 1, tally.NetVotes)
	assert.Equal(t, models.VoteUp, tally.UserVote)

	var n int64
	require.NoError(t, db.Model(&models.ForumVote{}).Where("user_id = ?", f.voter.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
