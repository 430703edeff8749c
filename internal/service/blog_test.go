package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/med_clinic/internal/es"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

type blogFixture struct {
	svc      *BlogService
	idx      *fakeIndexer
	author   *models.User
	category *models.Category
	tag      *models.Tag
}

func newBlogFixture(t *testing.T) blogFixture {
	t.Helper()
	r := newTestRepo(t)
	idx := &fakeIndexer{}
	svc := &BlogService{Repo: r, Indexer: idx}
	ctx := context.Background()

	author := seedUser(t, r, "writer", models.RoleDoctor)
	cat, err := svc.CreateCategory(ctx, CategoryInput{Name: ptr("Heart Health")})
	require.NoError(t, err)
	tag, err := svc.CreateTag(ctx, "Diet", "")
	require.NoError(t, err)
	return blogFixture{svc: svc, idx: idx, author: author, category: cat, tag: tag}
}

func TestBlogService_CategorySlugs(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	assert.Equal(t, "heart-health", f.category.Slug)
	_, err := f.svc.CreateCategory(ctx, CategoryInput{Name: ptr("Heart  Health")})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.svc.CreateCategory(ctx, CategoryInput{})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := f.svc.UpdateCategory(ctx, f.category.ID, CategoryInput{Slug: ptr("Cardio")})
	require.NoError(t, err)
	assert.Equal(t, "cardio", updated.Slug)
	assert.Equal(t, "Heart Health", updated.Name)
}

func TestBlogService_PostLifecycle(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	writer := actorOf(f.author)

	draft, err := f.svc.CreatePost(ctx, writer, PostInput{
		Title:      ptr("Eating for your heart"),
		Content:    json.RawMessage(`{"blocks":[{"type":"p","text":"hello"}]}`),
		CategoryID: &f.category.ID,
		TagIDs:     []uuid.UUID{f.tag.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "eating-for-your-heart", draft.Slug)
	assert.False(t, draft.Published)
	assert.Nil(t, draft.PublishedAt)
	require.Len(t, draft.Tags, 1)
	require.NotNil(t, draft.Author)
	assert.Empty(t, draft.Author.Email, "author is preloaded without private fields")

	total, _, err := f.svc.ListPosts(ctx, repo.PostFilter{}, false, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total, "drafts are hidden from the public list")

	_, err = f.svc.GetPost(ctx, Actor{ID: uuid.New(), Role: models.RoleUser}, draft.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	published, err := f.svc.UpdatePost(ctx, writer, draft.ID, PostInput{Published: ptr(true)})
	require.NoError(t, err)
	assert.True(t, published.Published)
	require.NotNil(t, published.PublishedAt)

	total, posts, err := f.svc.ListPosts(ctx, repo.PostFilter{CategorySlug: "heart-health", TagSlug: "diet"}, false, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, draft.ID, posts[0].ID)

	_, err = f.svc.UpdatePost(ctx, Actor{ID: uuid.New(), Role: models.RoleDoctor}, draft.ID, PostInput{Title: ptr("hijack")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.CreatePost(ctx, writer, PostInput{Title: ptr("Eating for your heart"), CategoryID: &f.category.ID})
	assert.ErrorIs(t, err, ErrConflict)

	assert.ErrorIs(t, f.svc.DeleteCategory(ctx, f.category.ID), ErrConflict)

	require.NoError(t, f.svc.DeletePost(ctx, Actor{ID: uuid.New(), Role: models.RoleAdmin}, draft.ID))
	assert.ErrorIs(t, f.svc.DeletePost(ctx, writer, draft.ID), ErrNotFound)
	require.NoError(t, f.svc.DeleteCategory(ctx, f.category.ID))

	assert.Equal(t, []indexCall{
		{Op: "delete", Index: es.IndexPosts, ID: draft.ID.String()},
		{Op: "index", Index: es.IndexPosts, ID: draft.ID.String()},
		{Op: "delete", Index: es.IndexPosts, ID: draft.ID.String()},
	}, f.idx.calls)
}

func TestBlogService_CreatePostValidation(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	writer := actorOf(f.author)

	_, err := f.svc.CreatePost(ctx, writer, PostInput{CategoryID: &f.category.ID})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.CreatePost(ctx, writer, PostInput{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.CreatePost(ctx, writer, PostInput{Title: ptr("x"), CategoryID: uuidPtr(uuid.New())})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.CreatePost(ctx, writer, PostInput{Title: ptr("x"), CategoryID: &f.category.ID, TagIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCommentService(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	svc := &CommentService{Repo: f.svc.Repo}

	post, err := f.svc.CreatePost(ctx, actorOf(f.author), PostInput{Title: ptr("Post"), CategoryID: &f.category.ID, Published: ptr(true)})
	require.NoError(t, err)
	other, err := f.svc.CreatePost(ctx, actorOf(f.author), PostInput{Title: ptr("Other"), CategoryID: &f.category.ID, Published: ptr(true)})
	require.NoError(t, err)

	reader := seedUser(t, f.svc.Repo, "reader", models.RoleUser)
	me := actorOf(reader)

	root, err := svc.Create(ctx, me, CommentInput{PostID: post.ID, Content: "Great read"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, actorOf(f.author), CommentInput{PostID: post.ID, Content: "Thanks", ParentID: &root.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, me, CommentInput{PostID: post.ID, Content: "Welcome", ParentID: &child.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, me, CommentInput{PostID: other.ID, Content: "wrong thread", ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, me, CommentInput{PostID: uuid.New(), Content: "no post"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Create(ctx, me, CommentInput{PostID: post.ID, Content: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	tree, err := svc.Tree(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Replies, 1)
	require.Len(t, tree[0].Replies[0].Replies, 1)

	assert.ErrorIs(t, svc.Delete(ctx, Actor{ID: uuid.New(), Role: models.RoleUser}, root.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, me, root.ID))
	tree, err = svc.Tree(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestCommentTree_ReferenceShape(t *testing.T) {
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
	}
	rows := []models.Comment{
		{Base: models.Base{ID: ids[1]}},
		{Base: models.Base{ID: ids[2]}, ParentID: &ids[1]},
		{Base: models.Base{ID: ids[3]}, ParentID: &ids[1]},
		{Base: models.Base{ID: ids[4]}, ParentID: &ids[2]},
	}

	tree := CommentTree(rows)
	require.Len(t, tree, 1)
	assert.Equal(t, ids[1], tree[0].ID)
	require.Len(t, tree[0].Replies, 2)
	assert.Equal(t, ids[2], tree[0].Replies[0].ID)
	assert.Equal(t, ids[3], tree[0].Replies[1].ID)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	assert.Equal(t, ids[4], tree[0].Replies[0].Replies[0].ID)
	assert.Empty(t, tree[0].Replies[1].Replies)
}
