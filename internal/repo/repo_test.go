package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/db/dbtest"
	"github.com/Skotchmaster/med_clinic/internal/models"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: dbtest.Open(t)}
}

func TestNextCounter_StrictlyIncreasing(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	got := make([]int64, 10)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := r.NextCounter(ctx, "appointment")
			assert.NoError(t, err)
			got[i] = n
		}(i)
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, n := range got {
		assert.False(t, seen[n], "duplicate serial %d", n)
		seen[n] = true
	}
	for i := int64(1); i <= 10; i++ {
		assert.True(t, seen[i])
	}

	other, err := r.NextCounter(ctx, "invoice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, other)
}

func TestToggleVote(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	user, target := uuid.New(), uuid.New()

	tally := func() models.Tally {
		m, err := r.Tallies(ctx, models.TargetTopic, []uuid.UUID{target}, user)
		require.NoError(t, err)
		return m[target]
	}

	res, err := r.ToggleVote(ctx, user, models.TargetTopic, target, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteUp, res)
	assert.EqualValues(t, 1, tally().NetVotes)
	assert.Equal(t, models.VoteUp, tally().UserVote)

	res, err = r.ToggleVote(ctx, user, models.TargetTopic, target, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, models.VoteDown, res)
	assert.EqualValues(t, -1, tally().NetVotes)

	res, err = r.ToggleVote(ctx, user, models.TargetTopic, target, models.VoteDown)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Equal(t, models.Tally{}, tally())

	var n int64
	require.NoError(t, r.DB.Model(&models.ForumVote{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAddCartItem_IncrementsExistingRow(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	book := models.Book{Title: "Anatomy", Price: 1000, Stock: 5}
	require.NoError(t, r.CreateBook(ctx, &book))
	cart, err := r.CartFor(ctx, uuid.New())
	require.NoError(t, err)

	first := models.CartItem{CartID: cart.ID, BookID: book.ID, Quantity: 1}
	require.NoError(t, r.AddCartItem(ctx, &first))
	second := models.CartItem{CartID: cart.ID, BookID: book.ID, Quantity: 2}
	require.NoError(t, r.AddCartItem(ctx, &second))

	items, err := r.CartItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, items[0].Book)
	assert.Equal(t, "Anatomy", items[0].Book.Title)

	again, err := r.CartFor(ctx, cart.UserID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestDecrementStock(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	book := models.Book{Title: "Physiology", Price: 500, Stock: 2}
	require.NoError(t, r.CreateBook(ctx, &book))

	require.NoError(t, r.DecrementStock(ctx, book.ID, 2))
	assert.ErrorIs(t, r.DecrementStock(ctx, book.ID, 1), ErrInsufficientStock)
}

func TestBanners_DefaultOrderAndReorder(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	a := models.Banner{Heading: "a", Description: "d", Image: "i", Button: "b", IsActive: true}
	b := models.Banner{Heading: "b", Description: "d", Image: "i", Button: "b", IsActive: true}
	require.NoError(t, r.CreateBanner(ctx, &a, true))
	require.NoError(t, r.CreateBanner(ctx, &b, true))
	assert.Equal(t, 1, a.SortOrder)
	assert.Equal(t, 2, b.SortOrder)

	pinned := models.Banner{Heading: "p", Description: "d", Image: "i", Button: "b", SortOrder: 0}
	require.NoError(t, r.CreateBanner(ctx, &pinned, false))
	assert.Equal(t, 0, pinned.SortOrder)
	require.NoError(t, r.DeleteBanner(ctx, pinned.ID))

	require.NoError(t, r.ReorderBanners(ctx, []BannerOrder{{ID: a.ID, Order: 2}, {ID: b.ID, Order: 1}}))
	list, err := r.ListBanners(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	err = r.ReorderBanners(ctx, []BannerOrder{{ID: a.ID, Order: 1}, {ID: uuid.New(), Order: 9}})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	list, err = r.ListBanners(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, list[0].ID, "failed reorder rolls back")

	assert.ErrorIs(t, r.DeleteBanner(ctx, uuid.New()), gorm.ErrRecordNotFound)
}

func TestRotateRefreshToken(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	user := uuid.New()
	exp := time.Now().Add(time.Hour).Unix()

	require.NoError(t, r.AddRefreshToken(ctx, &models.RefreshToken{Token: "h1", UserID: user, JTI: "j1", ExpiresAt: exp}))

	require.NoError(t, r.RotateRefreshToken(ctx, "j1", &models.RefreshToken{Token: "h2", UserID: user, JTI: "j2", ExpiresAt: exp}))
	err := r.RotateRefreshToken(ctx, "j1", &models.RefreshToken{Token: "h3", UserID: user, JTI: "j3", ExpiresAt: exp})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	require.NoError(t, r.RevokeRefreshToken(ctx, "h2"))
	err = r.RotateRefreshToken(ctx, "j2", &models.RefreshToken{Token: "h4", UserID: user, JTI: "j4", ExpiresAt: exp})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestDeleteCommentThread(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	post, user := uuid.New(), uuid.New()

	root := models.Comment{PostID: post, UserID: user, Content: "root"}
	require.NoError(t, r.CreateComment(ctx, &root))
	child := models.Comment{PostID: post, UserID: user, Content: "child", ParentID: &root.ID}
	require.NoError(t, r.CreateComment(ctx, &child))
	grandchild := models.Comment{PostID: post, UserID: user, Content: "grandchild", ParentID: &child.ID}
	require.NoError(t, r.CreateComment(ctx, &grandchild))
	other := models.Comment{PostID: post, UserID: user, Content: "other"}
	require.NoError(t, r.CreateComment(ctx, &other))

	require.NoError(t, r.DeleteCommentThread(ctx, root.ID))

	left, err := r.ListComments(ctx, post)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, other.ID, left[0].ID)

	assert.ErrorIs(t, r.DeleteCommentThread(ctx, root.ID), gorm.ErrRecordNotFound)
}
