package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/mykafka"
)

func TestCourseService_OrderFlow(t *testing.T) {
	r := newTestRepo(t)
	events := &mykafka.Recorder{}
	svc := &CourseService{Repo: r, Events: events}
	ctx := context.Background()
	buyer := Actor{ID: uuid.New(), Role: models.RoleUser}
	admin := Actor{ID: uuid.New(), Role: models.RoleAdmin}

	c, err := svc.Create(ctx, CourseInput{Title: ptr("First Aid"), Price: ptr(int64(3000)), Highlights: []string{"CPR"}})
	require.NoError(t, err)
	assert.True(t, c.IsActive)

	in := CourseOrderInput{PaymentMethod: "bkash", TransactionID: "TX1", Phone: "0170"}
	o, err := svc.Order(ctx, buyer, c.ID, in)
	require.NoError(t, err)
	assert.Equal(t, models.CourseOrderPending, o.Status)
	assert.EqualValues(t, 3000, o.Amount)

	_, err = svc.Order(ctx, buyer, c.ID, in)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.Order(ctx, buyer, c.ID, CourseOrderInput{})
	assert.ErrorIs(t, err, ErrValidation)

	granted, err := svc.UpdateOrderStatus(ctx, o.ID, models.CourseOrderAccessGranted)
	require.NoError(t, err)
	assert.Equal(t, models.CourseOrderAccessGranted, granted.Status)
	_, err = svc.UpdateOrderStatus(ctx, o.ID, "REFUNDED")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateOrderStatus(ctx, o.ID, models.CourseOrderCancelled)
	require.NoError(t, err)
	_, err = svc.Order(ctx, buyer, c.ID, in)
	require.NoError(t, err, "a cancelled order does not block a new one")

	total, _, err := svc.ListOrders(ctx, Actor{ID: uuid.New(), Role: models.RoleUser}, "", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	total, _, err = svc.ListOrders(ctx, admin, "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	assert.Len(t, events.Topic(mykafka.TopicCourses), 4)
}

func TestCourseService_InactiveHidden(t *testing.T) {
	svc := &CourseService{Repo: newTestRepo(t)}
	ctx := context.Background()

	c, err := svc.Create(ctx, CourseInput{Title: ptr("Old"), Price: ptr(int64(1)), IsActive: ptr(false)})
	require.NoError(t, err)

	total, _, err := svc.List(ctx, false, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	_, err = svc.Get(ctx, Actor{}, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, Actor{Role: models.RoleAdmin}, c.ID)
	assert.NoError(t, err)
	_, err = svc.Order(ctx, Actor{ID: uuid.New(), Role: models.RoleUser}, c.ID, CourseOrderInput{PaymentMethod: "cash", TransactionID: "t", Phone: "1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseService_DeleteWithOrders(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.DB.Exec("PRAGMA foreign_keys = ON").Error)
	svc := &CourseService{Repo: r}
	ctx := context.Background()
	buyer := Actor{ID: uuid.New(), Role: models.RoleUser}

	ordered, err := svc.Create(ctx, CourseInput{Title: ptr("Nursing"), Price: ptr(int64(5000))})
	require.NoError(t, err)
	_, err = svc.Order(ctx, buyer, ordered.ID, CourseOrderInput{PaymentMethod: "bkash", TransactionID: "TX9", Phone: "0170"})
	require.NoError(t, err)

	err = svc.Delete(ctx, ordered.ID)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = r.GetCourse(ctx, ordered.ID)
	require.NoError(t, err, "course must survive a refused delete")

	unused, err := svc.Create(ctx, CourseInput{Title: ptr("Pharmacy"), Price: ptr(int64(1000))})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, unused.ID))
	assert.ErrorIs(t, svc.Delete(ctx, unused.ID), ErrNotFound)
}
