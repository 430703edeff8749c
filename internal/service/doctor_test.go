package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

func TestDoctorService_OnboardPromotesUser(t *testing.T) {
	r := newTestRepo(t)
	svc := &DoctorService{Repo: r}
	ctx := context.Background()
	u := seedUser(t, r, "grey", models.RoleUser)

	_, err := svc.Onboard(ctx, actorOf(u), DoctorInput{})
	assert.ErrorIs(t, err, ErrValidation)

	d, err := svc.Onboard(ctx, actorOf(u), DoctorInput{
		Specialization: ptr("Surgery"),
		Fee:            ptr(int64(800)),
		AvailableDays:  []string{"Sun", "Tue"},
	})
	require.NoError(t, err)
	assert.Equal(t, "grey", d.Name)
	assert.True(t, d.IsActive)

	reloaded, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDoctor, reloaded.Role)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"Sun", "Tue"}, got.AvailableDays)

	_, err = svc.Onboard(ctx, actorOf(u), DoctorInput{Specialization: ptr("Surgery")})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDoctorService_AdminKeepsRole(t *testing.T) {
	r := newTestRepo(t)
	svc := &DoctorService{Repo: r}
	ctx := context.Background()
	admin := seedUser(t, r, "chief", models.RoleAdmin)

	_, err := svc.Onboard(ctx, actorOf(admin), DoctorInput{Specialization: ptr("Cardiology")})
	require.NoError(t, err)
	reloaded, err := r.GetUserByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)
}

func TestDoctorService_Scopes(t *testing.T) {
	r := newTestRepo(t)
	svc := &DoctorService{Repo: r}
	ctx := context.Background()

	docUser := seedUser(t, r, "doc", models.RoleUser)
	d, err := svc.Onboard(ctx, actorOf(docUser), DoctorInput{Specialization: ptr("Dermatology")})
	require.NoError(t, err)
	doc := Actor{ID: docUser.ID, Role: models.RoleDoctor}
	plain := actorOf(seedUser(t, r, "plain", models.RoleUser))

	_, err = svc.CreateScope(ctx, plain, nil, ScopeInput{Title: "Acne"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.CreateScope(ctx, doc, nil, ScopeInput{})
	assert.ErrorIs(t, err, ErrValidation)

	sc, err := svc.CreateScope(ctx, doc, nil, ScopeInput{Title: "Acne"})
	require.NoError(t, err)
	assert.Equal(t, d.ID, sc.DoctorID)

	admin := Actor{ID: uuid.New(), Role: models.RoleAdmin}
	_, err = svc.CreateScope(ctx, admin, &d.ID, ScopeInput{Title: "Eczema"})
	require.NoError(t, err)

	scopes, err := svc.ListScopes(ctx, &d.ID)
	require.NoError(t, err)
	assert.Len(t, scopes, 2)

	assert.ErrorIs(t, svc.DeleteScope(ctx, plain, sc.ID), ErrForbidden)
	require.NoError(t, svc.DeleteScope(ctx, doc, sc.ID))
	assert.ErrorIs(t, svc.DeleteScope(ctx, doc, sc.ID), ErrNotFound)

	total, list, err := svc.List(ctx, repo.DoctorFilter{Specialization: "dermatology"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list[0].Scopes, 1)
}
