package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/med_clinic/internal/db/dbtest"
	"github.com/Skotchmaster/med_clinic/internal/hash"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return &repo.GormRepo{DB: dbtest.Open(t)}
}

func seedUser(t *testing.T, r *repo.GormRepo, name, role string) *models.User {
	t.Helper()
	pw, err := hash.HashPassword("secret123")
	require.NoError(t, err)
	u := &models.User{
		Name:         name,
		Email:        name + "@clinic.test",
		PasswordHash: pw,
		Role:         role,
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func actorOf(u *models.User) Actor { return Actor{ID: u.ID, Role: u.Role} }

type sentSMS struct {
	Phone   string
	Message string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (f *fakeSMS) SendSMS(_ context.Context, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentSMS{Phone: phone, Message: message})
	return f.err
}

type indexCall struct {
	Op    string
	Index string
	ID    string
}

type fakeIndexer struct {
	calls []indexCall
}

func (f *fakeIndexer) Index(_ context.Context, index, id string, _ any) error {
	f.calls = append(f.calls, indexCall{Op: "index", Index: index, ID: id})
	return nil
}

func (f *fakeIndexer) Delete(_ context.Context, index, id string) error {
	f.calls = append(f.calls, indexCall{Op: "delete", Index: index, ID: id})
	return nil
}

func ptr[T any](v T) *T { return &v }

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
