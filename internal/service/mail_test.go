package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, subject string
	err         error
}

func (f *fakeMailer) SendMail(_ context.Context, to, subject, _ string) error {
	f.to, f.subject = to, subject
	return f.err
}

func TestMailService_SendTest(t *testing.T) {
	m := &fakeMailer{}
	svc := &MailService{Mailer: m}

	require.NoError(t, svc.SendTest(context.Background(), " admin@clinic.test "))
	assert.Equal(t, "admin@clinic.test", m.to)
	assert.NotEmpty(t, m.subject)

	err := svc.SendTest(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, ErrValidation)

	m.err = errors.New("smtp down")
	err = svc.SendTest(context.Background(), "admin@clinic.test")
	assert.EqualError(t, err, "smtp down")
}
