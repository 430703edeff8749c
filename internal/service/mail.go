package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Skotchmaster/med_clinic/internal/notify"
)

type MailService struct {
	Mailer notify.Mailer
}

// SendTest delivers a short probe message to confirm the SMTP settings.
func (s *MailService) SendTest(ctx context.Context, to string) error {
	to = strings.TrimSpace(to)
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("invalid recipient: %w", ErrValidation)
	}
	body := fmt.Sprintf("This is a test message from the clinic portal sent at %s.", time.Now().UTC().Format(time.RFC1123))
	return s.Mailer.SendMail(ctx, to, "Clinic portal test mail", body)
}
