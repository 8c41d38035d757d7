package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"
)

// ResendEmailSender delivers codes through the Resend API.
type ResendEmailSender struct {
	Client *resend.Client
	From   string
}

func NewResendEmailSender(apiKey string, from string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		Client: resend.NewClient(apiKey),
		From:   from,
	}
}

func (s *ResendEmailSender) SendCode(_ context.Context, email string, code string, purpose entity.CodePurpose) error {
	if s.Client == nil {
		return errors.New("email sender not configured")
	}
	subject := subjectFor(purpose)
	params := &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{email},
		Subject: subject,
		Html:    fmt.Sprintf("<p>%s</p><p><strong>%s</strong></p><p>The code can be used once and expires shortly.</p>", subject, code),
		Text:    fmt.Sprintf("%s: %s\nThe code can be used once and expires shortly.", subject, code),
	}
	_, err := s.Client.Emails.Send(params)
	return err
}

func subjectFor(purpose entity.CodePurpose) string {
	switch purpose {
	case entity.PurposeRegistration:
		return "Your registration code"
	case entity.PurposeRecovery:
		return "Your account recovery code"
	default:
		return "Your sign-in code"
	}
}
