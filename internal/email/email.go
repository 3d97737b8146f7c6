package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender logs emails instead of sending them. Used when ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("email (local dev)", "to", to, "subject", subject, "body", body)
	return nil
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NewSender returns a LogSender for ENV=local or when no API key is set,
// ResendSender otherwise.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" || apiKey == "" {
		return &LogSender{logger: logger.With("component", "email")}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Welcome renders the registration email for a new account.
func Welcome(name, tuition, baseURL string) (subject, body string) {
	subject = "Bienvenido a Classroom"
	body = fmt.Sprintf(
		`<p>Hola %s,</p><p>Tu cuenta con matrícula <strong>%s</strong> está lista.</p><p><a href="%s/login">Inicia sesión</a></p>`,
		html.EscapeString(name), html.EscapeString(tuition), baseURL,
	)
	return subject, body
}
