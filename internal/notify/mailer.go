package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/models"
)

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Mailer sends account emails via SMTP
type Mailer struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   sendFunc
}

// NewMailer creates a new mailer. With no SMTP host configured every send
// is a logged no-op.
func NewMailer(cfg *config.Config, logger *logrus.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Welcome greets a newly registered user. It returns when the send finishes
// or ctx is done, whichever comes first.
func (m *Mailer) Welcome(ctx context.Context, user models.User) error {
	if !m.cfg.MailEnabled() {
		m.logger.WithField("user_id", user.ID).Debug("Mail disabled, skipping welcome email")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.cfg.SenderEmail
	e.To = []string{user.Email}
	e.Subject = "Welcome to your finance tracker"

	body := fmt.Sprintf("Dear %s,\n\n", user.Name)
	body += "Your account has been created.\n" +
		"Start by recording your income and expenses, then set a savings goal " +
		"to see how close you are to reaching it.\n"
	body += "\nBest regards,\nFinance Service"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}
	if err := m.deliver(ctx, e, addr, auth); err != nil {
		m.logger.Errorf("Failed to send email to %s: %v", user.Email, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Infof("Email sent to %s: %s", user.Email, e.Subject)
	return nil
}

// deliver runs the SMTP exchange in the background so ctx can cut the wait
// short. An abandoned send finishes on its own.
func (m *Mailer) deliver(ctx context.Context, e *email.Email, addr string, auth smtp.Auth) error {
	done := make(chan error, 1)
	go func() {
		done <- m.send(e, addr, auth)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
