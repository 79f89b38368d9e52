package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/odontocare/clinic-api/internal/config"
)

type Service interface {
	SendPasswordReset(ctx context.Context, to string, token string) error
	SendWelcome(ctx context.Context, to string, name string) error
	SendAppointmentConfirmation(ctx context.Context, to string, name string, date time.Time, slot string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendPasswordReset(ctx context.Context, to string, token string) error {
	body := fmt.Sprintf("A password reset was requested for your account.\n\nReset code: %s\n\nIf you did not request this, ignore this message.", token)
	return s.send(to, "Password reset", body)
}

func (s *smtpService) SendWelcome(ctx context.Context, to string, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour account is ready. You can sign in now.", name)
	return s.send(to, "Welcome", body)
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, to string, name string, date time.Time, slot string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour appointment is booked for %s at %s.\n\nIf you cannot attend, please contact the clinic to reschedule.",
		name, date.Format("02/01/2006"), slot)
	return s.send(to, "Appointment confirmation", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
