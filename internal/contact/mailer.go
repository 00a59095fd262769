package contact

import (
	"errors"
	"fmt"
	"log"
	"net/smtp"
)

var ErrNotConfigured = errors.New("SMTP credentials not configured")

// SMTPConfig describes the relay used to forward submissions.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	To       string `koanf:"to"`
}

// Enabled reports whether enough is set to attempt delivery.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.User != "" && c.Password != ""
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer relays submissions to the site owner.
type Mailer struct {
	cfg  SMTPConfig
	send SendFunc
}

func NewMailer(cfg SMTPConfig) *Mailer {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// WithSender replaces the transport, mainly for tests.
func (m *Mailer) WithSender(fn SendFunc) *Mailer {
	m.send = fn
	return m
}

// Message renders the RFC 5322 message for a submission.
func (m *Mailer) Message(s Submission) []byte {
	body := fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, s.Name, s.Email, s.Message)

	return []byte("To: " + m.cfg.To + "\r\n" +
		"Subject: " + s.Subject() + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + s.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// Send delivers a submission through the configured relay.
func (m *Mailer) Send(s Submission) error {
	if !m.cfg.Enabled() {
		return ErrNotConfigured
	}
	if err := s.Validate(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.User, []string{m.cfg.To}, m.Message(s)); err != nil {
		return fmt.Errorf("sending contact email: %w", err)
	}

	log.Printf("Contact email relayed for %s", s.Name)
	return nil
}
