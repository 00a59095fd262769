package contact

import (
	"errors"
	"net/smtp"
	"net/url"
	"strings"
	"testing"
)

func TestMailtoURL(t *testing.T) {
	link := MailtoURL("varunkkoct@gmail.com", Submission{Name: "Jane", Email: "jane@x.com", Message: "Hi"})

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Scheme != "mailto" || u.Opaque != "varunkkoct@gmail.com" {
		t.Errorf("unexpected target %q", link)
	}

	q := u.Query()
	if subject := q.Get("subject"); !strings.Contains(subject, "Jane") {
		t.Errorf("expected subject to contain Jane, got %q", subject)
	}
	body := q.Get("body")
	if !strings.Contains(body, "Hi") || !strings.Contains(body, "jane@x.com") {
		t.Errorf("expected body to contain message and email, got %q", body)
	}
	if !strings.HasSuffix(body, "From: jane@x.com") {
		t.Errorf("expected sender address after the message, got %q", body)
	}
}

func TestMailtoURLEscaping(t *testing.T) {
	link := MailtoURL("me@example.com", Submission{Name: "A & B", Email: "a+b@x.com", Message: "two words?"})

	if strings.Contains(link, " ") {
		t.Errorf("expected no raw spaces in %q", link)
	}
	if !strings.Contains(link, "subject=Portfolio%20Contact%3A%20A%20%26%20B") {
		t.Errorf("unexpected subject encoding in %q", link)
	}
	if !strings.Contains(link, "a%2Bb%40x.com") {
		t.Errorf("expected plus sign to be escaped in %q", link)
	}
	if !strings.Contains(link, "%0D%0A%0D%0A") {
		t.Errorf("expected CRLF separator in %q", link)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		sub  Submission
		ok   bool
	}{
		{"complete", Submission{"Jane", "jane@x.com", "Hi"}, true},
		{"no name", Submission{"", "jane@x.com", "Hi"}, false},
		{"blank email", Submission{"Jane", "   ", "Hi"}, false},
		{"no message", Submission{"Jane", "jane@x.com", ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrMissingField) {
				t.Errorf("expected ErrMissingField, got %v", err)
			}
		})
	}
}

func TestMailerSend(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := NewMailer(SMTPConfig{Host: "smtp.example.com", User: "bot@example.com", Password: "pw", To: "owner@example.com"}).
		WithSender(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		})

	if err := m.Send(Submission{Name: "Jane", Email: "jane@x.com", Message: "Hi"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("expected default port, got %q", gotAddr)
	}
	if gotFrom != "bot@example.com" || len(gotTo) != 1 || gotTo[0] != "owner@example.com" {
		t.Errorf("unexpected envelope from=%q to=%v", gotFrom, gotTo)
	}
	msg := string(gotMsg)
	for _, want := range []string{"Subject: Portfolio Contact: Jane", "Reply-To: jane@x.com", "Message:\nHi"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q", want)
		}
	}
}

func TestMailerNotConfigured(t *testing.T) {
	m := NewMailer(SMTPConfig{Host: "smtp.example.com"})
	if err := m.Send(Submission{"Jane", "jane@x.com", "Hi"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestMailerTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	m := NewMailer(SMTPConfig{Host: "h", User: "u", Password: "p", To: "t"}).
		WithSender(func(string, smtp.Auth, string, []string, []byte) error { return boom })

	if err := m.Send(Submission{"Jane", "jane@x.com", "Hi"}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped transport error, got %v", err)
	}
}
