// Package contact turns contact form submissions into a pre-filled mail
// client link, and optionally relays them over SMTP.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// SubjectPrefix starts every contact subject line.
const SubjectPrefix = "Portfolio Contact: "

var ErrMissingField = errors.New("missing required field")

// Submission is the three required fields of the contact form.
type Submission struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
}

// Validate enforces the same required-field rule as the form inputs.
func (s Submission) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(s.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

func (s Submission) Subject() string {
	return SubjectPrefix + s.Name
}

// Body is the message followed by a blank line and the sender's address.
func (s Submission) Body() string {
	return s.Message + "\r\n\r\nFrom: " + s.Email
}

// MailtoURL builds the mail client deep link for a submission.
func MailtoURL(recipient string, s Submission) string {
	return "mailto:" + recipient +
		"?subject=" + escape(s.Subject()) +
		"&body=" + escape(s.Body())
}

// escape percent-encodes for a mailto query. Spaces become %20 since mail
// clients do not treat '+' as a space.
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
