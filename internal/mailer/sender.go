// Package mailer provides outbound email delivery through an
// authenticated SMTP relay.
package mailer

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when the relay credential is missing.
// Detected before any network I/O is attempted.
var ErrNotConfigured = errors.New("mail relay credential not configured")

// Message represents a single plain-text email to one recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender abstracts email sending for DI and testing.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
