package mailer

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/smallcapsignal/signal-backend/internal/config"
)

// SMTPSender delivers messages over an authenticated SMTP relay with
// STARTTLS. Every Send pays the full connection setup cost: dial,
// negotiate TLS, authenticate, transmit one message, close. There is no
// connection reuse and no retry; a failed send is terminal for that
// message.
type SMTPSender struct {
	host     string
	port     int
	sender   string
	password string
	from     string
	timeout  time.Duration
}

// NewSMTPSender creates a sender from the SMTP relay configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		sender:   cfg.Sender,
		password: cfg.Password,
		from:     cfg.FromAddress(),
		timeout:  cfg.Timeout(),
	}
}

// Send transmits one message to one recipient. A missing relay credential
// fails immediately with ErrNotConfigured, before any network I/O.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.password == "" {
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(s.host, s.port, s.sender, s.password)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// gomail has no context support; run the blocking dial-and-send in a
	// goroutine so a stuck relay cannot block the request forever. On
	// timeout the abandoned connection is left to the OS to tear down.
	errCh := make(chan error, 1)
	go func() { errCh <- d.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("smtp send via %s:%d: %w", s.host, s.port, err)
		}
		return nil
	}
}
