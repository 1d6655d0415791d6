package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

const senderName = "Sphere - Your secure space"

// Sender delivers a rendered notification email. Delivery is best-effort and
// single-attempt; the dispatcher logs failures and moves on.
type Sender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPSender delivers email through an SMTP relay.
type SMTPSender struct {
	client *mail.Client
	from   string
}

// NewSMTPSender creates a sender authenticated against the given relay.
// from is both the authenticated account and the From address.
func NewSMTPSender(host string, port int, from, password string) (*SMTPSender, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(from),
		mail.WithPassword(password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &SMTPSender{client: client, from: from}, nil
}

// Send delivers msg in a single attempt.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	m := mail.NewMsg()
	if err := m.FromFormat(senderName, s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
