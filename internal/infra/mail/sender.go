package mail

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/recruitica/internal/entity"
)

var ErrNoRecipients = errors.New("draft has no contacts")

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = user
	}
	return &EmailSender{
		From:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// Finalize sends the draft to every contact, one message each, over a single
// SMTP session.
func (s *EmailSender) Finalize(ctx context.Context, d entity.Draft) error {
	if len(d.Contacts) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs := make([]*gomail.Message, 0, len(d.Contacts))
	for _, c := range d.Contacts {
		m := gomail.NewMessage()
		m.SetHeader("From", s.From)
		m.SetAddressHeader("To", c.Email, c.Name)
		m.SetHeader("Subject", d.Subject)
		m.SetBody("text/html", d.Body)
		msgs = append(msgs, m)
	}

	if err := s.dialer.DialAndSend(msgs...); err != nil {
		return fmt.Errorf("send intro email: %w", err)
	}
	return nil
}
