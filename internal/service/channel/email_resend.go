package channel

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v3"

	"aide-sociale/internal/domain"
)

type ResendEmail struct {
	client   *resend.Client
	from     string
	renderer EmailRenderer
}

func NewResendEmail(apiKey, fromName, fromEmail string, renderer EmailRenderer) *ResendEmail {
	return &ResendEmail{
		client:   resend.NewClient(apiKey),
		from:     fmt.Sprintf("%s <%s>", fromName, fromEmail),
		renderer: renderer,
	}
}

func (e *ResendEmail) Send(ctx context.Context, to domain.Contact, msg Message) error {
	if to.Email == "" {
		return ErrNoEmailAddress
	}

	content, err := e.renderer.Render(to, msg)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    e.from,
		To:      []string{to.Email},
		Subject: content.Subject,
		Html:    content.HTML,
		Text:    content.Text,
		Tags: []resend.Tag{
			{Name: "notification_id", Value: msg.NotificationID.String()},
		},
	}

	if _, err := e.client.Emails.SendWithContext(ctx, params); err != nil {
		return errors.Wrap(err, "resend")
	}
	return nil
}
