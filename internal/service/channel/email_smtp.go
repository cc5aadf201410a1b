package channel

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/mail.v2"

	"aide-sociale/internal/domain"
)

type SMTPEmail struct {
	host     string
	port     int
	username string
	password string
	fromName string
	from     string
	renderer EmailRenderer
}

func NewSMTPEmail(host string, port int, username, password, fromName, from string, renderer EmailRenderer) *SMTPEmail {
	return &SMTPEmail{
		host:     host,
		port:     port,
		username: username,
		password: password,
		fromName: fromName,
		from:     from,
		renderer: renderer,
	}
}

func (e *SMTPEmail) Send(ctx context.Context, to domain.Contact, msg Message) error {
	if to.Email == "" {
		return ErrNoEmailAddress
	}

	content, err := e.renderer.Render(to, msg)
	if err != nil {
		return err
	}

	message := mail.NewMessage()
	message.SetAddressHeader("From", e.from, e.fromName)
	message.SetAddressHeader("To", to.Email, to.FullName)
	message.SetHeader("Subject", content.Subject)
	message.SetHeader("X-Notification-ID", msg.NotificationID.String())
	message.SetBody("text/plain", content.Text)
	message.AddAlternative("text/html", content.HTML)

	dialer := mail.NewDialer(e.host, e.port, e.username, e.password)
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return errors.Wrap(ctx.Err(), "smtp")
		}
		dialer.Timeout = remaining
	}

	if err := dialer.DialAndSend(message); err != nil {
		return errors.Wrap(err, "smtp")
	}
	return nil
}
