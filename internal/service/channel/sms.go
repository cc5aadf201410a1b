package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/pkg/errors"

	"aide-sociale/internal/domain"
)

// smsMaxRunes keeps a message within a concatenated SMS of three segments.
const smsMaxRunes = 459

// SMSGateway posts messages to an HTTP SMS gateway using a bearer token.
type SMSGateway struct {
	url      string
	token    string
	senderID string
	client   *http.Client
}

func NewSMSGateway(url, token, senderID string) *SMSGateway {
	return &SMSGateway{
		url:      url,
		token:    token,
		senderID: senderID,
		client:   &http.Client{},
	}
}

type smsRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	Reference string `json:"reference"`
}

func (g *SMSGateway) Send(ctx context.Context, to domain.Contact, msg Message) error {
	if to.Phone == "" {
		return ErrNoPhoneNumber
	}

	body, err := json.Marshal(smsRequest{
		From:      g.senderID,
		To:        to.Phone,
		Text:      smsText(msg),
		Reference: msg.NotificationID.String(),
	})
	if err != nil {
		return errors.Wrap(err, "marshal sms request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build sms request")
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "send sms request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("sms gateway error: %s", resp.Status)
	}
	return nil
}

func smsText(msg Message) string {
	text := msg.Title + "\n" + msg.Body
	if msg.ActionURL != "" {
		text += "\n" + msg.ActionURL
	}
	if utf8.RuneCountInString(text) <= smsMaxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:smsMaxRunes-1]) + "…"
}
