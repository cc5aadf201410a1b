package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ChannelName string

const (
	ChannelInApp ChannelName = "in_app"
	ChannelEmail ChannelName = "email"
	ChannelSMS   ChannelName = "sms"
	ChannelPush  ChannelName = "push"
)

// AllChannels is the fixed iteration order used by the dispatcher and analytics.
var AllChannels = []ChannelName{ChannelInApp, ChannelEmail, ChannelSMS, ChannelPush}

type ChannelState struct {
	Enabled      bool       `json:"enabled"`
	Delivered    bool       `json:"delivered"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	Attempts     int        `json:"attempts"`
	LastAttempt  *time.Time `json:"last_attempt,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

func (s ChannelState) clone() ChannelState {
	out := s
	out.DeliveredAt = cloneTime(s.DeliveredAt)
	out.LastAttempt = cloneTime(s.LastAttempt)
	if s.ErrorMessage != nil {
		msg := *s.ErrorMessage
		out.ErrorMessage = &msg
	}
	return out
}

func (s *ChannelState) MarkDelivered(at time.Time) {
	s.Delivered = true
	s.DeliveredAt = &at
	s.ErrorMessage = nil
}

func (s *ChannelState) MarkFailed(at time.Time, reason string) {
	s.Attempts++
	s.LastAttempt = &at
	s.ErrorMessage = &reason
}

type Channels struct {
	InApp ChannelState `json:"in_app"`
	Email ChannelState `json:"email"`
	SMS   ChannelState `json:"sms"`
	Push  ChannelState `json:"push"`
}

// DefaultChannels enables the in-app feed only.
func DefaultChannels() Channels {
	return Channels{InApp: ChannelState{Enabled: true}}
}

// Get returns a pointer into c for the named channel, or nil for an unknown name.
func (c *Channels) Get(name ChannelName) *ChannelState {
	switch name {
	case ChannelInApp:
		return &c.InApp
	case ChannelEmail:
		return &c.Email
	case ChannelSMS:
		return &c.SMS
	case ChannelPush:
		return &c.Push
	}
	return nil
}

// Clone returns a deep copy; mutating the copy never touches c.
func (c Channels) Clone() Channels {
	return Channels{
		InApp: c.InApp.clone(),
		Email: c.Email.clone(),
		SMS:   c.SMS.clone(),
		Push:  c.Push.clone(),
	}
}

func (c Channels) EnabledCount() int {
	n := 0
	for _, name := range AllChannels {
		if c.Get(name).Enabled {
			n++
		}
	}
	return n
}

func (c Channels) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *Channels) Scan(src interface{}) error {
	return scanJSON(src, c)
}

type DeliveryStatus string

const (
	DeliveryNotDelivered       DeliveryStatus = "not_delivered"
	DeliveryPartiallyDelivered DeliveryStatus = "partially_delivered"
	DeliveryFullyDelivered     DeliveryStatus = "fully_delivered"
)

func (d DeliveryStatus) IsValid() bool {
	switch d {
	case DeliveryNotDelivered, DeliveryPartiallyDelivered, DeliveryFullyDelivered:
		return true
	}
	return false
}

// ClassifyDelivery compares the delivered flag of every enabled channel.
// A notification with no enabled channel counts as not delivered.
func ClassifyDelivery(c Channels) DeliveryStatus {
	enabled, delivered := 0, 0
	for _, name := range AllChannels {
		st := c.Get(name)
		if !st.Enabled {
			continue
		}
		enabled++
		if st.Delivered {
			delivered++
		}
	}

	switch {
	case enabled == 0 || delivered == 0:
		return DeliveryNotDelivered
	case delivered == enabled:
		return DeliveryFullyDelivered
	default:
		return DeliveryPartiallyDelivered
	}
}

func (r RelatedEntities) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *RelatedEntities) Scan(src interface{}) error {
	return scanJSON(src, r)
}

func (m InteractionMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *InteractionMeta) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// JSONB is an optional free-form JSON column. Empty values are stored as NULL.
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONB(v)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append((*j)[:0], data...)
	return nil
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
