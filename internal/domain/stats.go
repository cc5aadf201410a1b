package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// StatsCounts are the raw aggregates read from storage.
type StatsCounts struct {
	Total           int64    `json:"total" db:"total"`
	Sent            int64    `json:"sent" db:"sent"`
	Delivered       int64    `json:"delivered" db:"delivered"`
	Read            int64    `json:"read" db:"read"`
	Clicked         int64    `json:"clicked" db:"clicked"`
	Failed          int64    `json:"failed" db:"failed"`
	Urgent          int64    `json:"urgent" db:"urgent"`
	ActionRequired  int64    `json:"action_required" db:"action_required"`
	AvgDeliveryTime *float64 `json:"-" db:"avg_delivery_seconds"`
	AvgReadTime     *float64 `json:"-" db:"avg_read_seconds"`
}

type NotificationStats struct {
	StatsCounts
	AvgDeliverySeconds float64 `json:"avg_delivery_seconds"`
	AvgReadSeconds     float64 `json:"avg_read_seconds"`
	DeliveryRate       float64 `json:"delivery_rate"`
	ReadRate           float64 `json:"read_rate"`
	ClickRate          float64 `json:"click_rate"`
	FailureRate        float64 `json:"failure_rate"`
}

// NewNotificationStats derives rates as percentages rounded to two decimals.
// Every rate is zero when its denominator is zero.
func NewNotificationStats(c StatsCounts) NotificationStats {
	s := NotificationStats{
		StatsCounts:  c,
		DeliveryRate: Rate(c.Sent, c.Total),
		ReadRate:     Rate(c.Read, c.Sent),
		ClickRate:    Rate(c.Clicked, c.Read),
		FailureRate:  Rate(c.Failed, c.Total),
	}
	if c.AvgDeliveryTime != nil {
		s.AvgDeliverySeconds = round2(*c.AvgDeliveryTime)
	}
	if c.AvgReadTime != nil {
		s.AvgReadSeconds = round2(*c.AvgReadTime)
	}
	return s
}

func Rate(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type TrendGranularity string

const (
	GranularityHour  TrendGranularity = "hour"
	GranularityDay   TrendGranularity = "day"
	GranularityMonth TrendGranularity = "month"
)

func (g TrendGranularity) IsValid() bool {
	switch g {
	case GranularityHour, GranularityDay, GranularityMonth:
		return true
	}
	return false
}

type TrendBucket struct {
	Bucket    time.Time `json:"bucket" db:"bucket"`
	Sent      int64     `json:"sent" db:"sent"`
	Read      int64     `json:"read" db:"read"`
	Clicked   int64     `json:"clicked" db:"clicked"`
	Failed    int64     `json:"failed" db:"failed"`
	ReadRate  float64   `json:"read_rate" db:"-"`
	ClickRate float64   `json:"click_rate" db:"-"`
}

func (b *TrendBucket) ComputeRates() {
	b.ReadRate = Rate(b.Read, b.Sent)
	b.ClickRate = Rate(b.Clicked, b.Read)
}

type ChannelPerformance struct {
	Channel      ChannelName `json:"channel"`
	Enabled      int64       `json:"enabled"`
	Delivered    int64       `json:"delivered"`
	DeliveryRate float64     `json:"delivery_rate"`
}

// ChannelCounts is one row of per-channel aggregates before rates are derived.
type ChannelCounts struct {
	Channel   string `db:"channel"`
	Enabled   int64  `db:"enabled"`
	Delivered int64  `db:"delivered"`
}

type BreakdownEntry struct {
	Key   string `json:"key" db:"key"`
	Count int64  `json:"count" db:"count"`
}

type StatsReport struct {
	Overview           NotificationStats    `json:"overview"`
	Trends             []TrendBucket        `json:"trends"`
	ChannelPerformance []ChannelPerformance `json:"channel_performance"`
	ByType             []BreakdownEntry     `json:"by_type"`
	ByCategory         []BreakdownEntry     `json:"by_category"`
	Granularity        TrendGranularity     `json:"granularity"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

// SweepResult summarizes one scheduled, retry or cleanup pass.
type SweepResult struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type CleanupResult struct {
	Cleaned int64 `json:"cleaned"`
}

type FeedCounts struct {
	Unread               int64 `json:"unread" db:"unread"`
	UnreadActionRequired int64 `json:"unread_action_required" db:"unread_action_required"`
}

type UserFeed struct {
	PaginatedResponse[Notification]
	FeedCounts
}

// BulkResult reports one bulk send. Delivery outcomes of individual
// notifications are only visible through later queries.
type BulkResult struct {
	BatchID   uuid.UUID `json:"batch_id"`
	Targeted  int       `json:"targeted"`
	Created   int       `json:"created"`
	Scheduled int       `json:"scheduled"`
	Failed    int       `json:"failed"`
}
