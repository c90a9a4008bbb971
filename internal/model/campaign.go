// internal/model/campaign.go
package model

import "time"

// Campaign statuses. A campaign is created as draft or scheduled and
// becomes sent exactly once, through the delivery engine.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusSent      = "sent"
)

// Channels a campaign may broadcast on. The first channel in the list
// is the primary channel recorded on delivery log entries.
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

// ValidChannel reports whether ch is one of the supported channels.
func ValidChannel(ch string) bool {
	switch ch {
	case ChannelSMS, ChannelWhatsApp, ChannelEmail:
		return true
	}
	return false
}

type Campaign struct {
	ID             string     `db:"id" json:"id"`
	TenantID       string     `db:"tenant_id" json:"-"`
	Title          string     `db:"title" json:"title"`
	Message        string     `db:"message" json:"message"`
	Language       string     `db:"language" json:"language,omitempty"`
	Channels       []string   `db:"channels" json:"channels"`
	ScheduledDate  *time.Time `db:"scheduled_date" json:"scheduled_date,omitempty"`
	Status         string     `db:"status" json:"status"`
	TotalSent      int        `db:"total_sent" json:"total_sent"`
	TotalDelivered int        `db:"total_delivered" json:"total_delivered"`
	TotalFailed    int        `db:"total_failed" json:"total_failed"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// Sendable reports whether the campaign may still be fanned out.
func (c *Campaign) Sendable() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusScheduled
}

// PrimaryChannel returns the first-listed channel.
func (c *Campaign) PrimaryChannel() string {
	if len(c.Channels) == 0 {
		return ""
	}
	return c.Channels[0]
}
