// internal/model/delivery_log.go
package model

import "time"

// Delivery statuses for a log entry. The simulation assigns a terminal
// status (delivered or failed) at creation; entries never transition.
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusSent      = "sent"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusFailed    = "failed"
)

// DeliveryLogEntry is one row of the append-only delivery ledger:
// exactly one per (campaign, targeted customer) pair, written at send
// time. The phone number is snapshotted so the row stays meaningful
// after the customer is deleted.
type DeliveryLogEntry struct {
	ID            string    `db:"id" json:"id"`
	CampaignID    string    `db:"campaign_id" json:"campaign_id"`
	CustomerID    string    `db:"customer_id" json:"customer_id"`
	CustomerPhone string    `db:"customer_phone" json:"customer_phone"`
	Channel       string    `db:"channel" json:"channel"`
	Status        string    `db:"delivery_status" json:"delivery_status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
