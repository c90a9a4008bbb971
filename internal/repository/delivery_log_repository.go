package repository

import (
	"database/sql"

	"github.com/Uday-0910/RetailReachAI/internal/model"
)

// DeliveryLogRepositoryInterface reads the append-only delivery ledger.
// Writes happen only inside the DeliveryStore fan-out transaction;
// entries are immutable once committed.
type DeliveryLogRepositoryInterface interface {
	ListByCampaign(campaignID string, limit int) ([]model.DeliveryLogEntry, error)
	CountByCampaign(campaignID string) (int, error)
}

type DeliveryLogRepository struct {
	DB *sql.DB
}

// ListByCampaign returns the first limit entries in write order.
func (r *DeliveryLogRepository) ListByCampaign(campaignID string, limit int) ([]model.DeliveryLogEntry, error) {
	query := `
        SELECT id, campaign_id, customer_id, customer_phone, channel, delivery_status, created_at
        FROM delivery_logs
        WHERE campaign_id = $1
        ORDER BY seq
        LIMIT $2
    `
	rows, err := r.DB.Query(query, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.DeliveryLogEntry{}
	for rows.Next() {
		var e model.DeliveryLogEntry
		if err := rows.Scan(&e.ID, &e.CampaignID, &e.CustomerID, &e.CustomerPhone, &e.Channel, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *DeliveryLogRepository) CountByCampaign(campaignID string) (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM delivery_logs WHERE campaign_id=$1`, campaignID).Scan(&n)
	return n, err
}

var _ DeliveryLogRepositoryInterface = (*DeliveryLogRepository)(nil)
