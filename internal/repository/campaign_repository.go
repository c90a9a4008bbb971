package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Uday-0910/RetailReachAI/internal/model"
)

// CampaignRepositoryInterface defines the tenant-scoped campaign store.
// Status flips and cascade deletes go through the DeliveryStore, which
// owns the transactions.
type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(tenantID, id string) (*model.Campaign, error)
	List(tenantID, status string, offset, limit int) ([]model.Campaign, int, error)
	Count(tenantID string) (int, error)
	ListSentByNewest(tenantID string) ([]model.Campaign, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, tenant_id, title, message, language, channels, scheduled_date,
        status, total_sent, total_delivered, total_failed, created_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	var channels pq.StringArray
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Title, &c.Message, &c.Language, &channels,
		&c.ScheduledDate, &c.Status, &c.TotalSent, &c.TotalDelivered,
		&c.TotalFailed, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Channels = channels
	return &c, nil
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO campaigns
            (id, tenant_id, title, message, language, channels, scheduled_date,
             status, total_sent, total_delivered, total_failed, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, 0, $9)
    `
	_, err := r.DB.Exec(query,
		c.ID, c.TenantID, c.Title, c.Message, c.Language, pq.Array(c.Channels),
		c.ScheduledDate, c.Status, c.CreatedAt,
	)
	return err
}

func (r *CampaignRepository) GetByID(tenantID, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE tenant_id=$1 AND id=$2`
	c, err := scanCampaign(r.DB.QueryRow(query, tenantID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) List(tenantID, status string, offset, limit int) ([]model.Campaign, int, error) {
	where := `WHERE tenant_id = $1`
	args := []any{tenantID}
	argPos := 2

	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, status)
		argPos++
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaigns `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM campaigns %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		campaignColumns, where, argPos, argPos+1,
	)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, total, rows.Err()
}

func (r *CampaignRepository) Count(tenantID string) (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaigns WHERE tenant_id=$1`, tenantID).Scan(&n)
	return n, err
}

// ListSentByNewest returns every sent campaign for the tenant, newest
// first. The analytics aggregator depends on this ordering being
// stable: the first five rows are the "recent campaigns" slice.
func (r *CampaignRepository) ListSentByNewest(tenantID string) ([]model.Campaign, error) {
	query := `SELECT ` + campaignColumns + `
        FROM campaigns
        WHERE tenant_id=$1 AND status=$2
        ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.Query(query, tenantID, model.CampaignStatusSent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
