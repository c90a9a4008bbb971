package repository

import (
	"database/sql"
	"fmt"

	"github.com/Uday-0910/RetailReachAI/internal/model"
)

// FanoutResult carries the counters produced by one fan-out.
type FanoutResult struct {
	Total     int
	Delivered int
	Failed    int
}

// DeliveryStoreInterface owns the two multi-row transactions of the
// campaign lifecycle: the send fan-out and the cascade delete. Both
// must be all-or-nothing so readers never observe a half-written
// batch or an orphaned log row.
type DeliveryStoreInterface interface {
	// CommitFanout writes one delivery log entry per customer in the
	// segment and flips the campaign from draft/scheduled to sent with
	// matching counters, in a single transaction. ok is false when the
	// campaign was not in a sendable state (or not owned by the
	// tenant); the transaction is rolled back and nothing is written.
	CommitFanout(tenantID, campaignID, channel string, criteria model.SegmentCriteria) (FanoutResult, bool, error)

	// DeleteCampaignCascade removes the campaign and all of its
	// delivery log entries. ok is false when no such campaign exists
	// for the tenant.
	DeleteCampaignCascade(tenantID, campaignID string) (bool, error)
}

type DeliveryStore struct {
	DB *sql.DB
}

// fanoutInsert materializes the segment into delivery_logs entirely on
// the database side: one row per customer in segment order, the first
// floor(0.85*N) marked delivered and the rest failed. The (total*85)/100
// threshold mirrors model.SplitOutcome. Positional args: channel,
// campaign id, then the segmentFilter args shifted by two.
const fanoutInsert = `
        INSERT INTO delivery_logs
            (id, campaign_id, customer_id, customer_phone, channel, delivery_status, created_at)
        SELECT gen_random_uuid(), $2, t.id, t.phone, $1,
               CASE WHEN t.rn <= (t.total * 85) / 100 THEN 'delivered' ELSE 'failed' END,
               NOW()
        FROM (
            SELECT c.id, c.phone,
                   row_number() OVER (ORDER BY c.created_at, c.id) AS rn,
                   count(*) OVER () AS total
            FROM customers c
            WHERE %s
            ORDER BY c.created_at, c.id
        ) t
    `

func (s *DeliveryStore) CommitFanout(tenantID, campaignID, channel string, criteria model.SegmentCriteria) (FanoutResult, bool, error) {
	var result FanoutResult

	tx, err := s.DB.Begin()
	if err != nil {
		return result, false, err
	}
	defer tx.Rollback()

	cond, condArgs := segmentFilter(tenantID, criteria)
	cond = shiftPlaceholders(cond, 2)
	args := append([]any{channel, campaignID}, condArgs...)

	res, err := tx.Exec(fmt.Sprintf(fanoutInsert, cond), args...)
	if err != nil {
		return result, false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return result, false, err
	}

	result.Total = int(inserted)
	result.Delivered, result.Failed = model.SplitOutcome(result.Total)

	cas := `
        UPDATE campaigns
        SET status=$1, total_sent=$2, total_delivered=$3, total_failed=$4
        WHERE id=$5 AND tenant_id=$6 AND status IN ($7, $8)
    `
	upd, err := tx.Exec(cas,
		model.CampaignStatusSent, result.Total, result.Delivered, result.Failed,
		campaignID, tenantID, model.CampaignStatusDraft, model.CampaignStatusScheduled,
	)
	if err != nil {
		return FanoutResult{}, false, err
	}
	flipped, err := upd.RowsAffected()
	if err != nil {
		return FanoutResult{}, false, err
	}
	if flipped == 0 {
		// Lost the race or campaign not sendable; rollback discards the batch.
		return FanoutResult{}, false, nil
	}

	if err := tx.Commit(); err != nil {
		return FanoutResult{}, false, err
	}
	return result, true, nil
}

func (s *DeliveryStore) DeleteCampaignCascade(tenantID, campaignID string) (bool, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM campaigns WHERE id=$1 AND tenant_id=$2`, campaignID, tenantID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.Exec(`DELETE FROM delivery_logs WHERE campaign_id=$1`, campaignID); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// shiftPlaceholders renumbers $1..$n in cond to $1+by..$n+by. The
// segment filter is written against $1 so it can be reused in queries
// that already bind earlier arguments.
func shiftPlaceholders(cond string, by int) string {
	out := make([]byte, 0, len(cond))
	for i := 0; i < len(cond); i++ {
		if cond[i] != '$' {
			out = append(out, cond[i])
			continue
		}
		j := i + 1
		num := 0
		for j < len(cond) && cond[j] >= '0' && cond[j] <= '9' {
			num = num*10 + int(cond[j]-'0')
			j++
		}
		out = append(out, []byte(fmt.Sprintf("$%d", num+by))...)
		i = j - 1
	}
	return string(out)
}

var _ DeliveryStoreInterface = (*DeliveryStore)(nil)
