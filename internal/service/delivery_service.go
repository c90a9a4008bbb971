// internal/service/delivery_service.go
package service

import (
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/Uday-0910/RetailReachAI/internal/errors"
	"github.com/Uday-0910/RetailReachAI/internal/event"
	"github.com/Uday-0910/RetailReachAI/internal/model"
	"github.com/Uday-0910/RetailReachAI/internal/repository"
)

// DeliveryService is the fan-out engine: it turns a draft or scheduled
// campaign into one delivery log entry per targeted customer and flips
// the campaign to sent with reconciled counters, exactly once.
type DeliveryService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Store        repository.DeliveryStoreInterface
	Locks        *CampaignLocks
	Publisher    event.Publisher
	Logger       zerolog.Logger
}

// Send fans out the campaign to every customer in its target segment.
// Concurrent sends on the same campaign are serialized by the campaign
// lock; the status compare-and-set inside the store transaction
// backstops the lock, so a second attempt always gets Conflict rather
// than a double fan-out. An empty segment is not an error: the
// campaign goes to sent with zero counters.
func (s *DeliveryService) Send(tenantID, campaignID string) (*model.Campaign, error) {
	unlock := s.Locks.Lock(campaignID)
	defer unlock()

	c, err := s.CampaignRepo.GetByID(tenantID, campaignID)
	if err != nil {
		return nil, appErrors.Internal(err)
	}
	if c == nil {
		return nil, appErrors.NotFound("campaign")
	}
	if !c.Sendable() {
		return nil, appErrors.Conflictf("campaign cannot be sent in status: %s", c.Status)
	}

	res, ok, err := s.Store.CommitFanout(tenantID, campaignID, c.PrimaryChannel(), model.AllCustomers())
	if err != nil {
		// The store rolled back the batch; the campaign is untouched
		// and a retry is safe.
		return nil, appErrors.PartialFailure(err)
	}
	if !ok {
		return nil, appErrors.Conflictf("campaign cannot be sent in status: %s", model.CampaignStatusSent)
	}

	c.Status = model.CampaignStatusSent
	c.TotalSent = res.Total
	c.TotalDelivered = res.Delivered
	c.TotalFailed = res.Failed

	s.Logger.Info().
		Str("campaign_id", campaignID).
		Int("total", res.Total).
		Int("delivered", res.Delivered).
		Int("failed", res.Failed).
		Msg("campaign fan-out committed")

	s.publishSent(tenantID, c)
	return c, nil
}

func (s *DeliveryService) publishSent(tenantID string, c *model.Campaign) {
	evt := event.CampaignSent{
		TenantID:       tenantID,
		CampaignID:     c.ID,
		TotalSent:      c.TotalSent,
		TotalDelivered: c.TotalDelivered,
		TotalFailed:    c.TotalFailed,
		SentAt:         time.Now(),
	}
	if err := s.Publisher.Publish(event.QueueCampaignEvents, evt); err != nil {
		s.Logger.Warn().Err(err).Str("campaign_id", c.ID).Msg("failed to publish campaign.sent event")
	}
}
