// internal/service/campaign_service.go
package service

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/Uday-0910/RetailReachAI/internal/errors"
	"github.com/Uday-0910/RetailReachAI/internal/model"
	"github.com/Uday-0910/RetailReachAI/internal/repository"
)

// detailLogCap bounds the delivery log slice returned by Detail.
const detailLogCap = 100

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	LogRepo      repository.DeliveryLogRepositoryInterface
	Store        repository.DeliveryStoreInterface
	Locks        *CampaignLocks
	Logger       zerolog.Logger
}

type CreateCampaignInput struct {
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Language      string     `json:"language"`
	Channels      []string   `json:"channels"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

// CampaignDetail is the detail view: the campaign plus the first
// detailLogCap delivery log entries in write order.
type CampaignDetail struct {
	Campaign model.Campaign           `json:"campaign"`
	Logs     []model.DeliveryLogEntry `json:"logs"`
	LogCount int                      `json:"log_count"`
}

// Create validates and stores a new campaign. Status is computed, not
// supplied: scheduled iff a future scheduled date is given, else draft.
func (s *CampaignService) Create(tenantID string, in CreateCampaignInput) (*model.Campaign, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, appErrors.Validationf("title is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, appErrors.Validationf("message is required")
	}
	if len(in.Channels) == 0 {
		return nil, appErrors.Validationf("at least one channel is required")
	}
	for _, ch := range in.Channels {
		if !model.ValidChannel(ch) {
			return nil, appErrors.Validationf("unknown channel: %s", ch)
		}
	}

	status := model.CampaignStatusDraft
	if in.ScheduledDate != nil && in.ScheduledDate.After(time.Now()) {
		status = model.CampaignStatusScheduled
	}

	c := &model.Campaign{
		TenantID:      tenantID,
		Title:         strings.TrimSpace(in.Title),
		Message:       in.Message,
		Language:      in.Language,
		Channels:      in.Channels,
		ScheduledDate: in.ScheduledDate,
		Status:        status,
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, appErrors.Internal(err)
	}
	return c, nil
}

func (s *CampaignService) List(tenantID, status string, page, pageSize int) ([]model.Campaign, int, error) {
	switch status {
	case "", model.CampaignStatusDraft, model.CampaignStatusScheduled, model.CampaignStatusSent:
	default:
		return nil, 0, appErrors.Validationf("unknown status filter: %s", status)
	}

	offset, limit := paginate(page, pageSize)
	campaigns, total, err := s.CampaignRepo.List(tenantID, status, offset, limit)
	if err != nil {
		return nil, 0, appErrors.Internal(err)
	}
	return campaigns, total, nil
}

func (s *CampaignService) Get(tenantID, campaignID string) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(tenantID, campaignID)
	if err != nil {
		return nil, appErrors.Internal(err)
	}
	if c == nil {
		return nil, appErrors.NotFound("campaign")
	}
	return c, nil
}

// Delete removes a campaign and its delivery log entries. It takes the
// same per-campaign lock as Send so a delete cannot race an in-flight
// fan-out.
func (s *CampaignService) Delete(tenantID, campaignID string) error {
	unlock := s.Locks.Lock(campaignID)
	defer unlock()

	ok, err := s.Store.DeleteCampaignCascade(tenantID, campaignID)
	if err != nil {
		return appErrors.Internal(err)
	}
	if !ok {
		return appErrors.NotFound("campaign")
	}
	s.Logger.Info().Str("campaign_id", campaignID).Msg("campaign deleted")
	return nil
}

func (s *CampaignService) Detail(tenantID, campaignID string) (*CampaignDetail, error) {
	c, err := s.Get(tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	logs, err := s.LogRepo.ListByCampaign(campaignID, detailLogCap)
	if err != nil {
		return nil, appErrors.Internal(err)
	}
	count, err := s.LogRepo.CountByCampaign(campaignID)
	if err != nil {
		return nil, appErrors.Internal(err)
	}

	return &CampaignDetail{Campaign: *c, Logs: logs, LogCount: count}, nil
}
