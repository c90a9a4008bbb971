// internal/service/analytics_service.go
package service

import (
	"math"

	appErrors "github.com/Uday-0910/RetailReachAI/internal/errors"
	"github.com/Uday-0910/RetailReachAI/internal/model"
	"github.com/Uday-0910/RetailReachAI/internal/repository"
)

// recentCampaignCap bounds the recent-campaigns slice in the summary.
const recentCampaignCap = 5

// AnalyticsService derives account-wide rollups. It is read-only:
// everything is computed from the campaign counters written at send
// time, never from rescanning the delivery ledger.
type AnalyticsService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
}

type AccountSummary struct {
	TotalCustomers  int              `json:"total_customers"`
	TotalCampaigns  int              `json:"total_campaigns"`
	TotalSent       int              `json:"total_sent"`
	TotalDelivered  int              `json:"total_delivered"`
	DeliveryRate    int              `json:"delivery_rate"`
	RecentCampaigns []model.Campaign `json:"recent_campaigns"`
}

func (s *AnalyticsService) Summarize(tenantID string) (*AccountSummary, error) {
	customers, err := s.CustomerRepo.Count(tenantID)
	if err != nil {
		return nil, appErrors.Internal(err)
	}
	campaigns, err := s.CampaignRepo.Count(tenantID)
	if err != nil {
		return nil, appErrors.Internal(err)
	}

	sent, err := s.CampaignRepo.ListSentByNewest(tenantID)
	if err != nil {
		return nil, appErrors.Internal(err)
	}

	summary := &AccountSummary{
		TotalCustomers:  customers,
		TotalCampaigns:  campaigns,
		RecentCampaigns: []model.Campaign{},
	}
	for _, c := range sent {
		summary.TotalSent += c.TotalSent
		summary.TotalDelivered += c.TotalDelivered
	}
	if summary.TotalSent > 0 {
		summary.DeliveryRate = int(math.Round(100 * float64(summary.TotalDelivered) / float64(summary.TotalSent)))
	}
	if len(sent) > recentCampaignCap {
		sent = sent[:recentCampaignCap]
	}
	summary.RecentCampaigns = append(summary.RecentCampaigns, sent...)

	return summary, nil
}
