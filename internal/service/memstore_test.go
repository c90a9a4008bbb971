package service_test

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Uday-0910/RetailReachAI/internal/event"
	"github.com/Uday-0910/RetailReachAI/internal/model"
	"github.com/Uday-0910/RetailReachAI/internal/repository"
	"github.com/Uday-0910/RetailReachAI/internal/service"
)

// memStore is an in-memory implementation of every repository
// interface, with the same atomicity guarantees the SQL store gives
// (one mutex plays the role of the transaction). It backs all service
// tests so the engine's invariants can be exercised under real
// concurrency without a database.
type memStore struct {
	mu        sync.Mutex
	seq       int
	customers []model.Customer
	campaigns []*model.Campaign
	logs      []model.DeliveryLogEntry

	// fanoutErr simulates a persistence fault mid-batch.
	fanoutErr error
}

func newMemStore() *memStore { return &memStore{} }

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// ---- CustomerRepositoryInterface ----

func (m *memStore) Create(c *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = m.nextID("cust")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.customers = append(m.customers, *c)
	return nil
}

func (m *memStore) GetByID(tenantID, id string) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.TenantID == tenantID && c.ID == id {
			cc := c
			return &cc, nil
		}
	}
	return nil, nil
}

func (m *memStore) Search(tenantID, query, tag string, offset, limit int) ([]model.Customer, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []model.Customer{}
	for i := len(m.customers) - 1; i >= 0; i-- { // newest first
		c := m.customers[i]
		if c.TenantID != tenantID {
			continue
		}
		if query != "" {
			q := strings.ToLower(query)
			if !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.Phone), q) {
				continue
			}
		}
		if tag != "" && !contains(c.Tags, tag) {
			continue
		}
		matched = append(matched, c)
	}

	total := len(matched)
	if offset >= total {
		return []model.Customer{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *memStore) ListSegment(tenantID string, criteria model.SegmentCriteria) ([]model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.segmentLocked(tenantID, criteria), nil
}

func (m *memStore) segmentLocked(tenantID string, criteria model.SegmentCriteria) []model.Customer {
	segment := []model.Customer{}
	for _, c := range m.customers { // oldest first, fan-out order
		if c.TenantID != tenantID {
			continue
		}
		if criteria.Tag != "" && !contains(c.Tags, criteria.Tag) {
			continue
		}
		segment = append(segment, c)
	}
	return segment
}

func (m *memStore) Delete(tenantID, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.customers {
		if c.TenantID == tenantID && c.ID == id {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Count(tenantID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.customers {
		if c.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

// ---- CampaignRepositoryInterface ----
// Method names clash with the customer side, so campaigns get their own
// embedded type.

type memCampaigns struct{ *memStore }

func (m *memStore) campaignRepo() repository.CampaignRepositoryInterface { return memCampaigns{m} }

func (m memCampaigns) Create(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = m.nextID("camp")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cc := *c
	m.campaigns = append(m.campaigns, &cc)
	return nil
}

func (m memCampaigns) GetByID(tenantID, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c := m.findLocked(tenantID, id); c != nil {
		cc := *c
		return &cc, nil
	}
	return nil, nil
}

func (m memCampaigns) findLocked(tenantID, id string) *model.Campaign {
	for _, c := range m.campaigns {
		if c.TenantID == tenantID && c.ID == id {
			return c
		}
	}
	return nil
}

func (m memCampaigns) List(tenantID, status string, offset, limit int) ([]model.Campaign, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []model.Campaign{}
	for i := len(m.campaigns) - 1; i >= 0; i-- { // newest first
		c := m.campaigns[i]
		if c.TenantID != tenantID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		matched = append(matched, *c)
	}

	total := len(matched)
	if offset >= total {
		return []model.Campaign{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m memCampaigns) Count(tenantID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.campaigns {
		if c.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (m memCampaigns) ListSentByNewest(tenantID string) ([]model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sent := []model.Campaign{}
	for i := len(m.campaigns) - 1; i >= 0; i-- {
		c := m.campaigns[i]
		if c.TenantID == tenantID && c.Status == model.CampaignStatusSent {
			sent = append(sent, *c)
		}
	}
	return sent, nil
}

// ---- DeliveryLogRepositoryInterface ----

type memLogs struct{ *memStore }

func (m *memStore) logRepo() repository.DeliveryLogRepositoryInterface { return memLogs{m} }

func (m memLogs) ListByCampaign(campaignID string, limit int) ([]model.DeliveryLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := []model.DeliveryLogEntry{}
	for _, e := range m.logs { // write order
		if e.CampaignID != campaignID {
			continue
		}
		entries = append(entries, e)
		if len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func (m memLogs) CountByCampaign(campaignID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.logs {
		if e.CampaignID == campaignID {
			n++
		}
	}
	return n, nil
}

// ---- DeliveryStoreInterface ----

type memDelivery struct{ *memStore }

func (m *memStore) deliveryStore() repository.DeliveryStoreInterface { return memDelivery{m} }

func (m memDelivery) CommitFanout(tenantID, campaignID, channel string, criteria model.SegmentCriteria) (repository.FanoutResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fanoutErr != nil {
		return repository.FanoutResult{}, false, m.fanoutErr
	}

	camp := memCampaigns{m.memStore}.findLocked(tenantID, campaignID)
	if camp == nil || !camp.Sendable() {
		return repository.FanoutResult{}, false, nil
	}

	segment := m.segmentLocked(tenantID, criteria)
	delivered, failed := model.SplitOutcome(len(segment))

	for i, c := range segment {
		status := model.DeliveryStatusFailed
		if i < delivered {
			status = model.DeliveryStatusDelivered
		}
		m.logs = append(m.logs, model.DeliveryLogEntry{
			ID:            m.nextID("log"),
			CampaignID:    campaignID,
			CustomerID:    c.ID,
			CustomerPhone: c.Phone,
			Channel:       channel,
			Status:        status,
			CreatedAt:     time.Now(),
		})
	}

	camp.Status = model.CampaignStatusSent
	camp.TotalSent = len(segment)
	camp.TotalDelivered = delivered
	camp.TotalFailed = failed

	return repository.FanoutResult{Total: len(segment), Delivered: delivered, Failed: failed}, true, nil
}

func (m memDelivery) DeleteCampaignCascade(tenantID, campaignID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for i, c := range m.campaigns {
		if c.TenantID == tenantID && c.ID == campaignID {
			m.campaigns = append(m.campaigns[:i], m.campaigns[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	kept := m.logs[:0]
	for _, e := range m.logs {
		if e.CampaignID != campaignID {
			kept = append(kept, e)
		}
	}
	m.logs = kept
	return true, nil
}

// ---- fake publisher ----

type fakePublisher struct {
	mu     sync.Mutex
	events []event.CampaignSent
}

func (p *fakePublisher) Publish(queue string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if evt, ok := payload.(event.CampaignSent); ok {
		p.events = append(p.events, evt)
	}
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// ---- wiring ----

type testEnv struct {
	store     *memStore
	publisher *fakePublisher
	customers *service.CustomerService
	campaigns *service.CampaignService
	delivery  *service.DeliveryService
	analytics *service.AnalyticsService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	publisher := &fakePublisher{}
	locks := service.NewCampaignLocks()
	logger := zerolog.Nop()

	return &testEnv{
		store:     store,
		publisher: publisher,
		customers: &service.CustomerService{CustomerRepo: store, Logger: logger},
		campaigns: &service.CampaignService{
			CampaignRepo: store.campaignRepo(),
			LogRepo:      store.logRepo(),
			Store:        store.deliveryStore(),
			Locks:        locks,
			Logger:       logger,
		},
		delivery: &service.DeliveryService{
			CampaignRepo: store.campaignRepo(),
			Store:        store.deliveryStore(),
			Locks:        locks,
			Publisher:    publisher,
			Logger:       logger,
		},
		analytics: &service.AnalyticsService{
			CustomerRepo: store,
			CampaignRepo: store.campaignRepo(),
		},
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
