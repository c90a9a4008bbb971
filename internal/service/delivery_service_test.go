package service_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Uday-0910/RetailReachAI/internal/errors"
	"github.com/Uday-0910/RetailReachAI/internal/model"
	"github.com/Uday-0910/RetailReachAI/internal/service"
)

const (
	tenantA = "tenant-a"
	tenantB = "tenant-b"
)

func seedCustomers(t *testing.T, env *testEnv, tenantID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := env.customers.Add(tenantID, fmt.Sprintf("Customer %d", i), fmt.Sprintf("+2547%08d", i), nil, nil)
		require.NoError(t, err)
	}
}

func createDraftCampaign(t *testing.T, env *testEnv, tenantID string) *model.Campaign {
	t.Helper()
	c, err := env.campaigns.Create(tenantID, service.CreateCampaignInput{
		Title:    "Weekend Sale",
		Message:  "Everything 20% off this weekend only!",
		Channels: []string{model.ChannelSMS, model.ChannelEmail},
	})
	require.NoError(t, err)
	require.Equal(t, model.CampaignStatusDraft, c.Status)
	return c
}

func TestSendFanOut(t *testing.T) {
	env := newTestEnv()
	seedCustomers(t, env, tenantA, 10)
	c := createDraftCampaign(t, env, tenantA)

	sent, err := env.delivery.Send(tenantA, c.ID)
	require.NoError(t, err)

	assert.Equal(t, model.CampaignStatusSent, sent.Status)
	assert.Equal(t, 10, sent.TotalSent)
	assert.Equal(t, 8, sent.TotalDelivered)
	assert.Equal(t, 2, sent.TotalFailed)
	assert.Equal(t, sent.TotalSent, sent.TotalDelivered+sent.TotalFailed)

	// One log entry per targeted customer, on the primary channel, with
	// the phone snapshotted.
	logs, err := env.store.logRepo().ListByCampaign(c.ID, 100)
	require.NoError(t, err)
	require.Len(t, logs, 10)
	for _, e := range logs {
		assert.Equal(t, model.ChannelSMS, e.Channel)
		assert.NotEmpty(t, e.CustomerPhone)
		assert.Contains(t, []string{model.DeliveryStatusDelivered, model.DeliveryStatusFailed}, e.Status)
	}

	assert.Equal(t, 1, env.publisher.count())
}

func TestSendEmptySegment(t *testing.T) {
	env := newTestEnv()
	c := createDraftCampaign(t, env, tenantA)

	sent, err := env.delivery.Send(tenantA, c.ID)
	require.NoError(t, err)

	assert.Equal(t, model.CampaignStatusSent, sent.Status)
	assert.Zero(t, sent.TotalSent)
	assert.Zero(t, sent.TotalDelivered)
	assert.Zero(t, sent.TotalFailed)

	count, err := env.store.logRepo().CountByCampaign(c.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSendTenantIsolation(t *testing.T) {
	env := newTestEnv()
	c := createDraftCampaign(t, env, tenantA)

	_, err := env.delivery.Send(tenantB, c.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.KindNotFound, appErrors.KindOf(err))

	// The campaign must be untouched.
	got, err := env.campaigns.Get(tenantA, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusDraft, got.Status)
}

func TestSendAlreadySentConflict(t *testing.T) {
	env := newTestEnv()
	seedCustomers(t, env, tenantA, 3)
	c := createDraftCampaign(t, env, tenantA)

	_, err := env.delivery.Send(tenantA, c.ID)
	require.NoError(t, err)

	_, err = env.delivery.Send(tenantA, c.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.KindConflict, appErrors.KindOf(err))

	// No double fan-out.
	count, err := env.store.logRepo().CountByCampaign(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSendConcurrentExactlyOnce(t *testing.T) {
	env := newTestEnv()
	seedCustomers(t, env, tenantA, 20)
	c := createDraftCampaign(t, env, tenantA)

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.delivery.Send(tenantA, c.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, appErrors.KindConflict, appErrors.KindOf(err))
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one send must win")

	count, err := env.store.logRepo().CountByCampaign(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, count, "exactly one fan-out worth of log entries")

	got, err := env.campaigns.Get(tenantA, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.TotalSent)
	assert.Equal(t, 17, got.TotalDelivered)
	assert.Equal(t, 3, got.TotalFailed)
	assert.Equal(t, 1, env.publisher.count())
}

func TestSendPersistenceFaultLeavesCampaignRetryable(t *testing.T) {
	env := newTestEnv()
	seedCustomers(t, env, tenantA, 5)
	c := createDraftCampaign(t, env, tenantA)

	env.store.fanoutErr = errors.New("connection reset mid-batch")
	_, err := env.delivery.Send(tenantA, c.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.KindPartialFailure, appErrors.KindOf(err))

	// Pre-send-equivalent state: no logs, campaign still draft.
	count, err := env.store.logRepo().CountByCampaign(c.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	got, err := env.campaigns.Get(tenantA, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusDraft, got.Status)

	// Retry succeeds once the fault clears.
	env.store.fanoutErr = nil
	sent, err := env.delivery.Send(tenantA, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, sent.TotalSent)
}

func TestSendScheduledCampaign(t *testing.T) {
	env := newTestEnv()
	seedCustomers(t, env, tenantA, 2)

	future := time.Now().Add(24 * time.Hour)
	c, err := env.campaigns.Create(tenantA, service.CreateCampaignInput{
		Title:         "Launch",
		Message:       "We open tomorrow",
		Channels:      []string{model.ChannelWhatsApp},
		ScheduledDate: &future,
	})
	require.NoError(t, err)
	require.Equal(t, model.CampaignStatusScheduled, c.Status)

	sent, err := env.delivery.Send(tenantA, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusSent, sent.Status)

	logs, err := env.store.logRepo().ListByCampaign(c.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.ChannelWhatsApp, logs[0].Channel)
}
