package service

import "sync"

// CampaignLocks serializes mutating operations on a single campaign.
// Send and delete share one instance so a delete can never interleave
// with an in-flight fan-out for the same campaign id.
type CampaignLocks struct {
	mu    sync.Mutex
	locks map[string]*campaignLock
}

type campaignLock struct {
	mu   sync.Mutex
	refs int
}

func NewCampaignLocks() *CampaignLocks {
	return &CampaignLocks{locks: make(map[string]*campaignLock)}
}

// Lock acquires the lock for a campaign id and returns its release
// function. Entries are reference counted so the map shrinks back once
// no operation holds or waits on a key.
func (c *CampaignLocks) Lock(campaignID string) func() {
	c.mu.Lock()
	l, ok := c.locks[campaignID]
	if !ok {
		l = &campaignLock{}
		c.locks[campaignID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, campaignID)
		}
		c.mu.Unlock()
	}
}
