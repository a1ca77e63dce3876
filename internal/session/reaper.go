package session

import (
	"context"
	"time"

	"github.com/ssRohan-32/link-organizer/internal/logger"
)

const (
	// DefaultIdleTTL is the duration after which an inactive session is
	// evicted from memory.
	DefaultIdleTTL = 30 * time.Minute
)

// Reaper periodically evicts idle sessions from a registry.
type Reaper struct {
	registry *Registry
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	stopCh   chan struct{}
}

// NewReaper creates a reaper for the registry.
func NewReaper(registry *Registry, log logger.Logger, interval, ttl time.Duration) *Reaper {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Reaper{
		registry: registry,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic eviction process.
func (rp *Reaper) Start(ctx context.Context) {
	ticker := time.NewTicker(rp.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := rp.registry.evictIdle(rp.ttl, time.Now()); n > 0 {
					rp.logger.Info("session reaper completed",
						logger.Int("evicted", n))
				}
			case <-rp.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the reaper.
func (rp *Reaper) Stop() {
	close(rp.stopCh)
}
