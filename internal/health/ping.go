package health

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// HealthPinger can be implemented by components to expose a specialized
// health check. HealthPing must return nil when the component is healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

const defaultCheckTimeout = 2 * time.Second

// PingChecker pings a HealthPinger on a ticker and caches the outcome.
// It starts unhealthy and logs only when the outcome flips.
type PingChecker struct {
	name    string
	pinger  HealthPinger
	timeout time.Duration
	log     zerolog.Logger

	mu      sync.RWMutex
	checked bool
	healthy bool
	lastErr error
}

func NewPingChecker(name string, p HealthPinger, log zerolog.Logger, checkTimeout time.Duration) *PingChecker {
	if checkTimeout <= 0 {
		checkTimeout = defaultCheckTimeout
	}
	return &PingChecker{name: name, pinger: p, timeout: checkTimeout, log: log}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.healthy
}

// LastError is the error of the most recent failed ping, nil after a success.
func (c *PingChecker) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Start pings once immediately and then on every tick until ctx is done.
func (c *PingChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.check(ctx)
		}
	}
}

func (c *PingChecker) check(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	err := c.pinger.HealthPing(checkCtx)
	cancel()
	if ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	first, was := !c.checked, c.healthy
	c.checked, c.healthy, c.lastErr = true, err == nil, err
	c.mu.Unlock()

	switch {
	case err != nil && (first || was):
		c.log.Error().Stack().Err(err).Str("checker", c.name).Msg("health check failed")
	case err == nil && !was:
		c.log.Info().Str("checker", c.name).Msg("health check passing")
	}
}
