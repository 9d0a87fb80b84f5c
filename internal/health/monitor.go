package health

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker is one monitored component (store, completion upstream, auth service).
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// Monitor owns the component checkers of the service. Required components
// decide service health; advisory components only show up in Report.
type Monitor struct {
	required []HealthChecker
	advisory []HealthChecker
	up       atomic.Bool
	log      zerolog.Logger
}

func NewMonitor(log zerolog.Logger, required ...HealthChecker) *Monitor {
	return &Monitor{required: required, log: log}
}

// Advise adds components that are reported but never take the service down.
// Call before Run.
func (m *Monitor) Advise(checkers ...HealthChecker) *Monitor {
	m.advisory = append(m.advisory, checkers...)
	return m
}

// IsHealthy returns the service health computed on the last tick.
func (m *Monitor) IsHealthy() bool { return m.up.Load() }

// Report returns the cached health of every component by name.
func (m *Monitor) Report() map[string]bool {
	out := make(map[string]bool, len(m.required)+len(m.advisory))
	for _, c := range m.required {
		out[c.Name()] = c.IsHealthy()
	}
	for _, c := range m.advisory {
		out[c.Name()] = c.IsHealthy()
	}
	return out
}

// Run starts every component checker and recomputes service health on each
// tick. It returns once ctx is done and all checkers have stopped.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	var wg sync.WaitGroup
	for _, c := range append(append([]HealthChecker{}, m.required...), m.advisory...) {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()
			c.Start(ctx, interval)
		}(c)
	}
	defer wg.Wait()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	m.evaluate()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evaluate()
		}
	}
}

func (m *Monitor) evaluate() {
	var down []string
	for _, c := range m.required {
		if !c.IsHealthy() {
			down = append(down, c.Name())
		}
	}
	sort.Strings(down)

	now := len(down) == 0
	if m.up.Swap(now) == now {
		return
	}
	if now {
		m.log.Info().Msg("service health: UP")
		return
	}
	m.log.Error().Str("failing", strings.Join(down, ",")).Msg("service health: DOWN")
}
