package store

import (
	"context"

	"github.com/semi-dlc/flowt-bb/internal/health"
)

// Pinger returns the health pinger of st: its own HealthPing when the backend
// has one, otherwise a one-row bookings read.
func Pinger(st Store) health.HealthPinger {
	if p, ok := st.(health.HealthPinger); ok {
		return p
	}
	return readPinger{st: st}
}

type readPinger struct{ st Store }

func (r readPinger) HealthPing(ctx context.Context) error {
	_, err := r.st.Bookings().ListRecent(ctx, 1)
	return err
}
