// README: Location service; real telemetry when available, simulated position otherwise.
package location

import (
	"context"
	"errors"
	"hash/fnv"

	"fairdispatch/internal/types"
)

// ErrTelemetryUnavailable is returned when no telemetry index is configured.
var ErrTelemetryUnavailable = errors.New("telemetry store not configured")

type Service struct {
	store *Store
	base  types.Point
}

// NewService builds a location service anchored at the city-centre base
// coordinate. store may be nil when no Redis telemetry index is configured.
func NewService(store *Store, base types.Point) *Service {
	return &Service{store: store, base: base}
}

// Update records a telemetry fix for the driver. Fails with
// ErrTelemetryUnavailable on a service built without a store.
func (s *Service) Update(ctx context.Context, id types.ID, pos types.Point) error {
	if s.store == nil {
		return ErrTelemetryUnavailable
	}
	return s.store.SetDriverPosition(ctx, id, pos)
}

// CurrentPosition returns the driver's last telemetry fix, falling back to the
// simulated position when none has been reported.
func (s *Service) CurrentPosition(ctx context.Context, id types.ID) types.Point {
	if s.store != nil {
		if pos, ok, err := s.store.DriverPosition(ctx, id); err == nil && ok {
			return pos
		}
	}
	return SimulatedPosition(s.base, id)
}

// SimulatedPosition derives a stable pseudo-position near the base coordinate
// from the driver identity. Placeholder for a future real-time telemetry feed;
// the offsets only need to be deterministic and spread across the city.
func SimulatedPosition(base types.Point, id types.ID) types.Point {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	n := h.Sum32()
	return types.Point{
		Lat: base.Lat + float64(n*123%100)/10000.0,
		Lng: base.Lng + float64(n*456%100)/10000.0,
	}
}
