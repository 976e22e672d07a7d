// README: Driver service; availability listing and fleet statistics.
package driver

import (
	"context"

	"fairdispatch/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// AttentionItem flags a driver whose fatigue or health needs dispatcher
// attention.
type AttentionItem struct {
	DriverID     types.ID
	Name         string
	Fatigue      float64
	HealthStatus HealthStatus
}

type FleetStats struct {
	TotalDrivers     int
	AvailableDrivers int
	AvgFatigue       float64
	NeedsAttention   []AttentionItem
}

func (s *Service) ListAvailable(ctx context.Context, locationID string) ([]*Driver, error) {
	return s.store.ListAvailable(ctx, locationID)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.store.Get(ctx, id)
}

// Stats summarises the fleet at one location. A driver lands on the attention
// list above fatigue 70 or with any non-normal health status.
func (s *Service) Stats(ctx context.Context, locationID string) (*FleetStats, error) {
	drivers, err := s.store.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	stats := &FleetStats{TotalDrivers: len(drivers)}
	totalFatigue := 0.0
	for _, d := range drivers {
		totalFatigue += d.FatigueScore
		if d.IsAvailable {
			stats.AvailableDrivers++
		}
		if d.FatigueScore > 70 || d.HealthStatus != HealthNormal {
			stats.NeedsAttention = append(stats.NeedsAttention, AttentionItem{
				DriverID:     d.ID,
				Name:         d.Name,
				Fatigue:      d.FatigueScore,
				HealthStatus: d.HealthStatus,
			})
		}
	}
	if len(drivers) > 0 {
		stats.AvgFatigue = totalFatigue / float64(len(drivers))
	}
	return stats, nil
}
