// README: Telemetry store backed by Redis GEO.
package location

import (
	"context"

	"github.com/redis/go-redis/v9"

	"fairdispatch/internal/types"
)

const driverGeoKey = "location:drivers"

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) SetDriverPosition(ctx context.Context, id types.ID, pos types.Point) error {
	return s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

// DriverPosition returns the last reported position for a driver, and whether
// one exists.
func (s *Store) DriverPosition(ctx context.Context, id types.ID) (types.Point, bool, error) {
	results, err := s.redis.GeoPos(ctx, driverGeoKey, string(id)).Result()
	if err != nil {
		return types.Point{}, false, err
	}
	if len(results) == 0 || results[0] == nil {
		return types.Point{}, false, nil
	}
	return types.Point{Lat: results[0].Latitude, Lng: results[0].Longitude}, true, nil
}

func (s *Store) RemoveDriver(ctx context.Context, id types.ID) error {
	return s.redis.ZRem(ctx, driverGeoKey, string(id)).Err()
}
