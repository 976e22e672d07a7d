package maps

import (
	"context"
	"fmt"
	"math"
	"time"

	"googlemaps.github.io/maps"
)

// RouteService handles interactions with Google Maps API. It satisfies the
// route module's TravelEstimator.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// EstimateMinutes returns the driving ETA in whole minutes between two
// coordinates. It assumes driving mode.
func (s *RouteService) EstimateMinutes(ctx context.Context, originLat, originLng, destLat, destLng float64) (int, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", originLat, originLng),
		Destination: fmt.Sprintf("%f,%f", destLat, destLng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, fmt.Errorf("no route found")
	}

	var total time.Duration
	for _, leg := range routes[0].Legs {
		total += leg.Duration
	}
	return int(math.Round(total.Minutes())), nil
}
