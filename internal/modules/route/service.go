// README: Route service; analyze-then-grade on creation.
package route

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"fairdispatch/internal/types"
)

type Service struct {
	store    *Store
	analyzer Analyzer
}

func NewService(store *Store, analyzer Analyzer) *Service {
	return &Service{store: store, analyzer: analyzer}
}

// CreateGraded runs the satellite analysis, grades the route, and persists it.
// The derived fields are written exactly once here.
func (s *Service) CreateGraded(ctx context.Context, r *Route) error {
	analysis, err := s.analyzer.Analyze(ctx, r)
	if err != nil {
		return err
	}
	r.TerrainDifficulty = analysis.TerrainDifficulty
	r.PredictedTimeMinutes = analysis.PredictedTimeMinutes

	result, err := GradeRoute(r)
	if err != nil {
		return err
	}
	r.Grade = result.Grade
	r.GradeReason = result.Reason
	r.RouteScore = result.Score
	r.RouteCredits = result.Credits

	if r.ID == "" {
		r.ID = NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return s.store.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Route, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListUnassigned(ctx context.Context, locationID string) ([]*Route, error) {
	return s.store.ListUnassigned(ctx, locationID)
}

func NewID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
