package ai

import "context"

// Provider defines the contract for the explanation polisher. Keeping it an
// interface allows swapping model vendors without touching dispatch.
type Provider interface {
	// PolishExplanation rewrites a deterministic assignment explanation in a
	// warmer voice without changing its facts. Implementations must treat the
	// draft as the source of truth and fail rather than invent content.
	PolishExplanation(ctx context.Context, req ExplanationRequest) (string, error)
}
