package ai

// ExplanationRequest carries the deterministic draft plus the context the
// model may weave in.
type ExplanationRequest struct {
	// DriverName is the recipient's display name.
	DriverName string
	// RouteArea is the human-readable delivery area, may be empty.
	RouteArea string
	// Draft is the template explanation produced by the matching engine.
	Draft string
}

// polishResult is the structured output expected from the model.
type polishResult struct {
	Explanation string `json:"explanation"`
}
