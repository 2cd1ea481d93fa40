// Package pentagram defines the shared, dependency-free data types used by
// every vertex, the metabolic kernel, the identity topology, and the
// development monitor.
package pentagram

import "time"

// VertexName is the closed enumeration of the five Pentagram faculties.
type VertexName string

const (
	Ledger    VertexName = "ledger"
	Garden    VertexName = "garden"
	Mirror    VertexName = "mirror"
	Compass   VertexName = "compass"
	Orchestra VertexName = "orchestra"
)

// AllVertices lists the five faculties in a stable, deterministic order.
func AllVertices() []VertexName {
	return []VertexName{Ledger, Garden, Mirror, Compass, Orchestra}
}

// RetrieveMethod selects the Memory Store's retrieval strategy.
type RetrieveMethod string

const (
	RetrieveKeyword RetrieveMethod = "keyword"
	RetrieveVector  RetrieveMethod = "vector"
	RetrieveHybrid  RetrieveMethod = "hybrid"
	RetrieveAgentic RetrieveMethod = "agentic"
)

// Experience is the input record routed through the Pentagram.
type Experience struct {
	Message      string         `json:"message"`
	UserID       string         `json:"user_id"`
	GroupID      string         `json:"group_id"`
	RetrieveTopK int            `json:"retrieve_top_k,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// MemoryGroup is one retrieved memory bundle from the Memory Store.
type MemoryGroup struct {
	ID      string   `json:"id"`
	Summary string   `json:"summary"`
	Score   float64  `json:"score"`
	Tags    []string `json:"tags,omitempty"`
}

// ActionProposal is a tagged record a vertex proposes as a follow-up action.
type ActionProposal struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// HasType reports whether any proposal in the slice carries the given type.
func HasType(proposals []ActionProposal, t string) bool {
	for _, p := range proposals {
		if p.Type == t {
			return true
		}
	}
	return false
}

// FilterProposalsByType returns the subset of proposals carrying the given
// type.
func FilterProposalsByType(proposals []ActionProposal, t string) []ActionProposal {
	var out []ActionProposal
	for _, p := range proposals {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// --- Per-vertex discriminated attachment payloads ---
//
// The source treats vote attachments as an open mapping. Here each vertex
// gets a typed payload struct; a narrow Extras map is kept on each for
// forward-compatible, non-load-bearing side data only.

// LedgerPayload is Ledger's attachment payload.
type LedgerPayload struct {
	RetrievedMemories []MemoryGroup  `json:"retrieved_memories"`
	RetrievalCount    int            `json:"retrieval_count"`
	StoreQueued       bool           `json:"store_queued"`
	Extras            map[string]any `json:"extras,omitempty"`
}

// GardenPattern is one pattern detected by Garden.
type GardenPattern struct {
	Pattern     string  `json:"pattern"`
	Significance float64 `json:"significance"`
	CrossDomain bool    `json:"cross_domain,omitempty"`
	Recurring   bool    `json:"recurring,omitempty"`
}

// GardenPruningRecommendation is one prune suggestion from Garden.
type GardenPruningRecommendation struct {
	What   string `json:"what"`
	Reason string `json:"reason"`
}

// GardenPayload is Garden's attachment payload.
type GardenPayload struct {
	Patterns               []GardenPattern               `json:"patterns"`
	Themes                 []string                       `json:"themes"`
	Connections            []string                       `json:"connections"`
	PruningRecommendations []GardenPruningRecommendation `json:"pruning_recommendations"`
	Extras                 map[string]any                 `json:"extras,omitempty"`
}

// IdentityAlignment is Mirror's judgement of alignment with the identity.
type IdentityAlignment struct {
	InvariantAlignment float64 `json:"invariant_alignment"`
	DriftDetected      bool    `json:"drift_detected"`
	DriftDetails       string  `json:"drift_details,omitempty"`
}

// GrowthIndicators is Mirror's self-development telemetry for one cycle.
type GrowthIndicators struct {
	SelfReferenceDepth  int  `json:"self_reference_depth"`
	NovelSelfInsight    bool `json:"novel_self_insight"`
	MetaCognitiveMoment bool `json:"meta_cognitive_moment"`
}

// MirrorPayload is Mirror's attachment payload.
type MirrorPayload struct {
	SelfReflection      string            `json:"self_reflection"`
	GrowthIndicators    GrowthIndicators  `json:"growth_indicators"`
	IdentityAlignment   IdentityAlignment `json:"identity_alignment"`
	SelfModelUpdates    []string          `json:"self_model_updates"`
	SelfReferenceDepth  int               `json:"self_reference_depth"`
	MetaCognitiveMoment bool              `json:"meta_cognitive_moment"`
	Extras              map[string]any    `json:"extras,omitempty"`
}

// ValueAssessment is Compass's judgement of an experience's strategic value.
type ValueAssessment struct {
	GrowthContribution float64  `json:"growth_contribution"`
	Reasoning          string   `json:"reasoning"`
	DomainsAdvanced    []string `json:"domains_advanced,omitempty"`
}

// GoalAlignment is Compass's goal-consistency check.
type GoalAlignment struct {
	AlignmentScore     float64  `json:"alignment_score"`
	MisalignmentFlags  []string `json:"misalignment_flags,omitempty"`
}

// CompassPayload is Compass's attachment payload.
type CompassPayload struct {
	ValueAssessment    ValueAssessment `json:"value_assessment"`
	Predictions        []string        `json:"predictions"`
	GoalAlignment      GoalAlignment   `json:"goal_alignment"`
	SuggestedDirections []string       `json:"suggested_directions"`
	Extras             map[string]any  `json:"extras,omitempty"`
}

// OrchestraPayload is Orchestra's attachment payload.
type OrchestraPayload struct {
	ExpressionTone         string         `json:"expression_tone"`
	ShareSelfObservations  bool           `json:"share_self_observations"`
	HasSignificantGrowth   bool           `json:"has_significant_growth"`
	HasDrift               bool           `json:"has_drift"`
	Extras                 map[string]any `json:"extras,omitempty"`
}

// VertexVote is one vertex's assessment of an experience.
type VertexVote struct {
	VertexName      VertexName       `json:"vertex_name"`
	Score           float64          `json:"score"`
	Reasoning       string           `json:"reasoning"`
	ActionProposals []ActionProposal `json:"action_proposals"`
	Observations    []string         `json:"observations"`

	Ledger    *LedgerPayload    `json:"ledger,omitempty"`
	Garden    *GardenPayload    `json:"garden,omitempty"`
	Mirror    *MirrorPayload    `json:"mirror,omitempty"`
	Compass   *CompassPayload   `json:"compass,omitempty"`
	Orchestra *OrchestraPayload `json:"orchestra,omitempty"`

	// Extras carries vote-level side data not covered by a typed payload,
	// e.g. attachments.error = true on error-votes.
	Extras map[string]any `json:"extras,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// ClampScore folds s into [0, 1].
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// IsError reports whether this vote was produced by the Kernel's
// error-vote fallback.
func (v VertexVote) IsError() bool {
	if v.Extras == nil {
		return false
	}
	errVal, ok := v.Extras["error"]
	if !ok {
		return false
	}
	b, ok := errVal.(bool)
	return ok && b
}
