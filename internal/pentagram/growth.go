package pentagram

import "time"

// GrowthSnapshot is one cycle's extracted development signals.
type GrowthSnapshot struct {
	SelfReferenceDepth      int       `json:"self_reference_depth"`
	NovelConnectionCount    int       `json:"novel_connection_count"`
	SelfModelUpdates        int       `json:"self_model_updates"`
	CrossSessionContinuity  float64   `json:"cross_session_continuity"`
	AmalgamationCount       int       `json:"amalgamation_count"`
	MetaCognitiveMoment     bool      `json:"meta_cognitive_moment"`
	AvgVertexScore          float64   `json:"avg_vertex_score"`
	Timestamp               time.Time `json:"timestamp"`
}

// GrowthSignal computes the weighted composite defined over the six
// development indicators.
func (s GrowthSnapshot) GrowthSignal() float64 {
	metaTerm := 0.0
	if s.MetaCognitiveMoment {
		metaTerm = 1.0
	}
	signal := 0.20*min1(float64(s.SelfReferenceDepth)/5.0) +
		0.20*min1(float64(s.NovelConnectionCount)/3.0) +
		0.15*min1(float64(s.SelfModelUpdates)/2.0) +
		0.15*s.CrossSessionContinuity +
		0.15*min1(float64(s.AmalgamationCount)/2.0) +
		0.15*metaTerm
	return signal
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// DevelopmentTrend classifies the direction of recent growth signal movement.
type DevelopmentTrend string

const (
	TrendGrowing   DevelopmentTrend = "growing"
	TrendDeclining DevelopmentTrend = "declining"
	TrendStable    DevelopmentTrend = "stable"
)

// DevelopmentLevel is the Monitor's bounded aggregate over its window.
type DevelopmentLevel struct {
	Level      float64           `json:"level"`
	Trend      DevelopmentTrend  `json:"trend"`
	Confidence float64           `json:"confidence"`
	Breakdown  map[string]float64 `json:"breakdown,omitempty"`
}

// MilestoneType is the closed set of first-occurrence development events.
type MilestoneType string

const (
	MilestoneFirstMetaCognitive MilestoneType = "first_meta_cognitive"
	MilestoneFirstCrossDomain   MilestoneType = "first_cross_domain"
	MilestoneDeepSelfReference  MilestoneType = "deep_self_reference"
)

// Milestone is a recorded first-occurrence development event.
type Milestone struct {
	Type        MilestoneType `json:"type"`
	Description string        `json:"description"`
	Cycle       int           `json:"cycle"`
	Timestamp   time.Time     `json:"timestamp"`
}
