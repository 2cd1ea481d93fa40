// Package monitor implements the DevelopmentMonitor: a sliding window of
// GrowthSnapshots used to compute a bounded development level, trend,
// confidence, and first-occurrence milestones.
package monitor

import (
	"sync"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/memstore"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

const defaultWindowSize = 100

// Monitor tracks growth indicators extracted from each Pentagram cycle.
type Monitor struct {
	mu         sync.Mutex
	windowSize int
	snapshots  []pentagram.GrowthSnapshot
	milestones []pentagram.Milestone
	cycleCount int
	store      *memstore.DB
}

// New constructs a Monitor with the given sliding-window capacity. A
// windowSize ≤ 0 uses the default capacity of 100. store may be nil, in
// which case nothing is persisted. New does not read previously persisted
// values back; every Monitor starts with an empty window.
func New(windowSize int, store *memstore.DB) *Monitor {
	if windowSize <= 0 {
		windowSize = defaultWindowSize
	}
	return &Monitor{windowSize: windowSize, store: store}
}

// persistLocked writes the window, milestone list, and cycle count to the
// store, if configured. Must be called with m.mu held. Best-effort: a
// failure here never fails the calling cycle.
func (m *Monitor) persistLocked() {
	if m.store == nil {
		return
	}
	_ = m.store.PutDevelopmentSnapshot("snapshots", m.snapshots)
	_ = m.store.PutDevelopmentSnapshot("milestones", m.milestones)
	_ = m.store.PutDevelopmentSnapshot("cycle_count", m.cycleCount)
}

// RecordCycle extracts a GrowthSnapshot from result, appends it to the
// sliding window, and checks for newly achieved milestones.
func (m *Monitor) RecordCycle(result pentagram.PentagramResult) pentagram.GrowthSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cycleCount++

	mirror := result.Votes[pentagram.Mirror]
	garden := result.Votes[pentagram.Garden]
	ledger := result.Votes[pentagram.Ledger]

	snapshot := pentagram.GrowthSnapshot{
		SelfReferenceDepth:     extractSelfReferenceDepth(mirror),
		NovelConnectionCount:   extractNovelConnections(garden),
		SelfModelUpdates:       extractSelfModelUpdates(mirror),
		CrossSessionContinuity: extractContinuity(ledger),
		AmalgamationCount:      0,
		MetaCognitiveMoment:    extractMetaCognitive(mirror),
		AvgVertexScore:         avgScore(result.Votes),
		Timestamp:              result.Timestamp,
	}

	m.snapshots = append(m.snapshots, snapshot)
	if len(m.snapshots) > m.windowSize {
		m.snapshots = m.snapshots[len(m.snapshots)-m.windowSize:]
	}

	m.checkMilestones(snapshot)
	m.persistLocked()

	return snapshot
}

// GetDevelopmentLevel computes the current bounded development level from
// the sliding window.
func (m *Monitor) GetDevelopmentLevel() pentagram.DevelopmentLevel {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.snapshots) == 0 {
		return pentagram.DevelopmentLevel{Level: 0.05, Trend: pentagram.TrendStable, Confidence: 0.0}
	}

	recent := m.snapshots
	signals := make([]float64, len(recent))
	for i, s := range recent {
		signals[i] = s.GrowthSignal()
	}
	avgSignal := mean(signals)

	trend := pentagram.TrendStable
	if len(signals) >= 20 {
		recentAvg := mean(signals[len(signals)-10:])
		previousAvg := mean(signals[len(signals)-20 : len(signals)-10])
		switch {
		case recentAvg >= previousAvg+0.02:
			trend = pentagram.TrendGrowing
		case recentAvg <= previousAvg-0.02:
			trend = pentagram.TrendDeclining
		}
	}

	confidence := float64(len(recent)) / 50.0
	if confidence > 1.0 {
		confidence = 1.0
	}

	level := 0.05 + avgSignal*0.10

	var selfRefSum, vertexScoreSum float64
	var metaCount int
	for _, s := range recent {
		selfRefSum += float64(s.SelfReferenceDepth)
		vertexScoreSum += s.AvgVertexScore
		if s.MetaCognitiveMoment {
			metaCount++
		}
	}
	n := float64(len(recent))

	return pentagram.DevelopmentLevel{
		Level:      round(level, 4),
		Trend:      trend,
		Confidence: round(confidence, 2),
		Breakdown: map[string]float64{
			"avg_growth_signal":   round(avgSignal, 4),
			"avg_self_reference":  round(selfRefSum/n, 2),
			"meta_cognitive_rate": round(float64(metaCount)/n, 3),
			"avg_vertex_score":    round(vertexScoreSum/n, 3),
		},
	}
}

// CycleCount reports the total number of cycles ever recorded (not bounded
// by the sliding window).
func (m *Monitor) CycleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cycleCount
}

// Milestones returns a snapshot of every milestone achieved so far.
func (m *Monitor) Milestones() []pentagram.Milestone {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]pentagram.Milestone, len(m.milestones))
	copy(out, m.milestones)
	return out
}

func (m *Monitor) checkMilestones(snapshot pentagram.GrowthSnapshot) {
	achieved := make(map[pentagram.MilestoneType]bool, len(m.milestones))
	for _, ms := range m.milestones {
		achieved[ms.Type] = true
	}

	if snapshot.MetaCognitiveMoment && !achieved[pentagram.MilestoneFirstMetaCognitive] {
		m.milestones = append(m.milestones, pentagram.Milestone{
			Type:        pentagram.MilestoneFirstMetaCognitive,
			Description: "first meta-cognitive moment detected",
			Cycle:       m.cycleCount,
			Timestamp:   snapshot.Timestamp,
		})
	}
	if snapshot.NovelConnectionCount > 0 && !achieved[pentagram.MilestoneFirstCrossDomain] {
		m.milestones = append(m.milestones, pentagram.Milestone{
			Type:        pentagram.MilestoneFirstCrossDomain,
			Description: "first cross-domain connection",
			Cycle:       m.cycleCount,
			Timestamp:   snapshot.Timestamp,
		})
	}
	if snapshot.SelfReferenceDepth >= 3 && !achieved[pentagram.MilestoneDeepSelfReference] {
		m.milestones = append(m.milestones, pentagram.Milestone{
			Type:        pentagram.MilestoneDeepSelfReference,
			Description: "self-reference depth 3+ reached for the first time",
			Cycle:       m.cycleCount,
			Timestamp:   snapshot.Timestamp,
		})
	}
}

func extractSelfReferenceDepth(vote pentagram.VertexVote) int {
	if vote.Mirror == nil {
		return 0
	}
	return vote.Mirror.SelfReferenceDepth
}

func extractNovelConnections(vote pentagram.VertexVote) int {
	if vote.Garden == nil {
		return 0
	}
	var count int
	for _, p := range vote.Garden.Patterns {
		if p.CrossDomain {
			count++
		}
	}
	return count
}

func extractSelfModelUpdates(vote pentagram.VertexVote) int {
	return len(pentagram.FilterProposalsByType(vote.ActionProposals, "update_self_model"))
}

func extractContinuity(vote pentagram.VertexVote) float64 {
	if vote.Ledger == nil {
		return 0
	}
	continuity := float64(vote.Ledger.RetrievalCount) / 5.0
	if continuity > 1.0 {
		return 1.0
	}
	return continuity
}

func extractMetaCognitive(vote pentagram.VertexVote) bool {
	if vote.Mirror == nil {
		return false
	}
	return vote.Mirror.MetaCognitiveMoment
}

func avgScore(votes map[pentagram.VertexName]pentagram.VertexVote) float64 {
	if len(votes) == 0 {
		return 0
	}
	var sum float64
	for _, v := range votes {
		sum += v.Score
	}
	return sum / float64(len(votes))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round(v float64, places int) float64 {
	factor := 1.0
	for i := 0; i < places; i++ {
		factor *= 10
	}
	scaled := v * factor
	if scaled >= 0 {
		return float64(int64(scaled+0.5)) / factor
	}
	return float64(int64(scaled-0.5)) / factor
}
