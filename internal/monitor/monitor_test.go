package monitor

import (
	"testing"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

func cycle(selfRefDepth int, crossDomain bool, metaCognitive bool, retrievalCount int, selfModelUpdates int) pentagram.PentagramResult {
	var mirrorProposals []pentagram.ActionProposal
	for i := 0; i < selfModelUpdates; i++ {
		mirrorProposals = append(mirrorProposals, pentagram.ActionProposal{Type: "update_self_model"})
	}

	var gardenPatterns []pentagram.GardenPattern
	if crossDomain {
		gardenPatterns = append(gardenPatterns, pentagram.GardenPattern{CrossDomain: true})
	}

	votes := map[pentagram.VertexName]pentagram.VertexVote{
		pentagram.Mirror: {
			Score:           0.5,
			ActionProposals: mirrorProposals,
			Mirror:          &pentagram.MirrorPayload{SelfReferenceDepth: selfRefDepth, MetaCognitiveMoment: metaCognitive},
		},
		pentagram.Garden: {
			Score:  0.5,
			Garden: &pentagram.GardenPayload{Patterns: gardenPatterns},
		},
		pentagram.Ledger: {
			Score:  0.5,
			Ledger: &pentagram.LedgerPayload{RetrievalCount: retrievalCount},
		},
	}
	return pentagram.PentagramResult{Votes: votes}
}

func TestRecordCycleExtractsSignals(t *testing.T) {
	m := New(10, nil)
	snap := m.RecordCycle(cycle(2, true, true, 10, 1))

	if snap.SelfReferenceDepth != 2 {
		t.Errorf("SelfReferenceDepth = %d, want 2", snap.SelfReferenceDepth)
	}
	if snap.NovelConnectionCount != 1 {
		t.Errorf("NovelConnectionCount = %d, want 1", snap.NovelConnectionCount)
	}
	if !snap.MetaCognitiveMoment {
		t.Error("MetaCognitiveMoment = false, want true")
	}
	if snap.SelfModelUpdates != 1 {
		t.Errorf("SelfModelUpdates = %d, want 1", snap.SelfModelUpdates)
	}
	if snap.CrossSessionContinuity != 1.0 {
		t.Errorf("CrossSessionContinuity = %v, want 1.0 (capped, retrieval_count=10)", snap.CrossSessionContinuity)
	}
}

func TestGetDevelopmentLevelEmptyWindowDefault(t *testing.T) {
	m := New(10, nil)
	level := m.GetDevelopmentLevel()
	if level.Level != 0.05 || level.Trend != pentagram.TrendStable || level.Confidence != 0.0 {
		t.Fatalf("GetDevelopmentLevel() = %+v, want empty-window default", level)
	}
}

func TestGetDevelopmentLevelBoundedAndConfident(t *testing.T) {
	m := New(60, nil)
	for i := 0; i < 55; i++ {
		m.RecordCycle(cycle(5, true, true, 10, 2))
	}
	level := m.GetDevelopmentLevel()
	if level.Level < 0.05 || level.Level > 0.15 {
		t.Fatalf("Level = %v, want within [0.05, 0.15]", level.Level)
	}
	if level.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0 once 50+ snapshots recorded", level.Confidence)
	}
}

func TestGetDevelopmentLevelDetectsGrowingTrend(t *testing.T) {
	m := New(30, nil)
	for i := 0; i < 10; i++ {
		m.RecordCycle(cycle(0, false, false, 0, 0))
	}
	for i := 0; i < 10; i++ {
		m.RecordCycle(cycle(5, true, true, 10, 2))
	}
	level := m.GetDevelopmentLevel()
	if level.Trend != pentagram.TrendGrowing {
		t.Errorf("Trend = %q, want growing", level.Trend)
	}
}

func TestCheckMilestonesFireOnceInOrder(t *testing.T) {
	m := New(10, nil)
	m.RecordCycle(cycle(3, true, true, 0, 0))
	m.RecordCycle(cycle(3, true, true, 0, 0))

	milestones := m.Milestones()
	if len(milestones) != 3 {
		t.Fatalf("len(milestones) = %d, want 3 (first occurrence only across both cycles)", len(milestones))
	}

	wantOrder := []pentagram.MilestoneType{
		pentagram.MilestoneFirstMetaCognitive,
		pentagram.MilestoneFirstCrossDomain,
		pentagram.MilestoneDeepSelfReference,
	}
	for i, want := range wantOrder {
		if milestones[i].Type != want {
			t.Errorf("milestones[%d].Type = %q, want %q", i, milestones[i].Type, want)
		}
	}
}

func TestWindowEvictsBeyondCapacity(t *testing.T) {
	m := New(3, nil)
	for i := 0; i < 5; i++ {
		m.RecordCycle(cycle(0, false, false, 0, 0))
	}
	if len(m.snapshots) != 3 {
		t.Errorf("len(snapshots) = %d, want 3", len(m.snapshots))
	}
	if m.CycleCount() != 5 {
		t.Errorf("CycleCount() = %d, want 5 (unbounded by window)", m.CycleCount())
	}
}
