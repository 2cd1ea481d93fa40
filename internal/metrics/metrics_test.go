package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

func TestObserveCyclePartialStatusWithoutSynthesis(t *testing.T) {
	m := NewMetrics()

	result := pentagram.PentagramResult{
		Votes: map[pentagram.VertexName]pentagram.VertexVote{
			pentagram.Garden: {Score: 0.7},
		},
		Tensions: []pentagram.Tension{{Dimension: "store_vs_prune", Magnitude: 0.8}},
	}
	m.ObserveCycle(result)

	if got := testutil.ToFloat64(m.CyclesTotal.WithLabelValues("partial")); got != 1 {
		t.Errorf("CyclesTotal[partial] = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.VertexVotesTotal.WithLabelValues("garden", "ok")); got != 1 {
		t.Errorf("VertexVotesTotal[garden,ok] = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.TensionsTotal.WithLabelValues("store_vs_prune")); got != 1 {
		t.Errorf("TensionsTotal[store_vs_prune] = %v, want 1", got)
	}
}

func TestObserveCycleSuccessStatusRequiresSynthesisAndFourVotes(t *testing.T) {
	m := NewMetrics()
	votes := map[pentagram.VertexName]pentagram.VertexVote{}
	for _, name := range []pentagram.VertexName{pentagram.Ledger, pentagram.Garden, pentagram.Mirror, pentagram.Compass} {
		votes[name] = pentagram.VertexVote{VertexName: name, Score: 0.6}
	}
	result := pentagram.PentagramResult{
		Votes:     votes,
		Synthesis: &pentagram.KernelSynthesis{Reasoning: "integrated"},
	}
	m.ObserveCycle(result)

	if got := testutil.ToFloat64(m.CyclesTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("CyclesTotal[success] = %v, want 1", got)
	}
}

func TestObserveCycleMarksErrorStatusWhenNoVoteSucceeds(t *testing.T) {
	m := NewMetrics()
	result := pentagram.PentagramResult{
		Errors: []pentagram.CycleError{{Vertex: pentagram.Ledger, Error: "boom"}},
		Votes: map[pentagram.VertexName]pentagram.VertexVote{
			pentagram.Ledger: {Score: 0, Extras: map[string]any{"error": true}},
		},
	}
	m.ObserveCycle(result)

	if got := testutil.ToFloat64(m.CyclesTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("CyclesTotal[error] = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.VertexVotesTotal.WithLabelValues("ledger", "error")); got != 1 {
		t.Errorf("VertexVotesTotal[ledger,error] = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.VertexScore); got != 0 {
		t.Errorf("VertexScore series count = %v, want 0 observations for an error vote", got)
	}
}

func TestObserveDriftSetsGauge(t *testing.T) {
	m := NewMetrics()
	m.ObserveDrift(pentagram.DriftReport{DeviationScore: 0.42})
	if got := testutil.ToFloat64(m.DriftDeviationScore); got != 0.42 {
		t.Errorf("DriftDeviationScore = %v, want 0.42", got)
	}
}

func TestObserveIdentityChangeCountsByStatus(t *testing.T) {
	m := NewMetrics()
	m.ObserveIdentityChange(pentagram.ValidationResult{Status: pentagram.StatusApproved})
	if got := testutil.ToFloat64(m.IdentityChangesTotal.WithLabelValues(string(pentagram.StatusApproved))); got != 1 {
		t.Errorf("IdentityChangesTotal[approved] = %v, want 1", got)
	}
}

func TestNoopSinkDiscardsObservations(t *testing.T) {
	var s Sink = NoopSink{}
	s.ObserveCycle(pentagram.PentagramResult{})
	s.ObserveDevelopmentLevel(0.1)
	s.ObserveDrift(pentagram.DriftReport{})
	s.ObserveIdentityChange(pentagram.ValidationResult{})
}
