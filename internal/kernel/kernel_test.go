package kernel

import (
	"context"
	"testing"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/vertex"
)

type fakeVertex struct {
	name  pentagram.VertexName
	score float64
	panic bool
}

func (f fakeVertex) Name() pentagram.VertexName { return f.name }

func (f fakeVertex) Vote(_ context.Context, _ pentagram.Experience, _ vertex.VoteContext) pentagram.VertexVote {
	if f.panic {
		panic("simulated vertex failure")
	}
	return pentagram.VertexVote{VertexName: f.name, Score: f.score}
}

func allFakeVertices(overrideScore float64) []vertex.Vertex {
	return []vertex.Vertex{
		fakeVertex{name: pentagram.Ledger, score: overrideScore},
		fakeVertex{name: pentagram.Garden, score: overrideScore},
		fakeVertex{name: pentagram.Mirror, score: overrideScore},
		fakeVertex{name: pentagram.Compass, score: overrideScore},
		fakeVertex{name: pentagram.Orchestra, score: overrideScore},
	}
}

func TestIsCompleteFalseUntilAllFiveRegistered(t *testing.T) {
	k := New(nil, nil)
	if k.IsComplete() {
		t.Fatal("expected IsComplete() false on an empty kernel")
	}
	for _, v := range allFakeVertices(0.5)[:4] {
		k.RegisterVertex(v)
	}
	if k.IsComplete() {
		t.Fatal("expected IsComplete() false with only four of five vertices registered")
	}
	k.RegisterVertex(allFakeVertices(0.5)[4])
	if !k.IsComplete() {
		t.Fatal("expected IsComplete() true once all five are registered")
	}
}

func TestProcessRunsAllFiveVerticesAndSynthesizes(t *testing.T) {
	k := New(nil, nil)
	for _, v := range allFakeVertices(0.7) {
		k.RegisterVertex(v)
	}

	result := k.Process(context.Background(), pentagram.Experience{Message: "hello"}, nil)
	if len(result.Votes) != 5 {
		t.Fatalf("len(Votes) = %d, want 5", len(result.Votes))
	}
	if !result.HasSynthesis() {
		t.Fatal("expected a synthesis to be produced")
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
}

func TestProcessRecoversFromPanickingVertex(t *testing.T) {
	k := New(nil, nil)
	k.RegisterVertex(fakeVertex{name: pentagram.Ledger, panic: true})
	k.RegisterVertex(fakeVertex{name: pentagram.Garden, score: 0.5})
	k.RegisterVertex(fakeVertex{name: pentagram.Mirror, score: 0.5})
	k.RegisterVertex(fakeVertex{name: pentagram.Compass, score: 0.5})
	k.RegisterVertex(fakeVertex{name: pentagram.Orchestra, score: 0.5})

	result := k.Process(context.Background(), pentagram.Experience{Message: "hello"}, nil)

	ledgerVote, ok := result.Votes[pentagram.Ledger]
	if !ok {
		t.Fatal("expected a substituted vote for the panicking Ledger vertex")
	}
	if !ledgerVote.IsError() {
		t.Error("expected the substituted vote to be an error vote")
	}
	if len(result.Errors) != 1 || result.Errors[0].Vertex != pentagram.Ledger {
		t.Errorf("Errors = %+v, want one entry for Ledger", result.Errors)
	}
}

func TestProcessMissingVertexIsSkippedNotCrashed(t *testing.T) {
	k := New(nil, nil)
	k.RegisterVertex(fakeVertex{name: pentagram.Garden, score: 0.5})
	k.RegisterVertex(fakeVertex{name: pentagram.Orchestra, score: 0.5})

	result := k.Process(context.Background(), pentagram.Experience{Message: "hello"}, nil)
	if _, ok := result.Votes[pentagram.Ledger]; ok {
		t.Error("did not expect a vote for an unregistered vertex")
	}
	if _, ok := result.Votes[pentagram.Garden]; !ok {
		t.Error("expected a vote for the registered Garden vertex")
	}
}

func TestProcessHeuristicSynthesisWithoutLM(t *testing.T) {
	k := New(nil, nil)
	for _, v := range allFakeVertices(0.8) {
		k.RegisterVertex(v)
	}
	result := k.Process(context.Background(), pentagram.Experience{Message: "hello"}, nil)
	if result.Synthesis.Reasoning == "" {
		t.Fatal("expected heuristic synthesis to set a reasoning string")
	}
}
