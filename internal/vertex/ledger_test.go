package vertex

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

type stubMemory struct {
	memories []pentagram.MemoryGroup
	err      error
}

func (s stubMemory) Store(_ context.Context, _ pentagram.Experience) error { return nil }

func (s stubMemory) Retrieve(_ context.Context, _, _, _ string, _ int, _ pentagram.RetrieveMethod) ([]pentagram.MemoryGroup, error) {
	return s.memories, s.err
}

func TestLedgerVoteRetrievesMemories(t *testing.T) {
	mem := stubMemory{memories: []pentagram.MemoryGroup{{}, {}}}
	v := NewLedgerVertex(NewBase(pentagram.Ledger, nil, nil), mem)

	vote := v.Vote(context.Background(), pentagram.Experience{Message: "hello"}, VoteContext{})
	if vote.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0 (ledger always records)", vote.Score)
	}
	if vote.Ledger == nil {
		t.Fatal("expected Ledger payload to be set")
	}
	if vote.Ledger.RetrievalCount != 2 {
		t.Errorf("RetrievalCount = %d, want 2", vote.Ledger.RetrievalCount)
	}
	if !pentagram.HasType(vote.ActionProposals, "store") {
		t.Error("expected a store proposal")
	}
}

func TestLedgerVoteDegradesGracefullyOnRetrievalFailure(t *testing.T) {
	mem := stubMemory{err: errors.New("store unavailable")}
	v := NewLedgerVertex(NewBase(pentagram.Ledger, nil, nil), mem)

	vote := v.Vote(context.Background(), pentagram.Experience{Message: "hello"}, VoteContext{})
	if vote.Ledger == nil {
		t.Fatal("expected Ledger payload even on retrieval failure")
	}
	if vote.Ledger.RetrievalCount != 0 {
		t.Errorf("RetrievalCount = %d, want 0 on failure", vote.Ledger.RetrievalCount)
	}
}

func TestLedgerVoteWithNilMemoryStore(t *testing.T) {
	v := NewLedgerVertex(NewBase(pentagram.Ledger, nil, nil), nil)
	vote := v.Vote(context.Background(), pentagram.Experience{Message: "hello"}, VoteContext{})
	if vote.Ledger.RetrievalCount != 0 {
		t.Errorf("RetrievalCount = %d, want 0 with nil memory store", vote.Ledger.RetrievalCount)
	}
}
