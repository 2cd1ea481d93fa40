package vertex

import (
	"context"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// LedgerVertex gives persistence, lineage, and auditability: what happened.
// It makes no LM call in the hot path.
type LedgerVertex struct {
	Base
	Memory MemoryStore
}

// NewLedgerVertex constructs a Ledger vertex backed by the given memory store.
func NewLedgerVertex(base Base, memory MemoryStore) *LedgerVertex {
	base.VertexName = pentagram.Ledger
	return &LedgerVertex{Base: base, Memory: memory}
}

func (v *LedgerVertex) Name() pentagram.VertexName { return pentagram.Ledger }

func (v *LedgerVertex) Vote(ctx context.Context, experience pentagram.Experience, _ VoteContext) pentagram.VertexVote {
	payload := &pentagram.LedgerPayload{StoreQueued: true}

	topK := experience.RetrieveTopK
	if topK <= 0 {
		topK = 5
	}

	if v.Memory != nil {
		memories, err := v.Memory.Retrieve(ctx, experience.Message, experience.UserID, experience.GroupID, topK, pentagram.RetrieveHybrid)
		if err != nil {
			v.Log.Warn("retrieval failed, degrading to empty result", "error", err.Error())
			payload.RetrievedMemories = []pentagram.MemoryGroup{}
		} else {
			payload.RetrievedMemories = memories
		}
	} else {
		payload.RetrievedMemories = []pentagram.MemoryGroup{}
	}
	payload.RetrievalCount = len(payload.RetrievedMemories)

	vote := v.BuildVote(
		1.0,
		"Ledger always records: persistence and auditability are non-negotiable.",
		[]pentagram.ActionProposal{{Type: "store", Payload: map[string]any{"target": "memorize_pipeline"}}},
		nil,
	)
	vote.Ledger = payload
	return vote
}
