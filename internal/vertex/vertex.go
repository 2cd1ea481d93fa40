// Package vertex implements the five Pentagram cognitive faculties and the
// shared runtime they embed for LM invocation and resilient JSON parsing.
package vertex

import (
	"context"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// LMProvider is the capability every LM-driven vertex calls through.
type LMProvider interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// MemoryStore is the capability the Ledger vertex calls through.
type MemoryStore interface {
	Store(ctx context.Context, experience pentagram.Experience) error
	Retrieve(ctx context.Context, query, userID, groupID string, topK int, method pentagram.RetrieveMethod) ([]pentagram.MemoryGroup, error)
}

// VoteContext is the vertex-specific context view the Kernel builds for
// each faculty on each phase.
type VoteContext struct {
	IdentityState  *pentagram.IdentityState
	SelfModel      map[string]any
	LedgerContext  *pentagram.LedgerPayload
	GardenContext  *pentagram.GardenPayload
	GardenPatterns []pentagram.GardenPattern
	OtherVotes     map[pentagram.VertexName]pentagram.VertexVote
}

// Vertex is the single capability every Pentagram faculty implements.
type Vertex interface {
	Name() pentagram.VertexName
	Vote(ctx context.Context, experience pentagram.Experience, vctx VoteContext) pentagram.VertexVote
}
