package vertex

import (
	"context"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// GardenVertex gives consolidation, pruning, and abstraction: what it means.
type GardenVertex struct {
	Base
}

// NewGardenVertex constructs a Garden vertex.
func NewGardenVertex(base Base) *GardenVertex {
	base.VertexName = pentagram.Garden
	return &GardenVertex{Base: base}
}

func (v *GardenVertex) Name() pentagram.VertexName { return pentagram.Garden }

type gardenResponse struct {
	PatternsDetected []struct {
		Pattern      string  `json:"pattern"`
		Significance float64 `json:"significance"`
		CrossDomain  bool    `json:"cross_domain"`
		Recurring    bool    `json:"recurring"`
	} `json:"patterns_detected"`
	Themes                 []string `json:"themes"`
	ConnectionsToExisting  []string `json:"connections_to_existing"`
	PruningRecommendations []struct {
		What   string `json:"what"`
		Reason string `json:"reason"`
	} `json:"pruning_recommendations"`
	ImportanceScore float64 `json:"importance_score"`
	Reasoning       string  `json:"reasoning"`
}

func (v *GardenVertex) Vote(ctx context.Context, experience pentagram.Experience, vctx VoteContext) pentagram.VertexVote {
	var ledgerMemories []pentagram.MemoryGroup
	if vctx.LedgerContext != nil {
		ledgerMemories = vctx.LedgerContext.RetrievedMemories
	}

	prompt := gardenPrompt(experience.Message, ledgerMemories)
	text, err := v.CallLM(ctx, prompt, 0.3, 4096)
	if err != nil {
		return v.BuildErrorVote(err)
	}

	var resp gardenResponse
	if err := ParseJSONResponse(v.VertexName, text, &resp); err != nil {
		return v.BuildErrorVote(err)
	}

	payload := &pentagram.GardenPayload{
		Themes:      resp.Themes,
		Connections: resp.ConnectionsToExisting,
	}

	var proposals []pentagram.ActionProposal
	for _, p := range resp.PatternsDetected {
		payload.Patterns = append(payload.Patterns, pentagram.GardenPattern{
			Pattern:      p.Pattern,
			Significance: p.Significance,
			CrossDomain:  p.CrossDomain,
			Recurring:    p.Recurring,
		})
		if p.Significance > 0.5 {
			proposals = append(proposals, pentagram.ActionProposal{
				Type:    "consolidate_pattern",
				Payload: map[string]any{"pattern": p.Pattern, "significance": p.Significance},
			})
		}
	}
	for _, pr := range resp.PruningRecommendations {
		payload.PruningRecommendations = append(payload.PruningRecommendations, pentagram.GardenPruningRecommendation{
			What: pr.What, Reason: pr.Reason,
		})
		proposals = append(proposals, pentagram.ActionProposal{
			Type:    "prune",
			Payload: map[string]any{"what": pr.What, "reason": pr.Reason},
		})
	}

	vote := v.BuildVote(resp.ImportanceScore, resp.Reasoning, proposals, nil)
	vote.Garden = payload
	return vote
}
