package kernel

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/vertex"
)

type synthesisResponse struct {
	Decision    map[string]any `json:"decision"`
	GrowthDelta float64        `json:"growth_delta"`
	Reasoning   string         `json:"reasoning"`
}

// synthesize resolves the cycle's tensions into a single KernelSynthesis.
// It prefers LM mode when an LM provider is configured, falling back to the
// deterministic heuristic on any LM or parse failure.
func (k *Kernel) synthesize(ctx context.Context, votes map[pentagram.VertexName]pentagram.VertexVote, tensions []pentagram.Tension) pentagram.KernelSynthesis {
	if k.lm != nil {
		if synthesis, ok := k.synthesizeLM(ctx, votes, tensions); ok {
			return synthesis
		}
	}
	return k.synthesizeHeuristic(votes, tensions)
}

func (k *Kernel) synthesizeLM(ctx context.Context, votes map[pentagram.VertexName]pentagram.VertexVote, tensions []pentagram.Tension) (pentagram.KernelSynthesis, bool) {
	prompt := synthesisPrompt(votes, tensions)
	text, err := k.lm.Generate(ctx, prompt, 0.3, 2048)
	if err != nil {
		k.log.Warn("synthesis LM call failed, falling back to heuristic", "error", err.Error())
		return pentagram.KernelSynthesis{}, false
	}

	var resp synthesisResponse
	if err := vertex.ParseJSONResponse(pentagram.VertexName("kernel_synthesis"), text, &resp); err != nil {
		k.log.Warn("synthesis JSON parse failed, falling back to heuristic", "error", err.Error())
		return pentagram.KernelSynthesis{}, false
	}

	growthDelta := resp.GrowthDelta
	if growthDelta < 0 {
		growthDelta = 0
	}
	if growthDelta > 0.1 {
		growthDelta = 0.1
	}

	return pentagram.KernelSynthesis{
		Decision:         resp.Decision,
		TensionsResolved: tensions,
		GrowthDelta:      growthDelta,
		IdentityUpdates:  mirrorSelfModelUpdates(votes),
		ResponseGuidance: responseGuidance(votes),
		Reasoning:        resp.Reasoning,
	}, true
}

func (k *Kernel) synthesizeHeuristic(votes map[pentagram.VertexName]pentagram.VertexVote, tensions []pentagram.Tension) pentagram.KernelSynthesis {
	var sum float64
	var proposalCount int
	for _, vote := range votes {
		sum += vote.Score
		proposalCount += len(vote.ActionProposals)
	}
	avg := 0.0
	if len(votes) > 0 {
		avg = sum / float64(len(votes))
	}

	decision := map[string]any{
		"action":        "process_and_store",
		"avg_importance": round(avg, 3),
		"proposal_count": proposalCount,
	}

	return pentagram.KernelSynthesis{
		Decision:         decision,
		TensionsResolved: tensions,
		GrowthDelta:      round(avg*0.1, 4),
		IdentityUpdates:  mirrorSelfModelUpdates(votes),
		ResponseGuidance: responseGuidance(votes),
		Reasoning:        "Heuristic synthesis: no LM configured or LM synthesis failed.",
	}
}

func mirrorSelfModelUpdates(votes map[pentagram.VertexName]pentagram.VertexVote) []pentagram.ActionProposal {
	mirror, ok := votes[pentagram.Mirror]
	if !ok {
		return nil
	}
	var updates []pentagram.ActionProposal
	for _, p := range mirror.ActionProposals {
		if p.Type == "update_self_model" {
			updates = append(updates, p)
		}
	}
	return updates
}

func responseGuidance(votes map[pentagram.VertexName]pentagram.VertexVote) map[string]any {
	tone := "natural"
	shareSelf := false
	if orchestra, ok := votes[pentagram.Orchestra]; ok && orchestra.Orchestra != nil {
		tone = orchestra.Orchestra.ExpressionTone
		shareSelf = orchestra.Orchestra.ShareSelfObservations
	}
	return map[string]any{"tone": tone, "share_self": shareSelf}
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func synthesisPrompt(votes map[pentagram.VertexName]pentagram.VertexVote, tensions []pentagram.Tension) string {
	var sb strings.Builder
	sb.WriteString("You are the Metabolic Kernel synthesizing five faculty votes into one decision.\n\n")
	for _, name := range pentagram.AllVertices() {
		vote, ok := votes[name]
		if !ok {
			continue
		}
		reasoning := vote.Reasoning
		if len(reasoning) > 150 {
			reasoning = reasoning[:150]
		}
		sb.WriteString(fmt.Sprintf("- %s: score=%.2f, reasoning=%s\n", name, vote.Score, reasoning))
	}

	if len(tensions) > 0 {
		sb.WriteString("\nTensions:\n")
		for _, t := range tensions {
			sb.WriteString(fmt.Sprintf("  - %s vs %s (%s): magnitude=%.2f — %s\n",
				t.VertexA, t.VertexB, t.Dimension, t.Magnitude, t.ResolutionHint))
		}
	}

	sb.WriteString("\nRespond as JSON: {\"decision\":{...},\"growth_delta\":float,\"reasoning\":str}\n")
	return sb.String()
}
