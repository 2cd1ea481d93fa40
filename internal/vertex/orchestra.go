package vertex

import (
	"context"
	"strings"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// OrchestraVertex gives alignment, shared reality, synchronization: with
// what. It is rule-based and never calls an LM; it shapes expression, not
// content importance, so its score is fixed.
type OrchestraVertex struct {
	Base
}

// NewOrchestraVertex constructs an Orchestra vertex.
func NewOrchestraVertex(base Base) *OrchestraVertex {
	base.VertexName = pentagram.Orchestra
	return &OrchestraVertex{Base: base}
}

func (v *OrchestraVertex) Name() pentagram.VertexName { return pentagram.Orchestra }

const orchestraScore = 0.5

func (v *OrchestraVertex) Vote(_ context.Context, _ pentagram.Experience, vctx VoteContext) pentagram.VertexVote {
	mirrorVote, hasMirror := vctx.OtherVotes[pentagram.Mirror]

	driftDetected := false
	if hasMirror && mirrorVote.Mirror != nil && mirrorVote.Mirror.IdentityAlignment.DriftDetected {
		driftDetected = true
	}
	if !driftDetected && hasMirror {
		for _, obs := range mirrorVote.Observations {
			if strings.Contains(obs, "DRIFT") {
				driftDetected = true
				break
			}
		}
	}

	var tone string
	shareSelf := false
	var reasoning string
	significantGrowth := false

	switch {
	case driftDetected:
		tone = "reflective_concerned"
		shareSelf = true
		reasoning = "Mirror flagged identity drift; expressing with reflective concern."
	case hasAnyScoreAbove(vctx.OtherVotes, 0.6):
		tone = "engaged_exploratory"
		shareSelf = true
		significantGrowth = true
		reasoning = "At least one faculty found this experience highly significant; expressing with engaged curiosity."
	default:
		tone = "natural_conversational"
		shareSelf = false
		reasoning = "Nothing in this cycle warrants a departure from natural conversation."
	}

	proposal := pentagram.ActionProposal{
		Type: "expression_guidance",
		Payload: map[string]any{
			"tone":                    tone,
			"share_self_observations": shareSelf,
			"include_meta":            driftDetected,
		},
	}

	vote := v.BuildVote(orchestraScore, reasoning, []pentagram.ActionProposal{proposal}, nil)
	vote.Orchestra = &pentagram.OrchestraPayload{
		ExpressionTone:        tone,
		ShareSelfObservations: shareSelf,
		HasSignificantGrowth:  significantGrowth,
		HasDrift:              driftDetected,
	}
	return vote
}

func hasAnyScoreAbove(votes map[pentagram.VertexName]pentagram.VertexVote, threshold float64) bool {
	for name, vote := range votes {
		if name == pentagram.Orchestra {
			continue
		}
		if vote.Score > threshold {
			return true
		}
	}
	return false
}
