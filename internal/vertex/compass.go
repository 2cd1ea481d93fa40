package vertex

import (
	"context"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// CompassVertex gives priority, ethics, teleology: why to act.
type CompassVertex struct {
	Base
}

// NewCompassVertex constructs a Compass vertex.
func NewCompassVertex(base Base) *CompassVertex {
	base.VertexName = pentagram.Compass
	return &CompassVertex{Base: base}
}

func (v *CompassVertex) Name() pentagram.VertexName { return pentagram.Compass }

type compassResponse struct {
	ValueAssessment struct {
		GrowthContribution float64  `json:"growth_contribution"`
		Reasoning          string   `json:"reasoning"`
		DomainsAdvanced    []string `json:"domains_advanced"`
	} `json:"value_assessment"`
	Predictions   []string `json:"predictions"`
	GoalAlignment struct {
		AlignmentScore    float64  `json:"alignment_score"`
		MisalignmentFlags []string `json:"misalignment_flags"`
	} `json:"goal_alignment"`
	SuggestedDirections []string `json:"suggested_directions"`
	Score               float64  `json:"score"`
}

func (v *CompassVertex) Vote(ctx context.Context, experience pentagram.Experience, vctx VoteContext) pentagram.VertexVote {
	prompt := compassPrompt(experience.Message, vctx.GardenPatterns, vctx.IdentityState)
	text, err := v.CallLM(ctx, prompt, 0.3, 4096)
	if err != nil {
		return v.BuildErrorVote(err)
	}

	var resp compassResponse
	if err := ParseJSONResponse(v.VertexName, text, &resp); err != nil {
		return v.BuildErrorVote(err)
	}

	var proposals []pentagram.ActionProposal
	for _, d := range resp.SuggestedDirections {
		proposals = append(proposals, pentagram.ActionProposal{
			Type:    "pursue_direction",
			Payload: map[string]any{"direction": d},
		})
	}

	payload := &pentagram.CompassPayload{
		ValueAssessment: pentagram.ValueAssessment{
			GrowthContribution: resp.ValueAssessment.GrowthContribution,
			Reasoning:          resp.ValueAssessment.Reasoning,
			DomainsAdvanced:    resp.ValueAssessment.DomainsAdvanced,
		},
		Predictions: resp.Predictions,
		GoalAlignment: pentagram.GoalAlignment{
			AlignmentScore:    resp.GoalAlignment.AlignmentScore,
			MisalignmentFlags: resp.GoalAlignment.MisalignmentFlags,
		},
		SuggestedDirections: resp.SuggestedDirections,
	}

	vote := v.BuildVote(resp.Score, resp.ValueAssessment.Reasoning, proposals, nil)
	vote.Compass = payload
	return vote
}
