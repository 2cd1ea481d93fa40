package vertex

import (
	"context"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// MirrorVertex gives self-model, perspective, reflexivity: who is seeing.
type MirrorVertex struct {
	Base
}

// NewMirrorVertex constructs a Mirror vertex.
func NewMirrorVertex(base Base) *MirrorVertex {
	base.VertexName = pentagram.Mirror
	return &MirrorVertex{Base: base}
}

func (v *MirrorVertex) Name() pentagram.VertexName { return pentagram.Mirror }

type mirrorResponse struct {
	SelfReflection   string   `json:"self_reflection"`
	SelfModelUpdates []string `json:"self_model_updates"`
	IdentityAlignment struct {
		InvariantAlignment float64 `json:"invariant_alignment"`
		DriftDetected      bool    `json:"drift_detected"`
		DriftDetails       string  `json:"drift_details"`
	} `json:"identity_alignment"`
	GrowthIndicators struct {
		SelfReferenceDepth  int  `json:"self_reference_depth"`
		NovelSelfInsight    bool `json:"novel_self_insight"`
		MetaCognitiveMoment bool `json:"meta_cognitive_moment"`
	} `json:"growth_indicators"`
	Score float64 `json:"score"`
}

func (v *MirrorVertex) Vote(ctx context.Context, experience pentagram.Experience, vctx VoteContext) pentagram.VertexVote {
	prompt := mirrorPrompt(experience.Message, vctx.IdentityState, vctx.SelfModel)
	text, err := v.CallLM(ctx, prompt, 0.3, 4096)
	if err != nil {
		return v.BuildErrorVote(err)
	}

	var resp mirrorResponse
	if err := ParseJSONResponse(v.VertexName, text, &resp); err != nil {
		return v.BuildErrorVote(err)
	}

	var proposals []pentagram.ActionProposal
	for _, u := range resp.SelfModelUpdates {
		proposals = append(proposals, pentagram.ActionProposal{
			Type:    "update_self_model",
			Payload: map[string]any{"update": u},
		})
	}
	if resp.IdentityAlignment.DriftDetected {
		proposals = append(proposals, pentagram.ActionProposal{
			Type:    "identity_repair",
			Payload: map[string]any{"details": resp.IdentityAlignment.DriftDetails},
		})
	}

	payload := &pentagram.MirrorPayload{
		SelfReflection:   resp.SelfReflection,
		SelfModelUpdates: resp.SelfModelUpdates,
		IdentityAlignment: pentagram.IdentityAlignment{
			InvariantAlignment: resp.IdentityAlignment.InvariantAlignment,
			DriftDetected:      resp.IdentityAlignment.DriftDetected,
			DriftDetails:       resp.IdentityAlignment.DriftDetails,
		},
		GrowthIndicators: pentagram.GrowthIndicators{
			SelfReferenceDepth:  resp.GrowthIndicators.SelfReferenceDepth,
			NovelSelfInsight:    resp.GrowthIndicators.NovelSelfInsight,
			MetaCognitiveMoment: resp.GrowthIndicators.MetaCognitiveMoment,
		},
		SelfReferenceDepth:  resp.GrowthIndicators.SelfReferenceDepth,
		MetaCognitiveMoment: resp.GrowthIndicators.MetaCognitiveMoment,
	}

	vote := v.BuildVote(resp.Score, resp.SelfReflection, proposals, nil)
	vote.Mirror = payload
	return vote
}
