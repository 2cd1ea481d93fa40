package vertex

import (
	"context"
	"testing"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

func TestMirrorVoteParsesGrowthAndAlignment(t *testing.T) {
	lm := stubLM{text: `{
		"self_reflection": "I notice I am referencing my own prior reasoning.",
		"self_model_updates": ["values curiosity over certainty"],
		"identity_alignment": {"invariant_alignment": 0.4, "drift_detected": true, "drift_details": "tone diverged from baseline"},
		"growth_indicators": {"self_reference_depth": 3, "novel_self_insight": true, "meta_cognitive_moment": true},
		"score": 0.65
	}`}
	v := NewMirrorVertex(NewBase(pentagram.Mirror, lm, nil))

	vote := v.Vote(context.Background(), pentagram.Experience{Message: "hi"}, VoteContext{})
	if vote.Mirror == nil {
		t.Fatal("expected Mirror payload")
	}
	if vote.Mirror.SelfReferenceDepth != 3 {
		t.Errorf("SelfReferenceDepth = %d, want 3", vote.Mirror.SelfReferenceDepth)
	}
	if !vote.Mirror.MetaCognitiveMoment {
		t.Error("expected MetaCognitiveMoment = true")
	}
	if !pentagram.HasType(vote.ActionProposals, "update_self_model") {
		t.Error("expected an update_self_model proposal")
	}
	if !pentagram.HasType(vote.ActionProposals, "identity_repair") {
		t.Error("expected an identity_repair proposal when drift is detected")
	}
}

func TestMirrorVoteNoDriftSkipsRepairProposal(t *testing.T) {
	lm := stubLM{text: `{
		"self_reflection": "Nothing unusual here.",
		"self_model_updates": [],
		"identity_alignment": {"invariant_alignment": 0.95, "drift_detected": false, "drift_details": ""},
		"growth_indicators": {"self_reference_depth": 0, "novel_self_insight": false, "meta_cognitive_moment": false},
		"score": 0.4
	}`}
	v := NewMirrorVertex(NewBase(pentagram.Mirror, lm, nil))

	vote := v.Vote(context.Background(), pentagram.Experience{Message: "hi"}, VoteContext{})
	if pentagram.HasType(vote.ActionProposals, "identity_repair") {
		t.Error("did not expect identity_repair proposal when no drift detected")
	}
}
