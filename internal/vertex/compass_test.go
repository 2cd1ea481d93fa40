package vertex

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

func TestCompassVoteParsesValueAndGoalAlignment(t *testing.T) {
	lm := stubLM{text: `{
		"value_assessment": {"growth_contribution": 0.6, "reasoning": "advances a long-term goal", "domains_advanced": ["self-understanding"]},
		"predictions": ["will likely surface again next session"],
		"goal_alignment": {"alignment_score": 0.85, "misalignment_flags": []},
		"suggested_directions": ["ask a clarifying follow-up"],
		"score": 0.6
	}`}
	v := NewCompassVertex(NewBase(pentagram.Compass, lm, nil))

	vote := v.Vote(context.Background(), pentagram.Experience{Message: "hi"}, VoteContext{})
	if vote.Compass == nil {
		t.Fatal("expected Compass payload")
	}
	if vote.Compass.GoalAlignment.AlignmentScore != 0.85 {
		t.Errorf("AlignmentScore = %v, want 0.85", vote.Compass.GoalAlignment.AlignmentScore)
	}
	if !pentagram.HasType(vote.ActionProposals, "pursue_direction") {
		t.Error("expected a pursue_direction proposal per suggested direction")
	}
	if vote.Score != 0.6 {
		t.Errorf("Score = %v, want 0.6", vote.Score)
	}
}

func TestCompassVoteReturnsErrorVoteOnLMFailure(t *testing.T) {
	lm := stubLM{err: errors.New("lm unavailable")}
	v := NewCompassVertex(NewBase(pentagram.Compass, lm, nil))

	vote := v.Vote(context.Background(), pentagram.Experience{Message: "hi"}, VoteContext{})
	if vote.Extras["error"] != true {
		t.Error("expected an error vote when the LM call fails")
	}
}
