package vertex

import (
	"context"
	"testing"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

func TestOrchestraVoteReflectsDriftFromMirror(t *testing.T) {
	v := NewOrchestraVertex(NewBase(pentagram.Orchestra, nil, nil))
	vctx := VoteContext{
		OtherVotes: map[pentagram.VertexName]pentagram.VertexVote{
			pentagram.Mirror: {
				Mirror: &pentagram.MirrorPayload{IdentityAlignment: pentagram.IdentityAlignment{DriftDetected: true}},
			},
		},
	}
	vote := v.Vote(context.Background(), pentagram.Experience{}, vctx)
	if vote.Orchestra == nil || !vote.Orchestra.HasDrift {
		t.Fatalf("Orchestra = %+v, want HasDrift true", vote.Orchestra)
	}
	if vote.Orchestra.ExpressionTone != "reflective_concerned" {
		t.Errorf("ExpressionTone = %q, want reflective_concerned", vote.Orchestra.ExpressionTone)
	}
}

func TestOrchestraVoteEngagedWhenAnotherVertexScoresHigh(t *testing.T) {
	v := NewOrchestraVertex(NewBase(pentagram.Orchestra, nil, nil))
	vctx := VoteContext{
		OtherVotes: map[pentagram.VertexName]pentagram.VertexVote{
			pentagram.Garden: {Score: 0.8},
		},
	}
	vote := v.Vote(context.Background(), pentagram.Experience{}, vctx)
	if vote.Orchestra.ExpressionTone != "engaged_exploratory" {
		t.Errorf("ExpressionTone = %q, want engaged_exploratory", vote.Orchestra.ExpressionTone)
	}
	if !vote.Orchestra.HasSignificantGrowth {
		t.Error("expected HasSignificantGrowth = true")
	}
}

func TestOrchestraVoteNaturalByDefault(t *testing.T) {
	v := NewOrchestraVertex(NewBase(pentagram.Orchestra, nil, nil))
	vctx := VoteContext{
		OtherVotes: map[pentagram.VertexName]pentagram.VertexVote{
			pentagram.Garden: {Score: 0.3},
		},
	}
	vote := v.Vote(context.Background(), pentagram.Experience{}, vctx)
	if vote.Orchestra.ExpressionTone != "natural_conversational" {
		t.Errorf("ExpressionTone = %q, want natural_conversational", vote.Orchestra.ExpressionTone)
	}
	if vote.Score != orchestraScore {
		t.Errorf("Score = %v, want fixed %v", vote.Score, orchestraScore)
	}
}

func TestOrchestraVoteIgnoresItsOwnScoreWhenCheckingThreshold(t *testing.T) {
	v := NewOrchestraVertex(NewBase(pentagram.Orchestra, nil, nil))
	vctx := VoteContext{
		OtherVotes: map[pentagram.VertexName]pentagram.VertexVote{
			pentagram.Orchestra: {Score: 0.99},
		},
	}
	vote := v.Vote(context.Background(), pentagram.Experience{}, vctx)
	if vote.Orchestra.ExpressionTone != "natural_conversational" {
		t.Errorf("ExpressionTone = %q, want natural_conversational (Orchestra must not count itself)", vote.Orchestra.ExpressionTone)
	}
}
