// Package llmprovider implements the default LMProvider used when no real
// model backend is configured — a deterministic stub that keeps the
// Pentagram runnable end to end in tests and local demos.
package llmprovider

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StaticProvider answers every prompt with a canned JSON response shaped to
// match whichever vertex prompt it recognizes, selected by keyword sniffing
// the prompt text. It never calls out to a network.
type StaticProvider struct {
	// Delay simulates latency for timing-sensitive tests; zero by default.
	Delay time.Duration
}

// New constructs a StaticProvider with no artificial delay.
func New() *StaticProvider {
	return &StaticProvider{}
}

// Generate implements vertex.LMProvider.
func (p *StaticProvider) Generate(ctx context.Context, prompt string, _ float64, _ int) (string, error) {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch {
	case strings.Contains(prompt, "patterns_detected"):
		return gardenResponse, nil
	case strings.Contains(prompt, "identity_alignment"):
		return mirrorResponse, nil
	case strings.Contains(prompt, "goal_alignment"):
		return compassResponse, nil
	default:
		return "", fmt.Errorf("llmprovider: no canned response recognized for this prompt")
	}
}

const gardenResponse = `{
  "patterns_detected": [
    {"pattern": "recurring curiosity about self-reference", "significance": 0.6, "cross_domain": false, "recurring": true}
  ],
  "themes": ["reflection"],
  "connections_to_existing": [],
  "pruning_recommendations": [],
  "importance_score": 0.55,
  "reasoning": "One recurring, moderately significant pattern observed."
}`

const mirrorResponse = `{
  "self_reflection": "This exchange touches on how I model my own responses.",
  "growth_indicators": {"self_reference_depth": 1, "novel_self_insight": false, "meta_cognitive_moment": false},
  "identity_alignment": {"invariant_alignment": 0.95, "drift_detected": false, "drift_details": ""},
  "self_model_updates": [],
  "score": 0.5
}`

const compassResponse = `{
  "value_assessment": {"growth_contribution": 0.4, "reasoning": "steady, incremental value", "domains_advanced": []},
  "predictions": [],
  "goal_alignment": {"alignment_score": 0.8, "misalignment_flags": []},
  "suggested_directions": [],
  "score": 0.45
}`
