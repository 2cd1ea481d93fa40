package llmprovider

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestGenerateRoutesByPromptKeyword(t *testing.T) {
	p := New()
	ctx := context.Background()

	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"garden", "Please respond as JSON with patterns_detected and themes.", gardenResponse},
		{"mirror", "Describe identity_alignment and growth.", mirrorResponse},
		{"compass", "Assess goal_alignment for this experience.", compassResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Generate(ctx, tt.prompt, 0.3, 4096)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
			var out map[string]any
			if err := json.Unmarshal([]byte(got), &out); err != nil {
				t.Errorf("canned response is not valid JSON: %v", err)
			}
		})
	}
}

func TestGenerateUnrecognizedPromptReturnsError(t *testing.T) {
	p := New()
	_, err := p.Generate(context.Background(), "no matching keyword here", 0.3, 4096)
	if err == nil {
		t.Fatal("expected an error for an unrecognized prompt")
	}
}

func TestGenerateRespectsContextCancellationDuringDelay(t *testing.T) {
	p := &StaticProvider{Delay: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, "patterns_detected", 0.3, 4096)
	if err == nil {
		t.Fatal("expected Generate to respect a cancelled context")
	}
}
