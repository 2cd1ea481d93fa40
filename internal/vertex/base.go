package vertex

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/logging"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// Base is the embeddable runtime every concrete vertex wraps itself around.
// It provides timed LM invocation, resilient JSON extraction, and error-vote
// construction so that no individual vertex needs to reimplement them.
type Base struct {
	VertexName pentagram.VertexName
	LM         LMProvider
	Log        *logging.Logger
}

// NewBase constructs a Base runtime. log may be nil, in which case a no-op
// logger is used.
func NewBase(name pentagram.VertexName, lm LMProvider, log *logging.Logger) Base {
	if log == nil {
		log = logging.Nop()
	}
	return Base{VertexName: name, LM: lm, Log: log.WithField("vertex", string(name))}
}

// CallLM invokes the configured LM provider, recording duration and
// propagating any failure to the caller unchanged.
func (b Base) CallLM(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if b.LM == nil {
		return "", fmt.Errorf("%s vertex: LM provider not configured", b.VertexName)
	}
	start := time.Now()
	text, err := b.LM.Generate(ctx, prompt, temperature, maxTokens)
	duration := time.Since(start)
	if err != nil {
		b.Log.Error("LM call failed", "duration_s", duration.Seconds(), "error", err.Error())
		return "", err
	}
	b.Log.Debug("LM call completed", "duration_s", duration.Seconds(), "chars", len(text))
	return text, nil
}

// BuildVote constructs a standardized VertexVote with score clamped to [0,1].
func (b Base) BuildVote(score float64, reasoning string, proposals []pentagram.ActionProposal, observations []string) pentagram.VertexVote {
	if proposals == nil {
		proposals = []pentagram.ActionProposal{}
	}
	if observations == nil {
		observations = []string{}
	}
	return pentagram.VertexVote{
		VertexName:      b.VertexName,
		Score:           pentagram.ClampScore(score),
		Reasoning:       reasoning,
		ActionProposals: proposals,
		Observations:    observations,
		Timestamp:       time.Now().UTC(),
	}
}

// BuildErrorVote constructs the minimal fallback vote the Kernel substitutes
// when a vertex's Vote implementation fails. It never returns an error
// itself — callers use it from inside a recover() or error branch.
func (b Base) BuildErrorVote(err error) pentagram.VertexVote {
	b.Log.Warn("building error vote", "error", err.Error())
	return pentagram.VertexVote{
		VertexName:      b.VertexName,
		Score:           0.0,
		Reasoning:       fmt.Sprintf("Error during %s processing: %s", b.VertexName, err.Error()),
		ActionProposals: []pentagram.ActionProposal{},
		Observations:    []string{fmt.Sprintf("vertex_error: %T: %s", err, err.Error())},
		Extras: map[string]any{
			"error":      true,
			"error_type": fmt.Sprintf("%T", err),
		},
		Timestamp: time.Now().UTC(),
	}
}

// ParseJSONResponse extracts a JSON value from LM output using the ordered
// strategy: trim, strip a ```json fenced block, strip any fenced block,
// parse directly, then fall back to a balanced-object or balanced-array
// scan of the remaining text.
func ParseJSONResponse(vertexName pentagram.VertexName, response string, out any) error {
	text := strings.TrimSpace(response)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		start := idx + len("```json")
		if end := strings.Index(text[start:], "```"); end >= 0 {
			text = strings.TrimSpace(text[start : start+end])
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		start := idx + len("```")
		if end := strings.Index(text[start:], "```"); end >= 0 {
			text = strings.TrimSpace(text[start : start+end])
		}
	}

	if err := json.Unmarshal([]byte(text), out); err == nil {
		return nil
	}

	if objText, ok := extractBalanced(text, '{', '}'); ok {
		if err := json.Unmarshal([]byte(objText), out); err == nil {
			return nil
		}
	}

	if arrText, ok := extractBalanced(text, '[', ']'); ok {
		if err := json.Unmarshal([]byte(arrText), out); err == nil {
			return nil
		}
	}

	preview := text
	if len(preview) > 200 {
		preview = preview[:200]
	}
	return fmt.Errorf("failed to parse JSON from %s LM response: %s...", vertexName, preview)
}

// extractBalanced mirrors the source's greedy first-open-to-last-close scan:
// from the first occurrence of open to the last occurrence of close.
func extractBalanced(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, close)
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}
