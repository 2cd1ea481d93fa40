package vertex

import (
	"fmt"
	"strings"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

func gardenPrompt(message string, memories []pentagram.MemoryGroup) string {
	var sb strings.Builder
	sb.WriteString("You are the Garden faculty of a cognitive architecture. ")
	sb.WriteString("Your role is pattern recognition, consolidation, and pruning.\n\n")
	sb.WriteString(fmt.Sprintf("Message: %s\n", message))

	if n := len(memories); n > 0 {
		if n > 5 {
			memories = memories[:5]
		}
		sb.WriteString("\nPrior memories:\n")
		for _, m := range memories {
			sb.WriteString(fmt.Sprintf("  - %s (score=%.2f)\n", m.Summary, m.Score))
		}
	}

	sb.WriteString("\nRespond as JSON: {\"patterns_detected\":[{\"pattern\":str,\"significance\":float,")
	sb.WriteString("\"cross_domain\":bool,\"recurring\":bool}],\"themes\":[str],")
	sb.WriteString("\"connections_to_existing\":[str],\"pruning_recommendations\":[{\"what\":str,\"reason\":str}],")
	sb.WriteString("\"importance_score\":float,\"reasoning\":str}\n")
	return sb.String()
}

func mirrorPrompt(message string, identity *pentagram.IdentityState, selfModel map[string]any) string {
	var sb strings.Builder
	sb.WriteString("You are the Mirror faculty: self-model, perspective, reflexivity.\n\n")
	sb.WriteString(fmt.Sprintf("Message: %s\n", message))

	if identity != nil {
		sb.WriteString(fmt.Sprintf("\nIdentity: %s (%s), version %s\n", identity.Name, identity.Symbol, identity.Version))
	}
	if len(selfModel) > 0 {
		sb.WriteString(fmt.Sprintf("\nCurrent self-model: %v\n", selfModel))
	}

	sb.WriteString("\nRespond as JSON: {\"self_reflection\":str,\"self_model_updates\":[str],")
	sb.WriteString("\"identity_alignment\":{\"invariant_alignment\":float,\"drift_detected\":bool,\"drift_details\":str},")
	sb.WriteString("\"growth_indicators\":{\"self_reference_depth\":int,\"novel_self_insight\":bool,\"meta_cognitive_moment\":bool},")
	sb.WriteString("\"score\":float}\n")
	return sb.String()
}

func compassPrompt(message string, patterns []pentagram.GardenPattern, identity *pentagram.IdentityState) string {
	var sb strings.Builder
	sb.WriteString("You are the Compass faculty: priority, ethics, teleology, why to act.\n\n")
	sb.WriteString(fmt.Sprintf("Message: %s\n", message))

	if len(patterns) > 0 {
		sb.WriteString("\nGarden patterns:\n")
		for _, p := range patterns {
			sb.WriteString(fmt.Sprintf("  - %s (significance=%.2f)\n", p.Pattern, p.Significance))
		}
	}
	if identity != nil {
		sb.WriteString(fmt.Sprintf("\nIdentity context: %s\n", identity.Name))
	}

	sb.WriteString("\nRespond as JSON: {\"value_assessment\":{\"growth_contribution\":float,\"reasoning\":str,")
	sb.WriteString("\"domains_advanced\":[str]},\"predictions\":[str],")
	sb.WriteString("\"goal_alignment\":{\"alignment_score\":float,\"misalignment_flags\":[str]},")
	sb.WriteString("\"suggested_directions\":[str],\"score\":float}\n")
	return sb.String()
}
