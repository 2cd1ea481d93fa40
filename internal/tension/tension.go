// Package tension computes pairwise disagreement between vertex votes.
package tension

import (
	"fmt"
	"sort"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

const significanceThreshold = 0.2

var axisTable = map[[2]pentagram.VertexName]string{
	{pentagram.Ledger, pentagram.Garden}:  "storage_vs_pruning",
	{pentagram.Ledger, pentagram.Mirror}:  "recording_vs_reflecting",
	{pentagram.Ledger, pentagram.Compass}: "preservation_vs_direction",
	{pentagram.Garden, pentagram.Mirror}:  "pattern_vs_identity",
	{pentagram.Garden, pentagram.Compass}: "meaning_vs_value",
	{pentagram.Mirror, pentagram.Compass}: "self_relevance_vs_strategic_value",
}

// analysisOrder fixes the deterministic ordering used to sort a pair and to
// walk all unordered pairs.
var analysisOrder = []pentagram.VertexName{pentagram.Ledger, pentagram.Garden, pentagram.Mirror, pentagram.Compass}

// Analyze computes every pairwise tension over votes, excluding Orchestra,
// sorted by magnitude descending.
func Analyze(votes map[pentagram.VertexName]pentagram.VertexVote) []pentagram.Tension {
	var tensions []pentagram.Tension

	for i := 0; i < len(analysisOrder); i++ {
		for j := i + 1; j < len(analysisOrder); j++ {
			nameA, nameB := analysisOrder[i], analysisOrder[j]
			voteA, okA := votes[nameA]
			voteB, okB := votes[nameB]
			if !okA || !okB {
				continue
			}

			scoreDiff := abs(voteA.Score - voteB.Score)
			if scoreDiff < significanceThreshold {
				continue
			}

			hi, lo := voteA, voteB
			if voteB.Score > voteA.Score {
				hi, lo = voteB, voteA
			}

			dimension, ok := axisTable[[2]pentagram.VertexName{nameA, nameB}]
			if !ok {
				dimension = fmt.Sprintf("%s_vs_%s", nameA, nameB)
			}

			magnitude := scoreDiff
			hint := fmt.Sprintf("%s scores higher (%.2f vs %.2f)", hi.VertexName, hi.Score, lo.Score)

			if pentagram.HasType(hi.ActionProposals, "store") && pentagram.HasType(lo.ActionProposals, "prune") ||
				pentagram.HasType(hi.ActionProposals, "prune") && pentagram.HasType(lo.ActionProposals, "store") {
				magnitude += 0.10
				hint += " Direct conflict: store vs prune."
			}
			if pentagram.HasType(hi.ActionProposals, "identity_repair") || pentagram.HasType(lo.ActionProposals, "identity_repair") {
				magnitude += 0.15
				hint += " Identity repair requested — prioritize stability."
			}
			if magnitude > 1.0 {
				magnitude = 1.0
			}

			tensions = append(tensions, pentagram.Tension{
				VertexA:        nameA,
				VertexB:        nameB,
				Dimension:      dimension,
				Magnitude:      magnitude,
				ResolutionHint: hint,
			})
		}
	}

	sort.SliceStable(tensions, func(i, j int) bool {
		return tensions[i].Magnitude > tensions[j].Magnitude
	})

	return tensions
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
