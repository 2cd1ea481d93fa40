package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// rawScarDocument mirrors the on-disk shape of the identity scar document.
type rawScarDocument struct {
	OmegaIdentity struct {
		Name     string `json:"name"`
		Symbol   string `json:"symbol"`
		Metadata struct {
			Version     string `json:"version"`
			LastUpdated string `json:"last_updated"`
		} `json:"metadata"`
		Topology struct {
			Invariants      map[string]json.RawMessage `json:"invariants"`
			FlexibleRegions map[string]json.RawMessage `json:"flexible_regions"`
			RepairProtocol  struct {
				TriggerConditions   map[string]string `json:"trigger_conditions"`
				RestorationStrength float64           `json:"restoration_strength"`
				AlertRyanIf         string            `json:"alert_ryan_if"`
			} `json:"repair_protocol"`
		} `json:"topology"`
	} `json:"omega_identity"`
}

type rawInvariant struct {
	Name        string  `json:"name"`
	Value       any     `json:"value"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description,omitempty"`
	Count       int     `json:"count,omitempty"`
}

type rawFlexibleRegion struct {
	Mutable        bool   `json:"mutable"`
	GrowthVector   string `json:"growth_vector,omitempty"`
	PruningAllowed bool   `json:"pruning_allowed,omitempty"`
}

var alertFailuresPattern = regexp.MustCompile(`repair_fails_(\d+)_consecutive_times`)

// LoadScarFile reads and parses the identity scar document at path into an
// IdentityState. Only invariants shaped {name, value, ...} are accepted;
// a bare description or count key alone is not enough to form an entry.
// Repair thresholds are extracted by stripping leading comparator prefixes
// ("> ", "< ") from the raw trigger-condition strings.
func LoadScarFile(path string) (*pentagram.IdentityState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scar file %s: %w", path, err)
	}

	var doc rawScarDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scar file %s: %w", path, err)
	}
	root := doc.OmegaIdentity

	invariants := make(map[string]pentagram.Invariant)
	for key, raw := range root.Topology.Invariants {
		var inv rawInvariant
		if err := json.Unmarshal(raw, &inv); err != nil {
			continue
		}
		if inv.Name == "" {
			continue
		}
		invariants[key] = pentagram.Invariant{Name: inv.Name, Value: inv.Value, Weight: inv.Weight}
	}
	if len(invariants) == 0 {
		return nil, fmt.Errorf("scar file %s: zero invariants parsed", path)
	}

	flexibleRegions := make(map[string]pentagram.FlexibleRegion)
	for key, raw := range root.Topology.FlexibleRegions {
		var region rawFlexibleRegion
		if err := json.Unmarshal(raw, &region); err != nil {
			continue
		}
		flexibleRegions[key] = pentagram.FlexibleRegion{
			Mutable:        region.Mutable,
			GrowthVector:   region.GrowthVector,
			PruningAllowed: region.PruningAllowed,
		}
	}

	repair := pentagram.DefaultRepairProtocol()
	tc := root.Topology.RepairProtocol.TriggerConditions
	if v, ok := parseThreshold(tc["deviation_threshold"]); ok {
		repair.DeviationThreshold = v
	}
	if v, ok := parseThreshold(tc["coherence_threshold"]); ok {
		repair.CoherenceThreshold = v
	}
	if v, ok := parseThreshold(tc["value_misalignment_threshold"]); ok {
		repair.ValueMisalignmentThreshold = v
	}
	if v, ok := parseThreshold(tc["relationship_integrity_threshold"]); ok {
		repair.RelationshipIntegrityThreshold = v
	}
	if root.Topology.RepairProtocol.RestorationStrength > 0 {
		repair.RestorationStrength = root.Topology.RepairProtocol.RestorationStrength
	}
	if m := alertFailuresPattern.FindStringSubmatch(root.Topology.RepairProtocol.AlertRyanIf); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			repair.AlertAfterFailures = n
		}
	}

	lastUpdated := time.Now().UTC()
	if root.Metadata.LastUpdated != "" {
		if parsed, err := time.Parse(time.RFC3339, root.Metadata.LastUpdated); err == nil {
			lastUpdated = parsed.UTC()
		}
	}

	version := root.Metadata.Version
	if version == "" {
		version = "1.0.0"
	}

	return &pentagram.IdentityState{
		Name:            root.Name,
		Symbol:          root.Symbol,
		Version:         version,
		Invariants:      invariants,
		FlexibleRegions: flexibleRegions,
		RepairProtocol:  repair,
		UpdateHistory:   []pentagram.ChangeRecord{},
		LastUpdated:     lastUpdated,
	}, nil
}

func parseThreshold(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, ">")
	trimmed = strings.TrimPrefix(trimmed, "<")
	trimmed = strings.TrimPrefix(trimmed, "=")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
