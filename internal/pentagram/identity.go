package pentagram

import "time"

// Invariant is an immutable identity property.
type Invariant struct {
	Name   string  `json:"name"`
	Value  any     `json:"value"`
	Weight float64 `json:"weight"`
}

// FlexibleRegion is a mutable identity region that accepts approved changes.
type FlexibleRegion struct {
	Mutable         bool     `json:"mutable"`
	GrowthVector    string   `json:"growth_vector,omitempty"`
	PruningAllowed  bool     `json:"pruning_allowed,omitempty"`
	Extras          map[string]any `json:"extras,omitempty"`
}

// RepairProtocol carries the thresholds and escalation policy for drift repair.
type RepairProtocol struct {
	DeviationThreshold          float64 `json:"deviation_threshold"`
	CoherenceThreshold          float64 `json:"coherence_threshold"`
	ValueMisalignmentThreshold  float64 `json:"value_misalignment_threshold"`
	RelationshipIntegrityThreshold float64 `json:"relationship_integrity_threshold"`
	RestorationStrength         float64 `json:"restoration_strength"`
	AlertAfterFailures          int     `json:"alert_after_failures"`
}

// DefaultRepairProtocol returns the spec's documented default thresholds,
// used when a scar document omits any of them.
func DefaultRepairProtocol() RepairProtocol {
	return RepairProtocol{
		DeviationThreshold:             0.2,
		CoherenceThreshold:             0.8,
		ValueMisalignmentThreshold:     0.15,
		RelationshipIntegrityThreshold: 0.9,
		RestorationStrength:            0.8,
		AlertAfterFailures:             3,
	}
}

// ChangeRecord is one entry in IdentityState.UpdateHistory.
type ChangeRecord struct {
	Timestamp       time.Time `json:"timestamp"`
	Region          string    `json:"region"`
	Field           string    `json:"field"`
	OldValue        any       `json:"old_value,omitempty"`
	NewValue        any       `json:"new_value"`
	Evidence        string    `json:"evidence"`
	ProposingVertex string    `json:"proposing_vertex"`
	Confidence      float64   `json:"confidence"`
}

// IdentityState is the persistent identity topology.
type IdentityState struct {
	Name            string                    `json:"name"`
	Symbol          string                    `json:"symbol"`
	Version         string                    `json:"version"`
	Invariants      map[string]Invariant      `json:"invariants"`
	FlexibleRegions map[string]FlexibleRegion `json:"flexible_regions"`
	RepairProtocol  RepairProtocol            `json:"repair_protocol"`
	UpdateHistory   []ChangeRecord            `json:"update_history"`
	LastUpdated     time.Time                 `json:"last_updated"`
}

// ProposedChange is a vertex's request to mutate a flexible region.
type ProposedChange struct {
	Region          string    `json:"region"`
	Field           string    `json:"field"`
	OldValue        any       `json:"old_value,omitempty"`
	NewValue        any       `json:"new_value"`
	Evidence        string    `json:"evidence"`
	ProposingVertex string    `json:"proposing_vertex"`
	Confidence      float64   `json:"confidence"`
	Timestamp       time.Time `json:"timestamp"`
}

// ValidationStatus is the lifecycle state of a ProposedChange.
type ValidationStatus string

const (
	StatusPending  ValidationStatus = "pending"
	StatusApproved ValidationStatus = "approved"
	StatusRejected ValidationStatus = "rejected"
	StatusApplied  ValidationStatus = "applied"
)

// ValidationResult is the Topology's ruling on a ProposedChange.
type ValidationResult struct {
	Approved              bool             `json:"approved"`
	Reason                string           `json:"reason"`
	AffectedInvariants    []string         `json:"affected_invariants,omitempty"`
	RequiresHumanApproval bool             `json:"requires_human_approval"`
	Status                ValidationStatus `json:"status"`
}

// DriftSignals is the four-tuple of proxy signals fed to CheckDrift.
type DriftSignals struct {
	InvariantAlignment    float64
	Coherence             float64
	ValueMisalignment     float64
	RelationshipIntegrity float64
}

// DriftReport is the Topology's assessment of accumulated behavioral drift.
type DriftReport struct {
	DeviationScore      float64   `json:"deviation_score"`
	CoherenceScore      float64   `json:"coherence_score"`
	AffectedRegions     []string  `json:"affected_regions"`
	RepairSuggestions   []string  `json:"repair_suggestions"`
	NeedsRepair         bool      `json:"needs_repair"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	AlertHuman          bool      `json:"alert_human"`
	Timestamp           time.Time `json:"timestamp"`
}

// IsCritical reports whether this report crosses the critical threshold.
func (d DriftReport) IsCritical() bool {
	return d.DeviationScore > 0.5 || d.AlertHuman
}
