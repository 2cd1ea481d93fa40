// Package identity implements the IdentityTopology: the single-writer
// runtime that loads, validates, applies, and versions the persistent
// identity definition, and aggregates behavioral drift reports.
package identity

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/memstore"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// Topology manages the identity at runtime. All mutating operations are
// serialized behind a single mutex, per the single-writer discipline
// required of this component.
type Topology struct {
	mu                        sync.Mutex
	state                     *pentagram.IdentityState
	pendingProposals          []pentagram.ProposedChange
	consecutiveRepairFailures int
	store                     *memstore.DB
}

// New constructs an unloaded Topology. store may be nil, in which case
// nothing is persisted. Load always installs the state parsed from the scar
// document; a previously persisted state is not read back.
func New(store *memstore.DB) *Topology {
	return &Topology{store: store}
}

// persistLocked writes the current state to the store, if configured. Must
// be called with t.mu held. Persistence failures are best-effort: a caller
// still sees its in-memory update succeed.
func (t *Topology) persistLocked() {
	if t.store == nil || t.state == nil {
		return
	}
	_ = t.store.PutIdentityState(*t.state)
}

// Load reads the scar document at path and installs it as the current
// identity state.
func (t *Topology) Load(path string) (pentagram.IdentityState, error) {
	state, err := LoadScarFile(path)
	if err != nil {
		return pentagram.IdentityState{}, err
	}

	t.mu.Lock()
	t.state = state
	t.mu.Unlock()

	return *state, nil
}

// State returns a snapshot of the current identity state, or false if not
// yet loaded.
func (t *Topology) State() (pentagram.IdentityState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		return pentagram.IdentityState{}, false
	}
	return *t.state, true
}

// ValidateChange rules, evaluated in order:
//  1. identity not loaded → reject.
//  2. proposal.Region is a known flexible region and mutable → approve.
//  3. proposal.Region matches (case-insensitive substring) an invariant key
//     or name → reject, with affected invariants populated.
//  4. otherwise → pending, requires human approval.
func (t *Topology) ValidateChange(proposal pentagram.ProposedChange) pentagram.ValidationResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.validateChangeLocked(proposal)
}

func (t *Topology) validateChangeLocked(proposal pentagram.ProposedChange) pentagram.ValidationResult {
	if t.state == nil {
		return pentagram.ValidationResult{
			Approved: false,
			Reason:   "Identity not loaded — cannot validate",
			Status:   pentagram.StatusRejected,
		}
	}

	if region, ok := t.state.FlexibleRegions[proposal.Region]; ok && region.Mutable {
		return pentagram.ValidationResult{
			Approved: true,
			Reason:   fmt.Sprintf("Change to flexible region '%s' is within topological bounds", proposal.Region),
			Status:   pentagram.StatusApproved,
		}
	}

	var affected []string
	needle := strings.ToLower(proposal.Region)
	for key, inv := range t.state.Invariants {
		if strings.Contains(strings.ToLower(key), needle) || strings.Contains(strings.ToLower(inv.Name), needle) {
			affected = append(affected, key)
		}
	}
	if len(affected) > 0 {
		return pentagram.ValidationResult{
			Approved:           false,
			Reason:             fmt.Sprintf("Change would affect invariant(s): %s. Invariants are immutable.", strings.Join(affected, ", ")),
			AffectedInvariants: affected,
			Status:             pentagram.StatusRejected,
		}
	}

	return pentagram.ValidationResult{
		Approved:              false,
		Reason:                fmt.Sprintf("Region '%s' not recognized as flexible or invariant. Flagging for human review.", proposal.Region),
		RequiresHumanApproval: true,
		Status:                pentagram.StatusPending,
	}
}

// ApplyChange must only be called for approved proposals targeting a
// flexible region. It appends a change record, bumps the version's trailing
// segment, and updates LastUpdated.
func (t *Topology) ApplyChange(proposal pentagram.ProposedChange) (bool, string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == nil {
		return false, "Identity not loaded"
	}
	if _, ok := t.state.FlexibleRegions[proposal.Region]; !ok {
		return false, fmt.Sprintf("Region '%s' not found in flexible regions", proposal.Region)
	}

	t.state.UpdateHistory = append(t.state.UpdateHistory, pentagram.ChangeRecord{
		Timestamp:       time.Now().UTC(),
		Region:          proposal.Region,
		Field:           proposal.Field,
		OldValue:        proposal.OldValue,
		NewValue:        proposal.NewValue,
		Evidence:        proposal.Evidence,
		ProposingVertex: proposal.ProposingVertex,
		Confidence:      proposal.Confidence,
	})

	t.state.Version = bumpVersion(t.state.Version)
	t.state.LastUpdated = time.Now().UTC()
	t.persistLocked()

	return true, fmt.Sprintf("Applied to v%s", t.state.Version)
}

// bumpVersion increments only the trailing dotted segment of a semver-like
// version string (e.g. "1.0.0" -> "1.0.1"). Major/minor distinctions are
// not tracked.
func bumpVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) == 0 {
		return version
	}
	last := len(parts) - 1
	n, err := strconv.Atoi(parts[last])
	if err != nil {
		return version
	}
	parts[last] = strconv.Itoa(n + 1)
	return strings.Join(parts, ".")
}

// CheckDrift computes a DriftReport from the four proxy behavioral signals,
// maintaining the running consecutive-failure counter.
func (t *Topology) CheckDrift(signals pentagram.DriftSignals) pentagram.DriftReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == nil {
		return pentagram.DriftReport{DeviationScore: 0, CoherenceScore: 1.0, NeedsRepair: false, Timestamp: time.Now().UTC()}
	}

	repair := t.state.RepairProtocol

	overshoots := []float64{0, 0, 0, 0}
	if signals.InvariantAlignment < (1.0 - repair.DeviationThreshold) {
		overshoots[0] = maxFloat(0, (1.0-signals.InvariantAlignment)-repair.DeviationThreshold)
	}
	if signals.Coherence < repair.CoherenceThreshold {
		overshoots[1] = maxFloat(0, repair.CoherenceThreshold-signals.Coherence)
	}
	overshoots[2] = maxFloat(0, signals.ValueMisalignment-repair.ValueMisalignmentThreshold)
	if signals.RelationshipIntegrity < repair.RelationshipIntegrityThreshold {
		overshoots[3] = maxFloat(0, repair.RelationshipIntegrityThreshold-signals.RelationshipIntegrity)
	}

	deviation := overshoots[0]
	for _, o := range overshoots[1:] {
		if o > deviation {
			deviation = o
		}
	}
	if deviation > 1.0 {
		deviation = 1.0
	}

	needsRepair := deviation > 0

	var affected []string
	if signals.InvariantAlignment < (1.0 - repair.DeviationThreshold) {
		affected = append(affected, "invariant_alignment")
	}
	if signals.Coherence < repair.CoherenceThreshold {
		affected = append(affected, "identity_coherence")
	}
	if signals.ValueMisalignment > repair.ValueMisalignmentThreshold {
		affected = append(affected, "value_alignment")
	}
	if signals.RelationshipIntegrity < repair.RelationshipIntegrityThreshold {
		affected = append(affected, "relationship_integrity")
	}

	if needsRepair {
		t.consecutiveRepairFailures++
	} else {
		t.consecutiveRepairFailures = 0
	}
	alertHuman := t.consecutiveRepairFailures >= repair.AlertAfterFailures
	t.persistLocked()

	var suggestions []string
	if len(affected) > 0 {
		for key, inv := range t.state.Invariants {
			for _, a := range affected {
				if strings.Contains(strings.ToLower(key), a) {
					suggestions = append(suggestions, fmt.Sprintf("Re-anchor to invariant: %s", inv.Name))
					break
				}
			}
		}
	}

	return pentagram.DriftReport{
		DeviationScore:      deviation,
		CoherenceScore:      signals.Coherence,
		AffectedRegions:     affected,
		RepairSuggestions:   suggestions,
		NeedsRepair:         needsRepair,
		ConsecutiveFailures: t.consecutiveRepairFailures,
		AlertHuman:          alertHuman,
		Timestamp:           time.Now().UTC(),
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ProposeChange validates the proposal and queues it if approved or pending
// human review.
func (t *Topology) ProposeChange(proposal pentagram.ProposedChange) pentagram.ValidationResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := t.validateChangeLocked(proposal)
	if result.Approved || result.RequiresHumanApproval {
		t.pendingProposals = append(t.pendingProposals, proposal)
	}
	return result
}

// PendingProposals returns a snapshot of the queued proposals.
func (t *Topology) PendingProposals() []pentagram.ProposedChange {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]pentagram.ProposedChange, len(t.pendingProposals))
	copy(out, t.pendingProposals)
	return out
}

// ClearPending empties the pending-proposal queue and returns the count
// cleared.
func (t *Topology) ClearPending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.pendingProposals)
	t.pendingProposals = nil
	return n
}
