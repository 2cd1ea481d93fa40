// Package drift implements the StandaloneDriftDetector: a ring buffer of
// recent Pentagram cycles used to aggregate proxy behavioral signals and
// check them against an identity topology on demand.
package drift

import (
	"sync"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/identity"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

const defaultWindowSize = 50

// Detector accumulates recent PentagramResults and periodically checks
// aggregated behavioral signals against an identity topology.
type Detector struct {
	mu         sync.Mutex
	topology   *identity.Topology
	window     []pentagram.PentagramResult
	windowSize int
	checkCount int
}

// New constructs a Detector backed by topology with the given window size.
// A windowSize ≤ 0 uses the default capacity of 50.
func New(topology *identity.Topology, windowSize int) *Detector {
	if windowSize <= 0 {
		windowSize = defaultWindowSize
	}
	return &Detector{topology: topology, windowSize: windowSize}
}

// RecordCycle appends result to the ring buffer, evicting the oldest entry
// once the window is full.
func (d *Detector) RecordCycle(result pentagram.PentagramResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.window = append(d.window, result)
	if len(d.window) > d.windowSize {
		d.window = d.window[len(d.window)-d.windowSize:]
	}
}

// CheckNow aggregates proxy signals from the current window and runs them
// through the topology's drift check.
func (d *Detector) CheckNow() pentagram.DriftReport {
	d.mu.Lock()
	signals := d.aggregateSignals()
	d.checkCount++
	d.mu.Unlock()

	return d.topology.CheckDrift(signals)
}

// CycleCount reports how many cycles are currently held in the window.
func (d *Detector) CycleCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.window)
}

// CheckCount reports how many times CheckNow has run.
func (d *Detector) CheckCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.checkCount
}

func (d *Detector) aggregateSignals() pentagram.DriftSignals {
	if len(d.window) == 0 {
		return pentagram.DriftSignals{
			InvariantAlignment:    1.0,
			Coherence:             1.0,
			ValueMisalignment:     0.0,
			RelationshipIntegrity: 1.0,
		}
	}

	var mirrorAlignments []float64
	var compassAlignments []float64
	var orchestraScores []float64
	var tensionSum float64
	var tensionCount int

	for _, cycle := range d.window {
		if mirror, ok := cycle.Votes[pentagram.Mirror]; ok && mirror.Mirror != nil {
			mirrorAlignments = append(mirrorAlignments, mirror.Mirror.IdentityAlignment.InvariantAlignment)
		}
		if compass, ok := cycle.Votes[pentagram.Compass]; ok && compass.Compass != nil {
			compassAlignments = append(compassAlignments, compass.Compass.GoalAlignment.AlignmentScore)
		}
		if orchestra, ok := cycle.Votes[pentagram.Orchestra]; ok {
			orchestraScores = append(orchestraScores, orchestra.Score)
		}
		for _, t := range cycle.Tensions {
			tensionSum += t.Magnitude
			tensionCount++
		}
	}

	avgTension := 0.0
	if tensionCount > 0 {
		avgTension = tensionSum / float64(tensionCount)
	}
	coherence := clamp01(1.0 - avgTension)

	invariantAlignment := 1.0
	if len(mirrorAlignments) > 0 {
		invariantAlignment = mean(mirrorAlignments)
	}

	valueMisalignment := 0.0
	if len(compassAlignments) > 0 {
		valueMisalignment = 1.0 - mean(compassAlignments)
	}

	relationshipIntegrity := 1.0
	if len(orchestraScores) > 0 {
		relationshipIntegrity = mean(orchestraScores)
	}

	return pentagram.DriftSignals{
		InvariantAlignment:    invariantAlignment,
		Coherence:             coherence,
		ValueMisalignment:     valueMisalignment,
		RelationshipIntegrity: relationshipIntegrity,
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
