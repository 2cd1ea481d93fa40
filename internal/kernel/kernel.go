// Package kernel implements the Metabolic Kernel: the phased fan-out/fan-in
// scheduler that runs the five Pentagram vertices over one experience,
// analyzes their tensions, and synthesizes a unified decision.
package kernel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/logging"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/tension"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/vertex"
)

var phase1Vertices = []pentagram.VertexName{pentagram.Ledger, pentagram.Garden, pentagram.Mirror, pentagram.Compass}

// ProcessContext carries the optional ambient context a caller supplies for
// one cycle — identity state and self-model are read by Mirror and Compass.
type ProcessContext struct {
	IdentityState *pentagram.IdentityState
	SelfModel     map[string]any
}

// Kernel schedules the five vertices, runs tension analysis, and produces a
// synthesis for each experience it processes.
type Kernel struct {
	mu       sync.RWMutex
	vertices map[pentagram.VertexName]vertex.Vertex
	lm       vertex.LMProvider
	log      *logging.Logger
}

// New constructs an empty Kernel. lm may be nil, in which case synthesis
// always runs in heuristic mode.
func New(lm vertex.LMProvider, log *logging.Logger) *Kernel {
	if log == nil {
		log = logging.Nop()
	}
	return &Kernel{
		vertices: make(map[pentagram.VertexName]vertex.Vertex),
		lm:       lm,
		log:      log,
	}
}

// RegisterVertex adds (or replaces) one vertex implementation.
func (k *Kernel) RegisterVertex(v vertex.Vertex) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.vertices[v.Name()] = v
}

// IsComplete reports whether all five vertices are registered.
func (k *Kernel) IsComplete() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, name := range pentagram.AllVertices() {
		if _, ok := k.vertices[name]; !ok {
			return false
		}
	}
	return true
}

func (k *Kernel) vertexByName(name pentagram.VertexName) (vertex.Vertex, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.vertices[name]
	return v, ok
}

// Process routes one experience through the full pipeline: Phase 1 parallel
// fan-out, Phase 2 Orchestra, Phase 3 tension analysis, Phase 4 synthesis.
// The returned PentagramResult is always populated, even under total
// vertex failure — nothing below the Kernel raises out of Process.
func (k *Kernel) Process(ctx context.Context, experience pentagram.Experience, pctx *ProcessContext) pentagram.PentagramResult {
	if pctx == nil {
		pctx = &ProcessContext{}
	}

	cycleStart := time.Now()
	timings := make(map[string]float64)
	var errs []pentagram.CycleError

	votes := k.runPhase1(ctx, experience, pctx, timings, &errs)
	k.runPhase2(ctx, experience, votes, timings, &errs)

	phase3Start := time.Now()
	tensions := tension.Analyze(votes)
	timings["phase3_tension_analysis"] = time.Since(phase3Start).Seconds()

	phase4Start := time.Now()
	synthesis := k.synthesize(ctx, votes, tensions)
	timings["phase4_synthesis"] = time.Since(phase4Start).Seconds()

	timings["total"] = time.Since(cycleStart).Seconds()

	return pentagram.PentagramResult{
		Experience: experience,
		Votes:      votes,
		Tensions:   tensions,
		Synthesis:  &synthesis,
		Timings:    timings,
		Errors:     errs,
		Timestamp:  time.Now().UTC(),
	}
}

func (k *Kernel) runPhase1(ctx context.Context, experience pentagram.Experience, pctx *ProcessContext, timings map[string]float64, errs *[]pentagram.CycleError) map[pentagram.VertexName]pentagram.VertexVote {
	phase1Start := time.Now()

	votes := make(map[pentagram.VertexName]pentagram.VertexVote)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range phase1Vertices {
		v, ok := k.vertexByName(name)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(name pentagram.VertexName, v vertex.Vertex) {
			defer wg.Done()

			vctx := k.phase1ContextFor(name, pctx)
			start := time.Now()
			vote := k.safeVote(ctx, v, experience, vctx)
			duration := time.Since(start).Seconds()

			mu.Lock()
			votes[name] = vote
			timings[fmt.Sprintf("%s_vote", name)] = duration
			if vote.IsError() {
				*errs = append(*errs, pentagram.CycleError{Vertex: name, Error: vote.Reasoning})
			}
			mu.Unlock()
		}(name, v)
	}

	wg.Wait()
	timings["phase1_parallel"] = time.Since(phase1Start).Seconds()
	return votes
}

// phase1ContextFor builds the vertex-specific context view for Phase 1. Peer
// vote fields (ledger_context, garden_context, ledger_memories,
// garden_patterns) are intentionally absent here: the four Phase-1 vertices
// run without inter-dependencies, so those fields cannot yet be populated.
func (k *Kernel) phase1ContextFor(name pentagram.VertexName, pctx *ProcessContext) vertex.VoteContext {
	switch name {
	case pentagram.Mirror:
		return vertex.VoteContext{IdentityState: pctx.IdentityState, SelfModel: pctx.SelfModel}
	case pentagram.Compass:
		return vertex.VoteContext{IdentityState: pctx.IdentityState}
	default:
		return vertex.VoteContext{}
	}
}

func (k *Kernel) runPhase2(ctx context.Context, experience pentagram.Experience, votes map[pentagram.VertexName]pentagram.VertexVote, timings map[string]float64, errs *[]pentagram.CycleError) {
	v, ok := k.vertexByName(pentagram.Orchestra)
	if !ok {
		return
	}

	start := time.Now()
	otherVotes := make(map[pentagram.VertexName]pentagram.VertexVote, len(votes))
	for name, vote := range votes {
		otherVotes[name] = vote
	}
	vote := k.safeVote(ctx, v, experience, vertex.VoteContext{OtherVotes: otherVotes})
	votes[pentagram.Orchestra] = vote
	timings["orchestra_vote"] = time.Since(start).Seconds()
	timings["phase2_orchestra"] = timings["orchestra_vote"]

	if vote.IsError() {
		*errs = append(*errs, pentagram.CycleError{Vertex: pentagram.Orchestra, Error: vote.Reasoning})
	}
}

// safeVote calls v.Vote and converts any panic into an error-vote, so a
// single faulty vertex can never terminate a cycle.
func (k *Kernel) safeVote(ctx context.Context, v vertex.Vertex, experience pentagram.Experience, vctx vertex.VoteContext) (vote pentagram.VertexVote) {
	defer func() {
		if r := recover(); r != nil {
			k.log.Error("vertex panicked", "vertex", string(v.Name()), "panic", fmt.Sprintf("%v", r))
			base := vertex.NewBase(v.Name(), nil, k.log)
			vote = base.BuildErrorVote(fmt.Errorf("panic: %v", r))
		}
	}()
	return v.Vote(ctx, experience, vctx)
}
