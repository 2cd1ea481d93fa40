package mcptools

import (
	"context"
	"testing"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/drift"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/identity"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/kernel"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/monitor"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/vertex"
)

type fakeVertex struct {
	name pentagram.VertexName
}

func (f fakeVertex) Name() pentagram.VertexName { return f.name }

func (f fakeVertex) Vote(_ context.Context, _ pentagram.Experience, _ vertex.VoteContext) pentagram.VertexVote {
	return pentagram.VertexVote{VertexName: f.name, Score: 0.5}
}

func newTestKernel() *kernel.Kernel {
	k := kernel.New(nil, nil)
	for _, name := range pentagram.AllVertices() {
		k.RegisterVertex(fakeVertex{name: name})
	}
	return k
}

func TestServiceProcessExperienceRecordsWithDriftAndMonitor(t *testing.T) {
	svc := &Service{
		Kernel:   newTestKernel(),
		Topology: identity.New(nil),
		Drift:    drift.New(identity.New(nil), 10),
		Monitor:  monitor.New(10, nil),
	}

	result := svc.ProcessExperience(context.Background(), pentagram.Experience{Message: "hi"})
	if len(result.Votes) != 5 {
		t.Fatalf("len(Votes) = %d, want 5", len(result.Votes))
	}
	if svc.Drift.CycleCount() != 1 {
		t.Errorf("Drift.CycleCount() = %d, want 1", svc.Drift.CycleCount())
	}
	if svc.Monitor.CycleCount() != 1 {
		t.Errorf("Monitor.CycleCount() = %d, want 1", svc.Monitor.CycleCount())
	}
}

func TestServiceProcessExperienceToleratesNilDriftAndMonitor(t *testing.T) {
	svc := &Service{Kernel: newTestKernel(), Topology: identity.New(nil)}
	result := svc.ProcessExperience(context.Background(), pentagram.Experience{Message: "hi"})
	if len(result.Votes) != 5 {
		t.Fatalf("len(Votes) = %d, want 5", len(result.Votes))
	}
}

func TestServiceCheckDriftDefaultsWithoutDetector(t *testing.T) {
	svc := &Service{Kernel: newTestKernel(), Topology: identity.New(nil)}
	report := svc.CheckDrift()
	if report.CoherenceScore != 1.0 {
		t.Errorf("CoherenceScore = %v, want 1.0 default", report.CoherenceScore)
	}
}

func TestServiceDevelopmentLevelDefaultsWithoutMonitor(t *testing.T) {
	svc := &Service{Kernel: newTestKernel(), Topology: identity.New(nil)}
	level := svc.DevelopmentLevel()
	if level.Level != 0.05 || level.Trend != pentagram.TrendStable {
		t.Errorf("DevelopmentLevel() = %+v, want empty-monitor default", level)
	}
}

func TestServiceProposeIdentityChangeDelegatesToTopology(t *testing.T) {
	svc := &Service{Kernel: newTestKernel(), Topology: identity.New(nil)}
	result := svc.ProposeIdentityChange(pentagram.ProposedChange{Region: "anything"})
	if result.Approved {
		t.Error("expected rejection when no identity state is loaded")
	}
}
