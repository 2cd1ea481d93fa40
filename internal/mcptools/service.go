// Package mcptools exposes the Pentagram cognitive core over MCP: an
// experience-processing tool backed by the Metabolic Kernel, plus drift,
// development, and identity-change tools backed by the Identity Topology,
// the Standalone Drift Detector, and the Development Monitor.
package mcptools

import (
	"context"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/drift"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/identity"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/kernel"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/metrics"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/monitor"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// Service bundles the runtime components the MCP tools drive. A nil Drift,
// Monitor, or Metrics is tolerated — those tools simply report an empty
// window, or no telemetry is emitted.
type Service struct {
	Kernel   *kernel.Kernel
	Topology *identity.Topology
	Drift    *drift.Detector
	Monitor  *monitor.Monitor
	Metrics  metrics.Sink
}

// ProcessExperience runs one full Pentagram cycle and records it with the
// drift detector, development monitor, and metrics sink, if configured.
func (s *Service) ProcessExperience(ctx context.Context, experience pentagram.Experience) pentagram.PentagramResult {
	var pctx *kernel.ProcessContext
	if state, ok := s.Topology.State(); ok {
		pctx = &kernel.ProcessContext{IdentityState: &state}
	}

	result := s.Kernel.Process(ctx, experience, pctx)

	if s.Drift != nil {
		s.Drift.RecordCycle(result)
	}
	if s.Monitor != nil {
		s.Monitor.RecordCycle(result)
	}
	if s.Metrics != nil {
		s.Metrics.ObserveCycle(result)
	}

	return result
}

// CheckDrift runs an on-demand drift check over the detector's current
// window.
func (s *Service) CheckDrift() pentagram.DriftReport {
	if s.Drift == nil {
		return pentagram.DriftReport{CoherenceScore: 1.0}
	}
	report := s.Drift.CheckNow()
	if s.Metrics != nil {
		s.Metrics.ObserveDrift(report)
	}
	return report
}

// DevelopmentLevel reports the monitor's current bounded development level.
func (s *Service) DevelopmentLevel() pentagram.DevelopmentLevel {
	if s.Monitor == nil {
		return pentagram.DevelopmentLevel{Level: 0.05, Trend: pentagram.TrendStable}
	}
	level := s.Monitor.GetDevelopmentLevel()
	if s.Metrics != nil {
		s.Metrics.ObserveDevelopmentLevel(level.Level)
	}
	return level
}

// ProposeIdentityChange validates and, if approved or pending, queues a
// proposed identity change.
func (s *Service) ProposeIdentityChange(proposal pentagram.ProposedChange) pentagram.ValidationResult {
	result := s.Topology.ProposeChange(proposal)
	if s.Metrics != nil {
		s.Metrics.ObserveIdentityChange(result)
	}
	return result
}
