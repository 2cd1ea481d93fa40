package pentagram

import "testing"

func TestGrowthSignalWeightedComposite(t *testing.T) {
	tests := []struct {
		name string
		snap GrowthSnapshot
		want float64
	}{
		{
			name: "all zero",
			snap: GrowthSnapshot{},
			want: 0,
		},
		{
			name: "meta cognitive moment alone",
			snap: GrowthSnapshot{MetaCognitiveMoment: true},
			want: 0.15,
		},
		{
			name: "full continuity alone",
			snap: GrowthSnapshot{CrossSessionContinuity: 1.0},
			want: 0.15,
		},
		{
			name: "self reference depth caps at 5",
			snap: GrowthSnapshot{SelfReferenceDepth: 10},
			want: 0.20,
		},
		{
			name: "novel connections cap at 3",
			snap: GrowthSnapshot{NovelConnectionCount: 8},
			want: 0.20,
		},
		{
			name: "everything maxed",
			snap: GrowthSnapshot{
				SelfReferenceDepth:     5,
				NovelConnectionCount:   3,
				SelfModelUpdates:       2,
				CrossSessionContinuity: 1.0,
				AmalgamationCount:      2,
				MetaCognitiveMoment:    true,
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.snap.GrowthSignal()
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("GrowthSignal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDriftReportIsCritical(t *testing.T) {
	tests := []struct {
		name   string
		report DriftReport
		want   bool
	}{
		{"low deviation no alert", DriftReport{DeviationScore: 0.2}, false},
		{"deviation over threshold", DriftReport{DeviationScore: 0.51}, true},
		{"alert human regardless of deviation", DriftReport{DeviationScore: 0.0, AlertHuman: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.IsCritical(); got != tt.want {
				t.Errorf("IsCritical() = %v, want %v", got, tt.want)
			}
		})
	}
}
