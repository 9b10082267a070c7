package main

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/formica/config"
	"github.com/pthm-cable/formica/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	raw := pv.ExtractFromConfig(cfg)
	if len(raw) != pv.Dim() {
		t.Fatalf("extracted %d values, want %d", len(raw), pv.Dim())
	}
	for i, v := range raw {
		if v != pv.Specs[i].Default {
			t.Errorf("%s: config default %v, spec default %v", pv.Specs[i].Name, v, pv.Specs[i].Default)
		}
	}

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{2, -1, 0.25, 10, 0.05, 1000})

	if cfg.Forage.InfluenceChance != 1 {
		t.Errorf("influence chance = %v, want clamp to 1", cfg.Forage.InfluenceChance)
	}
	if cfg.Forage.DepositCarrying != 0.05 {
		t.Errorf("deposit carrying = %v, want clamp to 0.05", cfg.Forage.DepositCarrying)
	}
	if cfg.Forage.SearchBudget != 50 {
		t.Errorf("search budget = %d, want clamp to 50", cfg.Forage.SearchBudget)
	}
	if cfg.Pheromone.Max != 255 {
		t.Errorf("max pheromone = %d, want clamp to 255", cfg.Pheromone.Max)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("clamped config invalid: %v", err)
	}
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name        string
		rates       []float64
		wantRate    float64
		wantQuality float64
	}{
		{"too few windows", []float64{1, 1}, 0, 0},
		{"steady", []float64{0, 0, 0.5, 0.5, 0.5}, 0.5, 1},
		{"nothing delivered", []float64{0, 0, 0, 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := make([]telemetry.WindowStats, len(tt.rates))
			for i, r := range tt.rates {
				windows[i].DeliveryRate = r
			}
			rate, quality := computeScore(windows)
			if math.Abs(rate-tt.wantRate) > 1e-9 || math.Abs(quality-tt.wantQuality) > 1e-9 {
				t.Errorf("computeScore = (%v, %v), want (%v, %v)", rate, quality, tt.wantRate, tt.wantQuality)
			}
		})
	}
}

func TestAverageResultsSkipsFailedSeeds(t *testing.T) {
	tests := []struct {
		name        string
		results     []seedResult
		wantFitness float64
		wantQuality float64
	}{
		{
			"all ran",
			[]seedResult{{seed: 1, fitness: -2, quality: 1}, {seed: 2, fitness: -4, quality: 0.5}},
			-3, 0.75,
		},
		{
			"failed seed left out",
			[]seedResult{{seed: 1, fitness: -2, quality: 1}, {seed: 2, err: errors.New("boom")}},
			-2, 1,
		},
		{
			"every seed failed",
			[]seedResult{{seed: 1, err: errors.New("boom")}},
			0, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fitness, quality := averageResults(tt.results)
			if math.Abs(fitness-tt.wantFitness) > 1e-9 || math.Abs(quality-tt.wantQuality) > 1e-9 {
				t.Errorf("averageResults = (%v, %v), want (%v, %v)", fitness, quality, tt.wantFitness, tt.wantQuality)
			}
		})
	}
}
