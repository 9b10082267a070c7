// Package main provides CMA-ES optimization for colony foraging parameters.
package main

import (
	"github.com/pthm-cable/formica/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "influence_chance", Path: "forage.influence_chance", Min: 0, Max: 1, Default: 0.1},
			{Name: "deposit_carrying", Path: "forage.deposit_carrying", Min: 0.05, Max: 1, Default: 1},
			{Name: "deposit_forced", Path: "forage.deposit_forced", Min: 0, Max: 0.5, Default: 0},
			{Name: "search_budget", Path: "forage.search_budget", Min: 50, Max: 1500, Default: 400},
			{Name: "decay_chance", Path: "pheromone.decay_chance", Min: 0.001, Max: 0.2, Default: 0.01},
			{Name: "max_pheromone", Path: "pheromone.max", Min: 5, Max: 255, Default: 30},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Forage.InfluenceChance = clamped[0]
	cfg.Forage.DepositCarrying = clamped[1]
	cfg.Forage.DepositForced = clamped[2]
	cfg.Forage.SearchBudget = int(clamped[3])
	cfg.Pheromone.DecayChance = clamped[4]
	cfg.Pheromone.Max = int(clamped[5])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Forage.InfluenceChance,
		cfg.Forage.DepositCarrying,
		cfg.Forage.DepositForced,
		float64(cfg.Forage.SearchBudget),
		cfg.Pheromone.DecayChance,
		float64(cfg.Pheromone.Max),
	}
}
