package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/formica/config"
	"github.com/pthm-cable/formica/game"
	"github.com/pthm-cable/formica/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// qualityWarmupWindows is the number of leading windows skipped while
// the first trails form.
const qualityWarmupWindows = 2

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	seed    int64
	fitness float64
	quality float64
	err     error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negative delivery rate, scaled up by at most 20% for
// runs that deliver steadily.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows, err := fe.runSimulation(x, s)
			if err != nil {
				results[idx] = seedResult{seed: s, err: err}
				return
			}
			rate, quality := computeScore(windows)
			results[idx] = seedResult{
				seed:    s,
				fitness: -(rate * (1.0 + 0.2*quality)),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	fitness, quality := averageResults(results)
	fe.mu.Lock()
	fe.lastQuality = quality
	fe.mu.Unlock()

	return fitness
}

// averageResults averages the seeds that ran. Failed seeds are logged and
// left out so they do not read as runs with no deliveries. With no
// successful seed the result is 0, the score of a colony that never
// delivers.
func averageResults(results []seedResult) (fitness, quality float64) {
	n := 0
	for _, r := range results {
		if r.err != nil {
			slog.Warn("seed evaluation failed", "seed", r.seed, "error", r.err)
			continue
		}
		fitness += r.fitness
		quality += r.quality
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return fitness / float64(n), quality / float64(n)
}

// runSimulation executes a single headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) ([]telemetry.WindowStats, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var windows []telemetry.WindowStats
	g, err := game.New(cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		Workers:        1,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Close()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows, nil
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Food.Cells = append([][2]int(nil), fe.baseConfig.Food.Cells...)
	return &cfg
}

// computeScore returns the mean delivery rate after warmup and a
// steadiness quality in [0, 1] that falls as the coefficient of
// variation of per-window deliveries grows.
func computeScore(windows []telemetry.WindowStats) (rate, quality float64) {
	if len(windows) <= qualityWarmupWindows {
		return 0, 0
	}
	valid := windows[qualityWarmupWindows:]

	rates := make([]float64, len(valid))
	for i, w := range valid {
		rates[i] = w.DeliveryRate
	}

	if len(rates) < 2 {
		return rates[0], 0
	}
	mean, std := stat.MeanStdDev(rates, nil)
	if mean <= 0 {
		return 0, 0
	}
	cv := std / mean
	return mean, math.Exp(-cv * cv)
}
