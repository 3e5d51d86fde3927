package backtest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/yourusername/courtside/internal/models"
)

// BootstrapConfig configures resampling of test predictions
type BootstrapConfig struct {
	Iterations      int
	ConfidenceLevel float64
	Seed            int64
}

// BootstrapResult is the sampling distribution of test accuracy
type BootstrapResult struct {
	Iterations      int     `json:"iterations"`
	ConfidenceLevel float64 `json:"confidence_level"`
	MeanAccuracy    float64 `json:"mean_accuracy"`
	StdAccuracy     float64 `json:"std_accuracy"`
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
}

// BootstrapAccuracy resamples predictions with replacement to put a
// percentile interval around the observed accuracy.
func BootstrapAccuracy(ctx context.Context, predictions []models.Prediction, cfg BootstrapConfig) (BootstrapResult, error) {
	if cfg.Iterations <= 0 {
		return BootstrapResult{}, fmt.Errorf("bootstrap iterations must be positive")
	}
	if len(predictions) == 0 {
		return BootstrapResult{}, fmt.Errorf("no predictions to resample")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	distribution := make([]float64, cfg.Iterations)
	n := len(predictions)

	for i := 0; i < cfg.Iterations; i++ {
		if i%100 == 0 {
			if err := ctx.Err(); err != nil {
				return BootstrapResult{}, err
			}
		}
		correct := 0
		for j := 0; j < n; j++ {
			if predictions[rng.Intn(n)].Correct() {
				correct++
			}
		}
		distribution[i] = float64(correct) / float64(n)
	}

	mean, std := meanStd(distribution)
	tail := (1 - cfg.ConfidenceLevel) / 2
	return BootstrapResult{
		Iterations:      cfg.Iterations,
		ConfidenceLevel: cfg.ConfidenceLevel,
		MeanAccuracy:    mean,
		StdAccuracy:     std,
		Lower:           percentile(distribution, tail),
		Upper:           percentile(distribution, 1-tail),
	}, nil
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
