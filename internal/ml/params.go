package ml

import (
	"fmt"
	"time"
)

// DefaultMinSamples is the smallest partition Train accepts by default
const DefaultMinSamples = 30

// Params are the boosting hyperparameters
type Params struct {
	MaxDepth            int           `json:"max_depth" mapstructure:"max_depth"`
	LearningRate        float64       `json:"learning_rate" mapstructure:"learning_rate"`
	Subsample           float64       `json:"subsample" mapstructure:"subsample"`
	ColSampleByTree     float64       `json:"colsample_bytree" mapstructure:"colsample_bytree"`
	MaxRounds           int           `json:"max_rounds" mapstructure:"max_rounds"`
	EarlyStoppingRounds int           `json:"early_stopping_rounds" mapstructure:"early_stopping_rounds"`
	MinChildWeight      float64       `json:"min_child_weight" mapstructure:"min_child_weight"`
	Lambda              float64       `json:"lambda" mapstructure:"lambda"`
	Seed                int64         `json:"seed" mapstructure:"seed"`
	MinSamples          int           `json:"min_samples" mapstructure:"min_samples"`
	MaxDuration         time.Duration `json:"max_duration" mapstructure:"max_duration"`
}

// DefaultParams returns the stock hyperparameters
func DefaultParams() Params {
	return Params{
		MaxDepth:            6,
		LearningRate:        0.1,
		Subsample:           0.8,
		ColSampleByTree:     0.8,
		MaxRounds:           100,
		EarlyStoppingRounds: 10,
		MinChildWeight:      1,
		Lambda:              1,
		Seed:                42,
		MinSamples:          DefaultMinSamples,
	}
}

// Validate checks parameter ranges
func (p Params) Validate() error {
	switch {
	case p.MaxDepth < 1:
		return fmt.Errorf("%w: max_depth must be >= 1", ErrInvalidParams)
	case p.LearningRate <= 0 || p.LearningRate > 1:
		return fmt.Errorf("%w: learning_rate must be in (0, 1]", ErrInvalidParams)
	case p.Subsample <= 0 || p.Subsample > 1:
		return fmt.Errorf("%w: subsample must be in (0, 1]", ErrInvalidParams)
	case p.ColSampleByTree <= 0 || p.ColSampleByTree > 1:
		return fmt.Errorf("%w: colsample_bytree must be in (0, 1]", ErrInvalidParams)
	case p.MaxRounds < 1:
		return fmt.Errorf("%w: max_rounds must be >= 1", ErrInvalidParams)
	case p.EarlyStoppingRounds < 0:
		return fmt.Errorf("%w: early_stopping_rounds must be >= 0", ErrInvalidParams)
	case p.MinChildWeight < 0:
		return fmt.Errorf("%w: min_child_weight must be >= 0", ErrInvalidParams)
	case p.Lambda < 0:
		return fmt.Errorf("%w: lambda must be >= 0", ErrInvalidParams)
	case p.MinSamples < 1:
		return fmt.Errorf("%w: min_samples must be >= 1", ErrInvalidParams)
	case p.MaxDuration < 0:
		return fmt.Errorf("%w: max_duration must be >= 0", ErrInvalidParams)
	}
	return nil
}

func (p Params) asFields() map[string]interface{} {
	return map[string]interface{}{
		"max_depth":             p.MaxDepth,
		"learning_rate":         p.LearningRate,
		"subsample":             p.Subsample,
		"colsample_bytree":      p.ColSampleByTree,
		"max_rounds":            p.MaxRounds,
		"early_stopping_rounds": p.EarlyStoppingRounds,
		"seed":                  p.Seed,
	}
}
