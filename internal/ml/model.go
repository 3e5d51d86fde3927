package ml

import (
	"fmt"
	"math"
	"sort"
)

// Model is a trained boosted tree ensemble. Prediction never mutates it.
type Model struct {
	BaseScore    float64  `json:"base_score"`
	Trees        []Tree   `json:"trees"`
	FeatureNames []string `json:"feature_names"`
	BestRound    int      `json:"best_round"`
	Params       Params   `json:"params"`
}

// NumFeatures returns the expected row width
func (m *Model) NumFeatures() int {
	return len(m.FeatureNames)
}

// Margin returns the raw log-odds score for one row
func (m *Model) Margin(x []float64) float64 {
	score := m.BaseScore
	for i := range m.Trees {
		score += m.Trees[i].Predict(x)
	}
	return score
}

// PredictProba returns the probability that the home side wins.
// x must have NumFeatures columns.
func (m *Model) PredictProba(x []float64) float64 {
	return sigmoid(m.Margin(x))
}

// Predict scores every row, checking widths first
func (m *Model) Predict(X [][]float64) ([]float64, error) {
	if err := checkWidth(X, m.NumFeatures()); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = m.PredictProba(x)
	}
	return out, nil
}

// Importance is the total split gain attributed to one feature
type Importance struct {
	Feature string  `json:"feature"`
	Gain    float64 `json:"gain"`
}

// FeatureImportance sums split gain per feature, highest first
func (m *Model) FeatureImportance() []Importance {
	totals := make([]float64, len(m.FeatureNames))
	for _, t := range m.Trees {
		for _, n := range t.Nodes {
			if !n.Leaf && n.Feature < len(totals) {
				totals[n.Feature] += n.Gain
			}
		}
	}

	out := make([]Importance, len(totals))
	for i, g := range totals {
		out[i] = Importance{Feature: m.FeatureNames[i], Gain: g}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Gain > out[j].Gain
	})
	return out
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// LogLoss is the mean binary cross-entropy with probabilities clipped away from 0 and 1
func LogLoss(p, y []float64) float64 {
	if len(p) == 0 {
		return 0
	}
	const eps = 1e-15
	var sum float64
	for i := range p {
		q := math.Min(math.Max(p[i], eps), 1-eps)
		sum += -(y[i]*math.Log(q) + (1-y[i])*math.Log(1-q))
	}
	return sum / float64(len(p))
}

func checkWidth(X [][]float64, width int) error {
	for i, x := range X {
		if len(x) != width {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrFeatureMismatch, i, len(x), width)
		}
	}
	return nil
}
