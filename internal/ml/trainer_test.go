package ml

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFeatures = []string{"x0", "x1", "x2"}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// linearData labels a row 1 when x0 + 0.5*x1 > 0; x2 is noise
func linearData(seed int64, n int, invert bool) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		X[i] = []float64{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}
		positive := X[i][0]+0.5*X[i][1] > 0
		if invert {
			positive = !positive
		}
		if positive {
			y[i] = 1
		}
	}
	return X, y
}

func newTrainer(t *testing.T, p Params) *Trainer {
	t.Helper()
	tr, err := NewTrainer(p, testFeatures, quietLogger())
	require.NoError(t, err)
	return tr
}

func TestTrainLearnsLinearBoundary(t *testing.T) {
	Xtr, ytr := linearData(1, 300, false)
	Xte, yte := linearData(2, 100, false)

	model, report, err := newTrainer(t, DefaultParams()).Train(context.Background(), Xtr, ytr, Xte, yte)
	require.NoError(t, err)
	require.NotNil(t, model)

	ev, err := Evaluate(model, Xte, yte, DefaultConfidenceThreshold)
	require.NoError(t, err)
	assert.Greater(t, ev.Accuracy, 0.85)
	assert.Equal(t, 100, ev.Total)
	assert.Len(t, model.Trees, report.BestRound+1)
	assert.Less(t, report.TestLogLoss, 0.6931)

	importance := model.FeatureImportance()
	require.Len(t, importance, 3)
	assert.Equal(t, "x0", importance[0].Feature)
}

func TestTrainIsDeterministicForSeed(t *testing.T) {
	Xtr, ytr := linearData(3, 120, false)
	Xte, yte := linearData(4, 40, false)

	first, firstReport, err := newTrainer(t, DefaultParams()).Train(context.Background(), Xtr, ytr, Xte, yte)
	require.NoError(t, err)
	second, secondReport, err := newTrainer(t, DefaultParams()).Train(context.Background(), Xtr, ytr, Xte, yte)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstReport.TestLossHistory, secondReport.TestLossHistory)
}

func TestTrainEarlyStopsOnMonitoredPartition(t *testing.T) {
	Xtr, ytr := linearData(5, 200, false)
	Xte, yte := linearData(6, 60, true)

	p := DefaultParams()
	p.Subsample = 1
	p.ColSampleByTree = 1
	model, report, err := newTrainer(t, p).Train(context.Background(), Xtr, ytr, Xte, yte)
	require.NoError(t, err)

	assert.Equal(t, StopEarlyStopping, report.StopReason)
	assert.Less(t, report.Rounds, p.MaxRounds)
	assert.Len(t, model.Trees, report.BestRound+1)
	assert.Equal(t, report.BestRound, model.BestRound)
	assert.Len(t, report.TestLossHistory, report.Rounds)
}

func TestTrainRejectsBadPartitions(t *testing.T) {
	Xtr, ytr := linearData(7, 60, false)
	Xte, yte := linearData(8, 40, false)

	ones := make([]float64, len(ytr))
	for i := range ones {
		ones[i] = 1
	}
	zeros := make([]float64, len(yte))

	tr := newTrainer(t, DefaultParams())

	t.Run("too few train rows", func(t *testing.T) {
		_, _, err := tr.Train(context.Background(), Xtr[:10], ytr[:10], Xte, yte)
		var insufficient *InsufficientDataError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, "train", insufficient.Partition)
		assert.Equal(t, 10, insufficient.Rows)
		assert.True(t, errors.Is(err, ErrInsufficientData))
	})

	t.Run("too few test rows", func(t *testing.T) {
		_, _, err := tr.Train(context.Background(), Xtr, ytr, Xte[:5], yte[:5])
		var insufficient *InsufficientDataError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, "test", insufficient.Partition)
	})

	t.Run("single class train", func(t *testing.T) {
		_, _, err := tr.Train(context.Background(), Xtr, ones, Xte, yte)
		var degenerate *DegenerateLabelError
		require.True(t, errors.As(err, &degenerate))
		assert.Equal(t, 1, degenerate.Class)
		assert.True(t, errors.Is(err, ErrDegenerateLabel))
	})

	t.Run("single class test", func(t *testing.T) {
		_, _, err := tr.Train(context.Background(), Xtr, ytr, Xte, zeros)
		var degenerate *DegenerateLabelError
		require.True(t, errors.As(err, &degenerate))
		assert.Equal(t, "test", degenerate.Partition)
		assert.Equal(t, 0, degenerate.Class)
	})

	t.Run("ragged rows", func(t *testing.T) {
		ragged := make([][]float64, len(Xtr))
		copy(ragged, Xtr)
		ragged[3] = []float64{1}
		_, _, err := tr.Train(context.Background(), ragged, ytr, Xte, yte)
		assert.True(t, errors.Is(err, ErrFeatureMismatch))
	})

	t.Run("non binary label", func(t *testing.T) {
		bad := make([]float64, len(ytr))
		copy(bad, ytr)
		bad[0] = 2
		_, _, err := tr.Train(context.Background(), Xtr, bad, Xte, yte)
		assert.True(t, errors.Is(err, ErrInvalidLabel))
	})
}

func TestTrainHonoursCancellation(t *testing.T) {
	Xtr, ytr := linearData(9, 60, false)
	Xte, yte := linearData(10, 40, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTrainer(t, DefaultParams()).Train(ctx, Xtr, ytr, Xte, yte)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"depth", func(p *Params) { p.MaxDepth = 0 }},
		{"learning rate", func(p *Params) { p.LearningRate = 0 }},
		{"subsample", func(p *Params) { p.Subsample = 1.5 }},
		{"colsample", func(p *Params) { p.ColSampleByTree = 0 }},
		{"rounds", func(p *Params) { p.MaxRounds = 0 }},
		{"early stopping", func(p *Params) { p.EarlyStoppingRounds = -1 }},
		{"lambda", func(p *Params) { p.Lambda = -1 }},
		{"min samples", func(p *Params) { p.MinSamples = 0 }},
	}

	require.NoError(t, DefaultParams().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.True(t, errors.Is(p.Validate(), ErrInvalidParams))
		})
	}
}

// stump predicts p=sigmoid(-2) below zero and p=sigmoid(0.2) otherwise
func stump() *Model {
	return &Model{
		FeatureNames: []string{"x"},
		Trees: []Tree{{Nodes: []Node{
			{Feature: 0, Threshold: 0, Left: 1, Right: 2},
			{Leaf: true, Value: -2},
			{Leaf: true, Value: 0.2},
		}}},
	}
}

func TestEvaluate(t *testing.T) {
	X := [][]float64{{-1}, {-0.5}, {1}, {2}}
	y := []float64{0, 1, 1, 0}

	ev, err := Evaluate(stump(), X, y, DefaultConfidenceThreshold)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1}, ev.Predicted)
	assert.Equal(t, 4, ev.Total)
	assert.Equal(t, 2, ev.Correct)
	assert.InDelta(t, 0.5, ev.Accuracy, 1e-12)
	assert.Equal(t, 2, ev.HighConfidenceTotal)
	assert.Equal(t, 1, ev.HighConfidenceCorrect)
	assert.InDelta(t, 0.5, ev.HighConfidenceAccuracy, 1e-12)
	assert.Equal(t, []bool{true, true, false, false}, ev.HighConfidence)
}

func TestEvaluateEmptyHighConfidence(t *testing.T) {
	ev, err := Evaluate(stump(), [][]float64{{1}, {3}}, []float64{1, 1}, 0.4)
	require.NoError(t, err)
	assert.Equal(t, 0, ev.HighConfidenceTotal)
	assert.Equal(t, 0.0, ev.HighConfidenceAccuracy)
	assert.Equal(t, 1.0, ev.Accuracy)
}

func TestEvaluateWidthMismatch(t *testing.T) {
	_, err := Evaluate(stump(), [][]float64{{1, 2}}, []float64{1}, 0.15)
	assert.True(t, errors.Is(err, ErrFeatureMismatch))
}

func TestEvaluateLabelCountMismatch(t *testing.T) {
	X := [][]float64{{-1}, {1}, {2}}
	_, err := Evaluate(stump(), X, []float64{0, 1}, DefaultConfidenceThreshold)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 rows but 2 labels")

	_, err = Evaluate(stump(), X[:1], []float64{0, 1}, DefaultConfidenceThreshold)
	assert.Error(t, err)
}

func TestSaveLoadModel(t *testing.T) {
	Xtr, ytr := linearData(11, 80, false)
	Xte, yte := linearData(12, 40, false)
	model, _, err := newTrainer(t, DefaultParams()).Train(context.Background(), Xtr, ytr, Xte, yte)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "models", "model.json")
	require.NoError(t, SaveModel(path, model))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, model.FeatureNames, loaded.FeatureNames)
	for _, x := range Xte {
		assert.InDelta(t, model.PredictProba(x), loaded.PredictProba(x), 1e-12)
	}

	_, err = LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
