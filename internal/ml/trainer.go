package ml

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
)

// Stop reasons reported by Train
const (
	StopMaxRounds     = "max_rounds"
	StopEarlyStopping = "early_stopping"
	StopMaxDuration   = "max_duration"
)

// TrainReport describes how a training call went
type TrainReport struct {
	Rounds          int           `json:"rounds"`
	BestRound       int           `json:"best_round"`
	TrainLogLoss    float64       `json:"train_log_loss"`
	TestLogLoss     float64       `json:"test_log_loss"`
	TestLossHistory []float64     `json:"test_loss_history"`
	StopReason      string        `json:"stop_reason"`
	Duration        time.Duration `json:"duration"`
}

// Trainer fits boosted tree models
type Trainer struct {
	params       Params
	featureNames []string
	logger       *logger.MLLogger
}

// NewTrainer creates a trainer for rows whose columns are named featureNames
func NewTrainer(params Params, featureNames []string, log *logrus.Logger) (*Trainer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(featureNames) == 0 {
		return nil, fmt.Errorf("%w: no feature names", ErrInvalidParams)
	}
	if log == nil {
		log = logrus.New()
	}
	names := make([]string, len(featureNames))
	copy(names, featureNames)
	return &Trainer{params: params, featureNames: names, logger: logger.NewMLLogger(log)}, nil
}

// Params returns the trainer hyperparameters
func (t *Trainer) Params() Params {
	return t.params
}

// Train fits on the training partition, monitoring log loss on the test
// partition for early stopping, and returns the model truncated to its best round.
func (t *Trainer) Train(ctx context.Context, Xtrain [][]float64, ytrain []float64, Xtest [][]float64, ytest []float64) (*Model, *TrainReport, error) {
	if err := t.checkPartition("train", Xtrain, ytrain); err != nil {
		return nil, nil, err
	}
	if err := t.checkPartition("test", Xtest, ytest); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	p := t.params
	rng := rand.New(rand.NewSource(p.Seed))
	t.logger.LogTrainingStarted(len(Xtrain), len(Xtest), len(t.featureNames), p.asFields())

	base := logit(clamp(mean(ytrain), 1e-6, 1-1e-6))
	trainMargin := filled(len(Xtrain), base)
	testMargin := filled(len(Xtest), base)
	grad := make([]float64, len(Xtrain))
	hess := make([]float64, len(Xtrain))

	model := &Model{BaseScore: base, FeatureNames: t.featureNames, Params: p}
	report := &TrainReport{StopReason: StopMaxRounds}
	bestLoss := math.Inf(1)

	for round := 0; round < p.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("training cancelled at round %d: %w", round, err)
		}
		if p.MaxDuration > 0 && time.Since(start) > p.MaxDuration {
			report.StopReason = StopMaxDuration
			break
		}

		for i := range Xtrain {
			pr := sigmoid(trainMargin[i])
			grad[i] = pr - ytrain[i]
			hess[i] = math.Max(pr*(1-pr), 1e-16)
		}

		b := &treeBuilder{
			X:        Xtrain,
			grad:     grad,
			hess:     hess,
			features: sampleFeatures(rng, len(t.featureNames), p.ColSampleByTree),
			params:   p,
		}
		tree := b.build(sampleRows(rng, len(Xtrain), p.Subsample))
		model.Trees = append(model.Trees, tree)

		for i, x := range Xtrain {
			trainMargin[i] += tree.Predict(x)
		}
		for i, x := range Xtest {
			testMargin[i] += tree.Predict(x)
		}

		loss := LogLoss(probabilities(testMargin), ytest)
		report.TestLossHistory = append(report.TestLossHistory, loss)
		report.Rounds = round + 1
		if loss < bestLoss {
			bestLoss = loss
			report.BestRound = round
		}
		if p.EarlyStoppingRounds > 0 && round-report.BestRound >= p.EarlyStoppingRounds {
			report.StopReason = StopEarlyStopping
			t.logger.LogEarlyStop(round, report.BestRound, bestLoss)
			break
		}
	}

	if len(model.Trees) == 0 {
		return nil, nil, fmt.Errorf("training stopped before the first round: %w", ErrInsufficientData)
	}

	model.Trees = model.Trees[:report.BestRound+1]
	model.BestRound = report.BestRound
	report.TestLogLoss = bestLoss

	trainProbs, _ := model.Predict(Xtrain)
	report.TrainLogLoss = LogLoss(trainProbs, ytrain)
	report.Duration = time.Since(start)

	metrics.RecordTraining(report.Rounds, report.Duration.Seconds())
	t.logger.LogModelTraining(report.Rounds, report.Duration.Seconds(), map[string]float64{
		"train_log_loss": report.TrainLogLoss,
		"test_log_loss":  report.TestLogLoss,
	}, report.StopReason)

	return model, report, nil
}

func (t *Trainer) checkPartition(name string, X [][]float64, y []float64) error {
	if len(X) != len(y) {
		return fmt.Errorf("%s partition has %d rows but %d labels", name, len(X), len(y))
	}
	if len(X) < t.params.MinSamples {
		return &InsufficientDataError{Partition: name, Rows: len(X), Min: t.params.MinSamples}
	}
	if err := checkWidth(X, len(t.featureNames)); err != nil {
		return fmt.Errorf("%s partition: %w", name, err)
	}

	var positives int
	for i, label := range y {
		switch label {
		case 1:
			positives++
		case 0:
		default:
			return fmt.Errorf("%s partition row %d: %w", name, i, ErrInvalidLabel)
		}
	}
	if positives == 0 {
		return &DegenerateLabelError{Partition: name, Class: 0}
	}
	if positives == len(y) {
		return &DegenerateLabelError{Partition: name, Class: 1}
	}
	return nil
}

// sampleRows draws each row with probability fraction, falling back to every
// row when the draw comes up empty.
func sampleRows(rng *rand.Rand, n int, fraction float64) []int {
	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if fraction >= 1 || rng.Float64() < fraction {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		for i := 0; i < n; i++ {
			rows = append(rows, i)
		}
	}
	return rows
}

// sampleFeatures picks max(1, floor(fraction*n)) columns in ascending order
func sampleFeatures(rng *rand.Rand, n int, fraction float64) []int {
	if fraction >= 1 {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}
	k := int(fraction * float64(n))
	if k < 1 {
		k = 1
	}
	cols := rng.Perm(n)[:k]
	sort.Ints(cols)
	return cols
}

func probabilities(margins []float64) []float64 {
	out := make([]float64, len(margins))
	for i, m := range margins {
		out[i] = sigmoid(m)
	}
	return out
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
