package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/courtside/internal/models"
)

// RunMeta is the run context folded into a BacktestResult
type RunMeta struct {
	ID           uuid.UUID
	Season       string
	Method       string
	Skipped      int
	TrainCount   int
	StartDate    time.Time
	EndDate      time.Time
	TrainThrough time.Time
	TestFrom     time.Time
	SampleSize   int
	CreatedAt    time.Time
}

// BuildResult aggregates test predictions into an immutable result. The
// sample is the first SampleSize predictions in test order.
func BuildResult(predictions []models.Prediction, meta RunMeta) models.BacktestResult {
	result := models.BacktestResult{
		ID:           meta.ID,
		Season:       meta.Season,
		Method:       meta.Method,
		Total:        len(predictions),
		Skipped:      meta.Skipped,
		TrainCount:   meta.TrainCount,
		TestCount:    len(predictions),
		StartDate:    meta.StartDate,
		EndDate:      meta.EndDate,
		TrainThrough: meta.TrainThrough,
		TestFrom:     meta.TestFrom,
		CreatedAt:    meta.CreatedAt,
	}

	for _, p := range predictions {
		if p.Correct() {
			result.Correct++
		}
		if p.HighConfidence {
			result.HighConfidenceTotal++
			if p.Correct() {
				result.HighConfidenceCorrect++
			}
		}
	}
	if result.Total > 0 {
		result.Accuracy = float64(result.Correct) / float64(result.Total)
	}
	if result.HighConfidenceTotal > 0 {
		result.HighConfidenceAccuracy = float64(result.HighConfidenceCorrect) / float64(result.HighConfidenceTotal)
	}

	n := meta.SampleSize
	if n > len(predictions) {
		n = len(predictions)
	}
	if n > 0 {
		result.Sample = make([]models.Prediction, n)
		copy(result.Sample, predictions[:n])
	}
	return result
}

// GenerateConsoleReport formats a result for terminal output
func GenerateConsoleReport(result models.BacktestResult) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Season: %s (%s)\n", result.Season, result.Method))
	builder.WriteString(fmt.Sprintf("Games: %s to %s\n", result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Train: %d matchups through %s\n", result.TrainCount, result.TrainThrough.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Test: %d matchups from %s\n", result.TestCount, result.TestFrom.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Skipped: %d (%.1f%%)\n", result.Skipped, result.SkipRate()*100))
	builder.WriteString(fmt.Sprintf("Accuracy: %.2f%% (%d/%d)\n", result.Accuracy*100, result.Correct, result.Total))
	builder.WriteString(fmt.Sprintf("High Confidence Accuracy: %.2f%% (%d/%d)\n",
		result.HighConfidenceAccuracy*100, result.HighConfidenceCorrect, result.HighConfidenceTotal))

	if len(result.Sample) > 0 {
		builder.WriteString("\nSample Predictions\n")
		builder.WriteString("------------------\n")
		for _, p := range result.Sample {
			mark := "miss"
			if p.Correct() {
				mark = "hit"
			}
			builder.WriteString(fmt.Sprintf("%s %s vs %s: p(home)=%.3f predicted=%d actual=%d %s\n",
				p.Date.Format("2006-01-02"), p.HomeTeam, p.AwayTeam, p.Probability, p.Predicted, p.Actual, mark))
		}
	}
	return builder.String()
}

// GenerateCSVExport exports key metrics for spreadsheets
func GenerateCSVExport(result models.BacktestResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "metric,value\n" +
		fmt.Sprintf("season,%s\n", result.Season) +
		fmt.Sprintf("method,%s\n", result.Method) +
		fmt.Sprintf("total,%d\n", result.Total) +
		fmt.Sprintf("correct,%d\n", result.Correct) +
		fmt.Sprintf("accuracy,%.4f\n", result.Accuracy) +
		fmt.Sprintf("high_confidence_total,%d\n", result.HighConfidenceTotal) +
		fmt.Sprintf("high_confidence_correct,%d\n", result.HighConfidenceCorrect) +
		fmt.Sprintf("high_confidence_accuracy,%.4f\n", result.HighConfidenceAccuracy) +
		fmt.Sprintf("skipped,%d\n", result.Skipped) +
		fmt.Sprintf("train_count,%d\n", result.TrainCount) +
		fmt.Sprintf("test_count,%d\n", result.TestCount)
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}
