package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/ml"
	"github.com/yourusername/courtside/internal/models"
)

// Export is the full JSON artifact of a run
type Export struct {
	Result            models.BacktestResult `json:"result"`
	Training          *ml.TrainReport       `json:"training,omitempty"`
	FeatureNames      []string              `json:"feature_names"`
	FeatureImportance []ml.Importance       `json:"feature_importance,omitempty"`
	Bootstrap         *BootstrapResult      `json:"bootstrap,omitempty"`
	WalkForward       *WalkForwardResult    `json:"walk_forward,omitempty"`
	Predictions       []models.Prediction   `json:"predictions"`
	Rows              []features.Row        `json:"rows"`
	Skips             []features.Skip       `json:"skips"`
}

// NewExport assembles the export for a single-split outcome
func NewExport(outcome *Outcome) Export {
	exp := Export{
		Result:       outcome.Result,
		Training:     outcome.Report,
		FeatureNames: features.FeatureNames(),
		Bootstrap:    outcome.Bootstrap,
		Predictions:  outcome.Predictions,
		Rows:         outcome.Rows,
		Skips:        outcome.Skips,
	}
	if outcome.Model != nil {
		exp.FeatureImportance = outcome.Model.FeatureImportance()
	}
	return exp
}

// ExportToJSON writes export data to JSON file
func ExportToJSON(export Export, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}
