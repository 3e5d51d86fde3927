package backtest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/ml"
	"github.com/yourusername/courtside/internal/models"
)

func TestPredictWithReloadedModel(t *testing.T) {
	store, matchups := syntheticSeason(t, 3)
	engine, err := NewEngine(goldenConfig(), store, quietLogger())
	require.NoError(t, err)

	outcome, err := engine.Run(context.Background(), "2023-24", matchups)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, ml.SaveModel(path, outcome.Model))
	loaded, err := ml.LoadModel(path)
	require.NoError(t, err)

	upcoming := []models.Matchup{
		{HomeTeam: "AAA", AwayTeam: "CCC", Date: "Nov 19, 2023"},
		{HomeTeam: "CCC", AwayTeam: "AAA", Date: "2023-11-20"},
		{HomeTeam: "AAA", AwayTeam: "ZZZ", Date: "2023-11-20"},
	}
	forecasts, skips, err := engine.Predict(context.Background(), loaded, upcoming)
	require.NoError(t, err)

	require.Len(t, forecasts, 2)
	require.Len(t, skips, 1)
	assert.Equal(t, features.ReasonMissingTeam, skips[0].Reason)

	home := forecasts[0]
	assert.Equal(t, "2023-11-19", home.Date.Format("2006-01-02"))
	assert.Equal(t, 1, home.Predicted)
	assert.Equal(t, "AAA", home.Winner)
	assert.Equal(t, "AAA", forecasts[1].Winner)
	assert.Equal(t, 0, forecasts[1].Predicted)

	for _, f := range forecasts {
		x := f.Features.Values()
		assert.InDelta(t, outcome.Model.PredictProba(x), f.Probability, 1e-12)
		assert.Equal(t, models.Prediction{Probability: f.Probability}.MeetsThreshold(ml.DefaultConfidenceThreshold), f.HighConfidence)
	}
}

func TestPredictRejectsForeignModel(t *testing.T) {
	store, _ := syntheticSeason(t, 2)
	engine, err := NewEngine(goldenConfig(), store, quietLogger())
	require.NoError(t, err)

	foreign := &ml.Model{
		FeatureNames: []string{"x"},
		Trees:        []ml.Tree{{Nodes: []ml.Node{{Leaf: true, Value: 0.3}}}},
	}
	_, _, err = engine.Predict(context.Background(), foreign, []models.Matchup{
		{HomeTeam: "AAA", AwayTeam: "BBB", Date: "2023-11-20"},
	})
	assert.True(t, errors.Is(err, ml.ErrFeatureMismatch))

	_, _, err = engine.Predict(context.Background(), nil, nil)
	assert.Error(t, err)
}
