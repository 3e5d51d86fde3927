package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordBacktestRun(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(BacktestRunsTotal.WithLabelValues("success"))

	RecordBacktestRun("success", 1.5)

	assert.Equal(t, before+1, testutil.ToFloat64(BacktestRunsTotal.WithLabelValues("success")))
}

func TestRecordBacktestAccuracy(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		season   string
		accuracy float64
		high     float64
	}{
		{"typical", "2023-24", 0.64, 0.71},
		{"perfect", "2022-23", 1, 1},
		{"empty high confidence", "2021-22", 0.55, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordBacktestAccuracy(tt.season, tt.accuracy, tt.high)
			assert.Equal(t, tt.accuracy, testutil.ToFloat64(BacktestAccuracy.WithLabelValues(tt.season)))
			assert.Equal(t, tt.high, testutil.ToFloat64(BacktestHighConfidenceAccuracy.WithLabelValues(tt.season)))
		})
	}
}

func TestRecordMatchupSkippedAndTraining(t *testing.T) {
	InitRegistry()
	skippedBefore := testutil.ToFloat64(MatchupsSkippedTotal.WithLabelValues("insufficient_history"))
	roundsBefore := testutil.ToFloat64(TrainingRoundsTotal)

	RecordMatchupSkipped("insufficient_history")
	RecordMatchupSkipped("insufficient_history")
	RecordTraining(17, 0.2)

	assert.Equal(t, skippedBefore+2, testutil.ToFloat64(MatchupsSkippedTotal.WithLabelValues("insufficient_history")))
	assert.Equal(t, roundsBefore+17, testutil.ToFloat64(TrainingRoundsTotal))
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordCircuitBreakerTrip()
	UpdateSnapshotGames("2023-24", 2460)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "courtside_circuit_breaker_trips_total"))
	assert.True(t, strings.Contains(body, `courtside_snapshot_games{season="2023-24"} 2460`))
}
