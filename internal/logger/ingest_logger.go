package logger

import (
	"github.com/sirupsen/logrus"
)

// IngestLogger provides dedicated logging for game log ingestion.
type IngestLogger struct {
	*logrus.Entry
}

// NewIngestLogger creates a new ingestion logger.
func NewIngestLogger(baseLogger *logrus.Logger) *IngestLogger {
	return &IngestLogger{
		Entry: baseLogger.WithField("component", "ingest"),
	}
}

// LogTeamFetched logs a team log pulled from the provider or cache.
func (il *IngestLogger) LogTeamFetched(team, season string, games int, cached bool) {
	il.WithFields(logrus.Fields{
		"team":   team,
		"season": season,
		"games":  games,
		"cached": cached,
	}).Info("Team game log fetched")
}

// LogTeamFailed logs a team that could not be fetched.
func (il *IngestLogger) LogTeamFailed(team, season string, err error) {
	il.WithFields(logrus.Fields{
		"team":   team,
		"season": season,
		"error":  err.Error(),
	}).Warn("Team game log fetch failed")
}

// LogSnapshotWritten logs a snapshot write.
func (il *IngestLogger) LogSnapshotWritten(season, path string, records int) {
	il.WithFields(logrus.Fields{
		"season":  season,
		"path":    path,
		"records": records,
	}).Info("Snapshot written")
}
