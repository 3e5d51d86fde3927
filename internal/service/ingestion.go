// Package service coordinates refreshing the game log snapshot from the stats provider.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/gamelog"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/models"
)

// ErrNoRecords is returned when a refresh fetched nothing, leaving the snapshot untouched
var ErrNoRecords = errors.New("no game records fetched")

// SnapshotWriter persists a season's records
type SnapshotWriter interface {
	Save(ctx context.Context, season string, records []models.GameRecord) error
	Path() string
}

// IngestionService handles the snapshot refresh workflow
type IngestionService struct {
	fetcher  datasource.TeamLogFetcher
	snapshot SnapshotWriter
	teams    []string
	log      *logger.IngestLogger
	entry    *logrus.Entry
	metrics  *IngestionMetrics
	mu       sync.Mutex
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(fetcher datasource.TeamLogFetcher, snapshot SnapshotWriter, teams []string, log *logrus.Logger) *IngestionService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &IngestionService{
		fetcher:  fetcher,
		snapshot: snapshot,
		teams:    append([]string(nil), teams...),
		log:      logger.NewIngestLogger(log),
		entry:    log.WithField("component", "ingestion"),
		metrics:  NewIngestionMetrics(),
	}
}

// RefreshSeason fetches every configured team and replaces the season in the
// snapshot. Per-team failures are counted and logged; only cancellation, an
// empty result or a snapshot write failure return an error. Concurrent calls
// are serialized.
func (s *IngestionService) RefreshSeason(ctx context.Context, season string) (IngestionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Reset()
	s.metrics.SetRequested(len(s.teams))

	store := gamelog.NewStore()
	for _, team := range s.teams {
		if err := ctx.Err(); err != nil {
			return s.metrics.Report(), err
		}

		records, err := s.fetcher.FetchTeamLog(ctx, team, season)
		if err != nil {
			if ctx.Err() != nil {
				return s.metrics.Report(), ctx.Err()
			}
			s.metrics.RecordError()
			s.log.LogTeamFailed(team, season, err)
			continue
		}

		before := store.Len()
		if err := store.Insert(records...); err != nil {
			s.metrics.RecordError()
			s.log.LogTeamFailed(team, season, err)
			continue
		}
		s.metrics.RecordTeam(len(records), store.Len()-before)
	}

	s.metrics.Finish()

	if store.Len() == 0 {
		return s.metrics.Report(), fmt.Errorf("%w for season %s", ErrNoRecords, season)
	}

	records := store.Records()
	if err := s.snapshot.Save(ctx, season, records); err != nil {
		return s.metrics.Report(), fmt.Errorf("failed to write snapshot: %w", err)
	}
	s.log.LogSnapshotWritten(season, s.snapshot.Path(), len(records))
	s.entry.Info(s.metrics.String())

	return s.metrics.Report(), nil
}

// GetMetrics returns the metrics of the last refresh
func (s *IngestionService) GetMetrics() IngestionReport {
	return s.metrics.Report()
}
