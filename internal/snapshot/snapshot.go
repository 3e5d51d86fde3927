// Package snapshot freezes a season's game logs in SQLite so backtests can be
// re-run against identical data.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yourusername/courtside/internal/calendar"
	"github.com/yourusername/courtside/internal/gamelog"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
)

// ErrEmptySeason is returned by Load when nothing was saved for the season
var ErrEmptySeason = errors.New("snapshot has no games for season")

const schema = `
CREATE TABLE IF NOT EXISTS game_records (
	season     TEXT    NOT NULL,
	team       TEXT    NOT NULL,
	game_date  TEXT    NOT NULL,
	opponent   TEXT    NOT NULL,
	home       INTEGER NOT NULL,
	points_for INTEGER NOT NULL,
	fga        INTEGER NOT NULL,
	fta        INTEGER NOT NULL,
	oreb       INTEGER NOT NULL,
	tov        INTEGER NOT NULL,
	won        INTEGER NOT NULL,
	PRIMARY KEY (season, team, game_date, opponent)
);
CREATE INDEX IF NOT EXISTS idx_game_records_season ON game_records (season, game_date);
`

// Snapshot is a SQLite-backed game record archive
type Snapshot struct {
	db   *sql.DB
	path string
}

// Open opens or creates the snapshot file at path
func Open(path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}
	return &Snapshot{db: db, path: path}, nil
}

// Path returns the file the snapshot lives in
func (s *Snapshot) Path() string {
	return s.path
}

// Save replaces every record stored for season with records
func (s *Snapshot) Save(ctx context.Context, season string, records []models.GameRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_records WHERE season = ?`, season); err != nil {
		return fmt.Errorf("clear season %s: %w", season, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO game_records
		(season, team, game_date, opponent, home, points_for, fga, fta, oreb, tov, won)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range records {
		if _, err := stmt.ExecContext(ctx,
			season, g.Team, calendar.Format(g.Date), g.Opponent, g.Home,
			g.PointsFor, g.FieldGoalAttempts, g.FreeThrowAttempts, g.OffensiveRebounds, g.Turnovers, g.Won,
		); err != nil {
			return fmt.Errorf("insert %s: %w", g.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	metrics.UpdateSnapshotGames(season, len(records))
	return nil
}

// Load returns the season's records ordered by date, team and opponent
func (s *Snapshot) Load(ctx context.Context, season string) ([]models.GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team, game_date, opponent, home, points_for, fga, fta, oreb, tov, won
		FROM game_records
		WHERE season = ?
		ORDER BY game_date, team, opponent`, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		var (
			g    models.GameRecord
			date string
		)
		if err := rows.Scan(&g.Team, &date, &g.Opponent, &g.Home, &g.PointsFor,
			&g.FieldGoalAttempts, &g.FreeThrowAttempts, &g.OffensiveRebounds, &g.Turnovers, &g.Won); err != nil {
			return nil, err
		}
		if g.Date, err = calendar.Parse(date); err != nil {
			return nil, err
		}
		records = append(records, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w %s", ErrEmptySeason, season)
	}
	return records, nil
}

// LoadStore loads the season straight into a game log store
func (s *Snapshot) LoadStore(ctx context.Context, season string) (*gamelog.Store, error) {
	records, err := s.Load(ctx, season)
	if err != nil {
		return nil, err
	}
	store := gamelog.NewStore()
	if err := store.Insert(records...); err != nil {
		return nil, err
	}
	return store, nil
}

// Seasons lists the seasons present in the snapshot
func (s *Snapshot) Seasons(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT season FROM game_records ORDER BY season`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []string
	for rows.Next() {
		var season string
		if err := rows.Scan(&season); err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

// Close closes the underlying database
func (s *Snapshot) Close() error {
	return s.db.Close()
}
