package features

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/courtside/internal/calendar"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/stats"
)

// DefaultLookbackGames is the number of prior games summarized per side
const DefaultLookbackGames = 10

// LogSource provides team game logs. *gamelog.Store implements it.
type LogSource interface {
	Log(team string) (models.TeamGameLog, error)
}

// Config parameterizes extraction
type Config struct {
	LookbackGames int
	Rating        stats.RatingConfig
	Locations     stats.Locations
	Workers       int
}

// DefaultConfig returns the stock extraction settings with the built-in arena table
func DefaultConfig() Config {
	return Config{
		LookbackGames: DefaultLookbackGames,
		Rating:        stats.DefaultRatingConfig(),
		Locations:     stats.DefaultLocations(),
		Workers:       1,
	}
}

// Row is one extracted matchup
type Row struct {
	Matchup  models.Matchup `json:"matchup"`
	Date     time.Time      `json:"date"`
	Vector   FeatureVector  `json:"features"`
	Label    int            `json:"label"`
	Labelled bool           `json:"labelled"`

	// Context reported alongside the vector but never fed to the model
	RestDifferential float64 `json:"rest_differential"`
	RestKnown        bool    `json:"rest_known"`
	FatiguePenalty   float64 `json:"fatigue_penalty"`
	HomeGames        int     `json:"home_games"`
	AwayGames        int     `json:"away_games"`
}

// GameDate returns the parsed matchup date
func (r Row) GameDate() time.Time {
	return r.Date
}

// Skip records a matchup dropped during extraction
type Skip struct {
	Matchup models.Matchup `json:"matchup"`
	Reason  string         `json:"reason"`
	Err     error          `json:"-"`
}

// Batch is the result of extracting many matchups
type Batch struct {
	Rows    []Row
	Skips   []Skip
	Skipped int
}

// Extractor computes point-in-time feature vectors
type Extractor struct {
	config Config
	logger *logrus.Logger
}

// NewExtractor creates an extractor, filling zero config values with defaults
func NewExtractor(cfg Config, logger *logrus.Logger) *Extractor {
	if cfg.LookbackGames <= 0 {
		cfg.LookbackGames = DefaultLookbackGames
	}
	if cfg.Rating == (stats.RatingConfig{}) {
		cfg.Rating = stats.DefaultRatingConfig()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Extractor{config: cfg, logger: logger}
}

// Config returns the extractor configuration
func (e *Extractor) Config() Config {
	return e.config
}

// Extract returns the feature vector for m using only games strictly before its date
func (e *Extractor) Extract(m models.Matchup, logs LogSource) (FeatureVector, error) {
	row, err := e.ExtractRow(m, logs)
	if err != nil {
		return FeatureVector{}, err
	}
	return row.Vector, nil
}

// ExtractRow is Extract plus the label and non-feature context
func (e *Extractor) ExtractRow(m models.Matchup, logs LogSource) (Row, error) {
	if err := m.Validate(); err != nil {
		return Row{}, err
	}
	date, err := calendar.Parse(m.Date)
	if err != nil {
		return Row{}, err
	}

	homeLog, err := logs.Log(m.HomeTeam)
	if err != nil {
		return Row{}, err
	}
	awayLog, err := logs.Log(m.AwayTeam)
	if err != nil {
		return Row{}, err
	}

	homePrior := homeLog.Before(date)
	awayPrior := awayLog.Before(date)
	if len(homePrior) == 0 {
		return Row{}, &InsufficientHistoryError{Team: m.HomeTeam, Date: date}
	}
	if len(awayPrior) == 0 {
		return Row{}, &InsufficientHistoryError{Team: m.AwayTeam, Date: date}
	}

	home := stats.Summarize(homePrior.LastN(e.config.LookbackGames), e.config.Rating)
	away := stats.Summarize(awayPrior.LastN(e.config.LookbackGames), e.config.Rating)

	distance := e.config.Locations.Distance(m.HomeTeam, m.AwayTeam)
	bucket, penalty := stats.TravelBucket(distance)

	row := Row{
		Matchup: m,
		Date:    date,
		Vector: FeatureVector{
			HomeNetRating:  home.NetRating,
			AwayNetRating:  away.NetRating,
			NetRatingDiff:  home.NetRating - away.NetRating,
			HomeCourt:      1,
			TravelDistance: distance,
			TravelBucket:   float64(bucket),
			HomeWinPct:     home.WinRate,
			AwayWinPct:     away.WinRate,
			WinPctDiff:     home.WinRate - away.WinRate,
			HomeOffRating:  home.AvgOffRating,
			AwayOffRating:  away.AvgOffRating,
			OffRatingDiff:  home.AvgOffRating - away.AvgOffRating,
		},
		FatiguePenalty: penalty,
		HomeGames:      home.Games,
		AwayGames:      away.Games,
	}
	row.Label, row.Labelled = m.Label()
	row.RestDifferential, row.RestKnown = stats.RestDifferential(homePrior, awayPrior, date)
	return row, nil
}

type slot struct {
	row Row
	err error
}

// ExtractAll extracts every matchup over a bounded worker pool. Per-matchup
// failures become skips; only context cancellation aborts the batch. Rows and
// skips keep the input order regardless of worker count.
func (e *Extractor) ExtractAll(ctx context.Context, matchups []models.Matchup, logs LogSource) (*Batch, error) {
	results := make([]slot, len(matchups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i := range matchups {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := e.ExtractRow(matchups[i], logs)
			results[i] = slot{row: row, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("feature extraction aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("feature extraction aborted: %w", err)
	}

	batch := &Batch{Rows: make([]Row, 0, len(matchups))}
	for i, r := range results {
		if r.err != nil {
			reason := SkipReason(r.err)
			batch.Skips = append(batch.Skips, Skip{Matchup: matchups[i], Reason: reason, Err: r.err})
			batch.Skipped++
			e.logger.WithFields(logrus.Fields{
				"home":   matchups[i].HomeTeam,
				"away":   matchups[i].AwayTeam,
				"date":   matchups[i].Date,
				"reason": reason,
			}).Debug("Matchup skipped during extraction")
			continue
		}
		batch.Rows = append(batch.Rows, r.row)
	}
	return batch, nil
}

// Matrix flattens rows into a feature matrix and label vector
func Matrix(rows []Row) ([][]float64, []float64) {
	X := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		X[i] = r.Vector.Values()
		y[i] = float64(r.Label)
	}
	return X, y
}
