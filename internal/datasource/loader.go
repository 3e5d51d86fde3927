package datasource

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/gamelog"
	"github.com/yourusername/courtside/internal/logger"
)

// LoadStore fetches every team's log into a fresh store. Teams that fail are
// logged and left out; they surface later as missing-team skips. Only context
// cancellation aborts the load.
func LoadStore(ctx context.Context, fetcher TeamLogFetcher, teamList []string, season string, log *logrus.Logger) (*gamelog.Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	ingestLog := logger.NewIngestLogger(log)
	store := gamelog.NewStore()

	for _, team := range teamList {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := fetcher.FetchTeamLog(ctx, team, season)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			ingestLog.LogTeamFailed(team, season, err)
			continue
		}
		if err := store.Insert(records...); err != nil {
			ingestLog.LogTeamFailed(team, season, err)
		}
	}
	return store, nil
}
