// Package cron runs the grant reaper: a recurring sweep that deletes expired
// token grants. Point lookups filter expiry themselves, so the sweep only
// bounds storage growth; it is never the sole enforcer.
package cron

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/peershare/peershare/config"
	"github.com/peershare/peershare/internal/clock"
	"github.com/peershare/peershare/pkg/store"
)

type Reaper struct {
	db     *store.Store
	clock  clock.Clock
	logger *zap.SugaredLogger
}

func NewReaper(db *store.Store, clk clock.Clock, logger *zap.SugaredLogger) *Reaper {
	if clk == nil {
		clk = clock.System()
	}
	return &Reaper{db: db, clock: clk, logger: logger}
}

// Start schedules the sweep and returns the running scheduler so the caller
// can stop it on shutdown. Returns nil when disabled.
func Start(cnf *config.ReaperConfig, r *Reaper) (*cron.Cron, error) {
	if !cnf.Enable {
		return nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(cnf.Schedule, r.Run); err != nil {
		return nil, err
	}
	c.Start()
	r.logger.Infow("grant reaper scheduled", "schedule", cnf.Schedule)
	return c, nil
}

// Run executes one sweep. A failing run logs and leaves the schedule intact.
func (r *Reaper) Run() {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorw("grant reaper panicked", "panic", rec)
		}
	}()
	removed, err := r.db.PruneExpired(r.clock.Now())
	if err != nil {
		r.logger.Errorw("grant reaper sweep failed", "err", err)
		return
	}
	r.logger.Infow("removed expired token grants", "count", removed)
}
