package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/xpense/xpense-server/internal/services"
)

// Retention prunes old audit events on a cron schedule so the events
// table does not grow without bound.
type Retention struct {
	events services.EventServiceProvider
	days   int
	cron   *cron.Cron
}

// NewRetention creates a retention job keeping the given number of
// days of events.
func NewRetention(events services.EventServiceProvider, days int) *Retention {
	return &Retention{events: events, days: days, cron: cron.New()}
}

// Start schedules the daily prune. It runs once immediately so a
// long-stopped server catches up on startup.
func (r *Retention) Start() error {
	if _, err := r.cron.AddFunc("@daily", r.prune); err != nil {
		return err
	}
	r.cron.Start()
	go r.prune()
	return nil
}

// Stop halts the cron scheduler.
func (r *Retention) Stop() {
	r.cron.Stop()
}

func (r *Retention) prune() {
	cutoff := time.Now().AddDate(0, 0, -r.days)
	removed, err := r.events.PruneOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Retention: failed to prune events")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("Pruned old events")
	}
}
