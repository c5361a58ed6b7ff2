package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/readkeeper/internal/client/client"
)

// pollTimeout bounds a single background sync.
const pollTimeout = 30 * time.Second

// StartSyncPoller refreshes the current collection every updateInterval while
// a session is active. An interval of 0 disables polling until the setting
// changes. It returns when ctx is done.
func (a *App) StartSyncPoller(ctx context.Context) {
	for {
		interval := a.updateInterval(ctx)

		var tick <-chan time.Time
		var ticker *time.Ticker
		if interval > 0 {
			ticker = time.NewTicker(interval)
			tick = ticker.C
		}

		stop := a.pollUntilRescheduled(ctx, tick)
		if ticker != nil {
			ticker.Stop()
		}
		if stop {
			return
		}
	}
}

func (a *App) pollUntilRescheduled(ctx context.Context, tick <-chan time.Time) bool {
	for {
		select {
		case <-tick:
			a.pollOnce(ctx)
		case <-a.reschedule:
			return false
		case <-ctx.Done():
			return true
		}
	}
}

func (a *App) pollOnce(ctx context.Context) {
	if !a.isLoggedIn() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()
	_, err := a.syncer.Sync(ctx, a.currentCollection())
	switch {
	case err == nil:
	case client.IsTransient(err):
		a.log.Debug(ctx, "background sync skipped", "err", err)
	default:
		a.log.Warn(ctx, "background sync failed", "err", err)
	}
}

func (a *App) updateInterval(ctx context.Context) time.Duration {
	st, err := a.settings.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "cannot read update interval", "err", err)
		return 0
	}
	return st.UpdateInterval
}

// notifyReschedule wakes the poller after the interval setting changed.
func (a *App) notifyReschedule() {
	select {
	case a.reschedule <- struct{}{}:
	default:
	}
}
