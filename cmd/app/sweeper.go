package main

import (
	"context"
	"log/slog"
	"time"
)

// startSessionSweeper deletes expired sessions every interval until ctx is done. Expired
// sessions are still rejected and removed on use; this only bounds table growth. A zero
// interval disables it.
func (app *application) startSessionSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				app.sweepSessions(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (app *application) sweepSessions(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := app.userService.SweepExpiredSessions(ctx)
	if err != nil {
		app.logger.Error("session sweep failed", slog.String("error", err.Error()))
		return
	}

	if n > 0 {
		app.logger.Info("swept expired sessions", slog.Int64("count", n))
	}
}
