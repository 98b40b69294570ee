package store

import (
	"context"
	"log/slog"
	"time"
)

// Sweep deletes sessions idle for longer than ttl every interval until ctx
// is done.
func Sweep(
	ctx context.Context,
	st Store,
	ttl, interval time.Duration,
	logger *slog.Logger,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n, err := st.DeleteIdle(ctx, now.Add(-ttl))
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("unable to sweep idle sessions", slog.Any("error", err))
				continue
			}
			if n > 0 {
				logger.Debug("swept idle sessions", slog.Int64("count", n))
			}
		}
	}
}
