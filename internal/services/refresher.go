package services

import (
	"context"
	"time"
)

// StartRefresher re-fetches jobs and companies every interval until ctx is done, so a
// long-running process does not serve an ever-older mirror. A zero interval disables it.
func (s *PortalService) StartRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Info("⚠️ Background refresh disabled (REFRESH_INTERVAL is 0)")
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.log.Debug("🔄 Refreshing jobs and companies")
				// Failures are already logged and notified by the fetches.
				_ = s.Load(ctx)
			}
		}
	}()
}
