package retention

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adhocore/gronx"

	"suggestbox/pkg/config"
	"suggestbox/pkg/logger"
	"suggestbox/pkg/store"
)

const defaultCron = "0 2 * * *"

// Start launches the purge scheduler when retention is enabled and returns
// a cancel func. Read suggestions older than the configured period are
// removed on each run; unread suggestions are never touched.
func Start(ctx context.Context, cfg config.RetentionConfig, st *store.Store) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("retention_disabled")
		return func() {}, nil
	}

	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = defaultCron
	}
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid retention cron expression: %s", cfg.Cron)
	}

	period, err := ParsePeriod(cfg.Period)
	if err != nil {
		return nil, fmt.Errorf("invalid retention period: %w", err)
	}

	logger.Info("retention_enabled", "cron", cronExpr, "period", period.String())
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, st, cronExpr, period)
	return cancel, nil
}

// runScheduler sleeps until the next cron tick and triggers a purge run.
func runScheduler(ctx context.Context, st *store.Store, cronExpr string, period time.Duration) {
	for {
		next, err := gronx.NextTick(cronExpr, false)
		if err != nil {
			logger.Error("retention_next_tick_failed", "error", err)
			return
		}
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if err := RunOnce(st, period); err != nil {
			logger.Error("retention_run_failed", "error", err)
		}
	}
}

// RunOnce purges read suggestions created before now-period. Exposed so
// tests and admin tooling can trigger a run on demand.
func RunOnce(st *store.Store, period time.Duration) error {
	recs, err := st.List()
	if err != nil {
		return err
	}
	cutoff := time.Now().UTC().Add(-period)
	purged := 0
	for _, r := range recs {
		if !r.IsRead {
			continue
		}
		created, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			logger.Warn("retention_bad_timestamp", "id", r.ID, "createdAt", r.CreatedAt)
			continue
		}
		if created.Before(cutoff) {
			if err := st.Delete(r.ID); err != nil {
				return err
			}
			purged++
		}
	}
	logger.Info("retention_run_complete", "purged", purged, "cutoff", cutoff.Format(time.RFC3339))
	return nil
}

// ParsePeriod parses a retention period. Plain Go durations are accepted,
// plus day ("30d") and week ("4w") suffixes. Empty input defaults to 30
// days.
func ParsePeriod(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 30 * 24 * time.Hour, nil
	}
	if strings.HasSuffix(s, "d") || strings.HasSuffix(s, "w") {
		unit := 24 * time.Hour
		if strings.HasSuffix(s, "w") {
			unit = 7 * 24 * time.Hour
		}
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("bad period %q", s)
		}
		return time.Duration(n) * unit, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("bad period %q", s)
	}
	return d, nil
}
