package app

import (
	"context"
	"errors"
	"time"

	"github.com/Korpiaveli/filingsflow-sub000/internal/service"
	"github.com/Korpiaveli/filingsflow-sub000/internal/storage"
)

// Backfill reprocesses historical detection windows, one scheduler interval
// at a time. Thanks to the fingerprint-idempotent find-or-create this is safe
// to rerun over windows that were already processed.
func (a *App) Backfill(ctx context.Context, opts BackfillOptions) error {
	interval := a.Config.Scheduler.Interval
	if interval <= 0 {
		return errors.New("scheduler.interval is not valid")
	}

	start := alignForward(opts.From.UTC(), interval)
	end := opts.To.UTC()
	if !start.Before(end) {
		return errors.New("backfill range is empty; check --from/--to")
	}

	var store *storage.Store
	if opts.DryRun {
		a.Logger.Warn().Msg("backfill dry-run: nothing will be written")
	} else {
		dbStore, closeStore, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		if dbStore == nil {
			return errors.New("database.dsn not configured; cannot backfill")
		}
		defer closeStore()
		store = dbStore
	}

	source, closeSource, err := a.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource()

	detector, err := a.newDetector()
	if err != nil {
		return err
	}

	var clusterStore storage.ClusterStore
	if store != nil {
		clusterStore = store
	}
	svc := service.New(a.Config, nil, source, detector, clusterStore, a.Logger)

	processed := 0
	failed := 0
	for bucket := start; bucket.Before(end); bucket = bucket.Add(interval) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := svc.ProcessWindow(ctx, bucket); err != nil {
			failed++
			a.Logger.Error().Err(err).Time("bucket", bucket).Msg("backfill window failed")
			continue
		}
		processed++
	}

	a.Logger.Info().Int("processed", processed).Int("failed", failed).Msg("backfill finished")
	if failed > 0 {
		return errors.New("some windows failed to backfill; check logs")
	}
	return nil
}

func alignForward(t time.Time, interval time.Duration) time.Time {
	truncated := t.Truncate(interval)
	if truncated.Before(t) {
		return truncated.Add(interval)
	}
	return truncated
}
