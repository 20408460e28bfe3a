// Package service drives the detect-then-persist pipeline over disclosure
// windows.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
	"github.com/Korpiaveli/filingsflow-sub000/internal/config"
	"github.com/Korpiaveli/filingsflow-sub000/internal/feed"
	"github.com/Korpiaveli/filingsflow-sub000/internal/scheduler"
	"github.com/Korpiaveli/filingsflow-sub000/internal/storage"
)

// Service orchestrates fetching disclosure windows, cluster detection, and
// persistence.
type Service struct {
	scheduler *scheduler.Scheduler
	source    feed.Source
	detector  *cluster.Detector
	store     storage.ClusterStore
	logger    zerolog.Logger

	opts    cluster.Options
	locker  storage.AdvisoryLocker
	lockKey int64
}

// New constructs the detection service.
func New(cfg *config.Config, sched *scheduler.Scheduler, source feed.Source, detector *cluster.Detector, store storage.ClusterStore, logger zerolog.Logger) *Service {
	var locker storage.AdvisoryLocker
	if l, ok := store.(storage.AdvisoryLocker); ok {
		locker = l
	}

	return &Service{
		scheduler: sched,
		source:    source,
		detector:  detector,
		store:     store,
		logger:    logger.With().Str("component", "service").Logger(),
		opts: cluster.Options{
			Days:            cfg.Detection.Days,
			MinParticipants: cfg.Detection.MinParticipants,
			MinValue:        decimal.NewFromFloat(cfg.Detection.MinValue),
		},
		locker:  locker,
		lockKey: cfg.Scheduler.AdvisoryLockKey,
	}
}

// Run begins the scheduled detection loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.ProcessWindow)
}

// Detect fetches the window ending at until and runs detection without
// persisting. An empty result is a normal outcome, not an error.
func (s *Service) Detect(ctx context.Context, until time.Time, opts cluster.Options) ([]cluster.Detected, error) {
	window, err := s.source.FetchWindow(ctx, until, opts.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch window: %w", err)
	}
	return s.detector.DetectClusters(window.Insider, window.Congressional, window.Holdings, opts), nil
}

// ProcessWindow runs one full detect-and-persist pass for the window ending
// at the scheduled bucket.
func (s *Service) ProcessWindow(ctx context.Context, bucket time.Time) error {
	unlock, proceed, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	if !proceed {
		s.logger.Debug().Time("bucket", bucket).Msg("skip window because advisory lock held elsewhere")
		return nil
	}
	if unlock != nil {
		defer unlock()
	}

	detected, err := s.Detect(ctx, bucket, s.opts)
	if err != nil {
		return err
	}

	s.logger.Info().Time("bucket", bucket).Int("clusters", len(detected)).Msg("detection pass finished")

	if s.store == nil {
		return nil
	}
	s.PersistClusters(ctx, detected)
	return nil
}

// PersistClusters runs the find-or-create, record-action, and
// correlation-update steps for each detected cluster. Failures are isolated
// per cluster so one bad row never blocks the rest of the batch. Returns the
// number of clusters fully persisted.
func (s *Service) PersistClusters(ctx context.Context, detected []cluster.Detected) int {
	persisted := 0
	for _, c := range detected {
		if err := s.persistOne(ctx, c); err != nil {
			s.logger.Error().Err(err).
				Str("cluster_id", c.ID).
				Str("ticker", c.Ticker).
				Str("type", string(c.Type)).
				Msg("failed to persist cluster")
			continue
		}
		persisted++
	}
	return persisted
}

func (s *Service) persistOne(ctx context.Context, c cluster.Detected) error {
	clusterID, isNew, err := s.store.FindOrCreateCluster(ctx, c)
	if err != nil {
		return fmt.Errorf("find or create cluster: %w", err)
	}

	if _, err := s.store.RecordAction(ctx, clusterID, c); err != nil {
		return fmt.Errorf("record action: %w", err)
	}

	score, err := s.store.UpdateCorrelationScore(ctx, clusterID)
	if err != nil {
		return fmt.Errorf("update correlation score: %w", err)
	}

	s.logger.Info().
		Int64("definition_id", clusterID).
		Bool("is_new", isNew).
		Str("ticker", c.Ticker).
		Str("type", string(c.Type)).
		Float64("correlation_score", score).
		Msg("cluster persisted")
	return nil
}

func (s *Service) acquireLock(ctx context.Context) (func(), bool, error) {
	if s.lockKey == 0 || s.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := s.locker.TryAdvisoryLock(ctx, s.lockKey)
	if err != nil {
		return nil, false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}
