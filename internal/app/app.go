package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
	"github.com/Korpiaveli/filingsflow-sub000/internal/config"
	"github.com/Korpiaveli/filingsflow-sub000/internal/feed"
	"github.com/Korpiaveli/filingsflow-sub000/internal/match"
	"github.com/Korpiaveli/filingsflow-sub000/internal/scheduler"
	"github.com/Korpiaveli/filingsflow-sub000/internal/service"
	"github.com/Korpiaveli/filingsflow-sub000/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newDetector() (*cluster.Detector, error) {
	registry, err := match.LoadRegistry(a.Config.Registry)
	if err != nil {
		return nil, err
	}
	return cluster.NewDetector(registry, a.Logger), nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

func (a *App) openSource(ctx context.Context) (feed.Source, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, errors.New("database.dsn not configured; no disclosure feed available")
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	source := feed.NewPostgresSource(pool, a.Logger)
	closer := func() {
		pool.Close()
	}
	return source, closer, nil
}

// Run executes the long-running scheduled detection service.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database.dsn is required for the detection service")
	}
	defer closeStore()

	detector, err := a.newDetector()
	if err != nil {
		return err
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToBucket,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	// The feed reads from the same database the cluster tables live in.
	source := feed.NewPostgresSource(store.Pool(), a.Logger)

	svc := service.New(a.Config, sched, source, detector, store, a.Logger)

	a.Logger.Info().Msg("starting detection service")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("detection service stopped")
	return nil
}

// ScanOptions configure an on-demand detection pass.
type ScanOptions struct {
	Days            int
	MinParticipants int
	MinValue        float64
	Persist         bool
	Sample          bool
}

// TopOptions configure the top command.
type TopOptions struct {
	Limit int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	ClusterID int64
}

// ExportOptions hold parameters for exporting a definition's action history.
type ExportOptions struct {
	ClusterID  int64
	CSVPath    string
	PNGPath    string
	MaxActions int
}

// BackfillOptions configure historical window reprocessing.
type BackfillOptions struct {
	From   time.Time
	To     time.Time
	DryRun bool
}
