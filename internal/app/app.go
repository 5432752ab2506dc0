package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/chrissnell/lakealmanac/internal/archive"
	"github.com/chrissnell/lakealmanac/internal/controllers/restserver"
	"github.com/chrissnell/lakealmanac/internal/log"
	"github.com/chrissnell/lakealmanac/internal/metrics"
	"github.com/chrissnell/lakealmanac/internal/storage"
	"github.com/chrissnell/lakealmanac/internal/storage/readings"
	"github.com/chrissnell/lakealmanac/pkg/almanac"
	"github.com/chrissnell/lakealmanac/pkg/config"
	"github.com/chrissnell/lakealmanac/pkg/thingspeak"
	"go.uber.org/zap"
)

// ErrNoDatabase is returned by operations that need the readings database
// when database.url is not configured.
var ErrNoDatabase = errors.New("readings database not configured")

// DaySource fetches one day of sensor feed
type DaySource interface {
	FetchDay(ctx context.Context, day string) (*thingspeak.DayResponse, error)
}

// ResponseArchive stores raw feed bodies by day
type ResponseArchive interface {
	Exists(day string) bool
	Write(day string, body []byte) error
	Read(day string) ([]byte, error)
}

// ReadingsStore is the raw readings database
type ReadingsStore interface {
	Insert(ctx context.Context, rows []readings.Row) (int, error)
	LatestDate(ctx context.Context) (*time.Time, error)
	ExistingDates(ctx context.Context, start, end string, loc *time.Location) (map[string]struct{}, error)
}

// Deps are the components an App drives. Readings and Metrics are optional.
type Deps struct {
	Store    storage.AlmanacStore
	Archive  ResponseArchive
	Source   DaySource
	Readings ReadingsStore
	Metrics  *metrics.Manager
}

// App represents the main application
type App struct {
	cfg     *config.ConfigData
	logger  *zap.SugaredLogger
	updater *almanac.Updater

	store    storage.AlmanacStore
	archive  ResponseArchive
	source   DaySource
	readings ReadingsStore
	metrics  *metrics.Manager

	closers []func()
	now     func() time.Time
}

// New creates an application over already-constructed components
func New(cfg *config.ConfigData, logger *zap.SugaredLogger, deps Deps) (*App, error) {
	loc, err := time.LoadLocation(cfg.Almanac.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading almanac timezone: %w", err)
	}

	updater, err := almanac.NewUpdater(almanac.Options{
		Location:            loc,
		SequenceSize:        cfg.Almanac.SequenceSize,
		SummerSplitMonth:    time.Month(cfg.Almanac.SummerSplitMonth),
		SummerSplitDay:      cfg.Almanac.SummerSplitDay,
		DaytimeStartHour:    cfg.Almanac.DaytimeStartHour,
		DaytimeEndHour:      cfg.Almanac.DaytimeEndHour,
		SeasonReferenceYear: cfg.Almanac.SeasonReferenceYear,
		Logger:              logger,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		updater:  updater,
		store:    deps.Store,
		archive:  deps.Archive,
		source:   deps.Source,
		readings: deps.Readings,
		metrics:  deps.Metrics,
		now:      time.Now,
	}, nil
}

// Open wires the configured almanac store, archive, sensor client and, when
// database.url is set, the readings database.
func Open(ctx context.Context, cfg *config.ConfigData, logger *zap.SugaredLogger) (*App, error) {
	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client, err := thingspeak.NewClient(thingspeak.Options{
		BaseURL:         cfg.Sensor.BaseURL,
		ChannelID:       cfg.Sensor.ChannelID,
		RequestTimezone: cfg.Sensor.RequestTimezone,
		EarliestDay:     cfg.Sensor.EarliestDay,
		Timeout:         cfg.Sensor.Timeout,
		Logger:          logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	deps := Deps{
		Store:   store,
		Archive: archive.New(cfg.Archive.Root, logger),
		Source:  client,
		Metrics: metrics.NewManager(),
	}

	var rs *readings.Store
	if cfg.Database.URL != "" {
		rs, err = readings.Open(ctx, cfg.Database.URL, cfg.Database.BatchSize, logger)
		if err != nil {
			store.Close()
			return nil, err
		}
		deps.Readings = rs
	}

	a, err := New(cfg, logger, deps)
	if err != nil {
		store.Close()
		if rs != nil {
			rs.Close()
		}
		return nil, err
	}
	if rs != nil {
		a.closers = append(a.closers, rs.Close)
	}
	return a, nil
}

// Close releases the store and database connections
func (a *App) Close() error {
	for _, c := range a.closers {
		c()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Updater returns the almanac updater built from the configuration
func (a *App) Updater() *almanac.Updater {
	return a.updater
}

// Store returns the almanac store
func (a *App) Store() storage.AlmanacStore {
	return a.store
}

// Yesterday returns the previous day in the almanac timezone
func (a *App) Yesterday() string {
	return a.now().In(a.updater.Location()).AddDate(0, 0, -1).Format(time.DateOnly)
}

// RunOptions selects the long-running services started by Run
type RunOptions struct {
	Serve    bool
	Schedule bool
}

// Run starts the REST server and/or the daily scheduler and blocks until
// shutdown
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.Serve {
		srv := restserver.New(a.cfg.Server.ListenAddr, a.store, a.metrics, a.logger)
		if err := srv.Start(ctx, &wg); err != nil {
			return err
		}
	}

	if opts.Schedule {
		sched, err := a.NewScheduler()
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	log.Info("Application started successfully")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	cancel()

	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
