package cmd

import (
	"context"
	"fmt"

	"github.com/JINMI714/JMsTube/internal/config"
	"github.com/JINMI714/JMsTube/internal/discovery"
	"github.com/JINMI714/JMsTube/internal/history"
	"github.com/JINMI714/JMsTube/internal/logging"
	"github.com/JINMI714/JMsTube/internal/store"
	"github.com/JINMI714/JMsTube/internal/yt"
	"github.com/JINMI714/JMsTube/internal/yt/services"
	"go.uber.org/zap"
)

// deps holds everything a command needs, built once from configuration.
type deps struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   store.KeyValueStore
	history *history.Cache
	prefs   *discovery.Preferences
}

// loadDeps reads configuration and opens the logger, the store and the history.
// logFallback is where logs go when log.file is unset; empty discards them.
func loadDeps(ctx context.Context, logFallback string) (*deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, logFallback)
	if err != nil {
		return nil, err
	}

	kv, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", zap.String("backend", cfg.Store.Backend))

	h, err := history.New(ctx, kv,
		history.WithTimeLayout(cfg.History.TimeLayout),
		history.WithLogger(logger.Named("history")))
	if err != nil {
		kv.Close()
		return nil, err
	}

	return &deps{
		cfg:     cfg,
		logger:  logger,
		store:   kv,
		history: h,
		prefs:   discovery.NewPreferences(kv),
	}, nil
}

func openStore(cfg config.StoreConfig) (store.KeyValueStore, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return store.NewRedis(store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.BackendMemory:
		return store.NewMemory(), nil
	default:
		return store.NewSQLite(cfg.SQLitePath)
	}
}

func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		d.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = d.logger.Sync()
}

// defaultFilters applies the configured defaults over the built-in ones.
func (d *deps) defaultFilters() discovery.FilterConfig {
	f := discovery.DefaultFilterConfig()
	f.ResultLimit = d.cfg.Defaults.ResultLimit
	f.PeriodDays = d.cfg.Defaults.PeriodDays
	f.RegionCode = d.cfg.Defaults.Region
	return f
}

// searcher creates the YouTube client and the two-phase search service.
func (d *deps) searcher(ctx context.Context) (services.SearchService, error) {
	client, err := yt.NewClient(ctx, yt.ClientOptions{
		APIKey:   d.cfg.YouTube.APIKey,
		Endpoint: d.cfg.YouTube.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating YouTube client: %w", err)
	}

	var subscribers services.SubscriberSource = services.Placeholder(d.cfg.Subscribers.Placeholder)
	if d.cfg.Subscribers.Source == config.SubscribersChannels {
		subscribers = services.NewChannelSubscribers(client)
	}

	return services.NewSearchService(client,
		services.WithSubscriberSource(subscribers),
		services.WithPhaseTimeout(d.cfg.YouTube.PhaseTimeout),
		services.WithLogger(d.logger.Named("youtube"))), nil
}

// newSession wires a session. The saved preferences are used as the starting
// filters when usePrefs is set, and are kept up to date on every change.
func (d *deps) newSession(ctx context.Context, usePrefs bool) (*discovery.Session, error) {
	searcher, err := d.searcher(ctx)
	if err != nil {
		return nil, err
	}

	defaults := d.defaultFilters()
	opts := []discovery.SessionOption{
		discovery.WithHistory(d.history),
		discovery.WithDefaults(defaults),
		discovery.WithSessionLogger(d.logger.Named("session")),
	}

	if usePrefs {
		filters, err := d.prefs.Load(ctx, defaults)
		if err != nil {
			d.logger.Warn("ignoring saved filters", zap.Error(err))
		}
		opts = append(opts, discovery.WithFilters(filters), discovery.WithPreferences(d.prefs))
	}

	return discovery.NewSession(searcher, opts...), nil
}
