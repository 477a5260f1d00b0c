package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/curator/internal/classify"
	"github.com/MrSnakeDoc/curator/internal/config"
	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/engine"
	"github.com/MrSnakeDoc/curator/internal/extract"
	"github.com/MrSnakeDoc/curator/internal/httpserver"
	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/metrics"
	"github.com/MrSnakeDoc/curator/internal/redis"
	"github.com/MrSnakeDoc/curator/internal/rules"
	"github.com/MrSnakeDoc/curator/internal/scheduler"
	"github.com/MrSnakeDoc/curator/internal/search"
	"github.com/MrSnakeDoc/curator/internal/sources/netscape"
	"github.com/MrSnakeDoc/curator/internal/store"
	memorystore "github.com/MrSnakeDoc/curator/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/curator/internal/store/redis"
	"github.com/MrSnakeDoc/curator/internal/taxonomy"
	"github.com/MrSnakeDoc/curator/internal/version"
)

type App struct {
	cfg           *config.Config
	logger        logger.Logger
	server        *httpserver.Server
	redisClient   *goredis.Client
	searchIndex   *search.Index
	reloader      *scheduler.RulesReloader
	autoOrganizer *scheduler.AutoOrganizer
	gc            *scheduler.GarbageCollector
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Pick the durable store. Redis is the production path; the memory
	// store keeps dev setups free of infrastructure.
	var st store.Store
	var redisClient *goredis.Client
	switch cfg.StoreMode {
	case "memory":
		loggerClient.Warn("using the in-memory store, nothing survives a restart")
		st = memorystore.NewStore()
	default:
		// Initialize Redis early - fail fast if unavailable
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		st = redisstore.NewStore(client)
	}

	// Metrics registry with the standard runtime collectors
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	// Taxonomy must exist before anything can be classified into it
	taxonomyManager := taxonomy.NewManager(st, cfg.OrganizedRootTitle, loggerClient)
	if err := taxonomyManager.SeedDefaults(context.Background()); err != nil {
		loggerClient.Errorf("Failed to seed default taxonomy: %v", err)
		os.Exit(1)
	}

	// Classification pipeline: rules, page fetcher, remote providers
	rulesEngine := rules.New()
	fetcher := extract.NewFetcher(cfg.FetchTimeout, int64(cfg.FetchMaxBytes), loggerClient)

	var providers []classify.Provider
	providerLabel := "rules"
	if cfg.OllamaURL != "" {
		providers = append(providers, classify.NewOllama(cfg.OllamaURL, cfg.OllamaModel, loggerClient))
		providerLabel = "ollama"
		loggerClient.Info("ollama provider enabled",
			logger.String("url", cfg.OllamaURL),
			logger.String("model", cfg.OllamaModel))
	}

	classifier := classify.New(classify.Deps{
		Meta:      st,
		Taxonomy:  st,
		Fetcher:   fetcher,
		Rules:     rulesEngine,
		Providers: providers,
		Pacer:     classify.NewPacer(cfg.ProviderSpacing),
		Metrics:   m,
		Log:       loggerClient,
	})

	// Search index (on-disk when a path is configured)
	searchIndex, err := search.Open(cfg.SearchIndexPath, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open search index: %v", err)
		os.Exit(1)
	}

	eng := engine.New(engine.Deps{
		Store:           st,
		Classifier:      classifier,
		Taxonomy:        taxonomyManager,
		Index:           searchIndex,
		Metrics:         m,
		Log:             loggerClient,
		DefaultStrategy: domain.Strategy(cfg.DefaultStrategy),
		ProviderLabel:   providerLabel,
	})

	// A job state persisted as running can only be a crash leftover
	if err := eng.RecoverStale(context.Background()); err != nil {
		loggerClient.Warn("failed to recover stale job state",
			logger.Error(err))
	}

	// Rebuild the search index from the store on startup
	reindexer := scheduler.NewReindexer(st, taxonomyManager, searchIndex, loggerClient)
	if err := reindexer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to rebuild search index on startup",
			logger.Error(err))
	}

	// Initialize rules reloader (if a rules or taxonomy file is configured)
	var reloader *scheduler.RulesReloader
	var reloadTrigger chan struct{}
	if cfg.RulesFile != "" || cfg.TaxonomyFile != "" {
		loggerClient.Info("rule files configured, initializing rules reloader",
			logger.String("rules", cfg.RulesFile),
			logger.String("taxonomy", cfg.TaxonomyFile))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewRulesReloader(
			cfg.RulesFile,
			cfg.TaxonomyFile,
			rulesEngine,
			taxonomyManager,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("no rule files configured, using built-in rules only")
	}

	// Initialize auto organizer (if enabled)
	var autoOrganizer *scheduler.AutoOrganizer
	if cfg.AutoOrganizeInterval > 0 {
		autoOrganizer = scheduler.NewAutoOrganizer(eng, loggerClient, cfg.AutoOrganizeInterval)
	} else {
		loggerClient.Info("auto organize disabled, jobs start on demand only")
	}

	// Initialize garbage collector
	gc := scheduler.NewGarbageCollector(
		st,
		loggerClient,
		cfg.GCInterval,
		scheduler.DefaultGCThreshold,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:             loggerClient,
		StartTime:          time.Now(),
		Version:            version.Version,
		Commit:             version.Commit,
		BuildDate:          version.BuildDate,
		GoVersion:          version.GoVersion,
		TimeNow:            time.Now,
		AllowedHosts:       cfg.AllowedHosts,
		AllowedCIDRS:       cfg.AllowedCIDRS,
		TrustProxy:         cfg.TrustProxy,
		Store:              st,
		Engine:             eng,
		Taxonomy:           taxonomyManager,
		SearchIndex:        searchIndex,
		Importer:           netscape.NewImporter(st, loggerClient),
		RedisClient:        redisClient,
		StoreMode:          cfg.StoreMode,
		PromRegistry:       promRegistry,
		RulesReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:           cfg,
		logger:        loggerClient,
		server:        server,
		redisClient:   redisClient,
		searchIndex:   searchIndex,
		reloader:      reloader,
		autoOrganizer: autoOrganizer,
		gc:            gc,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Curator v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Curator %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start rules reloader (loads the rule files and starts periodic refresh)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start rules reloader: %w", err)
		}
		a.logger.Info("rules reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	// Start auto organizer (if enabled)
	if a.autoOrganizer != nil {
		if err := a.autoOrganizer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start auto organizer: %w", err)
		}
		a.logger.Info("auto organizer started",
			logger.Duration("interval", a.cfg.AutoOrganizeInterval))
	}

	// Start garbage collector
	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Stop rules reloader
	if a.reloader != nil {
		a.reloader.Stop()
	}

	// Stop auto organizer
	if a.autoOrganizer != nil {
		a.autoOrganizer.Stop()
	}

	// Stop garbage collector
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.searchIndex.Close(); err != nil {
		a.logger.Warnf("failed to close search index: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Curator stopped cleanly")
	return nil
}
