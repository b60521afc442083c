package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/vrain/internal/api"
	"github.com/MrSnakeDoc/vrain/internal/config"
	"github.com/MrSnakeDoc/vrain/internal/httpserver"
	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vrain/internal/index"
	"github.com/MrSnakeDoc/vrain/internal/logger"
	"github.com/MrSnakeDoc/vrain/internal/preview"
	"github.com/MrSnakeDoc/vrain/internal/redis"
	"github.com/MrSnakeDoc/vrain/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/vrain/internal/store/redis"
	"github.com/MrSnakeDoc/vrain/internal/utils"
	"github.com/MrSnakeDoc/vrain/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	resolver    *preview.Resolver
	warmer      *scheduler.Warmer
	gc          *scheduler.GarbageCollector
}

func New(cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vrain",
		Name:      "rate_limited_total",
		Help:      "Number of preview requests rejected by the rate limiter.",
	})
	registry.MustRegister(rateLimited)

	// Redis is optional: without it previews are cached in process memory only.
	var redisClient *goredis.Client
	var store *redisstore.Store
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(context.Background(), redis.ConnectOptions{
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
		}, loggerClient.Named("redis"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		store = redisstore.NewStore(client)
	} else {
		loggerClient.Info("redis not configured, previews cached in memory only")
	}

	opts := preview.Options{
		OEmbedEndpoint:   cfg.OEmbedEndpoint,
		Placeholder:      cfg.PlaceholderURL,
		Timeout:          cfg.HTTPTimeout,
		CacheTTL:         cfg.PreviewCacheTTL,
		BreakerThreshold: cfg.BreakerThreshold,
		GenericScrape:    cfg.GenericScrape,
		Metrics:          preview.NewMetrics(registry),
		Logger:           loggerClient.Named("preview"),
	}
	if store != nil {
		opts.Shared = store
	}
	resolver := preview.NewResolver(opts)

	backend := api.New(cfg.BackendURL, nil,
		api.WithLogger(loggerClient.Named("backend")),
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	memIndex := index.NewMemoryIndex()

	// Initialize the preview warmer (if bookmark file is configured)
	var warmer *scheduler.Warmer
	var warmTrigger chan struct{}
	if cfg.BookmarkFile != "" {
		loggerClient.Info("bookmark file configured, initializing preview warmer",
			logger.String("file", cfg.BookmarkFile))
		warmTrigger = make(chan struct{}, 1)
		warmer = scheduler.NewWarmer(
			cfg.BookmarkFile,
			resolver,
			memIndex,
			loggerClient.Named("warmer"),
			cfg.WarmInterval,
			cfg.WarmConcurrency,
			warmTrigger,
		)
	} else {
		loggerClient.Info("bookmark file not configured, preview warming disabled")
	}

	var deleter scheduler.PreviewDeleter
	if store != nil {
		deleter = store
	}
	gc := scheduler.NewGarbageCollector(
		deleter,
		memIndex,
		loggerClient.Named("gc"),
		cfg.GCInterval,
		scheduler.DefaultGCThreshold,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		RateBurst:      cfg.RateBurst,
		RatePerMin:     cfg.RatePerMin,
		Resolver:       resolver,
		Backend:        backend,
		PreviewStore:   store,
		WarmIndex:      memIndex,
		WarmTrigger:    warmTrigger,
		Gatherer:       registry,
		RateLimited:    rateLimited,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		resolver:    resolver,
		warmer:      warmer,
		gc:          gc,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting vrain v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("vrain %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start preview warmer (if enabled)
	if a.warmer != nil {
		if err := a.warmer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start preview warmer: %w", err)
		}
		a.logger.Info("preview warmer started",
			logger.Duration("interval", a.cfg.WarmInterval))
	}

	// Start garbage collector
	a.gc.Start(ctx)
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
		a.stopBackground()
		return err
	}

	a.stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.MustClose(a.redisClient, a.logger, "redis")
		a.logger.Info("✅ Redis closed")
	}

	a.logger.Info("✅ vrain stopped cleanly")
	return nil
}

func (a *App) stopBackground() {
	if a.warmer != nil {
		a.warmer.Stop()
	}
	a.gc.Stop()
	a.resolver.Close()
}
