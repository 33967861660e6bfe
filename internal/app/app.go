package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"linkdigest/internal/channel"
	"linkdigest/internal/config"
	"linkdigest/internal/digest"
	"linkdigest/internal/feedcache"
	"linkdigest/internal/hoarder"
	"linkdigest/internal/httpserver"
	"linkdigest/internal/httpserver/deps"
	"linkdigest/internal/logger"
	"linkdigest/internal/redis"
	"linkdigest/internal/sampler"
	"linkdigest/internal/scheduler"
	redisstore "linkdigest/internal/store/redis"
	"linkdigest/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	scheduler   *scheduler.Scheduler
	redisClient *goredis.Client
}

// New wires the whole service: config, logger, optional redis
// persistence, upstream client, sampler, channel, dispatch service,
// scheduler and HTTP server.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	cache := feedcache.New()

	// Redis is optional: it only persists the last digest across
	// restarts. Missing or unreachable redis degrades to memory-only.
	var redisClient *goredis.Client
	var store *redisstore.Store
	if cfg.RedisAddr != "" {
		redisClient, err = redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDialTimeout,
			ReadTimeout:    cfg.RedisReadTimeout,
			WriteTimeout:   cfg.RedisWriteTimeout,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("redis unavailable, digest persistence disabled",
				logger.Error(err))
			redisClient = nil
		} else {
			store = redisstore.NewStore(redisClient)
		}
	}

	ch, err := channel.Select(cfg, cache, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to select notification channel: %w", err)
	}
	loggerClient.Info("notification channel selected",
		logger.String("channel", ch.Name()))

	source := hoarder.New(hoarder.Options{
		BaseURL:        cfg.HoarderServerURL,
		APIKey:         cfg.HoarderAPIKey,
		OnlyUnarchived: cfg.OnlyUnarchived,
	}, loggerClient)

	// A configured list filter that points nowhere would silently
	// produce empty digests forever; check it up front.
	if cfg.SpecificListID != "" {
		checkCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		list, listErr := source.FetchList(checkCtx, cfg.SpecificListID)
		cancel()
		if listErr != nil {
			return nil, fmt.Errorf("failed to resolve configured list %q: %w", cfg.SpecificListID, listErr)
		}
		loggerClient.Info("bookmark fetches scoped to list",
			logger.String("list_id", list.ID),
			logger.String("list_name", list.Name))
	}

	var digestStore digest.Store
	if store != nil {
		digestStore = store
	}

	service := digest.New(digest.Options{
		Source:  source,
		Sampler: sampler.New(),
		Channel: ch,
		Store:   digestStore,
		Count:   cfg.BookmarksCount,
		ListID:  cfg.SpecificListID,
	}, loggerClient)

	// Warm the feed cache from the persisted digest so a restart does
	// not serve an empty feed before the next scheduled run.
	if store != nil && channel.Method(cfg.NotificationMethod) == channel.MethodFeed {
		warmCtx, cancel := context.WithTimeout(context.Background(), cfg.RedisReadTimeout)
		persisted, loadErr := store.LoadDigest(warmCtx)
		cancel()
		switch {
		case loadErr != nil:
			loggerClient.Warn("failed to restore persisted digest", logger.Error(loadErr))
		case persisted != nil:
			cache.Restore(persisted)
			loggerClient.Info("feed cache restored from redis",
				logger.Int("bookmarks", len(persisted.Bookmarks)),
				logger.Time("generated_at", persisted.GeneratedAt))
		}
	}

	sched, err := scheduler.New(service, scheduler.Config{
		Frequency:  cfg.NotificationFrequency,
		TimeToSend: cfg.TimeToSend,
		Timezone:   cfg.Timezone,
	}, scheduler.RealClock(), loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to build scheduler: %w", err)
	}

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		TimeNow:         time.Now,
		Method:          channel.Method(cfg.NotificationMethod),
		Frequency:       cfg.NotificationFrequency,
		Count:           cfg.BookmarksCount,
		Timezone:        cfg.Timezone,
		TimeToSend:      cfg.TimeToSend,
		ListScoped:      cfg.SpecificListID != "",
		FeedURL:         cfg.FeedURL(),
		Service:         service,
		Channel:         ch,
		Cache:           cache,
		DispatchTimeout: cfg.DispatchTimeout,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		scheduler:   sched,
		redisClient: redisClient,
	}, nil
}

// Run starts the scheduler and HTTP server, then blocks until a
// shutdown signal or a server error.
func (a *App) Run() error {
	a.logger.Infof("🚀 Starting linkdigest v%s on :%s", version.Version, a.cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.scheduler.Start(ctx)

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

	a.scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}

	a.logger.Info("✅ linkdigest stopped cleanly")
	return nil
}
