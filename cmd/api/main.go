package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/scrape-service/internal/adapter/browser"
	"github.com/user/scrape-service/internal/adapter/classifier"
	"github.com/user/scrape-service/internal/adapter/memory"
	"github.com/user/scrape-service/internal/adapter/postgres"
	redis_adapter "github.com/user/scrape-service/internal/adapter/redis"
	"github.com/user/scrape-service/internal/adapter/static"
	"github.com/user/scrape-service/internal/delivery/http/handler"
	"github.com/user/scrape-service/internal/delivery/http/router"
	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/proxy"
	"github.com/user/scrape-service/internal/repository"
	"github.com/user/scrape-service/internal/usecase"
	"github.com/user/scrape-service/pkg/config"
	"github.com/user/scrape-service/pkg/logger"
	"github.com/user/scrape-service/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	defaultBrowser, err := entity.ParseBrowserKind(cfg.BrowserKind)
	if err != nil {
		log.Fatal("invalid BROWSER_KIND", zap.Error(err))
	}

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)

	// --- Storage ---
	ctx := context.Background()
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize cache backend", zap.String("backend", cfg.CacheBackend), zap.Error(err))
	}
	defer store.close()

	// --- Pipeline ---
	proxies := proxy.NewManager(cfg.ProxyList(), cfg.UserAgentList())
	fetcher := static.NewFetcher(cfg.FetchTimeout, proxies)
	launcher := browser.NewDriverLauncher(browser.Options{
		Headless: cfg.BrowserHeadless,
		ExecPath: cfg.ChromePath,
		Stealth:  cfg.BrowserStealth,
		Proxies:  proxies,
		Logger:   log.Named("browser"),
	})

	deps := usecase.ScraperDeps{
		Cache:    store.cache,
		Detector: static.NewDetector(fetcher),
		Static:   static.NewExtractor(fetcher),
		Rendered: browser.NewRenderedExtractor(launcher, defaultBrowser, cfg.RenderWaitTimeout, cfg.RenderSettleDelay, log.Named("rendered")).
			WithMaxSessions(cfg.BrowserSessions),
		Failures: store.failures,
		Metrics:  m,
		Logger:   log.Named("scraper"),
		Coalesce: cfg.CoalesceInflight,

		CoalesceTimeout: cfg.ScrapeTimeout,
	}
	if cfg.ClassifierEnabled {
		deps.Classifier = classifier.New(classifier.NewFileStore(cfg.ModelDir), cfg.ModelID, log.Named("classifier"))
	}
	scraper := usecase.NewScraper(deps)
	status := usecase.NewStatusReader(store.cache, store.failures)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(scraper, status, store.pingers, cfg.ScrapeTimeout, log.Named("http"))
	httpRouter := router.New(apiHandler, router.Options{
		Logger:         log.Named("access"),
		Metrics:        m,
		RequestTimeout: cfg.ScrapeTimeout + 5*time.Second,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.ScrapeTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()

	log.Info("server started",
		zap.String("port", cfg.ServerPort),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.String("browser", string(defaultBrowser)),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exiting")
}

type backendStore struct {
	cache    repository.RecordCache
	failures repository.FailureRepository
	pingers  map[string]repository.Pinger
	close    func()
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backendStore, error) {
	switch cfg.CacheBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("unable to connect to redis: %w", err)
		}
		log.Info("Redis connection established")
		cache := redis_adapter.NewRecordCache(rdb)
		return &backendStore{
			cache:   cache,
			pingers: map[string]repository.Pinger{"redis": cache},
			close:   func() { _ = rdb.Close() },
		}, nil

	case "postgres":
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, dbpool); err != nil {
			dbpool.Close()
			return nil, err
		}
		log.Info("PostgreSQL connection pool established")
		cache := postgres.NewRecordCache(dbpool)
		return &backendStore{
			cache:    cache,
			failures: postgres.NewFailureRepo(dbpool),
			pingers:  map[string]repository.Pinger{"postgres": cache},
			close:    dbpool.Close,
		}, nil

	case "memory":
		cache := memory.NewRecordCache()
		return &backendStore{
			cache:   cache,
			pingers: map[string]repository.Pinger{"memory": cache},
			close:   func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
