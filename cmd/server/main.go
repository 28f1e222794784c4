package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ricepro-web/internal/api"
	"ricepro-web/internal/auth"
	"ricepro-web/internal/cache"
	"ricepro-web/internal/config"
	"ricepro-web/internal/database"
	"ricepro-web/internal/db"
	h "ricepro-web/internal/http"
	"ricepro-web/internal/handlers"
	"ricepro-web/internal/health"
	"ricepro-web/internal/keepalive"
	"ricepro-web/internal/middleware"
	"ricepro-web/internal/reports"
	"ricepro-web/internal/session"
	"ricepro-web/internal/views"
	"ricepro-web/migrations"
)

// openStore builds the session store named in config. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Session.Store {
	case "", "memory":
		log.Println("[Session] Using in-memory store")
		return session.NewMemoryStore(), func() {}, nil

	case "file":
		store, err := session.NewFileStore(cfg.Session.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[Session] Using file store at %s", cfg.Session.FilePath)
		return store, func() {}, nil

	case "redis":
		if err := cache.Init(cfg); err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		log.Printf("[Session] Using Redis store at %s", cfg.Redis.Addr)
		return session.NewRedisStore(cache.GetClient(), cfg.Session.ProfileTTL), func() { cache.Close() }, nil

	case "postgres":
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := database.NewMigrator(pool, migrations.FS).RunMigrations(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Printf("[Session] Using PostgreSQL store at %s:%d", cfg.Database.Host, cfg.Database.Port)
		return session.NewPostgresStore(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
}

func main() {
	storeFlag := flag.String("store", "", "session store: memory, file, redis or postgres (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *storeFlag != "" {
		cfg.Session.Store = *storeFlag
	}

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[Session] Failed to open store: %v", err)
	}
	defer closeStore()

	// Report PDFs are cached in Redis when it is reachable, whatever the store
	if cfg.Session.Store != "redis" {
		if err := cache.Init(cfg); err != nil {
			log.Printf("[Cache] Redis unavailable, report cache disabled: %v", err)
		} else {
			defer cache.Close()
		}
	}

	var sealer *session.Sealer
	if cfg.Session.EncryptionKey != "" {
		sealer, err = session.NewSealer(cfg.Session.EncryptionKey)
		if err != nil {
			log.Fatalf("[Session] Invalid encryption key: %v", err)
		}
		log.Println("[Session] Sessions are sealed at rest")
	}
	sessions := session.NewManager(store, sealer)
	profiles := auth.NewProfileManager(cfg)

	// One client per process; each profile gets a view of it that reads the
	// token from its own slot on every request.
	backend := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, nil)
	log.Printf("[API] Backend at %s", backend.BaseURL())

	settings := views.NewSettings(cfg)
	registry := views.NewRegistry(func(profile string) *api.Client {
		return backend.WithTokens(sessions.Slot(profile).Token)
	}, settings)

	archiver, err := reports.NewArchiver(ctx, cfg)
	if err != nil {
		log.Printf("[Reports] Archive disabled: %v", err)
		archiver = nil
	}

	healthChecker := health.NewHealthChecker(sessions, backend.System().Health)

	pageHandler := handlers.NewPageHandler(registry, cfg.Session.LogoutOnUnauthorized)
	var reportArchiver handlers.ReportArchiver
	if archiver != nil {
		reportArchiver = archiver
	}
	router := h.NewRouter(h.Handlers{
		Pages:         pageHandler,
		Auth:          handlers.NewAuthHandler(pageHandler, backend),
		Inventory:     handlers.NewInventoryHandler(pageHandler),
		Orders:        handlers.NewOrderHandler(pageHandler),
		Customers:     handlers.NewCustomerHandler(pageHandler),
		Reports:       handlers.NewReportHandler(pageHandler, reportArchiver),
		Health:        handlers.NewHealthHandler(healthChecker),
		SessionEvents: handlers.NewSessionEventsHandler(sessions),
	}, middleware.NewSessionMiddleware(profiles, sessions))

	requestLogger := middleware.NewRequestLogger()
	defer requestLogger.Close()

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(requestLogger.Handler(corsMiddleware(router)))

	pinger := keepalive.New(backend.System(), cfg.KeepAlive.Interval)
	pinger.Start()
	defer pinger.Stop()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
