package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/justinas/alice"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/paylink/internal/auth"
	"github.com/mmynk/paylink/internal/billing"
	"github.com/mmynk/paylink/internal/config"
	"github.com/mmynk/paylink/internal/metrics"
	"github.com/mmynk/paylink/internal/middleware"
	"github.com/mmynk/paylink/internal/notify"
	"github.com/mmynk/paylink/internal/service"
	"github.com/mmynk/paylink/internal/storage/sqldb"
	"github.com/mmynk/paylink/pkg/api/apiconnect"
	"github.com/mmynk/paylink/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.Setup(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.Database.Driver)

	m := metrics.New()

	var (
		locker   billing.Locker   = billing.NewMemoryLocker()
		notifier notify.Notifier = notify.NewLogNotifier(logger)
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		locker = billing.NewRedisLocker(rdb, cfg.Redis.LockTTL, logger)
		notifier = notify.NewRedisNotifier(rdb, cfg.Redis.Stream, 0)
		logger.Info("Redis connected", "addr", cfg.Redis.Addr, "stream", cfg.Redis.Stream)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	admission := billing.NewAdmission(store, locker, m, logger)
	manager := billing.NewManager(store, locker, notifier, cfg.Payment.BaseURL, logger)

	requireAuth := middleware.RequireAuth(jwtManager)
	common := []connect.Interceptor{
		middleware.MetricsInterceptor(m),
		middleware.LoggingInterceptor(logger),
	}
	withAuth := func(authInterceptor connect.Interceptor) connect.HandlerOption {
		return connect.WithInterceptors(append([]connect.Interceptor{authInterceptor}, common...)...)
	}

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, logger),
		withAuth(middleware.PublicProcedures(requireAuth,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		)),
	))
	mux.Handle(apiconnect.NewBillingServiceHandler(
		service.NewBillingService(manager, billing.NewBalanceAggregator(store), m, logger),
		withAuth(requireAuth),
	))
	mux.Handle(apiconnect.NewPaymentServiceHandler(
		service.NewPaymentService(billing.NewCheckout(store, admission), logger),
		connect.WithInterceptors(common...),
	))
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Connect-Protocol-Version", "Connect-Timeout-Ms", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms", middleware.RequestIDHeader},
	})
	chain := alice.New(middleware.Recover(logger), middleware.RequestID, middleware.SecureHeaders, c.Handler)

	// h2c for HTTP/2 without TLS (required for Connect streaming and gRPC clients)
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      h2c.NewHandler(chain.Then(mux), &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func openStore(ctx context.Context, db config.DatabaseConfig) (*sqldb.Store, error) {
	if db.Driver == sqldb.DriverSQLite {
		return sqldb.New(db.DSN)
	}
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return sqldb.Open(openCtx, db.Driver, db.DSN)
}
