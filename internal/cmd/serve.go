package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"code-review-service/internal/analyzer"
	"code-review-service/internal/config"
	"code-review-service/internal/extractor"
	"code-review-service/internal/logging"
	"code-review-service/internal/pipeline"
	"code-review-service/internal/report"
	"code-review-service/internal/repository/memory"
	"code-review-service/internal/repository/postgresql"
	"code-review-service/internal/repository/redisstore"
	"code-review-service/internal/scm"
	"code-review-service/internal/service"
	httptransport "code-review-service/internal/transport/http"

	_ "code-review-service/docs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review HTTP service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// evictor is implemented by stores that need a periodic retention sweep.
// The redis backend expires terminal jobs natively and never implements it.
type evictor interface {
	EvictExpired(ctx context.Context) (int, error)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if ev, ok := store.(evictor); ok && cfg.Store.RetentionMinutes > 0 {
		go runJanitor(ctx, ev, log)
	}

	ghClient, err := scm.NewGitHubClient(cfg.SCM.Token, cfg.SCM.BaseURL, cfg.SCM.Timeout())
	if err != nil {
		return fmt.Errorf("scm: %w", err)
	}

	provider, err := analyzer.NewProvider(analyzer.Options{
		Kind:       cfg.Provider.Kind,
		Model:      cfg.Provider.Model,
		APIKey:     cfg.Provider.APIKey,
		BaseURL:    cfg.Provider.BaseURL,
		Timeout:    cfg.Provider.Timeout(),
		MaxRetries: cfg.Provider.MaxRetries,
	})
	if err != nil {
		return fmt.Errorf("provider: %w", err)
	}

	runner := pipeline.NewRunner(
		ghClient,
		analyzer.New(provider, cfg.Provider.MaxTokens, cfg.Provider.RedactSecrets, log),
		extractor.New(log),
		store,
		pipeline.Options{
			StageTimeout: cfg.Review.StageTimeout(),
			JobTimeout:   cfg.Review.JobTimeout(),
			FetchRetries: cfg.Review.FetchRetries,
			Thresholds: report.Thresholds{
				Attention: cfg.Report.AttentionThreshold,
				Recommend: cfg.Report.RecommendThreshold,
			},
		},
		log,
	)

	mgr := service.NewManager(store, runner, cfg.Review.MaxConcurrent, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      httptransport.Routes(httptransport.NewHandler(mgr), log),
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			"addr", srv.Addr,
			"store", cfg.Store.Backend,
			"provider", provider.Name(),
			"model", cfg.Provider.Model,
			"max_concurrent", cfg.Review.MaxConcurrent,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", "error", err)
	}
	if err := mgr.Close(shutdownCtx); err != nil {
		log.Warn("active reviews did not finish before shutdown", "error", err)
	}
	log.Info("stopped")
	return nil
}

func buildStore(ctx context.Context, cfg *config.Config) (service.JobStore, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		return memory.NewStore(cfg.Store.Retention()), func() {}, nil

	case "postgres":
		pool, err := postgresql.NewPool(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		st := postgresql.NewStore(pool, cfg.Store.Retention())
		if err := st.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return st, pool.Close, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr, DB: cfg.Store.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return redisstore.NewStore(rdb, cfg.Store.Retention()), func() { _ = rdb.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

// runJanitor periodically drops terminal jobs that outlived the retention
// window.
func runJanitor(ctx context.Context, ev evictor, log *slog.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := ev.EvictExpired(ctx)
			if err != nil {
				log.Warn("retention sweep failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("evicted expired jobs", "count", n)
			}
		}
	}
}
