package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"kassabot/internal/access"
	"kassabot/internal/backend"
	"kassabot/internal/bot"
	"kassabot/internal/command"
	"kassabot/internal/config"
	"kassabot/internal/dedup"
	apphttp "kassabot/internal/http"
	"kassabot/internal/ledger"
	applog "kassabot/internal/log"
	"kassabot/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := backend.New(ctx, cfg, logger.WithComponent(applog.ComponentBackend).Logger)
	if err != nil {
		logger.Error("failed to initialize ledger backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("backend cleanup failed", applog.FieldError, err)
			}
		}()
	}
	store := ledger.NewRetrier(result.Backend,
		cfg.LedgerRetryAttempts, cfg.LedgerRetryBaseDelay,
		logger.WithComponent(applog.ComponentLedger).Logger)

	tg, err := telegram.New(cfg.TelegramToken, logger)
	if err != nil {
		logger.Error("failed to initialize Telegram client", applog.FieldError, err)
		os.Exit(1)
	}

	window := dedup.NewWindow(cfg.DedupMaxEntries, cfg.DedupTTL)
	dispatcher := bot.NewDispatcher(bot.Options{
		Guard:           access.NewGuard(cfg.AllowedSenders),
		Window:          window,
		Parser:          command.NewParser(signPolicy(cfg)),
		Ledger:          store,
		Messenger:       tg,
		BalanceCacheTTL: cfg.BalanceCacheTTL,
		Logger:          logger,
	})

	srv := apphttp.NewServer(":"+cfg.Port, dispatcher, logger)

	if err := tg.RegisterWebhook(cfg.WebhookURL()); err != nil {
		logger.Error("failed to register webhook", applog.FieldError, err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			"port", cfg.Port,
			applog.FieldBackend, cfg.DataBackend,
			"webhook_url", cfg.WebhookURL(),
			"open_policy", len(cfg.AllowedSenders) == 0)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Janitor keeps the dedup window bounded even during quiet periods.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.DedupTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := window.CleanExpired(); removed > 0 {
					logger.Debug("dedup window pruned", "removed", removed)
				}
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

// signPolicy builds the free-form parsing policy, keeping the defaults
// for any keyword set the deployment leaves unset.
func signPolicy(cfg *config.Config) command.Policy {
	policy := command.DefaultPolicy()
	if len(cfg.IncomeKeywords) > 0 {
		policy.IncomeKeywords = cfg.IncomeKeywords
	}
	if len(cfg.ExpenseKeywords) > 0 {
		policy.ExpenseKeywords = cfg.ExpenseKeywords
	}
	policy.UnsignedDirection = command.Direction(cfg.UnsignedDirection)
	return policy
}
