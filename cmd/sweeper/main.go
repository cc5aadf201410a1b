// Command sweeper runs the notification maintenance passes. It is meant to
// be invoked by cron; each pass handles one bounded batch and exits.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"aide-sociale/internal/config"
	"aide-sociale/internal/domain"
	"aide-sociale/internal/pkg/i18n"
	pkglogger "aide-sociale/internal/pkg/logger"
	"aide-sociale/internal/repository"
	"aide-sociale/internal/service"
	"aide-sociale/internal/service/notification"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type sweepFunc func(ctx context.Context, svc notification.Service, caller domain.Caller) (interface{}, error)

func newRootCmd() *cobra.Command {
	var maxRetries int

	root := &cobra.Command{
		Use:           "sweeper",
		Short:         "Run scheduled dispatch, retry and expiry cleanup for notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	scheduled := func(ctx context.Context, svc notification.Service, caller domain.Caller) (interface{}, error) {
		return svc.ProcessScheduled(ctx, caller)
	}
	retry := func(ctx context.Context, svc notification.Service, caller domain.Caller) (interface{}, error) {
		return svc.RetryFailed(ctx, caller, maxRetries)
	}
	cleanup := func(ctx context.Context, svc notification.Service, caller domain.Caller) (interface{}, error) {
		return svc.CleanExpired(ctx, caller)
	}

	retryCmd := sweepCommand("retry", "Retry failed notifications that are out of backoff", retry)
	retryCmd.Flags().IntVar(&maxRetries, "max-retries", 0, "maximum attempts per notification (default from DEFAULT_MAX_RETRIES)")

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Run scheduled, retry and cleanup in sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), map[string]sweepFunc{
				"scheduled": scheduled,
				"retry":     retry,
				"cleanup":   cleanup,
			}, []string{"scheduled", "retry", "cleanup"})
		},
	}
	allCmd.Flags().IntVar(&maxRetries, "max-retries", 0, "maximum attempts per notification (default from DEFAULT_MAX_RETRIES)")

	root.AddCommand(
		sweepCommand("scheduled", "Deliver scheduled notifications that are due", scheduled),
		retryCmd,
		sweepCommand("cleanup", "Soft-delete expired notifications", cleanup),
		allCmd,
	)
	return root
}

func sweepCommand(name, short string, fn sweepFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), map[string]sweepFunc{name: fn}, []string{name})
		},
	}
}

// run executes the named passes in order; a failing pass does not stop the next.
func run(parent context.Context, passes map[string]sweepFunc, order []string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()
	cfg := config.Load()
	pkglogger.Setup(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	if err := i18n.LoadTranslations(cfg.LocalesPath); err != nil {
		logrus.WithError(err).Warn("Failed to load email translations")
	}
	i18n.SetFallback(cfg.DefaultLanguage)

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		return err
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Redis unavailable, realtime events disabled")
		redis = nil
	} else {
		defer redis.Close()
	}

	services := service.NewServices(repository.NewRepositories(db), redis, cfg)
	caller := domain.SystemCaller()

	var firstErr error
	for _, name := range order {
		result, err := passes[name](ctx, services.Notification, caller)
		if err != nil {
			logrus.WithField("pass", name).WithError(err).Error("sweep failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out, _ := json.Marshal(result)
		logrus.WithField("pass", name).WithField("result", string(out)).Info("sweep finished")
	}
	return firstErr
}
