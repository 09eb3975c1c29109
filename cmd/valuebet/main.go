package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/valuebet-bot/internal/config"
	"github.com/yourusername/valuebet-bot/internal/database"
	"github.com/yourusername/valuebet-bot/internal/datasource"
	"github.com/yourusername/valuebet-bot/internal/health"
	"github.com/yourusername/valuebet-bot/internal/logger"
	"github.com/yourusername/valuebet-bot/internal/notify"
	"github.com/yourusername/valuebet-bot/internal/repository"
	"github.com/yourusername/valuebet-bot/internal/scheduler"
	"github.com/yourusername/valuebet-bot/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile    string
	awsRegion     string
	awsSecretName string

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&awsRegion, "aws-region", "", "AWS region for secrets overlay")
	rootCmd.PersistentFlags().StringVar(&awsSecretName, "aws-secret", "", "AWS Secrets Manager secret name")

	rootCmd.AddCommand(runCmd, refreshCmd, settleCmd, scheduleCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "valuebet",
	Short: "Poisson-based value bet detection for football",
	Long:  `Predicts football match outcomes from league statistics and flags bookmaker odds priced above the model's fair value.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd.Context()); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Refresh statistics and run one value scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		scanSvc, _, err := buildServices(ctx)
		if err != nil {
			return err
		}

		if err := scanSvc.RefreshStats(ctx); err != nil {
			return err
		}

		report, err := scanSvc.RunScan(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Scan finished: %d fixtures, %d signals, %d new bets (%v)\n",
			report.FixturesScanned, len(report.Signals), len(report.NewBets),
			report.Duration.Round(time.Millisecond))
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh team statistics for the configured leagues",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanSvc, _, err := buildServices(cmd.Context())
		if err != nil {
			return err
		}
		return scanSvc.RefreshStats(cmd.Context())
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Grade pending bets whose fixtures have finished",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, settleSvc, err := buildServices(cmd.Context())
		if err != nil {
			return err
		}

		report, err := settleSvc.SettleResults(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Settlement finished: %d settled (%d won), %d still open, %d failed\n",
			report.Settled, report.Won, report.StillOpen, report.Failed)
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily refresh/scan/settle cycle with the dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		scanSvc, settleSvc, err := buildServices(ctx)
		if err != nil {
			return err
		}

		sched := scheduler.NewScheduler(scanSvc, settleSvc, appLog)
		if err := sched.ScheduleDaily(cfg.Scheduler); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		srv, err := startServer(ctx)
		if err != nil {
			return err
		}
		srv.SetReady(true)

		appLog.WithField("next_run", sched.NextRun().Format(time.RFC3339)).Info("Bot running")
		waitForShutdown(cancel)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API without scheduling jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		srv, err := startServer(ctx)
		if err != nil {
			return err
		}
		srv.SetReady(true)

		waitForShutdown(cancel)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if awsRegion != "" && awsSecretName != "" {
		if err := config.LoadSecretsFromAWS(cfg, awsRegion, awsSecretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)

	db, err = database.NewDB(ctx, cfg.GetDatabaseDSN(), cfg.Database.MaxConnections)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func buildServices(ctx context.Context) (*service.ScanService, *service.SettlementService, error) {
	stats, odds := buildProviders()

	notifier, err := notify.NewNotifier(cfg.Telegram, cfg.Engine.TotalGoalsLine, appLog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	scanSvc := service.NewScanService(cfg, stats, odds, repos, notifier, appLog)
	settleSvc := service.NewSettlementService(cfg, stats, repos.Bet, appLog)
	return scanSvc, settleSvc, nil
}

func buildProviders() (datasource.StatsProvider, datasource.OddsProvider) {
	statsHTTP := newProviderHTTPClient(cfg.Providers.APIFootball)
	oddsHTTP := newProviderHTTPClient(cfg.Providers.OddsAPI)

	var cache *datasource.ResponseCache
	if ttl := cfg.Providers.APIFootball.CacheTTLSeconds; ttl > 0 {
		cache = datasource.NewResponseCache(time.Duration(ttl) * time.Second)
	}

	stats := datasource.NewAPIFootballClient(statsHTTP, cache,
		cfg.Providers.APIFootball.BaseURL, cfg.Providers.APIFootball.APIKey, appLog)
	odds := datasource.NewOddsAPIClient(oddsHTTP,
		cfg.Providers.OddsAPI.BaseURL, cfg.Providers.OddsAPI.APIKey, appLog)
	return stats, odds
}

func newProviderHTTPClient(pc config.ProviderConfig) *datasource.RateLimitedHTTPClient {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(pc.TimeoutSeconds) * time.Second
	httpCfg.RateLimit = pc.RateLimit
	return datasource.NewRateLimitedHTTPClient(httpCfg, appLog)
}

func startServer(ctx context.Context) (*health.Server, error) {
	srv := health.NewServer(health.Config{
		ServiceName:   cfg.App.Name,
		Version:       Version,
		Port:          cfg.Server.Port,
		Logger:        appLog,
		DB:            db,
		Bets:          repos.Bet,
		EnableMetrics: cfg.Metrics.Enabled,
	})
	if err := srv.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return srv, nil
}

func waitForShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig.String()).Info("Shutting down")
	cancel()
}
