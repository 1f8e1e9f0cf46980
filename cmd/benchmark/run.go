package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"balance_benchmark/internal/app/provider"
	"balance_benchmark/internal/app/service"
	"balance_benchmark/internal/domain/entity"
	"balance_benchmark/internal/infrastructure/configloader"
	"balance_benchmark/internal/infrastructure/httpclient"
	"balance_benchmark/internal/infrastructure/keyloader"
	"balance_benchmark/internal/infrastructure/metrics"
	"balance_benchmark/internal/infrastructure/providers"
	"balance_benchmark/internal/infrastructure/restapi"
	"balance_benchmark/internal/pkg/address"
	"balance_benchmark/internal/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	runProviders         []string
	runChains            []string
	runLimit             int
	runSkipTestAddresses bool
	runServe             bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark",
	Long: `Run every selected provider over the public keys concurrently, then print the
statistics report as JSON on stdout. With --serve the results stay available over HTTP
until the process is interrupted.`,
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&runProviders, "providers", nil, "providers to run (default from config)")
	runCmd.Flags().StringSliceVar(&runChains, "chains", nil, "chains to benchmark (default from config)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "maximum number of public keys, 0 for all")
	runCmd.Flags().BoolVar(&runSkipTestAddresses, "skip-test-addresses", false, "skip the built-in test addresses")
	runCmd.Flags().BoolVar(&runServe, "serve", false, "serve the results API after the run")
}

// applyRunFlags overrides the config with the flags the user actually set.
func applyRunFlags(cmd *cobra.Command, cfg *configloader.Config) error {
	flags := cmd.Flags()
	if flags.Changed("providers") {
		cfg.Benchmark.Providers = runProviders
	}
	if flags.Changed("chains") {
		cfg.Benchmark.Chains = runChains
	}
	if flags.Changed("limit") {
		cfg.Keys.Limit = runLimit
	}
	if flags.Changed("skip-test-addresses") {
		cfg.Keys.SkipTestAddresses = runSkipTestAddresses
	}
	if flags.Changed("serve") {
		cfg.Server.Enabled = runServe
		if cfg.Server.Port == "" {
			cfg.Server.Port = "8080"
		}
	}
	return configloader.Validate(cfg)
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg); err != nil {
		logger.Error("Invalid command line override", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger := logger.NewSlogAdapter()

	chains, err := cfg.ChainIDs()
	if err != nil {
		return err
	}

	adapters, err := providers.Build(cfg.Benchmark.Providers, chains, cfg.Credentials, appLogger)
	if err != nil {
		logger.Error("Failed to build providers", "error", err)
		return err
	}

	keySource := keyloader.NewLoader(cfg.KeyDatasets(), keyloader.Options{
		SkipTestAddresses: cfg.Keys.SkipTestAddresses,
		Limit:             cfg.Keys.Limit,
	}, appLogger)
	keys, err := provider.NewKeyProvider(keySource, appLogger).GetPublicKeys(chains)
	if err != nil {
		return err
	}

	client := httpclient.NewClient(httpclient.Options{
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		Burst:             cfg.HTTP.Burst,
		UserAgent:         cfg.HTTP.UserAgent,
	}, logger.Zap())

	validator := address.NewCachedValidator(address.NewValidator())
	aggregator := service.NewAggregator()
	observer := metrics.NewObserver()
	engineSettings := service.EngineSettings{
		MinSleep:    cfg.MinSleep(),
		MaxAttempts: cfg.Benchmark.MaxAttempts,
	}

	runners := make([]service.ProviderRunner, 0, len(adapters))
	for _, adapter := range adapters {
		name := adapter.Definition().Name
		runners = append(runners, service.NewEngine(
			adapter, client, validator, aggregator,
			logger.With(appLogger, "provider", name),
			engineSettings,
			service.WithMetrics(observer),
		))
	}

	logger.Info("Benchmark configured",
		"providers", cfg.Benchmark.Providers,
		"chains", len(chains),
		"public_keys", len(keys),
		"min_sleep", engineSettings.MinSleep,
		"max_attempts", engineSettings.MaxAttempts)

	report := service.NewOrchestrator(aggregator, appLogger, nil).Run(ctx, runners, keys)

	dumpDebug("Balances", aggregator.Balances())
	dumpDebug("Timings", aggregator.Timings())
	logger.Debug("Address validation cache", "entries", validator.Len())

	if err := printReport(cmd, report); err != nil {
		return err
	}

	if cfg.Server.Enabled && ctx.Err() == nil {
		return serveResults(ctx, cfg.Server.Port, restapi.NewResultsHandler(aggregator, report), observer.Handler())
	}
	return nil
}

func dumpDebug(what string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("Failed to encode debug dump", "what", what, "error", err)
		return
	}
	logger.Debug(what, "json", string(data))
}

func printReport(cmd *cobra.Command, report entity.Report) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

// serveResults blocks until ctx is cancelled, then shuts the server down gracefully.
func serveResults(ctx context.Context, port string, handler *restapi.ResultsHandler, metricsHandler http.Handler) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           restapi.SetupRouter(handler, metricsHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving benchmark results", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Results server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, stopping results server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown of results server failed", "error", err)
		return err
	}
	logger.Info("Results server stopped")
	return nil
}
