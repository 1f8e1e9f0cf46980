package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"balance_benchmark/internal/infrastructure/configloader"
	"balance_benchmark/internal/pkg/logger"
)

const (
	defaultConfigPath = "config/config.yml"
	defaultEnvFile    = ".env"
)

var (
	cfgFile  string
	envFile  string
	logLevel string

	settings = viper.New()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark third-party blockchain balance APIs",
	Long: `benchmark queries several wallet balance APIs (ANKR, Bitquery, Blockchair, CovalentHQ,
Debank, Moralis, Zerion) for the same public keys, measures their latency per chain and
reports which tokens each provider misses compared to the others.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath, "config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file with provider API keys")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	settings.SetEnvPrefix("BENCHMARK")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = settings.BindEnv("log_level")
	_ = settings.BindEnv("config")
	_ = settings.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = settings.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

// configPath resolves --config, then BENCHMARK_CONFIG, then the default path.
func configPath() string {
	return settings.GetString("config")
}

// resolveLogLevel prefers --log-level or BENCHMARK_LOG_LEVEL over the config file level.
// IsSet ignores the flag default, so an untouched flag falls through to the config.
func resolveLogLevel(fromConfig string) string {
	if settings.IsSet("log_level") || fromConfig == "" {
		return settings.GetString("log_level")
	}
	return fromConfig
}

// loadConfig sets up logging from flags, then loads and validates the config file.
func loadConfig() (*configloader.Config, error) {
	logger.Setup(settings.GetString("log_level"))

	cfg, err := configloader.Load(configPath(), envFile)
	if err != nil {
		logger.Error("Configuration error", "error", err)
		return nil, err
	}

	logger.Setup(resolveLogLevel(cfg.Logging.Level))
	return cfg, nil
}
