package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"balance_benchmark/internal/domain/entity"
	"balance_benchmark/internal/infrastructure/keyloader"
	"balance_benchmark/internal/infrastructure/providers"
)

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
}

// BenchmarkConfig selects what is benchmarked and how fast.
type BenchmarkConfig struct {
	Chains    []string `yaml:"chains" validate:"required,min=1,dive,chain"`
	Providers []string `yaml:"providers" validate:"dive,provider"`
	// MinSleepMs is added to every provider interval. 0 disables pauses; unset means 500.
	MinSleepMs  *int `yaml:"min_sleep_ms" validate:"omitempty,min=0"`
	MaxAttempts int  `yaml:"max_attempts" validate:"min=1,max=10"`
}

// HTTPConfig configures the shared outbound transport.
type HTTPConfig struct {
	TimeoutSeconds    int     `yaml:"timeout_seconds" validate:"min=1"`
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"min=0"`
	Burst             int     `yaml:"burst" validate:"min=0"`
	UserAgent         string  `yaml:"user_agent"`
}

// DatasetConfig points at a query-result file of public keys.
type DatasetConfig struct {
	Chain        string `yaml:"chain" validate:"required,chain"`
	Path         string `yaml:"path" validate:"required"`
	BlockchainID string `yaml:"blockchain_id"`
	Contains     string `yaml:"f0_contains"`
}

// KeysConfig controls public key selection.
type KeysConfig struct {
	SkipTestAddresses bool            `yaml:"skip_test_addresses"`
	Limit             int             `yaml:"limit" validate:"min=0"`
	Datasets          []DatasetConfig `yaml:"datasets" validate:"dive"`
}

// ServerConfig holds the results API configuration.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port" validate:"omitempty,numeric"`
}

// Config is the top-level configuration structure.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	HTTP      HTTPConfig      `yaml:"http"`
	Keys      KeysConfig      `yaml:"keys"`
	Server    ServerConfig    `yaml:"server"`

	// Credentials are read from the environment, never from the YAML file.
	Credentials providers.Credentials `yaml:"-"`
}

// DefaultChains is the chain set benchmarked when none is configured.
var DefaultChains = []string{ //nolint:gochecknoglobals
	"arbitrum", "avalanche", "bsc", "bitcoin", "ethereum", "fantom",
	"klaytn", "optimism", "polygon", "ronin", "solana",
}

// DefaultProviders are the providers run when none is configured.
var DefaultProviders = []string{"ankr", "bitquery", "covalenthq", "moralis"} //nolint:gochecknoglobals

const (
	defaultMinSleepMs     = 500
	defaultMaxAttempts    = 2
	defaultTimeoutSeconds = 30
	defaultServerPort     = "8080"
)

// Load reads the YAML configuration file, applies defaults, loads API keys from envFile
// (if present) and the environment, and validates the result.
func Load(path, envFile string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg.Credentials = CredentialsFromEnv()

	if err := Validate(&cfg); err != nil {
		logrus.Errorf("Invalid configuration in %s: %v", path, err)
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if len(cfg.Benchmark.Chains) == 0 {
		cfg.Benchmark.Chains = append([]string(nil), DefaultChains...)
		logrus.Infof("Benchmark chains not set, defaulting to %s", strings.Join(cfg.Benchmark.Chains, ", "))
	}
	if len(cfg.Benchmark.Providers) == 0 {
		cfg.Benchmark.Providers = append([]string(nil), DefaultProviders...)
		logrus.Infof("Benchmark providers not set, defaulting to %s", strings.Join(cfg.Benchmark.Providers, ", "))
	}
	if cfg.Benchmark.MinSleepMs == nil {
		v := defaultMinSleepMs
		cfg.Benchmark.MinSleepMs = &v
		logrus.Infof("Benchmark.MinSleepMs not set, defaulting to %d ms", v)
	}
	if cfg.Benchmark.MaxAttempts == 0 {
		cfg.Benchmark.MaxAttempts = defaultMaxAttempts
	}
	if cfg.HTTP.TimeoutSeconds == 0 {
		cfg.HTTP.TimeoutSeconds = defaultTimeoutSeconds
		logrus.Infof("HTTP.TimeoutSeconds not set, defaulting to %d", cfg.HTTP.TimeoutSeconds)
	}
	if cfg.Server.Enabled && cfg.Server.Port == "" {
		cfg.Server.Port = defaultServerPort
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
}

func loadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logrus.Debugf("No env file at %s, using process environment only", envFile)
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	logrus.Infof("Loaded environment from %s", envFile)
	return nil
}

// CredentialsFromEnv reads provider API keys from the environment.
func CredentialsFromEnv() providers.Credentials {
	return providers.Credentials{
		BitqueryAPIKey:  os.Getenv("BITQUERY_API_KEY"),
		BlockchairKey:   os.Getenv("BLOCKCHAIR_API_KEY"),
		CovalentAPIKey:  os.Getenv("COVALENTHQ_API_KEY"),
		DebankAccessKey: os.Getenv("DEBANK_ACCESS_KEY"),
		MoralisAPIKey:   os.Getenv("MORALIS_API_KEY"),
		ZerionUserKey:   os.Getenv("ZERION_USER_KEY"),
		ZerionUserPass:  os.Getenv("ZERION_USER_PASS"),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("chain", func(fl validator.FieldLevel) bool {
		_, err := entity.ParseChainID(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("provider", func(fl validator.FieldLevel) bool {
		_, ok := providers.Definition(fl.Field().String())
		return ok
	})
	return v
}

// Validate checks the configuration after defaults have been applied.
func Validate(cfg *Config) error {
	if err := newValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ChainIDs returns the configured chains as ChainIDs, in configuration order.
func (c *Config) ChainIDs() ([]entity.ChainID, error) {
	return entity.ParseChainIDs(c.Benchmark.Chains)
}

// MinSleep returns the configured pause added to provider intervals.
func (c *Config) MinSleep() time.Duration {
	if c.Benchmark.MinSleepMs == nil {
		return defaultMinSleepMs * time.Millisecond
	}
	return time.Duration(*c.Benchmark.MinSleepMs) * time.Millisecond
}

// Timeout returns the per-request transport timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// KeyDatasets converts the dataset configuration for the key loader.
func (c *Config) KeyDatasets() []keyloader.Dataset {
	out := make([]keyloader.Dataset, 0, len(c.Keys.Datasets))
	for _, d := range c.Keys.Datasets {
		chain, _ := entity.ParseChainID(d.Chain)
		out = append(out, keyloader.Dataset{
			Chain:        chain,
			Path:         d.Path,
			BlockchainID: d.BlockchainID,
			Contains:     d.Contains,
		})
	}
	return out
}
