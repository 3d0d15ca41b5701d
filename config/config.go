package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultEndpoint     = "https://api.alpaca.markets"
	DefaultDataEndpoint = "https://data.alpaca.markets"
)

type Config struct {
	Alpaca AlpacaConfig `mapstructure:"alpaca"`
	Log    LogConfig    `mapstructure:"log"`
}

// AlpacaConfig holds the endpoints and credentials a client is built from.
// A client copies it at construction; later writes only affect new clients.
type AlpacaConfig struct {
	Endpoint     string `mapstructure:"endpoint"`      // trading API base URL
	DataEndpoint string `mapstructure:"data_endpoint"` // market data API base URL
	KeyID        string `mapstructure:"key_id"`
	KeySecret    string `mapstructure:"key_secret"`

	// SSM parameter names; when set, ResolveSecrets overwrites KeyID / KeySecret.
	KeyIDParameter     string `mapstructure:"key_id_parameter"`
	KeySecretParameter string `mapstructure:"key_secret_parameter"`

	Timeout time.Duration `mapstructure:"timeout"` // 0 keeps the transport default
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// alpacaEnv maps config keys to the environment names used by the Alpaca SDKs.
var alpacaEnv = map[string][]string{
	"alpaca.endpoint":      {"APCA_API_BASE_URL"},
	"alpaca.data_endpoint": {"APCA_API_DATA_URL", "APCA_DATA_URL"},
	"alpaca.key_id":        {"APCA_API_KEY_ID"},
	"alpaca.key_secret":    {"APCA_API_SECRET_KEY"},
}

// Load reads config.yaml from dir (or the default config directory when dir
// is empty), a .env file from the same place, and environment overrides.
// A missing config.yaml is not an error; defaults and environment still apply.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = defaultConfigDir()
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)

	// Support environment variables with dot notation (e.g., ALPACA_TIMEOUT)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range alpacaEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("alpaca.endpoint", DefaultEndpoint)
	v.SetDefault("alpaca.data_endpoint", DefaultDataEndpoint)
	v.SetDefault("alpaca.key_id", "")
	v.SetDefault("alpaca.key_secret", "")
	v.SetDefault("alpaca.key_id_parameter", "")
	v.SetDefault("alpaca.key_secret_parameter", "")
	v.SetDefault("alpaca.timeout", time.Duration(0))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "dev")
}

// defaultConfigDir resolves the config directory next to the binary, or the
// repository's config/ when running under `go run`.
func defaultConfigDir() string {
	ex, err := os.Executable()
	if err != nil || strings.Contains(ex, "go-build") {
		pwd, _ := os.Getwd()
		return filepath.Join(pwd, "config")
	}
	return filepath.Join(filepath.Dir(ex), "../config")
}
