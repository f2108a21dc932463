package providers

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"kickoff/internal/structures"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const AppName = "Kickoff"

// DefaultBaseURL mirrors the per-platform defaults of the mobile client: the
// Android emulator reaches the host loopback through 10.0.2.2.
func DefaultBaseURL(goos string) string {
	if goos == "android" {
		return "http://10.0.2.2:8000"
	}
	return "http://localhost:8000"
}

func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	dataDir := filepath.Join(home, ".kickoff")

	v.SetDefault("api.baseUrl", DefaultBaseURL(runtime.GOOS))
	v.SetDefault("api.retryMax", 0)
	v.SetDefault("api.retryWaitMin", 1)
	v.SetDefault("api.retryWaitMax", 5)
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", filepath.Join(dataDir, "storage"))
	v.SetDefault("storage.sqlitePath", filepath.Join(dataDir, "kickoff.db"))
	v.SetDefault("storage.service", "kickoff")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", filepath.Join(dataDir, "logs"))
	v.SetDefault("logger.maxSizeMb", 10)
	v.SetDefault("logger.maxBackups", 3)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 1)
	v.SetDefault("cache.ttl", 300)
	v.SetDefault("metrics.addr", "127.0.0.1:9464")
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("api.baseUrl", "KICKOFF_API_BASE_URL")
	v.BindEnv("api.retryMax", "KICKOFF_API_RETRY_MAX")
	v.BindEnv("storage.backend", "KICKOFF_STORAGE_BACKEND")
	v.BindEnv("storage.dir", "KICKOFF_STORAGE_DIR")
	v.BindEnv("session.backend", "KICKOFF_SESSION_BACKEND")
	v.BindEnv("logger.level", "KICKOFF_LOG_LEVEL")
	v.BindEnv("logger.dir", "KICKOFF_LOG_DIR")
	v.BindEnv("cache.enabled", "KICKOFF_CACHE_ENABLED")
	v.BindEnv("metrics.enabled", "KICKOFF_METRICS_ENABLED")
	v.BindEnv("metrics.addr", "KICKOFF_METRICS_ADDR")
}

// NewConfigProvider loads the YAML config named by the flags. A missing file is
// not an error: defaults, .env and the environment still apply.
func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	// .env is optional, values already in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	if err := cnfValidator.Validate(); err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
