// Package config loads broker configuration from defaults, an optional
// config.yaml in the state directory, and MESSAGE_BOARD_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/agentboard/agentboard/internal/core"
)

// Retention controls the pruning pass that runs before message reads. The
// zero-value-ish defaults are deliberately conservative; Legacy restores the
// original destructive thresholds (20-char floor, dedup, 1-hour window) for
// bug compatibility.
type Retention struct {
	Legacy        bool          `mapstructure:"legacy"`
	MinContentLen int           `mapstructure:"min_content_len"`
	Dedup         bool          `mapstructure:"dedup"`
	MaxAge        time.Duration `mapstructure:"max_age"`
}

// Pool sizes the store connection pool.
type Pool struct {
	MaxConns       int           `mapstructure:"max_conns"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
}

// Wait tunes the blocking wait loop. The cadence starts at FastInterval and
// drops to SlowInterval once FastWindow has elapsed within a single call.
type Wait struct {
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
	FastInterval   time.Duration `mapstructure:"fast_interval"`
	SlowInterval   time.Duration `mapstructure:"slow_interval"`
	FastWindow     time.Duration `mapstructure:"fast_window"`
}

// Liveness sets the heartbeat deadlines used by the sweeper and by the
// waiting-agent views.
type Liveness struct {
	OfflineAfter time.Duration `mapstructure:"offline_after"`
	TimeoutAfter time.Duration `mapstructure:"timeout_after"`
}

// Config is the broker's runtime configuration.
type Config struct {
	StateDir  string    `mapstructure:"state_dir"`
	ClientID  string    `mapstructure:"client_id"`
	LogLevel  string    `mapstructure:"log_level"`
	Pool      Pool      `mapstructure:"pool"`
	Retention Retention `mapstructure:"retention"`
	Wait      Wait      `mapstructure:"wait"`
	Liveness  Liveness  `mapstructure:"liveness"`
}

// Load builds the configuration. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("state_dir", core.StateDir())
	v.SetDefault("client_id", core.DefaultClientID())
	v.SetDefault("log_level", "info")
	v.SetDefault("pool.max_conns", 5)
	v.SetDefault("pool.acquire_timeout", 30*time.Second)
	v.SetDefault("retention.legacy", false)
	v.SetDefault("retention.min_content_len", 0)
	v.SetDefault("retention.dedup", false)
	v.SetDefault("retention.max_age", 720*time.Hour)
	v.SetDefault("wait.default_timeout", 300*time.Second)
	v.SetDefault("wait.fast_interval", 500*time.Millisecond)
	v.SetDefault("wait.slow_interval", 5*time.Second)
	v.SetDefault("wait.fast_window", 30*time.Second)
	v.SetDefault("liveness.offline_after", 120*time.Second)
	v.SetDefault("liveness.timeout_after", 60*time.Second)

	v.SetEnvPrefix("MESSAGE_BOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// MESSAGE_BOARD_DIR and MESSAGE_CLIENT_ID predate the MESSAGE_BOARD_*
	// scheme and keep their historical names.
	_ = v.BindEnv("state_dir", "MESSAGE_BOARD_DIR", "MESSAGE_BOARD_STATE_DIR")
	_ = v.BindEnv("client_id", "MESSAGE_CLIENT_ID", "MESSAGE_BOARD_CLIENT_ID")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("state_dir"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Retention.Legacy {
		cfg.Retention.MinContentLen = 20
		cfg.Retention.Dedup = true
		cfg.Retention.MaxAge = time.Hour
	}

	return &cfg, nil
}
