package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cypherlabdev/bracket-predictor-service/internal/bracket"
	"github.com/cypherlabdev/bracket-predictor-service/internal/rating"
	"github.com/cypherlabdev/bracket-predictor-service/internal/replay"
)

// Config holds all configuration for bracket-predictor-service
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	TBA       TBAConfig
	Rating    RatingConfig
	Tracker   TrackerConfig
	Simulator SimulatorConfig
	Replay    ReplayConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string // topic to publish refreshed snapshots to
}

// TBAConfig holds data source configuration
type TBAConfig struct {
	BaseURL string `mapstructure:"base_url"`
	AuthKey string `mapstructure:"auth_key"`
	Timeout time.Duration
}

// RatingConfig holds rating engine parameters
type RatingConfig struct {
	KQualification  float64 `mapstructure:"k_qualification"`
	KPlayoff        float64 `mapstructure:"k_playoff"`
	DefaultRating   float64 `mapstructure:"default_rating"`
	InitStdev       float64 `mapstructure:"init_stdev"`
	Window          int
	RecomputeEvery  int     `mapstructure:"recompute_every"`
	MarginScale     float64 `mapstructure:"margin_scale"`
	ReversionTarget float64 `mapstructure:"reversion_target"`
	ReversionFactor float64 `mapstructure:"reversion_factor"`
}

// TrackerConfig holds event tracking configuration
type TrackerConfig struct {
	Year         int
	Events       []string // event codes; empty means every event in the year
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// SimulatorConfig holds bracket simulation parameters
type SimulatorConfig struct {
	Trials      int
	SeriesToWin int `mapstructure:"series_to_win"`
}

// ReplayConfig holds historical replay configuration
type ReplayConfig struct {
	StartYear int `mapstructure:"start_year"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.enabled", true)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "event_snapshots")

	v.SetDefault("tba.base_url", "https://www.thebluealliance.com/api/v3")
	v.SetDefault("tba.auth_key", "")
	v.SetDefault("tba.timeout", 15*time.Second)

	v.SetDefault("rating.k_qualification", 15.0)
	v.SetDefault("rating.k_playoff", 5.0)
	v.SetDefault("rating.default_rating", 1350.0)
	v.SetDefault("rating.init_stdev", 20.0)
	v.SetDefault("rating.window", 800)
	v.SetDefault("rating.recompute_every", 100)
	v.SetDefault("rating.margin_scale", 0.004)
	v.SetDefault("rating.reversion_target", 1450.0)
	v.SetDefault("rating.reversion_factor", 0.2)

	v.SetDefault("tracker.year", time.Now().Year())
	v.SetDefault("tracker.events", []string{})
	v.SetDefault("tracker.poll_interval", 180*time.Second)

	v.SetDefault("simulator.trials", 1000)
	v.SetDefault("simulator.series_to_win", 2)

	v.SetDefault("replay.start_year", 2008)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvPrefix("BRACKET_PREDICTOR")
	v.AutomaticEnv()
	// Replace . with _ for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal to struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// ToRatingParams converts config to rating engine parameters
func (c *RatingConfig) ToRatingParams() rating.Params {
	return rating.Params{
		KQualification: c.KQualification,
		KPlayoff:       c.KPlayoff,
		DefaultRating:  c.DefaultRating,
		InitialStdev:   c.InitStdev,
		WindowSize:     c.Window,
		RecomputeEvery: c.RecomputeEvery,
		MarginScale:    c.MarginScale,
	}
}

// ToSimulatorConfig converts config to bracket simulator parameters
func (c *SimulatorConfig) ToSimulatorConfig() bracket.Config {
	return bracket.Config{
		Trials:      c.Trials,
		SeriesToWin: c.SeriesToWin,
	}
}

// ToReplayConfig assembles the replay configuration. Historical replay runs
// through the season before the tracked one.
func (c *Config) ToReplayConfig() replay.Config {
	return replay.Config{
		StartYear:       c.Replay.StartYear,
		ThroughYear:     c.Tracker.Year - 1,
		ReversionTarget: c.Rating.ReversionTarget,
		ReversionFactor: c.Rating.ReversionFactor,
		InitialStdev:    c.Rating.InitStdev,
	}
}
