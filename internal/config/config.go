package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/deividalexander/investment-opportunity-engine/internal/logging"
)

// Ingestion policy names. audit-then-restrict loads the full snapshot for a
// column audit before narrowing; direct-restrict narrows on read.
const (
	PolicyDirectRestrict = "direct-restrict"
	PolicyAuditRestrict  = "audit-then-restrict"
)

// Fallback strategy names for categories absent from a fitted vocabulary.
const (
	FallbackFirstKnown = "first-known"
	FallbackZeroIndex  = "zero-index"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Export    ExportConfig    `mapstructure:"export"`
	Notify    NotifyConfig    `mapstructure:"notify"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity. An empty DSN means
// persistence is disabled and the pipeline only writes file artifacts.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SnapshotSource identifies one time-stamped catalog extract.
type SnapshotSource struct {
	Path   string `mapstructure:"path"`
	Date   string `mapstructure:"date"`
	Policy string `mapstructure:"policy"`
}

// SnapshotDate returns the calendar date associated with the extract.
func (s SnapshotSource) SnapshotDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("snapshot %s: invalid date %q: %w", s.Path, s.Date, err)
	}
	return t, nil
}

// PipelineConfig governs ingestion and the dataset artifacts.
type PipelineConfig struct {
	Snapshots       []SnapshotSource `mapstructure:"snapshots"`
	CanonicalCols   []string         `mapstructure:"canonical_columns"`
	ZeroFillCols    []string         `mapstructure:"zero_fill_columns"`
	MeanFillCols    []string         `mapstructure:"mean_fill_columns"`
	SilverPath      string           `mapstructure:"silver_path"`
	GoldPath        string           `mapstructure:"gold_path"`
	ParallelLoaders int              `mapstructure:"parallel_loaders"`
}

// ArtifactsConfig locates the externally-trained model artifacts.
type ArtifactsConfig struct {
	Dir               string `mapstructure:"dir"`
	ModelFile         string `mapstructure:"model_file"`
	RoomTypeFile      string `mapstructure:"room_type_encoder_file"`
	NeighbourhoodFile string `mapstructure:"neighbourhood_encoder_file"`
	KeywordsFile      string `mapstructure:"keywords_file"`
}

// ScoringConfig holds the business classification settings.
type ScoringConfig struct {
	GapThreshold     float64 `mapstructure:"gap_threshold"`
	FallbackStrategy string  `mapstructure:"fallback_strategy"`
}

// WatchConfig drives the optional interval re-run mode.
type WatchConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// NotifyConfig defines post-run summary notification routing.
type NotifyConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes Telegram delivery parameters.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OPPENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "oppengine")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("pipeline.canonical_columns", DefaultCanonicalColumns())
	v.SetDefault("pipeline.zero_fill_columns", []string{"reviews_per_month", "number_of_reviews_ltm"})
	v.SetDefault("pipeline.mean_fill_columns", []string{"review_scores_rating", "review_scores_cleanliness", "review_scores_location"})
	v.SetDefault("pipeline.silver_path", "data/silver/listings_normalized.csv")
	v.SetDefault("pipeline.gold_path", "data/gold/listings_classified.csv")
	v.SetDefault("pipeline.parallel_loaders", 1)

	v.SetDefault("artifacts.dir", "models")
	v.SetDefault("artifacts.model_file", "price_model_v1.json")
	v.SetDefault("artifacts.room_type_encoder_file", "encoder_room_type.json")
	v.SetDefault("artifacts.neighbourhood_encoder_file", "encoder_neighbourhood.json")
	v.SetDefault("artifacts.keywords_file", "luxury_keywords.json")

	v.SetDefault("scoring.gap_threshold", 50.0)
	v.SetDefault("scoring.fallback_strategy", FallbackFirstKnown)

	v.SetDefault("watch.interval", "24h")
	v.SetDefault("watch.startup_delay", "0s")

	v.SetDefault("export.max_data_points", 100000)

	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.telegram.enabled", false)
	v.SetDefault("notify.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// DefaultCanonicalColumns returns the fixed downstream column set.
func DefaultCanonicalColumns() []string {
	return []string{
		"id", "name", "neighbourhood_cleansed", "room_type",
		"price", "number_of_reviews", "review_scores_rating",
		"latitude", "longitude", "accommodates",
		"host_is_superhost",
		"review_scores_cleanliness",
		"review_scores_location",
		"availability_365",
		"reviews_per_month",
		"number_of_reviews_ltm",
		"description",
		"neighborhood_overview",
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if len(c.Pipeline.CanonicalCols) == 0 {
		return fmt.Errorf("pipeline.canonical_columns must not be empty")
	}
	if c.Pipeline.ParallelLoaders <= 0 {
		return fmt.Errorf("pipeline.parallel_loaders must be greater than zero")
	}
	for _, src := range c.Pipeline.Snapshots {
		if src.Path == "" {
			return fmt.Errorf("pipeline.snapshots entries require a path")
		}
		if _, err := src.SnapshotDate(); err != nil {
			return err
		}
		switch src.Policy {
		case "", PolicyDirectRestrict, PolicyAuditRestrict:
		default:
			return fmt.Errorf("snapshot %s: unknown policy %q", src.Path, src.Policy)
		}
	}
	if c.Scoring.GapThreshold <= 0 {
		return fmt.Errorf("scoring.gap_threshold must be greater than zero")
	}
	switch c.Scoring.FallbackStrategy {
	case FallbackFirstKnown, FallbackZeroIndex:
	default:
		return fmt.Errorf("scoring.fallback_strategy must be %q or %q", FallbackFirstKnown, FallbackZeroIndex)
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be greater than zero")
	}
	if c.Notify.Telegram.Enabled {
		if c.Notify.Telegram.BotToken == "" {
			return fmt.Errorf("notify.telegram.bot_token is required when telegram is enabled")
		}
		if c.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("notify.telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
