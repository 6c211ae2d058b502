package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gridiron-analytics/gridrank/internal/category"
	"github.com/gridiron-analytics/gridrank/internal/export"
)

type Config struct {
	// Server
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (optional season-record cache)
	RedisURL        string        `mapstructure:"REDIS_URL"`
	CacheExpiration time.Duration `mapstructure:"CACHE_EXPIRATION"`

	// Record sources
	DataDir           string        `mapstructure:"DATA_DIR"`
	RecordsBaseURL    string        `mapstructure:"RECORDS_BASE_URL"`
	RecordsRateLimit  float64       `mapstructure:"RECORDS_RATE_LIMIT"`
	RecordsAPITimeout time.Duration `mapstructure:"RECORDS_API_TIMEOUT"`

	// Replay scope
	League          string `mapstructure:"LEAGUE"`
	Seasons         string `mapstructure:"SEASONS"`
	BaselineSeasons string `mapstructure:"BASELINE_SEASONS"`

	// Rating engine
	InitialRating      int     `mapstructure:"INITIAL_RATING"`
	EliteInitialRating int     `mapstructure:"ELITE_INITIAL_RATING"`
	ElitePlayers       string  `mapstructure:"ELITE_PLAYERS"`
	PlayerKFactor      float64 `mapstructure:"PLAYER_K_FACTOR"`
	TeamKFactor        float64 `mapstructure:"TEAM_K_FACTOR"`
	ScaleMargin        bool    `mapstructure:"SCALE_MARGIN"`
	RegressionBlend    float64 `mapstructure:"REGRESSION_BLEND"`
	RegressionAppends  bool    `mapstructure:"REGRESSION_APPENDS"`
	SeasonGap          int     `mapstructure:"SEASON_GAP"`

	// Output
	OutputDir      string `mapstructure:"OUTPUT_DIR"`
	PlayerMetaFile string `mapstructure:"PLAYER_META_FILE"`
	SortColumn     string `mapstructure:"SORT_COLUMN"`
	SortDescending bool   `mapstructure:"SORT_DESC"`

	// Scheduled replay (cron spec, empty disables)
	ScheduleSpec string `mapstructure:"SCHEDULE_SPEC"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", "")
	viper.SetDefault("DATABASE_URL", "sqlite://gridrank.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CACHE_EXPIRATION", "720h") // historical seasons are immutable
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("RECORDS_BASE_URL", "")
	viper.SetDefault("RECORDS_RATE_LIMIT", 2.0)
	viper.SetDefault("RECORDS_API_TIMEOUT", "30s")
	viper.SetDefault("LEAGUE", category.LeaguePro)
	viper.SetDefault("SEASONS", "2016-2023")
	viper.SetDefault("BASELINE_SEASONS", "2013-2015")
	viper.SetDefault("INITIAL_RATING", 1200)
	viper.SetDefault("ELITE_INITIAL_RATING", 1300)
	viper.SetDefault("ELITE_PLAYERS", "")
	viper.SetDefault("PLAYER_K_FACTOR", 20.0)
	viper.SetDefault("TEAM_K_FACTOR", 25.0)
	viper.SetDefault("SCALE_MARGIN", true)
	viper.SetDefault("REGRESSION_BLEND", 0.75)
	viper.SetDefault("SEASON_GAP", 9500)
	viper.SetDefault("OUTPUT_DIR", "out")
	viper.SetDefault("PLAYER_META_FILE", "")
	viper.SetDefault("SORT_COLUMN", "rating")
	viper.SetDefault("SORT_DESC", true)
	viper.SetDefault("SCHEDULE_SPEC", "")

	// Read from environment
	viper.AutomaticEnv()

	// The append-vs-overwrite regression behavior differs by league: college
	// replays overwrite the current point, fantasy replays append a new one.
	// Kept as an explicit flag the environment can still override.
	viper.SetDefault("REGRESSION_APPENDS", viper.GetString("LEAGUE") == category.LeagueFantasy)

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate enforces the fatal-at-startup checks: the category table must be
// complete and the engine knobs sensible before any replay begins.
func (c *Config) Validate() error {
	if err := category.Validate(c.League); err != nil {
		return fmt.Errorf("invalid category configuration: %w", err)
	}
	if c.PlayerKFactor <= 0 || c.TeamKFactor <= 0 {
		return fmt.Errorf("k-factors must be positive")
	}
	if c.RegressionBlend <= 0 || c.RegressionBlend > 1 {
		return fmt.Errorf("REGRESSION_BLEND must be in (0, 1], got %v", c.RegressionBlend)
	}
	if c.SeasonGap <= 0 {
		return fmt.Errorf("SEASON_GAP must be positive")
	}
	if !export.ValidColumn(c.SortColumn) {
		return fmt.Errorf("SORT_COLUMN: unknown column %q", c.SortColumn)
	}
	if _, err := c.SeasonRange(); err != nil {
		return err
	}
	if _, err := c.BaselineSeasonRange(); err != nil {
		return err
	}
	return nil
}

// SeasonRange parses SEASONS ("2016-2023" or "2020") into a year list.
func (c *Config) SeasonRange() ([]int, error) {
	return parseSeasonRange("SEASONS", c.Seasons)
}

// BaselineSeasonRange parses BASELINE_SEASONS; empty disables the baseline.
func (c *Config) BaselineSeasonRange() ([]int, error) {
	if c.BaselineSeasons == "" {
		return nil, nil
	}
	return parseSeasonRange("BASELINE_SEASONS", c.BaselineSeasons)
}

// SortSpec builds the export ordering from the configured column/direction.
func (c *Config) SortSpec() export.SortSpec {
	return export.SortSpec{Column: c.SortColumn, Descending: c.SortDescending}
}

// OriginList parses the comma-separated CORS allow-list; empty disables CORS.
func (c *Config) OriginList() []string {
	return splitList(c.AllowedOrigins)
}

// EliteList parses the comma-separated elite allow-list.
func (c *Config) EliteList() []string {
	return splitList(c.ElitePlayers)
}

func splitList(spec string) []string {
	if spec == "" {
		return nil
	}
	parts := strings.Split(spec, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseSeasonRange(name, spec string) ([]int, error) {
	if spec == "" {
		return nil, fmt.Errorf("%s must not be empty", name)
	}
	bounds := strings.SplitN(spec, "-", 2)
	first, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil {
		return nil, fmt.Errorf("%s: bad year %q: %w", name, bounds[0], err)
	}
	last := first
	if len(bounds) == 2 {
		last, err = strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return nil, fmt.Errorf("%s: bad year %q: %w", name, bounds[1], err)
		}
	}
	if last < first {
		return nil, fmt.Errorf("%s: range %q runs backwards", name, spec)
	}
	seasons := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		seasons = append(seasons, y)
	}
	return seasons, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
