package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"lemonade/internal/game"
	"lemonade/internal/report"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "lemonade.yaml"

type CostStep struct {
	FromDay int     `yaml:"from_day"`
	Cost    float64 `yaml:"cost"`
	News    string  `yaml:"news"`
}

type RulesConfig struct {
	InitialAssets float64    `yaml:"initial_assets"`
	SignCost      float64    `yaml:"sign_cost"`
	CostSchedule  []CostStep `yaml:"cost_schedule"`
	Weights       struct {
		Sunny  float64 `yaml:"sunny"`
		Cloudy float64 `yaml:"cloudy"`
		HotDry float64 `yaml:"hot_dry"`
	} `yaml:"weather_weights"`
	StormChance   float64 `yaml:"storm_chance"`
	MaxGlasses    int     `yaml:"max_glasses"`
	MaxSigns      int     `yaml:"max_signs"`
	MaxPriceCents int     `yaml:"max_price_cents"`
}

type HistoryConfig struct {
	SQLitePath  string `yaml:"sqlite_path"`
	DatabaseURL string `yaml:"database_url"`
}

type Config struct {
	Rules        RulesConfig   `yaml:"rules"`
	Theme        string        `yaml:"theme"`
	WeatherPause time.Duration `yaml:"weather_pause"`
	Seed         int64         `yaml:"seed"`
	LogLevel     string        `yaml:"log_level"`
	History      HistoryConfig `yaml:"history"`
}

func Default() *Config {
	r := game.DefaultRules()
	cfg := &Config{
		Theme:        "modern",
		WeatherPause: 2 * time.Second,
		LogLevel:     "warn",
	}
	cfg.Rules.InitialAssets = r.InitialAssets.InexactFloat64()
	cfg.Rules.SignCost = r.SignCost.InexactFloat64()
	for _, s := range r.CostSchedule {
		cfg.Rules.CostSchedule = append(cfg.Rules.CostSchedule, CostStep{FromDay: s.FromDay, Cost: s.Cost.InexactFloat64(), News: s.News})
	}
	cfg.Rules.Weights.Sunny = r.Weights.Sunny
	cfg.Rules.Weights.Cloudy = r.Weights.Cloudy
	cfg.Rules.Weights.HotDry = r.Weights.HotDry
	cfg.Rules.StormChance = r.StormChance
	cfg.Rules.MaxGlasses = r.MaxGlasses
	cfg.Rules.MaxSigns = r.MaxSigns
	cfg.Rules.MaxPriceCents = r.MaxPriceCents
	return cfg
}

// Load applies defaults, then the YAML file at path (a missing file is fine),
// then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.Theme = strings.ToLower(envDefault("LEMONADE_THEME", cfg.Theme))
	cfg.WeatherPause = envDurationDefault("LEMONADE_WEATHER_PAUSE", cfg.WeatherPause)
	cfg.Seed = envInt64Default("LEMONADE_SEED", cfg.Seed)
	cfg.LogLevel = strings.ToLower(envDefault("LEMONADE_LOG_LEVEL", cfg.LogLevel))
	cfg.History.SQLitePath = envDefault("LEMONADE_SQLITE_PATH", cfg.History.SQLitePath)
	cfg.History.DatabaseURL = envDefault("LEMONADE_DATABASE_URL", cfg.History.DatabaseURL)
	cfg.Rules.StormChance = envFloatDefault("LEMONADE_STORM_CHANCE", cfg.Rules.StormChance)
	return cfg, nil
}

// PathFromEnv returns LEMONADE_CONFIG or the default file name.
func PathFromEnv() string {
	return envDefault("LEMONADE_CONFIG", DefaultPath)
}

func (c *Config) Validate() error {
	if err := c.GameRules().Validate(); err != nil {
		return err
	}
	if c.WeatherPause < 0 {
		return fmt.Errorf("weather_pause must be >= 0")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := report.ParseTheme(c.Theme); err != nil {
		return err
	}
	return nil
}

func (c *Config) GameRules() game.Rules {
	r := game.Rules{
		InitialAssets: decimal.NewFromFloat(c.Rules.InitialAssets),
		SignCost:      decimal.NewFromFloat(c.Rules.SignCost),
		Weights: game.WeatherWeights{
			Sunny:  c.Rules.Weights.Sunny,
			Cloudy: c.Rules.Weights.Cloudy,
			HotDry: c.Rules.Weights.HotDry,
		},
		StormChance:   c.Rules.StormChance,
		MaxGlasses:    c.Rules.MaxGlasses,
		MaxSigns:      c.Rules.MaxSigns,
		MaxPriceCents: c.Rules.MaxPriceCents,
	}
	for _, s := range c.Rules.CostSchedule {
		r.CostSchedule = append(r.CostSchedule, game.CostStep{
			FromDay: s.FromDay,
			Cost:    decimal.NewFromFloat(s.Cost),
			News:    s.News,
		})
	}
	return r
}

func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
