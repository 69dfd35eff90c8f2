package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/crimestat/internal/pkg/constants"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	OpenData OpenDataConfig `mapstructure:"opendata"`
	Travel   TravelConfig   `mapstructure:"travel"`
	Report   ReportConfig   `mapstructure:"report"`
	Sync     SyncConfig     `mapstructure:"sync"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr" validate:"required"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

type OpenDataConfig struct {
	ServiceKey      string        `mapstructure:"service_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RateLimitPerSec float64       `mapstructure:"rate_limit_per_sec" validate:"gte=0"`
	UserAgent       string        `mapstructure:"user_agent"`
	MaxPages        int           `mapstructure:"max_pages" validate:"gte=1"`
	Cyber           FeedConfig    `mapstructure:"cyber"`
	Voice           FeedConfig    `mapstructure:"voice"`
}

type FeedConfig struct {
	BaseURL  string `mapstructure:"base_url" validate:"omitempty,url"`
	Endpoint string `mapstructure:"endpoint"`
	PerPage  int    `mapstructure:"per_page" validate:"gte=1"`
}

type TravelConfig struct {
	Regions   []RegionConfig `mapstructure:"regions" validate:"dive"`
	Watchlist []string       `mapstructure:"watchlist"`
}

type RegionConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Path     string `mapstructure:"path"`
	Encoding string `mapstructure:"encoding" validate:"omitempty,oneof=utf-8 euc-kr cp949"`
}

type ReportConfig struct {
	FromYear      int    `mapstructure:"from_year" validate:"required"`
	ToYear        int    `mapstructure:"to_year" validate:"required,gtefield=FromYear"`
	CyberCategory string `mapstructure:"cyber_category"`
}

type SyncConfig struct {
	Retries       uint64        `mapstructure:"retries"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// DefaultWatchlist is the set of monitored destination countries, matched
// exactly against the local-language labels of the region files.
var DefaultWatchlist = []string{"중국", "인도", "캄보디아", "이스라엘", "몰디브", "미얀마", "필리핀"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("log.level", "info")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "crimestat.db")
	v.SetDefault("opendata.service_key", "")
	v.SetDefault("opendata.timeout", 30*time.Second)
	v.SetDefault("opendata.rate_limit_per_sec", 5)
	v.SetDefault("opendata.user_agent", "crimestat/1.0")
	v.SetDefault("opendata.max_pages", 10)
	v.SetDefault("opendata.cyber.base_url", "https://api.odcloud.kr/api")
	v.SetDefault("opendata.cyber.endpoint", "")
	v.SetDefault("opendata.cyber.per_page", 100)
	v.SetDefault("opendata.voice.base_url", "https://api.odcloud.kr/api")
	v.SetDefault("opendata.voice.endpoint", "")
	v.SetDefault("opendata.voice.per_page", 500)
	v.SetDefault("travel.regions", []map[string]any{
		{"name": "asia", "path": "data/asia.csv"},
		{"name": "europe", "path": "data/europe.csv"},
		{"name": "africa", "path": "data/africa.csv"},
		{"name": "america", "path": "data/america.csv"},
		{"name": "oceania", "path": "data/oceania.csv"},
	})
	v.SetDefault("travel.watchlist", DefaultWatchlist)
	v.SetDefault("report.from_year", 2018)
	v.SetDefault("report.to_year", 2025)
	v.SetDefault("report.cyber_category", "발생건수")
	v.SetDefault("sync.retries", 2)
	v.SetDefault("sync.retry_interval", 500*time.Millisecond)
}

// Load reads the optional config file at path and overlays CRIMESTAT_* env vars.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("viper.ReadInConfig: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
