package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Market MarketConfig `yaml:"market" mapstructure:"market"`
	Enrich EnrichConfig `yaml:"enrich" mapstructure:"enrich"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the sqlite cache database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DataConfig holds paths to input and output artifacts.
type DataConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	SoldCSV     string `yaml:"sold_csv" mapstructure:"sold_csv"`
	ListingsCSV string `yaml:"listings_csv" mapstructure:"listings_csv"`
	RentalCSV   string `yaml:"rental_csv" mapstructure:"rental_csv"`
	SAFMRXlsx   string `yaml:"safmr_xlsx" mapstructure:"safmr_xlsx"`
	FireGeoJSON string `yaml:"fire_geojson" mapstructure:"fire_geojson"`
}

// MarketConfig selects the active market.
type MarketConfig struct {
	Slug string `yaml:"slug" mapstructure:"slug"`
}

// EnrichConfig configures the listing enrichment pass.
type EnrichConfig struct {
	Workers int    `yaml:"workers" mapstructure:"workers"`
	Config  string `yaml:"config" mapstructure:"config"`
}

// ServerConfig configures the artifact server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEALFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "dealfinder.db")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.sold_csv", "data/sold.csv")
	v.SetDefault("data.listings_csv", "data/listings.csv")
	v.SetDefault("data.rental_csv", "data/rentals.csv")
	v.SetDefault("data.safmr_xlsx", "data/safmr.xlsx")
	v.SetDefault("data.fire_geojson", "data/vhfhsz.geojson")
	v.SetDefault("market.slug", "la")
	v.SetDefault("enrich.workers", 0)
	v.SetDefault("enrich.config", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
