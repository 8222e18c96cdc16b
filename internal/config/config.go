package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bassista/go_park/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the full runtime configuration of the dashboard backend.
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Lot    LotConfig
	Cities CitiesConfig
	Misc   MiscConfig
}

type ServerConfig struct {
	Port               int `validate:"min=1,max=65535"`
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins string
}

// DataConfig selects the key-value backend and the keys the state lives under.
type DataConfig struct {
	Backend    string `validate:"oneof=file sqlite memory"`
	FilePath   string
	SQLitePath string
	SpotsKey   string `validate:"required"`
	CitiesKey  string `validate:"required,nefield=SpotsKey"`
	WatchFile  bool
}

// LotConfig describes the single simulated lot.
type LotConfig struct {
	TotalSpots          int     `validate:"min=1"`
	OccupiedProbability float64 `validate:"min=0,max=1"`
	TrafficInterval     time.Duration
	GridColumns         int `validate:"min=1"`
}

// CitiesConfig describes the coarse multi-city simulation.
type CitiesConfig struct {
	Names           []string `validate:"min=1,unique,dive,required"`
	SpotsPerCity    int      `validate:"min=1"`
	MaxDelta        int      `validate:"min=0"`
	RefreshInterval time.Duration
}

type MiscConfig struct {
	LogLevel  string
	LogFormat string `validate:"omitempty,oneof=text json"`
	GinMode   string
	// Seed makes the simulation reproducible; 0 means seeded from the clock.
	Seed                     int64
	DashboardRefreshSecs     int
	StatsRefreshIntervalSecs int
}

// LoadConfig reads config.yaml (when present), .env files and GO_PARK_* environment
// variables, applies defaults and validates the result.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.WithComponent("config").Warnf("cannot load .env file: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getEnvOrDefault("GO_PARK_CONFIG_PATH", "./config"))

	setDefaults(v)

	// Environment variables like GO_PARK_LOT_TOTAL_SPOTS override lot.total_spots
	v.SetEnvPrefix("GO_PARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
		logger.WithComponent("config").Debug("no config file found, using defaults and env vars")
	}

	port, err := getEnvOrViperPort(v, "PORT", "server.port")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               port,
			ReadTimeout:        v.GetDuration("server.read_timeout"),
			WriteTimeout:       v.GetDuration("server.write_timeout"),
			IdleTimeout:        v.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    v.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     v.GetDuration("server.request_timeout"),
			CORSAllowedOrigins: v.GetString("server.cors_allowed_origins"),
		},
		Data: DataConfig{
			Backend:    strings.ToLower(v.GetString("data.backend")),
			FilePath:   v.GetString("data.file_path"),
			SQLitePath: v.GetString("data.sqlite_path"),
			SpotsKey:   v.GetString("data.spots_key"),
			CitiesKey:  v.GetString("data.cities_key"),
			WatchFile:  v.GetBool("data.watch_file"),
		},
		Lot: LotConfig{
			TotalSpots:          v.GetInt("lot.total_spots"),
			OccupiedProbability: v.GetFloat64("lot.occupied_probability"),
			TrafficInterval:     v.GetDuration("lot.traffic_interval"),
			GridColumns:         v.GetInt("lot.grid_columns"),
		},
		Cities: CitiesConfig{
			Names:           splitList(v.GetStringSlice("cities.names")),
			SpotsPerCity:    v.GetInt("cities.spots_per_city"),
			MaxDelta:        v.GetInt("cities.max_delta"),
			RefreshInterval: v.GetDuration("cities.refresh_interval"),
		},
		Misc: MiscConfig{
			LogLevel:                 v.GetString("misc.log_level"),
			LogFormat:                v.GetString("misc.log_format"),
			GinMode:                  v.GetString("misc.gin_mode"),
			Seed:                     v.GetInt64("misc.seed"),
			DashboardRefreshSecs:     v.GetInt("misc.dashboard_refresh_secs"),
			StatsRefreshIntervalSecs: v.GetInt("misc.stats_refresh_interval_secs"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.request_timeout", "1s")
	v.SetDefault("server.cors_allowed_origins", "*")

	v.SetDefault("data.backend", BackendFile)
	v.SetDefault("data.file_path", "./config/data/store.json")
	v.SetDefault("data.sqlite_path", "./config/data/store.db")
	v.SetDefault("data.spots_key", "retroParkMapState")
	v.SetDefault("data.cities_key", "retroParkData")
	v.SetDefault("data.watch_file", true)

	v.SetDefault("lot.total_spots", 24)
	v.SetDefault("lot.occupied_probability", 0.4)
	v.SetDefault("lot.traffic_interval", "8s")
	v.SetDefault("lot.grid_columns", 6)

	v.SetDefault("cities.names", []string{"Warszawa", "Kraków", "Gdańsk", "Wrocław", "Poznań"})
	v.SetDefault("cities.spots_per_city", 500)
	v.SetDefault("cities.max_delta", 5)
	v.SetDefault("cities.refresh_interval", "5s")

	v.SetDefault("misc.log_level", "info")
	v.SetDefault("misc.log_format", "text")
	v.SetDefault("misc.gin_mode", "release")
	v.SetDefault("misc.seed", 0)
	v.SetDefault("misc.dashboard_refresh_secs", 1)
	v.SetDefault("misc.stats_refresh_interval_secs", 1)
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.Data.Backend {
	case BackendFile:
		if c.Data.FilePath == "" {
			return errors.New("data.file_path is required for the file backend")
		}
	case BackendSQLite:
		if c.Data.SQLitePath == "" {
			return errors.New("data.sqlite_path is required for the sqlite backend")
		}
	}

	timeouts := map[string]time.Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutDownTimeout,
		"server.request_timeout":  c.Server.RequestTimeout,
		"lot.traffic_interval":    c.Lot.TrafficInterval,
		"cities.refresh_interval": c.Cities.RefreshInterval,
	}
	for name, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvOrViperPort(v *viper.Viper, envKey, viperKey string) (int, error) {
	if value := os.Getenv(envKey); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", envKey, value, err)
		}
		return port, nil
	}
	return v.GetInt(viperKey), nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
