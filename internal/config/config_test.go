package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        120 * time.Second,
			ShutDownTimeout:    5 * time.Second,
			RequestTimeout:     time.Second,
			CORSAllowedOrigins: "*",
		},
		Data: DataConfig{
			Backend:   BackendFile,
			FilePath:  "/tmp/store.json",
			SpotsKey:  "retroParkMapState",
			CitiesKey: "retroParkData",
		},
		Lot: LotConfig{
			TotalSpots:          24,
			OccupiedProbability: 0.4,
			TrafficInterval:     8 * time.Second,
			GridColumns:         6,
		},
		Cities: CitiesConfig{
			Names:           []string{"Warszawa", "Kraków"},
			SpotsPerCity:    500,
			MaxDelta:        5,
			RefreshInterval: 5 * time.Second,
		},
		Misc: MiscConfig{LogLevel: "info", LogFormat: "text", GinMode: "release"},
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().validate())
}

func TestConfig_Validate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"too high port", func(c *Config) { c.Server.Port = 65536 }},
		{"unknown backend", func(c *Config) { c.Data.Backend = "redis" }},
		{"file backend without path", func(c *Config) { c.Data.FilePath = "" }},
		{"sqlite backend without path", func(c *Config) { c.Data.Backend = BackendSQLite; c.Data.SQLitePath = "" }},
		{"empty spots key", func(c *Config) { c.Data.SpotsKey = "" }},
		{"same keys", func(c *Config) { c.Data.CitiesKey = c.Data.SpotsKey }},
		{"no spots", func(c *Config) { c.Lot.TotalSpots = 0 }},
		{"probability above one", func(c *Config) { c.Lot.OccupiedProbability = 1.5 }},
		{"negative probability", func(c *Config) { c.Lot.OccupiedProbability = -0.1 }},
		{"zero traffic interval", func(c *Config) { c.Lot.TrafficInterval = 0 }},
		{"zero grid columns", func(c *Config) { c.Lot.GridColumns = 0 }},
		{"no cities", func(c *Config) { c.Cities.Names = nil }},
		{"duplicate cities", func(c *Config) { c.Cities.Names = []string{"Gdańsk", "Gdańsk"} }},
		{"blank city", func(c *Config) { c.Cities.Names = []string{"Gdańsk", ""} }},
		{"negative delta", func(c *Config) { c.Cities.MaxDelta = -1 }},
		{"zero refresh interval", func(c *Config) { c.Cities.RefreshInterval = 0 }},
		{"zero request timeout", func(c *Config) { c.Server.RequestTimeout = 0 }},
		{"bad log format", func(c *Config) { c.Misc.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestConfig_Validate_MemoryBackendNeedsNoPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.Backend = BackendMemory
	cfg.Data.FilePath = ""
	assert.NoError(t, cfg.validate())
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_VAR", "custom_value")
	assert.Equal(t, "custom_value", getEnvOrDefault("TEST_ENV_VAR", "default_value"))
	assert.Equal(t, "default_value", getEnvOrDefault("NONEXISTENT_VAR", "default_value"))

	t.Setenv("TEST_EMPTY_VAR", "")
	assert.Equal(t, "default_value", getEnvOrDefault("TEST_EMPTY_VAR", "default_value"))
}

func TestGetEnvOrViperPort(t *testing.T) {
	v := viper.New()
	v.Set("server.port", 7070)

	port, err := getEnvOrViperPort(v, "TEST_PORT_UNSET", "server.port")
	require.NoError(t, err)
	assert.Equal(t, 7070, port)

	t.Setenv("TEST_PORT", "9090")
	port, err = getEnvOrViperPort(v, "TEST_PORT", "server.port")
	require.NoError(t, err)
	assert.Equal(t, 9090, port)

	t.Setenv("TEST_PORT_INVALID", "not_a_number")
	_, err = getEnvOrViperPort(v, "TEST_PORT_INVALID", "server.port")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Warszawa", "Kraków", "Gdańsk"}, splitList([]string{"Warszawa,Kraków", " Gdańsk "}))
	assert.Empty(t, splitList([]string{",", ""}))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GO_PARK_CONFIG_PATH", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, BackendFile, cfg.Data.Backend)
	assert.Equal(t, "retroParkMapState", cfg.Data.SpotsKey)
	assert.Equal(t, "retroParkData", cfg.Data.CitiesKey)
	assert.Equal(t, 24, cfg.Lot.TotalSpots)
	assert.InDelta(t, 0.4, cfg.Lot.OccupiedProbability, 1e-9)
	assert.Equal(t, 8*time.Second, cfg.Lot.TrafficInterval)
	assert.Equal(t, 5*time.Second, cfg.Cities.RefreshInterval)
	assert.Equal(t, 500, cfg.Cities.SpotsPerCity)
	assert.Equal(t, 5, cfg.Cities.MaxDelta)
	assert.Len(t, cfg.Cities.Names, 5)
	assert.Equal(t, "Warszawa", cfg.Cities.Names[0])
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GO_PARK_CONFIG_PATH", t.TempDir())
	t.Setenv("PORT", "9999")
	t.Setenv("GO_PARK_LOT_TOTAL_SPOTS", "12")
	t.Setenv("GO_PARK_DATA_BACKEND", "memory")
	t.Setenv("GO_PARK_CITIES_NAMES", "Łódź,Lublin")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 12, cfg.Lot.TotalSpots)
	assert.Equal(t, BackendMemory, cfg.Data.Backend)
	assert.Equal(t, []string{"Łódź", "Lublin"}, cfg.Cities.Names)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
lot:
  total_spots: 30
  traffic_interval: 2s
cities:
  names: [Szczecin, Toruń]
  spots_per_city: 120
misc:
  seed: 42
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	t.Setenv("GO_PARK_CONFIG_PATH", dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Lot.TotalSpots)
	assert.Equal(t, 2*time.Second, cfg.Lot.TrafficInterval)
	assert.Equal(t, []string{"Szczecin", "Toruń"}, cfg.Cities.Names)
	assert.Equal(t, 120, cfg.Cities.SpotsPerCity)
	assert.Equal(t, int64(42), cfg.Misc.Seed)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("GO_PARK_CONFIG_PATH", t.TempDir())
	t.Setenv("PORT", "not_a_port")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidProbability(t *testing.T) {
	t.Setenv("GO_PARK_CONFIG_PATH", t.TempDir())
	t.Setenv("GO_PARK_LOT_OCCUPIED_PROBABILITY", "2")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("lot: [unclosed"), 0o644))
	t.Setenv("GO_PARK_CONFIG_PATH", dir)

	_, err := LoadConfig()
	assert.Error(t, err)
}
