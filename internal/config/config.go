package config

import (
	"strings"

	"github.com/spf13/viper"
)

// FeederConfig controls the built-in order simulation.
type FeederConfig struct {
	Enabled     bool
	Seed        int64
	SeedOrders  int
	MixedOrders int
	MarketRatio float64
}

// Config holds all runtime settings. Every key can be overridden through
// the environment with the ENGINE_ prefix, e.g. ENGINE_WORKERS=8 or
// ENGINE_FEEDER_ENABLED=true.
type Config struct {
	HTTPPort      string
	MetricsPort   string
	Workers       int
	SnapshotDepth int
	Feeder        FeederConfig
}

// Load reads configuration from the environment with defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("http_port", "8080")
	v.SetDefault("metrics_port", "9090")
	v.SetDefault("workers", 4)
	v.SetDefault("snapshot_depth", 5)
	v.SetDefault("feeder.enabled", false)
	v.SetDefault("feeder.seed", 1)
	v.SetDefault("feeder.seed_orders", 50000)
	v.SetDefault("feeder.mixed_orders", 50000)
	v.SetDefault("feeder.market_ratio", 0.5)

	v.SetEnvPrefix("ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		HTTPPort:      v.GetString("http_port"),
		MetricsPort:   v.GetString("metrics_port"),
		Workers:       v.GetInt("workers"),
		SnapshotDepth: v.GetInt("snapshot_depth"),
		Feeder: FeederConfig{
			Enabled:     v.GetBool("feeder.enabled"),
			Seed:        v.GetInt64("feeder.seed"),
			SeedOrders:  v.GetInt("feeder.seed_orders"),
			MixedOrders: v.GetInt("feeder.mixed_orders"),
			MarketRatio: v.GetFloat64("feeder.market_ratio"),
		},
	}, nil
}
