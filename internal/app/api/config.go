package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port string

	// Per-store DSNs. Each store is its own database; a blank DSN falls back
	// to a SQLite file under DataDir, and a failed open falls back to memory.
	OrdersDSN     string
	InventoryDSN  string
	ProductionDSN string
	FinanceDSN    string
	DataDir       string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	RestockThresholdMultiple int
	RestockTargetMultiple    int

	SimStatePath string
}

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		OrdersDSN:         strings.TrimSpace(os.Getenv("ORDERS_DSN")),
		InventoryDSN:      strings.TrimSpace(os.Getenv("INVENTORY_DSN")),
		ProductionDSN:     strings.TrimSpace(os.Getenv("PRODUCTION_DSN")),
		FinanceDSN:        strings.TrimSpace(os.Getenv("FINANCE_DSN")),
		DataDir:           envDefault("DATA_DIR", "databases"),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SimStatePath:      envDefault("SIM_STATE_PATH", "sim_state.json"),

		RestockThresholdMultiple: 10,
		RestockTargetMultiple:    100,
	}
	var err error
	if cfg.RestockThresholdMultiple, err = envPositiveInt("RESTOCK_THRESHOLD_MULTIPLE", cfg.RestockThresholdMultiple); err != nil {
		return Config{}, err
	}
	if cfg.RestockTargetMultiple, err = envPositiveInt("RESTOCK_TARGET_MULTIPLE", cfg.RestockTargetMultiple); err != nil {
		return Config{}, err
	}
	if cfg.RestockTargetMultiple < cfg.RestockThresholdMultiple {
		return Config{}, fmt.Errorf("RESTOCK_TARGET_MULTIPLE must be at least RESTOCK_THRESHOLD_MULTIPLE")
	}
	return cfg, nil
}

func envPositiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
