package modelscan

import (
	"os"
	"strconv"
	"time"
)

// Config carries the scan knobs. The defaults follow the service's
// realities: generation endpoints are slow, so timeouts are generous,
// and the concurrency cap is what bounds in-flight connections.
type Config struct {
	// Concurrent workers, also the connection fan-out bound
	Workers int
	// Timeout for one capability-listing call
	ProbeTimeout time.Duration
	// Timeout for each confirmation round
	ValidateTimeout time.Duration
	// Confirmation rounds per capability, first success wins
	ValidationRounds int
	// Progress sampling interval
	ProgressInterval time.Duration
	// User-Agent header on every request
	UserAgent string
}

func DefaultConfig() Config {
	return Config{
		Workers:          300,
		ProbeTimeout:     12 * time.Second,
		ValidateTimeout:  12 * time.Second,
		ValidationRounds: 3,
		ProgressInterval: 400 * time.Millisecond,
		UserAgent:        "modelscan/1.0",
	}
}

// BindEnv overrides config fields from MODELSCAN_* variables when set.
// Invalid values are ignored in favor of what the config already
// holds.
func (c *Config) BindEnv() {
	c.Workers = bindInt("MODELSCAN_WORKERS", c.Workers)
	c.ProbeTimeout = bindDuration("MODELSCAN_PROBE_TIMEOUT", c.ProbeTimeout)
	c.ValidateTimeout = bindDuration("MODELSCAN_VALIDATE_TIMEOUT", c.ValidateTimeout)
	c.ValidationRounds = bindInt("MODELSCAN_ROUNDS", c.ValidationRounds)
	c.ProgressInterval = bindDuration("MODELSCAN_PROGRESS_INTERVAL", c.ProgressInterval)
	if v := os.Getenv("MODELSCAN_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
}

func bindInt(env string, def int) int {
	v := os.Getenv(env)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func bindDuration(env string, def time.Duration) time.Duration {
	v := os.Getenv(env)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
