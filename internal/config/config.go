package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr         string        // bind address, e.g., "127.0.0.1:9115" (local) or ":9115" (Docker)
	LogDir       string        // logs directory
	ModulesFile  string        // path to the YAML module table (empty means built-in default)
	PopID        string        // identifier of this point of presence, rendered as the "pop" label
	ProbeTimeout time.Duration // outbound probe timeout
	RateRPM      int           // probe endpoint rate limit, requests per minute (0 disables)
	RateBurst    int           // rate limit burst
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:9115"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	// Empty means the built-in http_2xx module only.
	modulesFile := os.Getenv("MODULES_FILE")

	popID := os.Getenv("POP_ID")

	probeTimeout := 10 * time.Second
	if v := os.Getenv("PROBE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			probeTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	rateRPM := 0
	if v := os.Getenv("RATE_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			rateRPM = n
		}
	}

	rateBurst := 30
	if v := os.Getenv("RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateBurst = n
		}
	}

	return Config{
		Addr:         addr,
		LogDir:       logDir,
		ModulesFile:  modulesFile,
		PopID:        popID,
		ProbeTimeout: probeTimeout,
		RateRPM:      rateRPM,
		RateBurst:    rateBurst,
	}
}
