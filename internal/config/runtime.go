package config

import (
	"os"
	"strconv"
)

// Runtime holds process settings read from the environment.
type Runtime struct {
	HTTPAddr      string
	CacheMaxItems int
	ObsBuffer     int
	MaxTraceBytes int64
}

func Load() Runtime {
	return Runtime{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		CacheMaxItems: getenvInt("VCD_CACHE_MAX_ITEMS", 1024, 1),
		ObsBuffer:     getenvInt("VCD_OBS_BUFFER", 4096, 1),
		MaxTraceBytes: int64(getenvInt("VCD_MAX_TRACE_BYTES", 32<<20, 1024)),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback, min int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return fallback
	}
	return v
}
