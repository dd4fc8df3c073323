package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port string `toml:"port"`

	// Auth
	APIKey string `toml:"api_key"`

	// Job worker pool
	WorkerCount  int `toml:"worker_count"`
	MaxQueueSize int `toml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `toml:"max_upload_bytes"`

	// Chunking defaults
	DefaultMethod       string `toml:"default_method"`
	DefaultChunkSize    int    `toml:"default_chunk_size"`
	DefaultChunkOverlap int    `toml:"default_chunk_overlap"`
	EngineWorkers       int    `toml:"engine_workers"` // Pages split concurrently per call

	// Job state
	JobTTL time.Duration `toml:"job_ttl"`

	// Latency stats window
	StatsWindow time.Duration `toml:"stats_window"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:                "8090",
		WorkerCount:         4,
		MaxQueueSize:        100,
		MaxUploadBytes:      52428800, // 50MB
		DefaultMethod:       "by_paragraphs",
		DefaultChunkSize:    1000,
		DefaultChunkOverlap: 200,
		EngineWorkers:       1,
		JobTTL:              1 * time.Hour,
		StatsWindow:         1 * time.Hour,
	}
}

// Load reads an optional TOML file, then applies environment overrides.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = envOr("DOCCHUNK_CONFIG", "docchunk.toml")
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("DOCCHUNK_API_KEY", cfg.APIKey)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)

	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	cfg.DefaultMethod = envOr("DEFAULT_CHUNK_METHOD", cfg.DefaultMethod)
	cfg.DefaultChunkSize = envInt("DEFAULT_CHUNK_SIZE", cfg.DefaultChunkSize)
	cfg.DefaultChunkOverlap = envInt("DEFAULT_CHUNK_OVERLAP", cfg.DefaultChunkOverlap)
	cfg.EngineWorkers = envInt("ENGINE_WORKERS", cfg.EngineWorkers)

	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)

	def := Default()
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = def.WorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = def.MaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.DefaultMethod == "" {
		cfg.DefaultMethod = def.DefaultMethod
	}
	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = def.DefaultChunkSize
	}
	if cfg.DefaultChunkOverlap < 0 {
		cfg.DefaultChunkOverlap = def.DefaultChunkOverlap
	}
	if cfg.EngineWorkers <= 0 {
		cfg.EngineWorkers = def.EngineWorkers
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = def.JobTTL
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = def.StatsWindow
	}

	return cfg, nil
}

// Validate checks the settings the HTTP server needs.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCCHUNK_API_KEY is required")
	}
	return c.ValidateChunking()
}

// ValidateChunking checks only the chunking defaults; the stdio MCP server
// has no API key.
func (c Config) ValidateChunking() error {
	if c.DefaultChunkOverlap > c.DefaultChunkSize {
		return fmt.Errorf("default chunk overlap (%d) must not exceed default chunk size (%d)", c.DefaultChunkOverlap, c.DefaultChunkSize)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
