package infra

import (
	"errors"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ticksplit/internal/domain"
)

// Config holds the full application configuration. LoadConfig reads
// the YAML file, then applies environment overrides so deployments can
// steer paths without editing the file.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Batch struct {
		InputDir    string `yaml:"input_dir"`    // merged-day feed files
		OutputDir   string `yaml:"output_dir"`   // per-day result databases
		Concurrency int    `yaml:"concurrency"`  // parallel security replays
		BatchSize   int    `yaml:"batch_size"`   // rows per storage insert
	} `yaml:"batch"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	// A local .env is optional; missing is fine.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Batch.Concurrency <= 0 {
		c.Batch.Concurrency = runtime.NumCPU()
	}
	if c.Batch.BatchSize <= 0 {
		c.Batch.BatchSize = 500
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Batch.InputDir == "" {
		return &domain.ConfigError{Field: "batch.input_dir", Err: errors.New("required")}
	}
	if c.Batch.OutputDir == "" {
		return &domain.ConfigError{Field: "batch.output_dir", Err: errors.New("required")}
	}
	if c.Batch.Concurrency <= 0 {
		return &domain.ConfigError{Field: "batch.concurrency", Err: errors.New("must be positive")}
	}
	return nil
}

// overrideWithEnv applies environment variables over file values.
func overrideWithEnv(cfg *Config) {
	if dir := os.Getenv("TICKSPLIT_INPUT_DIR"); dir != "" {
		cfg.Batch.InputDir = dir
	}
	if dir := os.Getenv("TICKSPLIT_OUTPUT_DIR"); dir != "" {
		cfg.Batch.OutputDir = dir
	}
	if v := os.Getenv("TICKSPLIT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Batch.Concurrency = n
		}
	}
	if lvl := os.Getenv("TICKSPLIT_LOG_LEVEL"); lvl != "" {
		cfg.Logging.Level = lvl
	}
}
