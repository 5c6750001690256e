// Package config loads the service configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

// Log modes.
const (
	LogModeFile  = "file"
	LogModePrint = "print"
)

// Pipeline kinds.
const (
	PipelineTree   = "tree"
	PipelineRemote = "remote"
)

type Config struct {
	Http     HttpConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

type HttpConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// PredictFormOnGet keeps GET /predict answering with the empty form.
	PredictFormOnGet bool          `yaml:"predict_form_on_get"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	MaxBodyBytes     int64         `yaml:"max_body_bytes"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type PipelineConfig struct {
	Kind      string        `yaml:"kind"`
	ModelType string        `yaml:"model_type"`
	ModelPath string        `yaml:"model_path"`
	CacheSize int           `yaml:"cache_size"`
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Default returns the configuration used for every key the file leaves out.
func Default() Config {
	return Config{
		Http: HttpConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			PredictFormOnGet: true,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     30 * time.Second,
			MaxBodyBytes:     64 << 10,
		},
		Log: LogConfig{
			Mode:       LogModeFile,
			Level:      "debug",
			File:       "logs/running_logs.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Pipeline: PipelineConfig{
			Kind:      PipelineTree,
			ModelType: "decision_tree",
			ModelPath: "artifacts/model_trainer/model.json",
			CacheSize: 4,
			URL:       "http://localhost:5000",
			Timeout:   10 * time.Second,
		},
	}
}

// Load reads path and overlays it on Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.Http.Port)
	}
	switch c.Log.Mode {
	case LogModeFile:
		if c.Log.File == "" {
			return errors.New("log.file is required in file mode")
		}
	case LogModePrint:
	default:
		return fmt.Errorf("unknown log.mode %q", c.Log.Mode)
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("unknown log.level %q", c.Log.Level)
		}
	}
	switch c.Pipeline.Kind {
	case PipelineTree:
		if c.Pipeline.ModelPath == "" {
			return errors.New("pipeline.model_path is required for tree pipeline")
		}
	case PipelineRemote:
		if c.Pipeline.URL == "" {
			return errors.New("pipeline.url is required for remote pipeline")
		}
	default:
		return fmt.Errorf("unknown pipeline.kind %q", c.Pipeline.Kind)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Http.Host, c.Http.Port)
}
