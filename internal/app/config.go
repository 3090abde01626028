package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// PipelinePath points at a .hcl file or a directory of .hcl files.
	PipelinePath string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	// WorkerCount bounds how many pipelines run concurrently.
	WorkerCount int
	// NotifyTimeout bounds each event publish; 0 means unbounded.
	NotifyTimeout time.Duration
}

// NewConfig validates cfg and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	return &cfg, nil
}
