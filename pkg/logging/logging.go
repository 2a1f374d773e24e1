// Package logging builds the process logger and scrubs sensitive data
// before anything reaches a log line.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the root logger. Local environments get the development
// encoder; everything else logs structured JSON at info.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "local" || env == "dev" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
