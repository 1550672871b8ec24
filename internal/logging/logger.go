package logging

import (
	"go.uber.org/zap"
)

// New creates a logger for the given environment: JSON at info level in
// production, a no-op logger in tests, and human-readable debug output
// everywhere else.
func New(environment string) (*zap.Logger, error) {
	switch environment {
	case "production":
		return zap.NewProduction()
	case "test":
		return zap.NewNop(), nil
	default:
		return zap.NewDevelopment()
	}
}
