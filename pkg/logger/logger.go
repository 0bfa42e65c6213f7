package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Production config for production
// environments, human-readable development config otherwise.
func New(env string) (*zap.SugaredLogger, error) {
	var base *zap.Logger
	var err error

	if env == "production" || env == "prod" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return base.Sugar(), nil
}
