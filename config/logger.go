package config

import (
	"fmt"

	"go.uber.org/zap"
)

func InitLogger(cfg *Config) (l *zap.Logger, err error) {
	if cfg.IsProduction() {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l.Named(cfg.App.Name), nil
}
