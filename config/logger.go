package config

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from the level and format settings.
func NewLogger(cfg *Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
	}
	return log
}
