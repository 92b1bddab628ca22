package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/lmoraes94/verzel-admin/internal/config"
	"github.com/lmoraes94/verzel-admin/internal/fixture"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	setupLogging(cfg.Log)

	if err := os.MkdirAll(cfg.DevServer.UploadDir, 0o755); err != nil {
		logrus.WithError(err).Fatal("failed to create upload dir")
	}

	srv, err := fixture.NewServer(cfg.DevServer)
	if err != nil {
		logrus.WithError(err).Fatal("failed to start fixture backend")
	}

	addr := ":" + cfg.DevServer.Port
	logrus.WithField("addr", addr).Info("dev backend listening")
	if err := srv.Run(addr); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func setupLogging(cfg config.LogConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logrus.WithError(err).Warn("failed to open log file, using stderr")
			return
		}
		logrus.SetOutput(f)
	}
}
