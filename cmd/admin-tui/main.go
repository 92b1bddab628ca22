package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/lmoraes94/verzel-admin/cmd/admin-tui/ui"
	"github.com/lmoraes94/verzel-admin/internal/api"
	"github.com/lmoraes94/verzel-admin/internal/config"
	"github.com/lmoraes94/verzel-admin/internal/listview"
	"github.com/lmoraes94/verzel-admin/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Log)

	client := api.NewClient(cfg.Client.APIBaseURL, cfg.Client.RequestTimeout)
	store := session.NewStore(cfg.Client.SessionFile)
	events := ui.NewEvents()

	sess := session.NewManager(client, store,
		session.WithNotifier(events),
		session.WithNavigator(events),
		session.WithHydrationDelay(cfg.Client.HydrationDelay),
		session.WithTokenTTL(cfg.Client.TokenTTL),
	)

	cache := listview.NewCache(32)

	model := ui.NewModel(
		sess,
		events,
		ui.NewLoginModel(sess),
		ui.NewUsersModel(client, cache, sess, events),
		ui.NewCarsModel(client, cache, sess, events),
		ui.NewProfileModel(sess),
	)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// Bubble Tea owns stdout, so log lines go to a file (or nowhere).
func setupLogging(cfg config.LogConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logrus.SetLevel(level)
	}

	path := cfg.File
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			logrus.SetOutput(io.Discard)
			return
		}
		path = filepath.Join(dir, "verzel-admin", "admin-tui.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		logrus.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logrus.SetOutput(io.Discard)
		return
	}
	logrus.SetOutput(f)
}
