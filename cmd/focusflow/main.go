package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/nhle/focusflow/internal/app"
	"github.com/nhle/focusflow/internal/credential"
	"github.com/nhle/focusflow/internal/dashboard"
	"github.com/nhle/focusflow/internal/model"
	"github.com/nhle/focusflow/internal/store"
	appsync "github.com/nhle/focusflow/internal/sync"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "focusflow:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("focusflow", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", model.DefaultConfigPath(), "path to the YAML config file")
	baseURL := fs.String("server", "", "dashboard base URL (overrides server.base_url)")
	setSession := fs.String("set-session", "", "store the dashboard session cookie in the system keyring and exit")
	clearSession := fs.Bool("clear-session", false, "remove the stored session cookie and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	switch {
	case *setSession != "":
		return credential.Set(credential.SessionKey, *setSession)
	case *clearSession:
		return credential.Delete(credential.SessionKey)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.Server.BaseURL = *baseURL
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.File, "focusflow")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := dashboard.NewClient(cfg.Server.BaseURL, cfg.Server.CSRFCookie,
		dashboard.WithTimeout(time.Duration(cfg.Server.TimeoutSec)*time.Second),
		dashboard.WithCSRFHeader(cfg.Server.CSRFHeader),
	)
	if err != nil {
		return err
	}

	// Without a stored session the dashboard answers as an anonymous
	// visitor; the cached snapshot still renders.
	if session, err := credential.Get(credential.SessionKey); err == nil && session != "" {
		client.SetCookie(cfg.Server.SessionCookie, session)
	} else if err != nil {
		log.Printf("no stored session: %v", err)
	}

	poller := appsync.New(client, db, time.Duration(cfg.Display.PollIntervalSec)*time.Second)

	m := app.New(app.Deps{
		Context:    ctx,
		Config:     cfg,
		ConfigPath: *configPath,
		Poster:     client,
		Forms:      client,
		Poller:     poller,
		Store:      db,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	poller.Stop()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
