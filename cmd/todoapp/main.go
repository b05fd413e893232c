package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todoapp/internal/config"
	"github.com/sandeepkv93/todoapp/internal/logging"
	"github.com/sandeepkv93/todoapp/internal/scheduler"
	"github.com/sandeepkv93/todoapp/internal/storage"
	"github.com/sandeepkv93/todoapp/internal/todo"
	"github.com/sandeepkv93/todoapp/internal/update"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "todoapp failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("todoapp", pflag.ContinueOnError)
	configPath := flags.String("config", config.ResolvePath(), "path to the TOML config file")
	dataPath := flags.String("data", "", "data file to load and save")
	backend := flags.String("backend", "", "storage backend: cbor or sqlite")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		return err
	}
	cfg = config.FromEnv(cfg)
	if flags.Changed("data") {
		cfg.DataPath = *dataPath
	}
	if flags.Changed("backend") {
		cfg.Backend = *backend
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = *logLevel
	}

	logger, logFile, err := logging.Open(cfg.Log.Path, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logFile.Close()

	repo, err := storage.Open(cfg.Backend, cfg.StorePath())
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := todo.NewService(ctx, repo, todo.WithLogger(logger))
	if err != nil {
		logger.Error("startup failed", "err", err)
		return err
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	if err := engine.Start(); err != nil {
		return err
	}
	defer engine.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.NewModel(svc, cfg,
		update.WithScheduler(engine),
		update.WithNotifier(notifier),
		update.WithLogger(logger),
		update.WithContext(ctx),
	)

	logger.Info("starting", "backend", cfg.Backend, "data", cfg.StorePath(), "config", *configPath)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	logger.Info("stopped", "dropped_ticks", engine.Dropped())
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
