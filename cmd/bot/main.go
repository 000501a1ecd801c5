// Package main contains the entrypoint for the reminder bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mkoba/remindbot/internal/bot"
	"github.com/mkoba/remindbot/internal/bot/handlers"
	"github.com/mkoba/remindbot/internal/bot/tasks"
	"github.com/mkoba/remindbot/internal/config"
	"github.com/mkoba/remindbot/internal/database"
	"github.com/mkoba/remindbot/internal/logger"
	"github.com/mkoba/remindbot/internal/metrics"
	"github.com/mkoba/remindbot/internal/reminder"
	"github.com/mkoba/remindbot/internal/server"
	"github.com/mkoba/remindbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	// A .env file is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	loc, err := cfg.Reminder.Location()
	if err != nil {
		log.Error("Failed to load reminder timezone", "timezone", cfg.Reminder.Timezone, "error", err)
		return 1
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	registry := prom.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewPrometheusRecorder(registry)

	hDeps := handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	notifier := telegram.NewNotifier(tg, cfg.Telegram.ChatID, log)
	dispatcher := reminder.NewDispatcher(log, store, notifier, recorder, reminder.Config{
		Message:      cfg.Reminder.Message,
		Location:     loc,
		StoreTimeout: cfg.Timeouts.Store,
		SendTimeout:  cfg.Timeouts.Send,
	})

	tDeps := tasks.TaskDeps{
		Logger:     log,
		Config:     cfg,
		Dispatcher: dispatcher,
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, loc, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	srv := server.New(cfg.Server.Addr, log, store, dispatcher, registry)
	app := bot.NewBot(log, cfg, tg, sched, srv)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
