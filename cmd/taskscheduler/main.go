package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"task-scheduler/internal/bot"
	"task-scheduler/internal/config"
	"task-scheduler/internal/repository"
	"task-scheduler/internal/service"
)

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("PLANNER_CONFIG"), "path to a YAML config file")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)

	agendaSvc := service.NewAgendaService(taskRepo, completionRepo)
	statsSvc := service.NewStatsService(agendaSvc)
	reminderSvc := service.NewReminderService(agendaSvc, statsSvc, cfg.TrendDays)

	if cfg.TelegramToken == "" {
		log.Fatalf("config: TELEGRAM_TOKEN is required")
	}

	telegramBot, err := bot.New(cfg.TelegramToken, subscriberRepo, reminderSvc, cfg.Location)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(cfg.Location, 30*time.Second)
	if _, err := scheduler.ScheduleDaily("daily-digest", cfg.ReportTime, telegramBot.SendDailyReports); err != nil {
		log.Fatalf("schedule digest: %v", err)
	}
	if cfg.ReportInterval > 0 {
		if _, err := scheduler.ScheduleInterval("interval-digest", cfg.ReportInterval, telegramBot.SendDailyReports); err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("[info] task scheduler started, digest at %s %s", cfg.ReportTime, cfg.Location)
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
