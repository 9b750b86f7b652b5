package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/cli"
	"task-scheduler/internal/config"
	"task-scheduler/internal/repository"
	"task-scheduler/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath, args, err := cli.ParseGlobal(os.Args[1:], os.Getenv("PLANNER_CONFIG"))
	if err != nil {
		log.Fatalf("taskctl: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	taskRepo := repository.NewTaskRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	agendaSvc := service.NewAgendaService(taskRepo, completionRepo)
	app := &cli.App{
		Tasks:      service.NewTaskService(taskRepo, completionRepo, categoryRepo),
		Categories: service.NewCategoryService(categoryRepo),
		Settings:   repository.NewSettingRepository(db),
		Agenda:     agendaSvc,
		Stats:      service.NewStatsService(agendaSvc),
		TrendDays:  cfg.TrendDays,
		Today:      func() time.Time { return calendar.Today(cfg.Location) },
		Out:        os.Stdout,
		Err:        os.Stderr,
	}

	code := app.Run(ctx, args)
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	os.Exit(code)
}
