package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-manager/internal/cli"
	"task-manager/internal/config"
	"task-manager/internal/repository"
	"task-manager/internal/service"
)

type storage struct {
	tasks      service.TaskRepository
	categories service.CategoryRepository
	close      func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Printf("[warn] close storage: %v", err)
		}
	}()

	categorySvc := service.NewCategoryService(store.categories)
	taskSvc := service.NewTaskService(store.tasks)
	searchSvc := service.NewSearchService(store.tasks)
	reminderSvc := service.NewReminderService(store.tasks, store.categories)

	if added, err := categorySvc.SeedDefaults(ctx); err != nil {
		log.Printf("[warn] seed default categories: %v", err)
	} else if added > 0 {
		log.Printf("[info] seeded %d default categories", added)
	}

	shell := cli.New(cli.Services{
		Tasks:      taskSvc,
		Categories: categorySvc,
		Search:     searchSvc,
		Reminders:  reminderSvc,
	}, os.Stdin, os.Stdout)

	scheduler := service.NewSchedulerService(time.Local)
	remind := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		now := time.Now()
		digest, err := reminderSvc.Digest(jobCtx, now)
		if err != nil {
			log.Printf("[warn] reminder: %v", err)
			return
		}
		if digest.Empty() {
			return
		}
		text, err := reminderSvc.Summary(jobCtx, now)
		if err != nil {
			log.Printf("[warn] reminder: %v", err)
			return
		}
		shell.Notify(text)
	}
	if cfg.ReminderInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.ReminderInterval, remind); err != nil {
			log.Fatalf("schedule reminders: %v", err)
		}
	}
	if cfg.DigestAt != "" {
		if _, err := scheduler.ScheduleDaily(cfg.DigestAt, remind); err != nil {
			log.Fatalf("schedule daily digest: %v", err)
		}
	}
	if scheduler.Len() > 0 {
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("[info] reminder scheduler started with %d job(s)", scheduler.Len())
	}

	log.Printf("[info] task manager started, storage=%s", cfg.Storage)
	if err := shell.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[warn] shell stopped with error: %v", err)
	}
	log.Println("[info] shutdown complete")
}

func openStorage(cfg config.Config) (storage, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		db, err := repository.NewDB(cfg.DatabaseURL)
		if err != nil {
			return storage{}, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return storage{}, fmt.Errorf("sql handle: %w", err)
		}
		log.Printf("[info] using sqlite database %s", cfg.DatabaseURL)
		return storage{
			tasks:      repository.NewSQLTaskRepository(db),
			categories: repository.NewSQLCategoryRepository(db),
			close:      sqlDB.Close,
		}, nil

	default:
		tasks, err := repository.NewJSONTaskRepository(cfg.TasksPath())
		if err != nil {
			return storage{}, err
		}
		categories, err := repository.NewJSONCategoryRepository(cfg.CategoriesPath())
		if err != nil {
			return storage{}, err
		}
		log.Printf("[info] using json files in %s", cfg.DataDir)
		return storage{
			tasks:      tasks,
			categories: categories,
			close:      func() error { return nil },
		}, nil
	}
}
