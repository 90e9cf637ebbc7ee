package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamtasks/internal/config"
	"teamtasks/internal/httpapi"
	"teamtasks/internal/repository"
	"teamtasks/internal/seed"
	"teamtasks/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
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

	userRepo := repository.NewUserRepository(db)
	taskListRepo := repository.NewTaskListRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	occurrenceRepo := repository.NewOccurrenceRepository(db)

	userSvc := service.NewUserService(userRepo)
	materializerSvc := service.NewMaterializerService(taskRepo, occurrenceRepo, cfg.HorizonDays)
	taskListSvc := service.NewTaskListService(taskListRepo, userRepo, occurrenceRepo)
	taskSvc := service.NewTaskService(taskRepo, taskListRepo, materializerSvc)
	completionSvc := service.NewCompletionService(occurrenceRepo, taskListRepo)

	if cfg.SeedDemoData {
		if err := seed.Demo(ctx, userSvc, taskListSvc, taskSvc); err != nil {
			log.Printf("seed: %v", err)
		}
	}

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.MaterializeInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.MaterializeInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := materializerSvc.MaterializeAll(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("materialize: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule materialization: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewServer(userSvc, taskListSvc, taskSvc, completionSvc),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("[info] teamtasks listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
