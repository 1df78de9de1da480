package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayhub/config"
	"stayhub/internal/cache"
	"stayhub/internal/database"
	"stayhub/internal/domain"
	"stayhub/internal/queue"
	"stayhub/internal/repository"
	"stayhub/internal/router"
	"stayhub/pkg/cloudinary"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db)
	if err := repository.NewSettingRepository(db).SeedDefaults(domain.SettingDefaults); err != nil {
		log.Fatalf("seed settings: %v", err)
	}

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
	} else {
		log.Printf("cloudinary not configured, listing photo uploads disabled")
	}

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("timezone %q: %v", cfg.Scheduler.Timezone, err)
	}
	rdb := cache.Connect(&cfg.Redis)
	pub := queue.Connect(cfg.Queue.URL, cfg.Queue.Exchange)
	defer pub.Close()

	engine, scheduler := router.Setup(cfg, db, cloud, rdb, pub, loc)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go scheduler.Start(sweepCtx, cfg.Scheduler.SweepInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
