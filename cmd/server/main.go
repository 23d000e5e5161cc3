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

	"sweetshop/internal/api"
	"sweetshop/internal/app/service"
	"sweetshop/internal/app/worker"
	"sweetshop/internal/common/security"
	"sweetshop/internal/domain/repository"
	"sweetshop/internal/platform/config"
	"sweetshop/internal/platform/database"
	"sweetshop/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	tokenAuth := security.NewTokenAuth(cfg)

	// 3. Initialize Database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	// 4. Initialize Redis
	rdb, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer rdb.Close()
	stockQueue := queue.NewRedisQueue(rdb, cfg.StockEventQueueName)

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	sweetRepo := repository.NewPgSweetRepository(db)
	stockEventRepo := repository.NewPgStockEventRepository(db)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, tokenAuth)
	stockEventService := service.NewStockEventService(stockQueue)
	sweetService := service.NewSweetService(sweetRepo, stockEventRepo, stockEventService)

	// 7. Initialize Stock Worker (as a goroutine)
	stockWorker := worker.NewStockWorker(stockQueue, stockEventRepo, cfg.LowStockThreshold)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go stockWorker.Start(workerCtx)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(tokenAuth, authService, sweetService, userRepo)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
