package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"gcmn-library-backend/internal/infrastructure/queue"
	"gcmn-library-backend/internal/infrastructure/queue/handlers"
	"gcmn-library-backend/pkg/container"
	"gcmn-library-backend/pkg/logger"
)

// The worker processes background tasks: notification emails and the
// daily overdue scan. It shares the container with the API server, so
// repositories and services are wired identically.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	appContainer, err := container.NewContainer()
	if err != nil {
		log.Fatalf("❌ Failed to initialize container: %v", err)
	}
	defer appContainer.Close()

	cfg := appContainer.Config
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"email":   6,
			"default": 4,
		},
	})

	emailHandler := handlers.NewEmailHandler(appContainer.Email)
	overdueHandler := handlers.NewOverdueHandler(appContainer.BorrowService, appContainer.Email)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeBorrowConfirmationEmail, emailHandler.HandleBorrowConfirmation)
	mux.HandleFunc(queue.TypeCardApprovedEmail, emailHandler.HandleCardApproved)
	mux.HandleFunc(queue.TypeOverdueScan, overdueHandler.HandleOverdueScan)

	scheduler := queue.NewScheduler(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB, cfg.Jobs)
	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("❌ Failed to register scheduled jobs: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}
	defer scheduler.Shutdown()

	go func() {
		log.Println("🚀 Worker started")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("❌ Worker error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down worker...")
	srv.Shutdown()
	log.Println("✅ Worker stopped")
}
