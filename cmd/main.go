package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	accountcmd "github.com/quesify/identity-service/internal/command"
	"github.com/quesify/identity-service/internal/config"
	"github.com/quesify/identity-service/internal/events"
	"github.com/quesify/identity-service/internal/handler"
	"github.com/quesify/identity-service/internal/middleware"
	accountqry "github.com/quesify/identity-service/internal/query"
	redisClient "github.com/quesify/identity-service/internal/redis"
	"github.com/quesify/identity-service/internal/repository"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	// Database connection (write store)
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Redis connection (read model store + event streaming)
	redis, err := redisClient.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Client)

	writeRepo, err := repository.NewAccountWriteRepository(db)
	if err != nil {
		log.Fatalf("Failed to initialise account write repository: %v", err)
	}
	readRepo := repository.NewAccountReadRepository(db, redis.Client)

	commandSvc := accountcmd.NewAccountCommandService(writeRepo, readRepo, publisher)
	querySvc := accountqry.NewAccountQueryService(readRepo)

	accountHandler := handler.NewAccountHandler(commandSvc, querySvc)

	// Setup router
	router := gin.Default()

	v1 := router.Group("/v1/accounts")
	{
		v1.GET("/:accountId", accountHandler.GetAccount)
		v1.PUT("", middleware.AuthMiddleware([]byte(cfg.JWTSecret)), accountHandler.UpdateAccount)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Vote-event subscribers — the only writers of account score
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, stream := range []string{events.QuestionEventsStream, events.AnswerEventsStream} {
		stream := stream
		go func() {
			subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
				Group:    "identity-service-group",
				Consumer: "identity-consumer-1",
				Stream:   stream,
				Handler:  commandSvc.HandleVoteEvent,
			})
			if err := subscriber.Start(ctx); err != nil {
				log.Printf("Subscriber stopped (%s): %v", stream, err)
			}
		}()
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	log.Printf("Identity service starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
