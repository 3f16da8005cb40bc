package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-grocery-delivery/internal/event"
	"go-grocery-delivery/internal/repository"
	"go-grocery-delivery/internal/server"
	"go-grocery-delivery/internal/service"
	"go-grocery-delivery/internal/ws"
	"go-grocery-delivery/pkg/config"
	"go-grocery-delivery/pkg/database"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseURL)
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Seed admin (vendor) account
	admin, created, err := service.NewUserService(repository.NewUserRepo(db)).
		EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword, false)
	if err != nil {
		log.Printf("Warning: Failed to seed admin user: %v", err)
	} else if created {
		log.Printf("✅ Admin user created: %s", admin.Email)
	}

	// 4. Setup WebSocket Hub and event sinks
	wsHub := ws.NewHub()
	go wsHub.Run()

	sinks := event.Multi{wsHub}
	var kafkaPub *event.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub = event.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, kafkaPub)
		log.Printf("Publishing events to kafka topic %s", cfg.KafkaTopic)
	}

	// 5. Setup Fiber
	app := server.New(server.Options{
		DB:                db,
		Hub:               wsHub,
		Events:            sinks,
		LowStockThreshold: cfg.LowStockThreshold,
		RequestLogging:    true,
	})

	// 6. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	wsHub.Stop()
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			log.Printf("Warning: kafka writer close: %v", err)
		}
	}

	log.Println("Server exited")
}
