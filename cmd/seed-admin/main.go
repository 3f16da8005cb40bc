package main

import (
	"context"
	"flag"
	"log"

	"go-grocery-delivery/internal/repository"
	"go-grocery-delivery/internal/service"
	"go-grocery-delivery/pkg/config"
	"go-grocery-delivery/pkg/database"
)

func main() {
	// 1. Load Config
	cfg := config.Load()
	email := flag.String("email", cfg.AdminEmail, "admin account email")
	password := flag.String("password", cfg.AdminPassword, "admin account password")
	reset := flag.Bool("reset", true, "reset the password when the account already exists")
	flag.Parse()

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseURL)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Failed to migrate database: %v", err)
	}

	// 3. Create or reset admin
	users := service.NewUserService(repository.NewUserRepo(db))
	admin, changed, err := users.EnsureAdmin(context.Background(), *email, *password, *reset)
	if err != nil {
		log.Fatalf("❌ Failed to seed admin %s: %v", *email, err)
	}

	if !changed {
		log.Printf("Admin %s already exists, nothing changed", admin.Email)
		return
	}
	log.Printf("✅ Success! Admin %s is ready", admin.Email)
}
