// Command initadmin seeds (or resets) the administrator account. Credentials
// come from ADMIN_NAME, ADMIN_EMAIL and ADMIN_PASSWORD, with defaults
// matching the original deployment.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/edulite/edulite/internal/config"
	"github.com/edulite/edulite/internal/database"
	"github.com/edulite/edulite/internal/model"
	"github.com/edulite/edulite/internal/repository"
	"github.com/edulite/edulite/internal/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	name := getenv("ADMIN_NAME", "Admin")
	email := getenv("ADMIN_EMAIL", "admin@edulite.com")
	password := getenv("ADMIN_PASSWORD", "EduLite@2024")

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Start fresh so a forgotten password can be recovered by re-running.
	if existing, err := users.GetByEmail(ctx, email); err == nil {
		if err := users.Delete(ctx, existing.ID); err != nil {
			log.Fatalf("remove existing admin: %v", err)
		}
		log.Printf("removed existing admin %s", email)
	}

	admin := &model.User{Name: name, Email: email, Role: model.RoleAdmin}
	if err := users.Create(ctx, admin, password, cfg.BcryptCost); err != nil {
		log.Fatalf("create admin: %v", err)
	}

	// Sanity check the stored hash before reporting success.
	saved, err := users.GetByEmail(ctx, email)
	if err != nil || !utils.CheckPassword(saved.PasswordHash, password) {
		log.Fatalf("admin password verification failed")
	}
	log.Printf("admin user created: %s", email)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
