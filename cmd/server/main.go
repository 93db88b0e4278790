package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/edulite/edulite/internal/config"
	"github.com/edulite/edulite/internal/database"
	"github.com/edulite/edulite/internal/handler"
	"github.com/edulite/edulite/internal/queue"
	"github.com/edulite/edulite/internal/repository"
	"github.com/edulite/edulite/internal/router"
	"github.com/edulite/edulite/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	courses := repository.NewCourseRepo(db)
	notes := repository.NewNotificationRepo(db)
	issuer := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	auth := handler.NewAuthHandler(cfg, users, issuer)
	h := router.Handlers{
		Auth:          auth,
		Google:        handler.NewGoogleHandler(auth, handler.NewGoogleVerifier()),
		Admin:         handler.NewAdminHandler(cfg, users, courses, issuer),
		Courses:       handler.NewCourseHandler(courses, users),
		Students:      handler.NewStudentHandler(users),
		Notifications: handler.NewNotificationHandler(notes),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, issuer, rdb)

	go queue.StartActivityConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
