// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edulite/edulite/internal/config"
	"github.com/edulite/edulite/internal/handler"
	"github.com/edulite/edulite/internal/middleware"
	"github.com/edulite/edulite/internal/model"
	"github.com/edulite/edulite/internal/utils"
)

// Handlers collects everything the route table needs.
type Handlers struct {
	Auth          *handler.AuthHandler
	Google        *handler.GoogleHandler
	Admin         *handler.AdminHandler
	Courses       *handler.CourseHandler
	Students      *handler.StudentHandler
	Notifications *handler.NotificationHandler
}

// Register mounts all routes. Public endpoints (signup, login, federated
// login) sit behind the Redis rate limiter; everything under /api except
// those runs through the bearer-token gate, and the admin surface adds the
// role gate on top. Read-heavy listings get the response cache.
func Register(e *echo.Echo, h Handlers, issuer *utils.TokenIssuer, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	api := e.Group("/api")

	// credential endpoints: open, but rate limited
	api.POST("/users/signup", h.Auth.Signup, limiter)
	api.POST("/users/login", h.Auth.Login, limiter)
	api.POST("/admin/login", h.Admin.Login, limiter)
	api.POST("/auth/google", h.Google.Login, limiter)

	// authenticated surface
	auth := api.Group("", middleware.JWTAuth(issuer))
	auth.GET("/users/me", h.Auth.Me)
	auth.GET("/students/:id", h.Students.Get)
	auth.GET("/courses", h.Courses.List, cache)
	auth.GET("/courses/:id", h.Courses.Get, cache)
	auth.GET("/notifications", h.Notifications.List, cache)

	// admin surface
	admin := auth.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/admin/users", h.Admin.ListUsers)
	admin.POST("/admin/users", h.Admin.CreateStudent)
	admin.PUT("/admin/users/:id", h.Admin.UpdateStudent)
	admin.DELETE("/admin/users/:id", h.Admin.DeleteStudent)
	admin.GET("/admin/fees", h.Admin.ListFees)
	admin.POST("/admin/fees", h.Admin.RecordFee)
	admin.POST("/admin/notifications", h.Notifications.Create)
	admin.POST("/courses", h.Courses.Create)
	admin.DELETE("/courses/:id", h.Courses.Delete)
	admin.PUT("/courses/:courseId/enroll/:userId", h.Courses.Enroll)
	admin.DELETE("/courses/:courseId/unenroll/:userId", h.Courses.Unenroll)
}
