package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edulite/edulite/internal/model"
	"github.com/edulite/edulite/internal/repository"
)

// NotificationHandler serves admin announcements.
type NotificationHandler struct {
	Notes *repository.NotificationRepo
}

func NewNotificationHandler(notes *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notes: notes}
}

// Create handles POST /api/admin/notifications (admin only).
func (h *NotificationHandler) Create(c echo.Context) error {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body.Title = strings.TrimSpace(body.Title)
	body.Description = strings.TrimSpace(body.Description)
	if body.Title == "" || body.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and description are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n := &model.Notification{Title: body.Title, Description: body.Description}
	if err := h.Notes.Create(ctx, n); err != nil {
		c.Logger().Errorf("create notification: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create notification"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "notification created", "notification": n})
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	notes, err := h.Notes.List(ctx)
	if err != nil {
		c.Logger().Errorf("list notifications: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch notifications"})
	}
	if notes == nil {
		notes = []*model.Notification{}
	}
	return c.JSON(http.StatusOK, notes)
}
