package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/edulite/edulite/internal/repository"
)

// StudentHandler serves individual student records to authenticated users.
type StudentHandler struct {
	Users repository.AccountDirectory
}

func NewStudentHandler(users repository.AccountDirectory) *StudentHandler {
	return &StudentHandler{Users: users}
}

// Get handles GET /api/students/:id. The secret fields never serialize, so
// the raw model is safe to return.
func (h *StudentHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		c.Logger().Errorf("get student: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, u)
}
