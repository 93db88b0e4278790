package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edulite/edulite/internal/model"
	"github.com/edulite/edulite/internal/queue"
	"github.com/edulite/edulite/internal/repository"
	queue_publisher "github.com/edulite/edulite/internal/service"
)

// CourseHandler implements the course catalog and enrollment endpoints.
type CourseHandler struct {
	Courses repository.CourseCatalog
	Users   repository.AccountDirectory
}

func NewCourseHandler(courses repository.CourseCatalog, users repository.AccountDirectory) *CourseHandler {
	return &CourseHandler{Courses: courses, Users: users}
}

// List handles GET /api/courses.
func (h *CourseHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	courses, err := h.Courses.List(ctx)
	if err != nil {
		c.Logger().Errorf("list courses: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch courses"})
	}
	if courses == nil {
		courses = []*model.CourseWithStudents{}
	}
	return c.JSON(http.StatusOK, courses)
}

// Get handles GET /api/courses/:id.
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	course, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		c.Logger().Errorf("get course: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch course"})
	}
	return c.JSON(http.StatusOK, course)
}

// Create handles POST /api/courses (admin only).
func (h *CourseHandler) Create(c echo.Context) error {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || strings.TrimSpace(body.Description) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and description are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	course := &model.Course{Name: body.Name, Description: strings.TrimSpace(body.Description)}
	if err := h.Courses.Create(ctx, course); err != nil {
		c.Logger().Errorf("create course: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create course"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "course created successfully", "course": course})
}

// Delete handles DELETE /api/courses/:id (admin only).
func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		c.Logger().Errorf("delete course: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete course"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "course deleted successfully"})
}

// Enroll handles PUT /api/courses/:courseId/enroll/:userId (admin only).
func (h *CourseHandler) Enroll(c echo.Context) error {
	courseID, userID, err := pathPair(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	course, user, err := h.lookupPair(ctx, courseID, userID)
	if err != nil {
		return writePairError(c, err)
	}
	if err := h.Courses.Enroll(ctx, courseID, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user is already enrolled in this course"})
		}
		c.Logger().Errorf("enroll: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to enroll user"})
	}

	go func() {
		_ = queue_publisher.PublishActivity(context.Background(), queue.ActivityEvent{
			Kind:        queue.KindStudentEnrolled,
			StudentID:   user.ID,
			StudentName: user.Name,
			CourseID:    course.ID,
			CourseName:  course.Name,
		})
	}()

	return c.JSON(http.StatusOK, echo.Map{"message": "user enrolled in course successfully"})
}

// Unenroll handles DELETE /api/courses/:courseId/unenroll/:userId (admin only).
func (h *CourseHandler) Unenroll(c echo.Context) error {
	courseID, userID, err := pathPair(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, _, err := h.lookupPair(ctx, courseID, userID); err != nil {
		return writePairError(c, err)
	}
	if err := h.Courses.Unenroll(ctx, courseID, userID); err != nil {
		if errors.Is(err, repository.ErrNotEnrolled) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user is not enrolled in this course"})
		}
		c.Logger().Errorf("unenroll: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to unenroll user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user unenrolled from course successfully"})
}

func (h *CourseHandler) lookupPair(ctx context.Context, courseID, userID uint64) (*model.CourseWithStudents, *model.User, error) {
	course, err := h.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return course, user, nil
}

func pathPair(c echo.Context) (courseID, userID uint64, err error) {
	courseID, err = strconv.ParseUint(c.Param("courseId"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	userID, err = strconv.ParseUint(c.Param("userId"), 10, 64)
	return courseID, userID, err
}

func writePairError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrCourseNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	default:
		c.Logger().Errorf("course/user lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
}
