package repository

import (
	"context"

	"github.com/edulite/edulite/internal/model"
)

// CourseCatalog is the course and enrollment store the course and admin
// handlers depend on. CourseRepo implements it over MySQL; tests substitute
// an in-memory fake.
type CourseCatalog interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id uint64) (*model.CourseWithStudents, error)
	List(ctx context.Context) ([]*model.CourseWithStudents, error)
	Delete(ctx context.Context, id uint64) error

	// Enroll adds a student to a course; a second enrollment of the same
	// pair fails with ErrAlreadyEnrolled.
	Enroll(ctx context.Context, courseID, userID uint64) error

	// Unenroll removes a student from a course; a missing pair fails with
	// ErrNotEnrolled.
	Unenroll(ctx context.Context, courseID, userID uint64) error

	// NamesByStudent returns enrolled course names keyed by student id.
	NamesByStudent(ctx context.Context) (map[uint64][]string, error)
}
