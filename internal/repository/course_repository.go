package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edulite/edulite/internal/model"
)

// CourseRepo stores courses and the enrollment join table.
type CourseRepo struct{ DB *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{DB: db} }

var _ CourseCatalog = (*CourseRepo)(nil)

// Create inserts a course and fills in its ID.
func (r *CourseRepo) Create(ctx context.Context, c *model.Course) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO courses (name, description) VALUES (?,?)", c.Name, c.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a course with its enrolled students.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (*model.CourseWithStudents, error) {
	var c model.CourseWithStudents
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description,created_at,updated_at FROM courses WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	c.EnrolledStudents, err = r.enrollees(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all courses with their enrolled students.
func (r *CourseRepo) List(ctx context.Context) ([]*model.CourseWithStudents, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,description,created_at,updated_at FROM courses ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.CourseWithStudents
	for rows.Next() {
		var c model.CourseWithStudents
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range out {
		if c.EnrolledStudents, err = r.enrollees(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Delete removes a course; enrollment rows follow via ON DELETE CASCADE.
func (r *CourseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM courses WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// Enroll adds a student to a course. The unique (course_id, user_id) index
// makes double-enrollment fail atomically even under concurrent requests.
func (r *CourseRepo) Enroll(ctx context.Context, courseID, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO enrollments (course_id, user_id) VALUES (?,?)", courseID, userID)
	if err != nil {
		if isDuplicate(err) {
			return ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

// Unenroll removes a student from a course.
func (r *CourseRepo) Unenroll(ctx context.Context, courseID, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM enrollments WHERE course_id=? AND user_id=?", courseID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotEnrolled
	}
	return nil
}

// NamesByStudent returns enrolled course names keyed by student id, used to
// decorate the admin user listing.
func (r *CourseRepo) NamesByStudent(ctx context.Context) (map[uint64][]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT e.user_id, c.name FROM enrollments e
		JOIN courses c ON c.id = e.course_id ORDER BY e.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uint64][]string{}
	for rows.Next() {
		var (
			uid  uint64
			name string
		)
		if err := rows.Scan(&uid, &name); err != nil {
			return nil, err
		}
		out[uid] = append(out[uid], name)
	}
	return out, rows.Err()
}

func (r *CourseRepo) enrollees(ctx context.Context, courseID uint64) ([]model.Enrollee, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT u.id, u.name, u.email FROM enrollments e
		JOIN users u ON u.id = e.user_id
		WHERE e.course_id=? ORDER BY u.name`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Enrollee{}
	for rows.Next() {
		var s model.Enrollee
		if err := rows.Scan(&s.ID, &s.Name, &s.Email); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
