package model

import "time"

// Course represents a row in the `courses` table.
type Course struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Enrollee is the sanitized view of a student enrolled in a course. Only the
// identity fields are exposed; secrets and fee data stay out of course
// listings.
type Enrollee struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CourseWithStudents pairs a course with its enrolled students for list and
// detail responses.
type CourseWithStudents struct {
	Course
	EnrolledStudents []Enrollee `json:"enrolledStudents"`
}
