// Package repository implements storage for accounts, courses, enrollments
// and notifications over MySQL. Sentinel errors defined here let handlers
// map storage failures onto specific HTTP responses.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique email
// index. Handlers translate it into a 400 duplicate-email response.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a lookup matches no account.
var ErrUserNotFound = errors.New("user not found")

// ErrCourseNotFound is returned when a lookup matches no course.
var ErrCourseNotFound = errors.New("course not found")

// ErrAlreadyEnrolled is returned when enrolling a student who is already a
// member of the course.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// ErrNotEnrolled is returned when unenrolling a student who is not a member
// of the course.
var ErrNotEnrolled = errors.New("not enrolled")
