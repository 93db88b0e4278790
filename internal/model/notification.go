package model

import "time"

// Notification is an announcement created by an admin and shown to students.
type Notification struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
