// Package queue defines the activity events exchanged over the message
// broker and the background consumer that records them.
package queue

// Event kinds published by the admin handlers.
const (
	KindStudentEnrolled  = "student.enrolled"
	KindFeePaymentRecord = "fee.payment_recorded"
)

// ActivityEvent is published whenever an admin action changes a student's
// enrollment or fee state. It carries enough detail for downstream consumers
// to log or notify without querying the primary database. EventID is a UUID
// assigned at publish time so consumers can deduplicate redeliveries.
type ActivityEvent struct {
	EventID     string `json:"event_id"`
	Kind        string `json:"kind"`
	StudentID   uint64 `json:"student_id"`
	StudentName string `json:"student_name"`
	CourseID    uint64 `json:"course_id,omitempty"`
	CourseName  string `json:"course_name,omitempty"`
	AmountPaid  int64  `json:"amount_paid,omitempty"`
	FeeTotal    int64  `json:"fee_total,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}
