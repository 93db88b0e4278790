package model

// Fee record statuses derived from the paid/total balance.
const (
	FeeStatusPaid    = "Paid"
	FeeStatusPartial = "Partial"
	FeeStatusUnpaid  = "Unpaid"
)

// FeeRecord is the per-student view returned by the admin fee listing. Course
// names the first enrolled course, or "N/A" when the student has none.
type FeeRecord struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Course    string `json:"course"`
	AmountDue int64  `json:"amountDue"`
	DueDate   string `json:"dueDate"`
	Status    string `json:"status"`
}

// FeeStatus classifies a balance: Unpaid until something is paid, Partial
// while a remainder exists, Paid once nothing is due.
func FeeStatus(paid, total int64) string {
	due := total - paid
	switch {
	case due <= 0:
		return FeeStatusPaid
	case paid > 0:
		return FeeStatusPartial
	default:
		return FeeStatusUnpaid
	}
}
