package model

import "time"

// Roles stored in the users.role column.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User represents a row in the `users` table. Students and admins share the
// table; admins simply carry the admin role. The secret side of an account is
// either a bcrypt hash of a chosen password or a federated Google identity;
// federated accounts still store a randomized placeholder hash but it is
// never accepted as a credential.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – display name.
//	Email        – unique email address (stored lowercased).
//	PasswordHash – bcrypt hash of the password, or a placeholder for
//	               federated accounts.
//	GoogleID     – external Google subject identifier; empty for local
//	               accounts.
//	Role         – "admin" or "student".
//	Phone        – contact number (students only).
//	DOB          – date of birth; when set it doubles as an alternate
//	               login secret in YYYY-MM-DD form.
//	FeePaid      – amount paid so far, in whole currency units.
//	FeeTotal     – total fee owed.
//	NextFeeDue   – due date of the next installment.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	GoogleID     string     `json:"-"`
	Role         string     `json:"role"`
	Phone        string     `json:"phone,omitempty"`
	DOB          *time.Time `json:"dob,omitempty"`
	FeePaid      int64      `json:"feePaid"`
	FeeTotal     int64      `json:"feeTotal"`
	NextFeeDue   *time.Time `json:"nextFeeDue,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Credential is the tagged variant describing how an account authenticates.
// Exactly one of LocalCredential or FederatedCredential applies to a user.
type Credential interface{ isCredential() }

// LocalCredential is a bcrypt password hash chosen by (or assigned to) the
// account holder.
type LocalCredential struct {
	Hash string
}

// FederatedCredential marks an account whose identity is asserted by an
// external provider. The stored password hash is a placeholder and must not
// be compared against.
type FederatedCredential struct {
	Provider   string
	ExternalID string
}

func (LocalCredential) isCredential()     {}
func (FederatedCredential) isCredential() {}

// Credential returns the variant in effect for this user. A non-empty
// GoogleID takes precedence over the stored hash.
func (u *User) Credential() Credential {
	if u.GoogleID != "" {
		return FederatedCredential{Provider: "google", ExternalID: u.GoogleID}
	}
	return LocalCredential{Hash: u.PasswordHash}
}

// DOBString formats the date of birth the way the login form submits it.
// Returns "" when no DOB is recorded.
func (u *User) DOBString() string {
	if u.DOB == nil {
		return ""
	}
	return u.DOB.Format("2006-01-02")
}
