package utils

import "github.com/edulite/edulite/internal/model"

// VerifyCredential decides whether a submitted secret authenticates the
// account. Two paths exist, checked in order:
//
//  1. If the account has a date of birth on record, the submitted value is
//     compared verbatim against it formatted as YYYY-MM-DD. A match succeeds
//     immediately. This keeps admin-created students able to log in before
//     choosing a password.
//  2. Otherwise the value is compared against the stored bcrypt hash.
//
// Federated accounts never take the hash path: their stored hash is a
// randomized placeholder, so only the DOB path (when present) can match.
func VerifyCredential(submitted string, u *model.User) bool {
	if dob := u.DOBString(); dob != "" && submitted == dob {
		return true
	}
	switch cred := u.Credential().(type) {
	case model.LocalCredential:
		return CheckPassword(cred.Hash, submitted)
	case model.FederatedCredential:
		return false
	}
	return false
}
