package model

// User is the slice of the identity system the ledger needs: an opaque id
// used to associate accounts with their owner, and an email address for the
// low-balance monitor. Registration, passwords and roles live in the
// external identity provider.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
