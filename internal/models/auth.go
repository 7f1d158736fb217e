package models

// CurrentUser is the identity the auth middleware extracts from a bearer token.
type CurrentUser struct {
	ID    string
	Email string
	Role  string
}
