package model

// Scope is the authenticated caller of a request.
type Scope struct {
	UserID   string
	Username string
	Role     string
}
