package models

// Identity is the authenticated caller derived from a validated token.
// It lives in the request context for the duration of one request.
type Identity struct {
	Subject string `json:"subject"` // email of the authenticated user
	Role    string `json:"role"`
	Name    string `json:"name"`
}
