// Package models defines the value types the CatClub client exchanges with
// the platform API. JSON tags follow the backend's wire names.
package models

// User is the identity attached to an authenticated session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
