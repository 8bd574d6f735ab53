// Package model defines domain entities for the application.
package model

import "time"

// User represents the authenticated identity behind a session.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
