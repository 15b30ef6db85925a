// Package model defines domain entities for the application.
package model

import "time"

// User is an account record owned by the external identity store.
// This service only reads and deletes it.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email,omitempty"`
	Name          string     `json:"name,omitempty"`
	Image         string     `json:"image,omitempty"`
	EmailVerified *time.Time `json:"email_verified,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
