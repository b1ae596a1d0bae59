package users

import "time"

// User is the profile captured from the identity provider at login.
type User struct {
	ID          string
	Email       string
	Name        string
	PictureURL  string
	CreatedAt   time.Time
	LastLoginAt time.Time
}
