package models

import "time"

// Session is the server side login state kept in Redis, one hash per session id.
type Session struct {
	ID        string
	UserID    string
	Username  string
	Email     string
	FirstName string
	LastName  string
	CSRFToken string
	CreatedAt time.Time
}
