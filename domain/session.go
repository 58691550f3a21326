package domain

import "github.com/google/uuid"

// UserSession is the authenticated identity behind a connection token,
// resolved from the session store at the transport boundary.
type UserSession struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}
