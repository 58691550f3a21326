package domain

import "github.com/google/uuid"

// Player is the session-scoped view of a connected user. It lives only as
// long as the room (or match) that contains it; persisted account data is
// owned by other services.
type Player struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	IsHost     bool      `json:"is_host"`
	IsDrawer   bool      `json:"is_drawer"`
	HasGuessed bool      `json:"has_guessed"`
	Score      int       `json:"score"`
}

// ScoreEntry is one row of a match scoreboard.
type ScoreEntry struct {
	PlayerID uuid.UUID `json:"player_id"`
	Username string    `json:"username"`
	Score    int       `json:"score"`
}
