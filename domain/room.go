package domain

import (
	"time"

	"github.com/google/uuid"
)

// Boundary limits enforced on incoming requests.
const (
	MaxRoomSize      = 4
	MinPlayers       = 2
	MaxChatWords     = 50
	MinRounds        = 1
	MaxRounds        = 10
	MinRoundDuration = 30  // seconds
	MaxRoundDuration = 300 // seconds
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// RoomConfig are the host-chosen match rules.
type RoomConfig struct {
	Rounds        int        `json:"rounds"`
	RoundDuration int        `json:"round_duration"` // seconds
	Difficulty    Difficulty `json:"difficulty"`
	Language      string     `json:"language"`
}

const (
	RoomStatusWaiting = "waiting"
	RoomStatusPlaying = "playing"
)

// Room is a lobby/match container keyed by a short shareable code. Membership
// is ordered (join order) and capped at MaxRoomSize.
type Room struct {
	Code      string             `json:"code"`
	HostID    uuid.UUID          `json:"host_id"`
	Config    RoomConfig         `json:"config"`
	Members   []*Player          `json:"members"`
	Banned    map[uuid.UUID]bool `json:"-"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// Member returns the member with the given id, or nil.
func (r *Room) Member(id uuid.UUID) *Player {
	for _, m := range r.Members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// HasMemberNamed reports whether any current member already uses username.
func (r *Room) HasMemberNamed(username string) bool {
	for _, m := range r.Members {
		if m.Username == username {
			return true
		}
	}
	return false
}
