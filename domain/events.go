package domain

import "github.com/google/uuid"

// Event is the single envelope pushed to clients over a subscriber handle.
type Event struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}

// Pusher is a client's registered push channel for one room. Implementations
// must return an error when the underlying connection is gone so the
// dispatcher can prune the subscriber; they must never block indefinitely.
type Pusher interface {
	Push(ev *Event) error
}

// Outbound event types.
const (
	EventMatchStarted  = "match_started"
	EventRoundStarted  = "round_started"
	EventPlayerGuessed = "player_guessed"
	EventChatMessage   = "chat_message"
	EventStroke        = "stroke"
	EventRoundEnded    = "round_ended"
	EventMatchFinished = "match_finished"

	EventPlayerJoined  = "player_joined"
	EventPlayerLeft    = "player_left"
	EventPlayerKicked  = "player_kicked"
	EventRoomUpdated   = "room_updated"
	EventRoomCancelled = "room_cancelled"

	EventLobbyMessage = "message_received"
)

// Player roles announced on round start.
const (
	RoleDrawer  = "drawer"
	RoleGuesser = "guesser"
)

type MatchStartedPayload struct {
	RoomCode string       `json:"room_code"`
	Players  []ScoreEntry `json:"players"`
}

type RoundStartedPayload struct {
	Round    int       `json:"round"`
	Role     string    `json:"role"`
	DrawerID uuid.UUID `json:"drawer_id"`
	Drawer   string    `json:"drawer"`
	// Title is only populated on the drawer's copy of the event.
	Title    string    `json:"title,omitempty"`
	Hints    SongHints `json:"hints"`
	Duration int       `json:"duration"` // seconds
}

type PlayerGuessedPayload struct {
	Username string `json:"username"`
	Points   int    `json:"points"`
}

type ChatMessagePayload struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

type StrokePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke carries one drawing gesture. A canvas clear is a stroke with
// ClearAll set and empty point arrays.
type Stroke struct {
	Points   []StrokePoint `json:"points"`
	Color    string        `json:"color,omitempty"`
	Size     int           `json:"size,omitempty"`
	ClearAll bool          `json:"clear_all,omitempty"`
}

type RoundEndedPayload struct {
	Round    int    `json:"round"`
	TimedOut bool   `json:"timed_out"`
	Title    string `json:"title"`
}

type MatchFinishedPayload struct {
	Scoreboard    []ScoreEntry `json:"scoreboard"`
	CancelMessage string       `json:"cancel_message,omitempty"`
}

type PresencePayload struct {
	RoomCode string `json:"room_code"`
	Username string `json:"username"`
}
