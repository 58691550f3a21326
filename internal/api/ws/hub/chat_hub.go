package hub

import (
	"fmt"
	"strings"
	"sync"

	"drawsong-service/domain"
)

// ChatHub is the lobby-scope pub/sub used for pre-match chat and room
// presence chatter. It is independent of any active match: subscribers are
// keyed by case-insensitive player name per room, and a room entry lives
// only as long as it has subscribers.
type ChatHub struct {
	mu    sync.Mutex
	rooms map[string]map[string]domain.Pusher
}

func NewChatHub() *ChatHub {
	return &ChatHub{
		rooms: make(map[string]map[string]domain.Pusher),
	}
}

// Join registers the caller's callback in the room and announces the join to
// everyone already there. The newly joined player is not self-announced.
func (c *ChatHub) Join(roomCode, playerName string, p domain.Pusher) error {
	roomCode = strings.TrimSpace(roomCode)
	playerName = strings.TrimSpace(playerName)
	if roomCode == "" || playerName == "" {
		return fmt.Errorf("%w: room code and player name are required", domain.ErrInvalidInput)
	}
	key := strings.ToLower(playerName)

	c.mu.Lock()
	room, ok := c.rooms[roomCode]
	if !ok {
		room = make(map[string]domain.Pusher)
		c.rooms[roomCode] = room
	}
	room[key] = p
	others := c.snapshotLocked(roomCode, key)
	c.mu.Unlock()

	c.fanOut(roomCode, others, &domain.Event{
		Type:    domain.EventPlayerJoined,
		Content: domain.PresencePayload{RoomCode: roomCode, Username: playerName},
	})
	return nil
}

// Send fans the message out to every subscriber in the room, sender
// included. Blank messages are rejected.
func (c *ChatHub) Send(roomCode, playerName, text string) error {
	roomCode = strings.TrimSpace(roomCode)
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	targets := c.snapshotLocked(roomCode, "")
	c.mu.Unlock()

	c.fanOut(roomCode, targets, &domain.Event{
		Type:    domain.EventLobbyMessage,
		Content: domain.ChatMessagePayload{Username: strings.TrimSpace(playerName), Text: text},
	})
	return nil
}

// Leave deregisters the caller and announces the departure to the remainder.
// The last subscriber leaving drops the room entry entirely.
func (c *ChatHub) Leave(roomCode, playerName string) {
	roomCode = strings.TrimSpace(roomCode)
	key := strings.ToLower(strings.TrimSpace(playerName))

	c.mu.Lock()
	room, ok := c.rooms[roomCode]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(room, key)
	if len(room) == 0 {
		delete(c.rooms, roomCode)
		c.mu.Unlock()
		return
	}
	targets := c.snapshotLocked(roomCode, "")
	c.mu.Unlock()

	c.fanOut(roomCode, targets, &domain.Event{
		Type:    domain.EventPlayerLeft,
		Content: domain.PresencePayload{RoomCode: roomCode, Username: strings.TrimSpace(playerName)},
	})
}

// SubscriberCount reports the room's current subscriber count.
func (c *ChatHub) SubscriberCount(roomCode string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms[roomCode])
}

func (c *ChatHub) snapshotLocked(roomCode, exceptKey string) map[string]domain.Pusher {
	room := c.rooms[roomCode]
	out := make(map[string]domain.Pusher, len(room))
	for key, p := range room {
		if key != exceptKey {
			out[key] = p
		}
	}
	return out
}

// fanOut pushes outside the lock and prunes any subscriber whose handle
// fails, so one unreachable client never blocks the rest of the room.
func (c *ChatHub) fanOut(roomCode string, targets map[string]domain.Pusher, ev *domain.Event) {
	var broken []string
	for key, p := range targets {
		if err := p.Push(ev); err != nil {
			broken = append(broken, key)
		}
	}
	if len(broken) == 0 {
		return
	}
	c.mu.Lock()
	room := c.rooms[roomCode]
	for _, key := range broken {
		delete(room, key)
	}
	if room != nil && len(room) == 0 {
		delete(c.rooms, roomCode)
	}
	c.mu.Unlock()
}
