package hub

import (
	"sync"

	"drawsong-service/domain"

	"github.com/google/uuid"
)

// InvalidCallbackFunc is invoked whenever a subscriber's push handle turns
// out to be dead, so upstream can clean up the player's room state.
type InvalidCallbackFunc func(roomCode string, playerID uuid.UUID)

// Hub fans domain events out to every subscribed client of a room. A broken
// subscriber is pruned and reported, and never blocks delivery to the rest.
// There is exactly one Hub instance per process, shared by reference between
// the components that emit events.
type Hub struct {
	mu        sync.RWMutex
	rooms     map[string]map[uuid.UUID]domain.Pusher
	onInvalid InvalidCallbackFunc
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[uuid.UUID]domain.Pusher),
	}
}

// OnCallbackInvalid registers the upstream cleanup hook. Must be set before
// the hub starts delivering events.
func (h *Hub) OnCallbackInvalid(fn InvalidCallbackFunc) {
	h.onInvalid = fn
}

// Subscribe registers the player's push handle for the room, atomically
// replacing any previous handle for the same (room, player) pair.
func (h *Hub) Subscribe(roomCode string, playerID uuid.UUID, p domain.Pusher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomCode]
	if !ok {
		room = make(map[uuid.UUID]domain.Pusher)
		h.rooms[roomCode] = room
	}
	room[playerID] = p
}

// Unsubscribe drops the player's handle. Removing the last subscriber drops
// the room entry entirely.
func (h *Hub) Unsubscribe(roomCode string, playerID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(roomCode, playerID)
}

// DropRoom discards the room's whole subscriber set.
func (h *Hub) DropRoom(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, roomCode)
}

// SubscriberCount reports how many live handles the room has.
func (h *Hub) SubscriberCount(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}

// Broadcast delivers the event to every subscriber of the room.
func (h *Hub) Broadcast(roomCode string, ev *domain.Event) {
	h.deliver(roomCode, uuid.Nil, ev)
}

// BroadcastExcept delivers the event to every subscriber but one.
func (h *Hub) BroadcastExcept(roomCode string, except uuid.UUID, ev *domain.Event) {
	h.deliver(roomCode, except, ev)
}

// SendToPlayer delivers the event to a single subscriber.
func (h *Hub) SendToPlayer(roomCode string, playerID uuid.UUID, ev *domain.Event) {
	h.mu.RLock()
	p, ok := h.rooms[roomCode][playerID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := p.Push(ev); err != nil {
		h.prune(roomCode, playerID)
	}
}

// ClearCanvas tells every subscriber to wipe their canvas. The clear is
// synthesized as a stroke event with the clear-all flag and no points.
func (h *Hub) ClearCanvas(roomCode string) {
	h.Broadcast(roomCode, &domain.Event{
		Type:    domain.EventStroke,
		Content: &domain.Stroke{Points: []domain.StrokePoint{}, ClearAll: true},
	})
}

// deliver pushes to a snapshot of the subscriber set taken under the read
// lock; the pushes themselves happen outside it. Every failed handle is
// pruned afterwards and delivery to the rest is unaffected.
func (h *Hub) deliver(roomCode string, except uuid.UUID, ev *domain.Event) {
	h.mu.RLock()
	room := h.rooms[roomCode]
	targets := make(map[uuid.UUID]domain.Pusher, len(room))
	for id, p := range room {
		if id != except {
			targets[id] = p
		}
	}
	h.mu.RUnlock()

	var broken []uuid.UUID
	for id, p := range targets {
		if err := p.Push(ev); err != nil {
			broken = append(broken, id)
		}
	}
	for _, id := range broken {
		h.prune(roomCode, id)
	}
}

func (h *Hub) prune(roomCode string, playerID uuid.UUID) {
	h.mu.Lock()
	removed := h.removeLocked(roomCode, playerID)
	h.mu.Unlock()

	if removed && h.onInvalid != nil {
		h.onInvalid(roomCode, playerID)
	}
}

func (h *Hub) removeLocked(roomCode string, playerID uuid.UUID) bool {
	room, ok := h.rooms[roomCode]
	if !ok {
		return false
	}
	if _, ok := room[playerID]; !ok {
		return false
	}
	delete(room, playerID)
	if len(room) == 0 {
		delete(h.rooms, roomCode)
	}
	return true
}
