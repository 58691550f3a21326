package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"drawsong-service/domain"

	"github.com/google/uuid"
)

const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DirectoryNotifier is the dispatcher surface the directory needs: the usual
// event fan-out plus dropping a room's whole subscriber set when the room
// dies.
type DirectoryNotifier interface {
	Notifier
	DropRoom(roomCode string)
}

// Directory tracks the set of live rooms, their membership and lifecycle,
// and owns the SessionController of every room whose match has started.
type Directory struct {
	mu       sync.RWMutex
	rooms    map[string]*domain.Room
	sessions map[string]*Controller

	catalog  SongCatalog
	notifier DirectoryNotifier
	results  ResultSink

	newController func(code string, cfg domain.RoomConfig, members []*domain.Player) *Controller // test seam
}

func NewDirectory(catalog SongCatalog, notifier DirectoryNotifier, results ResultSink) *Directory {
	d := &Directory{
		rooms:    make(map[string]*domain.Room),
		sessions: make(map[string]*Controller),
		catalog:  catalog,
		notifier: notifier,
		results:  results,
	}
	d.newController = func(code string, cfg domain.RoomConfig, members []*domain.Player) *Controller {
		return NewController(code, cfg, members, d.catalog, d.notifier, d.results)
	}
	return d
}

// CreateRoom registers a new room with the creator as host and sole member.
func (d *Directory) CreateRoom(hostID uuid.UUID, username string, cfg domain.RoomConfig) (*domain.Room, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	code := d.newRoomCodeLocked()
	room := &domain.Room{
		Code:   code,
		HostID: hostID,
		Config: cfg,
		Members: []*domain.Player{
			{ID: hostID, Username: username, IsHost: true},
		},
		Banned:    make(map[uuid.UUID]bool),
		Status:    domain.RoomStatusWaiting,
		CreatedAt: time.Now(),
	}
	d.rooms[code] = room
	return room, nil
}

// JoinRoom admits a player into a waiting room.
func (d *Directory) JoinRoom(code string, playerID uuid.UUID, username string) (*domain.Room, error) {
	d.mu.Lock()
	room, ok := d.rooms[code]
	if !ok {
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: room %s", domain.ErrNotFound, code)
	}
	if room.Banned[playerID] {
		d.mu.Unlock()
		return nil, domain.ErrBanned
	}
	if room.Status != domain.RoomStatusWaiting {
		d.mu.Unlock()
		return nil, domain.ErrRoomPlaying
	}
	if len(room.Members) >= domain.MaxRoomSize {
		d.mu.Unlock()
		return nil, domain.ErrRoomFull
	}
	if room.HasMemberNamed(username) {
		d.mu.Unlock()
		return nil, domain.ErrNameTaken
	}
	room.Members = append(room.Members, &domain.Player{ID: playerID, Username: username})
	snapshot := *room
	d.mu.Unlock()

	d.notifier.Broadcast(code, &domain.Event{
		Type:    domain.EventPlayerJoined,
		Content: domain.PresencePayload{RoomCode: code, Username: username},
	})
	d.broadcastRoomUpdated(&snapshot)
	return &snapshot, nil
}

// LeaveRoom removes a player. The host leaving cancels the room for
// everyone; the last member leaving destroys it.
func (d *Directory) LeaveRoom(code string, playerID uuid.UUID) error {
	d.mu.Lock()
	room, ok := d.rooms[code]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, code)
	}
	member := room.Member(playerID)
	if member == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: player not in room", domain.ErrNotFound)
	}

	if playerID == room.HostID {
		ctrl := d.sessions[code]
		d.dropRoomLocked(code)
		d.mu.Unlock()
		if ctrl != nil {
			ctrl.Cancel(reasonHostLeft)
		}
		d.notifier.Broadcast(code, &domain.Event{
			Type:    domain.EventRoomCancelled,
			Content: domain.PresencePayload{RoomCode: code, Username: member.Username},
		})
		d.notifier.DropRoom(code)
		return nil
	}

	username := member.Username
	d.removeMemberLocked(room, playerID)
	ctrl := d.sessions[code]
	empty := len(room.Members) == 0
	if empty {
		d.dropRoomLocked(code)
	}
	snapshot := *room
	d.mu.Unlock()

	if ctrl != nil {
		ctrl.RemovePlayer(playerID)
	}
	if empty {
		d.notifier.DropRoom(code)
		return nil
	}
	d.notifier.Broadcast(code, &domain.Event{
		Type:    domain.EventPlayerLeft,
		Content: domain.PresencePayload{RoomCode: code, Username: username},
	})
	d.broadcastRoomUpdated(&snapshot)
	return nil
}

// KickPlayer evicts and bans a member. Host only; the host cannot kick
// themselves.
func (d *Directory) KickPlayer(code string, requesterID, targetID uuid.UUID) error {
	d.mu.Lock()
	room, ok := d.rooms[code]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, code)
	}
	if requesterID != room.HostID {
		d.mu.Unlock()
		return domain.ErrForbidden
	}
	if targetID == room.HostID {
		d.mu.Unlock()
		return fmt.Errorf("%w: host cannot be kicked", domain.ErrInvalidInput)
	}
	target := room.Member(targetID)
	if target == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: player not in room", domain.ErrNotFound)
	}
	username := target.Username
	room.Banned[targetID] = true
	d.removeMemberLocked(room, targetID)
	ctrl := d.sessions[code]
	snapshot := *room
	d.mu.Unlock()

	if ctrl != nil {
		ctrl.RemovePlayer(targetID)
	}
	d.notifier.Broadcast(code, &domain.Event{
		Type:    domain.EventPlayerKicked,
		Content: domain.PresencePayload{RoomCode: code, Username: username},
	})
	d.broadcastRoomUpdated(&snapshot)
	return nil
}

// UpdateConfig lets the host change the match rules while waiting.
func (d *Directory) UpdateConfig(code string, requesterID uuid.UUID, cfg domain.RoomConfig) error {
	if err := validateConfig(&cfg); err != nil {
		return err
	}
	d.mu.Lock()
	room, ok := d.rooms[code]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, code)
	}
	if requesterID != room.HostID {
		d.mu.Unlock()
		return domain.ErrForbidden
	}
	if room.Status != domain.RoomStatusWaiting {
		d.mu.Unlock()
		return domain.ErrRoomPlaying
	}
	room.Config = cfg
	snapshot := *room
	d.mu.Unlock()

	d.broadcastRoomUpdated(&snapshot)
	return nil
}

// StartMatch builds the SessionController for the room and starts it.
func (d *Directory) StartMatch(code string, requesterID uuid.UUID) error {
	d.mu.Lock()
	room, ok := d.rooms[code]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, code)
	}
	if requesterID != room.HostID {
		d.mu.Unlock()
		return domain.ErrForbidden
	}
	if room.Status != domain.RoomStatusWaiting {
		d.mu.Unlock()
		return domain.ErrRoomPlaying
	}
	if len(room.Members) < domain.MinPlayers {
		d.mu.Unlock()
		return domain.ErrNotEnough
	}
	ctrl := d.newController(code, room.Config, room.Members)
	ctrl.OnFinished(d.matchFinished)
	d.sessions[code] = ctrl
	room.Status = domain.RoomStatusPlaying
	d.mu.Unlock()

	if err := ctrl.Start(requesterID); err != nil {
		d.mu.Lock()
		delete(d.sessions, code)
		if r, ok := d.rooms[code]; ok {
			r.Status = domain.RoomStatusWaiting
		}
		d.mu.Unlock()
		return err
	}
	return nil
}

// matchFinished is the controller's finish hook: the spent controller is
// discarded and the room returns to the lobby, so members can chat, leave or
// start a rematch and new players can join again. A room that was already
// dropped (host left) has nothing left to reset.
func (d *Directory) matchFinished(code string) {
	d.mu.Lock()
	delete(d.sessions, code)
	room, ok := d.rooms[code]
	if !ok {
		d.mu.Unlock()
		return
	}
	room.Status = domain.RoomStatusWaiting
	snapshot := *room
	d.mu.Unlock()

	d.broadcastRoomUpdated(&snapshot)
}

// Session returns the active controller for the room, if any.
func (d *Directory) Session(code string) (*Controller, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ctrl, ok := d.sessions[code]
	return ctrl, ok
}

// Room returns a snapshot of the room.
func (d *Directory) Room(code string) (*domain.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room, ok := d.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: room %s", domain.ErrNotFound, code)
	}
	snapshot := *room
	return &snapshot, nil
}

// ListRooms returns snapshots of every live room.
func (d *Directory) ListRooms() []domain.Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Room, 0, len(d.rooms))
	for _, room := range d.rooms {
		out = append(out, *room)
	}
	return out
}

func (d *Directory) broadcastRoomUpdated(room *domain.Room) {
	d.notifier.Broadcast(room.Code, &domain.Event{
		Type:    domain.EventRoomUpdated,
		Content: room,
	})
}

func (d *Directory) removeMemberLocked(room *domain.Room, playerID uuid.UUID) {
	for i, m := range room.Members {
		if m.ID == playerID {
			room.Members = append(room.Members[:i], room.Members[i+1:]...)
			return
		}
	}
}

func (d *Directory) dropRoomLocked(code string) {
	delete(d.rooms, code)
	delete(d.sessions, code)
}

func (d *Directory) newRoomCodeLocked() string {
	for {
		buf := make([]byte, 6)
		for i := range buf {
			buf[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
		}
		code := string(buf)
		if _, taken := d.rooms[code]; !taken {
			return code
		}
	}
}

func validateConfig(cfg *domain.RoomConfig) error {
	if cfg.Rounds < domain.MinRounds || cfg.Rounds > domain.MaxRounds {
		return fmt.Errorf("%w: rounds must be between %d and %d", domain.ErrInvalidInput, domain.MinRounds, domain.MaxRounds)
	}
	if cfg.RoundDuration < domain.MinRoundDuration || cfg.RoundDuration > domain.MaxRoundDuration {
		return fmt.Errorf("%w: round duration must be between %ds and %ds", domain.ErrInvalidInput, domain.MinRoundDuration, domain.MaxRoundDuration)
	}
	switch cfg.Difficulty {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
	case "":
		cfg.Difficulty = domain.DifficultyMedium
	default:
		return fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidInput, cfg.Difficulty)
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return nil
}
