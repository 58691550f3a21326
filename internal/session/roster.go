package session

import (
	"math/rand"
	"sort"

	"drawsong-service/domain"

	"github.com/google/uuid"
)

// Roster owns a match's player set, the drawer rotation queue and score
// accumulation. It carries no lock of its own: every method must be called
// while holding the owning session's lock.
type Roster struct {
	players []*domain.Player // encounter order
	queue   []uuid.UUID      // drawers still pending this cycle
	order   []uuid.UUID      // rotation order, shuffled once per match
}

func NewRoster() *Roster {
	return &Roster{}
}

// AddPlayer inserts the player or updates the name/host flag of an existing
// entry with the same id.
func (r *Roster) AddPlayer(id uuid.UUID, username string, isHost bool) *domain.Player {
	for _, p := range r.players {
		if p.ID == id {
			p.Username = username
			p.IsHost = isHost
			return p
		}
	}
	p := &domain.Player{ID: id, Username: username, IsHost: isHost}
	r.players = append(r.players, p)
	return p
}

// Remove drops the player from the roster and from any pending queue entries,
// preserving the relative order of the rest. It reports whether the removed
// player was the host and whether they held the drawer turn.
func (r *Roster) Remove(id uuid.UUID) (wasHost, wasDrawer, ok bool) {
	for i, p := range r.players {
		if p.ID == id {
			wasHost, wasDrawer = p.IsHost, p.IsDrawer
			r.players = append(r.players[:i], r.players[i+1:]...)
			ok = true
			break
		}
	}
	if !ok {
		return false, false, false
	}
	filtered := r.queue[:0]
	for _, qid := range r.queue {
		if qid != id {
			filtered = append(filtered, qid)
		}
	}
	r.queue = filtered
	return wasHost, wasDrawer, true
}

// Get returns the player with the given id, or nil.
func (r *Roster) Get(id uuid.UUID) *domain.Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Roster) IsHost(id uuid.UUID) bool {
	p := r.Get(id)
	return p != nil && p.IsHost
}

func (r *Roster) Len() int {
	return len(r.players)
}

// PrepareQueue refills the drawer queue for a new round cycle. The rotation
// order is fixed and shuffled exactly once per match; refills replay that
// order filtered down to players still present.
func (r *Roster) PrepareQueue() {
	if r.order == nil {
		r.order = make([]uuid.UUID, 0, len(r.players))
		for _, p := range r.players {
			r.order = append(r.order, p.ID)
		}
		rand.Shuffle(len(r.order), func(i, j int) {
			r.order[i], r.order[j] = r.order[j], r.order[i]
		})
	}
	r.queue = r.queue[:0]
	for _, id := range r.order {
		if r.Get(id) != nil {
			r.queue = append(r.queue, id)
		}
	}
}

// HasPending reports whether any drawer turn remains queued for this cycle.
func (r *Roster) HasPending() bool {
	return len(r.queue) > 0
}

// PopNextDrawer resets every player's guessed flag, clears all drawer flags
// and marks the next queued player as drawer. Returns nil when the queue is
// exhausted.
func (r *Roster) PopNextDrawer() *domain.Player {
	for _, p := range r.players {
		p.HasGuessed = false
		p.IsDrawer = false
	}
	for len(r.queue) > 0 {
		id := r.queue[0]
		r.queue = r.queue[1:]
		if p := r.Get(id); p != nil {
			p.IsDrawer = true
			return p
		}
	}
	return nil
}

// AllGuessed reports whether every non-drawer has guessed this round. A
// roster with no non-drawers never counts as all-guessed.
func (r *Roster) AllGuessed() bool {
	nonDrawers := 0
	for _, p := range r.players {
		if p.IsDrawer {
			continue
		}
		nonDrawers++
		if !p.HasGuessed {
			return false
		}
	}
	return nonDrawers > 0
}

// Scoreboard returns the score table sorted by score descending; ties keep
// encounter order.
func (r *Roster) Scoreboard() []domain.ScoreEntry {
	entries := make([]domain.ScoreEntry, 0, len(r.players))
	for _, p := range r.players {
		entries = append(entries, domain.ScoreEntry{PlayerID: p.ID, Username: p.Username, Score: p.Score})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

// Snapshot returns a copy of the current roster for read-only use
// outside the session lock.
func (r *Roster) Snapshot() []domain.Player {
	out := make([]domain.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	return out
}
