package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"drawsong-service/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the match lifecycle position.
type State int

const (
	StateWaitingRoom State = iota
	StatePlaying
	StateFinished
)

// roundPhase tags where inside one round the session is. It replaces the
// racing booleans around round conclusion: a round can only be ended while
// the phase is getReady or guessing, so the end-of-round side effects run
// exactly once no matter how many triggers race for it.
type roundPhase int

const (
	phaseIdle roundPhase = iota
	phaseGetReady
	phaseGuessing
	phaseTransition
)

const (
	defaultGetReadyDelay      = 3 * time.Second
	defaultTransitionDuration = 5 * time.Second

	reasonHostLeft         = "host left"
	reasonNotEnoughPlayers = "not enough players"
	reasonNoContent        = "content catalog unavailable"
)

// Notifier fans domain events out to the room's subscribed clients. It must
// never be invoked while the session lock is held.
type Notifier interface {
	Broadcast(roomCode string, ev *domain.Event)
	BroadcastExcept(roomCode string, except uuid.UUID, ev *domain.Event)
	SendToPlayer(roomCode string, playerID uuid.UUID, ev *domain.Event)
	ClearCanvas(roomCode string)
}

// ResultSink receives the final scoreboard once a match reaches Finished.
// Delivery is fire-and-forget: failures are logged, never surfaced to players.
type ResultSink interface {
	PublishMatchResult(ctx context.Context, roomCode string, scoreboard []domain.ScoreEntry, cancelMessage string) error
}

// outbound is one event staged under the session lock and delivered after it
// is released.
type outbound struct {
	to     uuid.UUID
	except uuid.UUID
	ev     *domain.Event
}

// Controller drives a single match from lobby to finished. All mutable state
// is guarded by mu; subscriber callbacks and catalog lookups happen with the
// lock released.
type Controller struct {
	mu sync.Mutex

	roomCode    string
	cfg         domain.RoomConfig
	state       State
	phase       roundPhase
	round       int
	readyGen    int
	usedSongs   map[int64]bool
	currentSong *domain.Song

	roster  *Roster
	timer   *RoundTimer
	guesses *GuessValidator

	catalog  SongCatalog
	notifier Notifier
	results  ResultSink

	onFinished    func(roomCode string)
	getReadyDelay time.Duration
}

func NewController(roomCode string, cfg domain.RoomConfig, members []*domain.Player, catalog SongCatalog, notifier Notifier, results ResultSink) *Controller {
	c := &Controller{
		roomCode:      roomCode,
		cfg:           cfg,
		state:         StateWaitingRoom,
		phase:         phaseIdle,
		usedSongs:     make(map[int64]bool),
		roster:        NewRoster(),
		catalog:       catalog,
		notifier:      notifier,
		results:       results,
		getReadyDelay: defaultGetReadyDelay,
	}
	for _, m := range members {
		p := c.roster.AddPlayer(m.ID, m.Username, m.IsHost)
		p.Score = m.Score
	}
	c.timer = NewRoundTimer(
		time.Duration(cfg.RoundDuration)*time.Second,
		defaultTransitionDuration,
		func() { c.endRound(true) },
		c.prepareNextRound,
	)
	c.guesses = NewGuessValidator(catalog, c.timer)
	return c
}

// CurrentState returns the match lifecycle state.
func (c *Controller) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Round returns the current round counter.
func (c *Controller) Round() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round
}

// Players returns a copy of the roster.
func (c *Controller) Players() []domain.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roster.Snapshot()
}

// OnFinished registers the owner's cleanup hook, invoked once when the match
// reaches Finished. It runs on its own goroutine so the owner is free to take
// its own locks. Must be set before the session starts.
func (c *Controller) OnFinished(fn func(roomCode string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFinished = fn
}

// Start moves the session from WaitingRoom to Playing. Only the host may
// start, and only with at least the minimum number of players present.
func (c *Controller) Start(requesterID uuid.UUID) error {
	c.mu.Lock()
	if c.state == StateFinished {
		c.mu.Unlock()
		return domain.ErrMatchFinished
	}
	if c.state != StateWaitingRoom {
		c.mu.Unlock()
		return domain.ErrRoomPlaying
	}
	if !c.roster.IsHost(requesterID) {
		c.mu.Unlock()
		return domain.ErrForbidden
	}
	if c.roster.Len() < domain.MinPlayers {
		c.mu.Unlock()
		return domain.ErrNotEnough
	}
	c.state = StatePlaying
	players := c.roster.Scoreboard()
	c.mu.Unlock()

	c.notifier.Broadcast(c.roomCode, &domain.Event{
		Type:    domain.EventMatchStarted,
		Content: domain.MatchStartedPayload{RoomCode: c.roomCode, Players: players},
	})
	c.prepareNextRound()
	return nil
}

// prepareNextRound pops the next drawer (refilling the cycle queue when
// needed), picks an unused song and announces the round, then schedules the
// get-ready delay before the round timer actually starts. When both the
// queue and the round budget are exhausted the match finishes instead.
func (c *Controller) prepareNextRound() {
	c.mu.Lock()
	if c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	if !c.roster.HasPending() {
		if c.round >= c.cfg.Rounds {
			events := c.finishLocked("")
			c.mu.Unlock()
			c.flush(events)
			return
		}
		c.round++
		c.roster.PrepareQueue()
	}
	drawer := c.roster.PopNextDrawer()
	if drawer == nil {
		events := c.finishLocked("")
		c.mu.Unlock()
		c.flush(events)
		return
	}
	c.phase = phaseGetReady
	c.readyGen++
	gen := c.readyGen
	round := c.round
	drawerID := drawer.ID
	drawerName := drawer.Username
	language := c.cfg.Language
	excluded := make([]int64, 0, len(c.usedSongs))
	for id := range c.usedSongs {
		excluded = append(excluded, id)
	}
	c.mu.Unlock()

	song, err := c.catalog.PickRandomSong(context.Background(), language, excluded)
	if err != nil || song == nil {
		zap.L().Error("failed to pick song for round",
			zap.String("room", c.roomCode), zap.Int("round", round), zap.Error(err))
		c.mu.Lock()
		events := c.finishLocked(reasonNoContent)
		c.mu.Unlock()
		c.flush(events)
		return
	}

	c.mu.Lock()
	if c.state != StatePlaying || c.phase != phaseGetReady || c.readyGen != gen {
		c.mu.Unlock()
		return
	}
	c.currentSong = song
	c.usedSongs[song.ID] = true
	players := c.roster.Snapshot()
	hints := song.HintsFor(c.cfg.Difficulty)
	duration := c.cfg.RoundDuration
	c.mu.Unlock()

	c.notifier.ClearCanvas(c.roomCode)
	for _, p := range players {
		payload := domain.RoundStartedPayload{
			Round:    round,
			Role:     domain.RoleGuesser,
			DrawerID: drawerID,
			Drawer:   drawerName,
			Hints:    hints,
			Duration: duration,
		}
		if p.ID == drawerID {
			payload.Role = domain.RoleDrawer
			payload.Title = song.Title
			payload.Hints = domain.SongHints{}
		}
		c.notifier.SendToPlayer(c.roomCode, p.ID, &domain.Event{
			Type:    domain.EventRoundStarted,
			Content: payload,
		})
	}

	// Clients get a short window to clear their canvas and show the prompt
	// before the clock starts.
	time.AfterFunc(c.getReadyDelay, func() { c.beginRound(gen) })
}

// beginRound arms the round timer once the get-ready window elapses. A stale
// generation means the round was already ended or replaced meanwhile.
func (c *Controller) beginRound(gen int) {
	c.mu.Lock()
	if c.state != StatePlaying || c.phase != phaseGetReady || c.readyGen != gen {
		c.mu.Unlock()
		return
	}
	c.phase = phaseGuessing
	c.mu.Unlock()
	c.timer.StartRound()
}

// SubmitChat handles a player's chat line. Blank or over-long messages are
// silently dropped. In the waiting room the line is pure chat; while playing
// an eligible guess is checked against the catalog and scored by time
// remaining, and the round ends early once every non-drawer has guessed.
func (c *Controller) SubmitChat(ctx context.Context, playerID uuid.UUID, text string) {
	text = strings.TrimSpace(text)
	if text == "" || len(strings.Fields(text)) > domain.MaxChatWords {
		return
	}

	c.mu.Lock()
	p := c.roster.Get(playerID)
	if p == nil {
		c.mu.Unlock()
		return
	}
	username := p.Username
	canGuess := c.guesses.CanAttempt(p, c.state, c.phase) && c.currentSong != nil
	var songID int64
	round := c.round
	if canGuess {
		songID = c.currentSong.ID
	}
	c.mu.Unlock()

	chat := &domain.Event{
		Type:    domain.EventChatMessage,
		Content: domain.ChatMessagePayload{Username: username, Text: text},
	}
	if !canGuess {
		c.notifier.Broadcast(c.roomCode, chat)
		return
	}

	correct, points, err := c.guesses.CheckGuess(ctx, songID, text)
	if err != nil {
		zap.L().Error("guess check failed", zap.String("room", c.roomCode), zap.Error(err))
		c.notifier.Broadcast(c.roomCode, chat)
		return
	}
	if !correct {
		c.notifier.Broadcast(c.roomCode, chat)
		return
	}

	c.mu.Lock()
	p = c.roster.Get(playerID)
	if c.round != round || !c.guesses.CanAttempt(p, c.state, c.phase) {
		// The round moved on (or the player already scored) while the
		// catalog lookup was in flight.
		c.mu.Unlock()
		return
	}
	if err := c.guesses.RecordGuess(p, points); err != nil {
		c.mu.Unlock()
		return
	}
	events := []outbound{{ev: &domain.Event{
		Type:    domain.EventPlayerGuessed,
		Content: domain.PlayerGuessedPayload{Username: username, Points: points},
	}}}
	var startTransition bool
	if c.roster.AllGuessed() {
		endEvents, trans := c.endRoundLocked(false)
		events = append(events, endEvents...)
		startTransition = trans
	}
	c.mu.Unlock()

	c.flush(events)
	if startTransition {
		c.timer.StartTransition()
	}
}

// SubmitStroke forwards a drawing gesture to everyone else in the room, but
// only from the current drawer and only while the round is actually running
// (never during the get-ready window).
func (c *Controller) SubmitStroke(playerID uuid.UUID, stroke *domain.Stroke) error {
	c.mu.Lock()
	p := c.roster.Get(playerID)
	if c.state != StatePlaying || c.phase != phaseGuessing || p == nil || !p.IsDrawer {
		c.mu.Unlock()
		return domain.ErrForbidden
	}
	c.mu.Unlock()

	c.notifier.BroadcastExcept(c.roomCode, playerID, &domain.Event{
		Type:    domain.EventStroke,
		Content: stroke,
	})
	return nil
}

// RemovePlayer drops a player from the running match. Falling below the
// minimum cancels the match; losing the drawer advances the round
// immediately instead of waiting for the timer to expire.
func (c *Controller) RemovePlayer(playerID uuid.UUID) {
	c.mu.Lock()
	wasHost, wasDrawer, ok := c.roster.Remove(playerID)
	if !ok || c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	var events []outbound
	var advanceNow, startTransition bool
	switch {
	case c.roster.Len() < domain.MinPlayers:
		reason := reasonNotEnoughPlayers
		if wasHost {
			reason = reasonHostLeft
		}
		events = c.finishLocked(reason)
	case wasDrawer:
		endEvents, trans := c.endRoundLocked(false)
		events = append(events, endEvents...)
		advanceNow = trans
	case c.phase == phaseGuessing && c.roster.AllGuessed():
		endEvents, trans := c.endRoundLocked(false)
		events = append(events, endEvents...)
		startTransition = trans
	}
	c.mu.Unlock()

	c.flush(events)
	if advanceNow {
		c.prepareNextRound()
	}
	if startTransition {
		c.timer.StartTransition()
	}
}

// Cancel aborts the match with a reason, delivering partial scores.
func (c *Controller) Cancel(reason string) {
	c.mu.Lock()
	events := c.finishLocked(reason)
	c.mu.Unlock()
	c.flush(events)
}

// endRound is the timer-expiry entry point for concluding the active round.
func (c *Controller) endRound(timedOut bool) {
	c.mu.Lock()
	events, startTransition := c.endRoundLocked(timedOut)
	c.mu.Unlock()

	c.flush(events)
	if startTransition {
		c.timer.StartTransition()
	}
}

// endRoundLocked concludes the active round exactly once: any caller that
// finds the phase already past guessing is a loser of the race and does
// nothing. Returns the staged events and whether the caller should arm the
// transition timer (false when the match finished instead).
func (c *Controller) endRoundLocked(timedOut bool) ([]outbound, bool) {
	if c.state != StatePlaying || (c.phase != phaseGuessing && c.phase != phaseGetReady) {
		return nil, false
	}
	c.phase = phaseTransition
	c.timer.StopAll()

	title := ""
	if c.currentSong != nil {
		title = c.currentSong.Title
	}
	events := []outbound{{ev: &domain.Event{
		Type:    domain.EventRoundEnded,
		Content: domain.RoundEndedPayload{Round: c.round, TimedOut: timedOut, Title: title},
	}}}

	if !c.roster.HasPending() && c.round >= c.cfg.Rounds {
		events = append(events, c.finishLocked("")...)
		return events, false
	}
	return events, true
}

// finishLocked transitions to Finished, stages the final results event and
// hands the scoreboard to the result sink on a separate goroutine.
func (c *Controller) finishLocked(cancelReason string) []outbound {
	if c.state == StateFinished {
		return nil
	}
	c.state = StateFinished
	c.phase = phaseIdle
	c.timer.StopAll()

	scoreboard := c.roster.Scoreboard()
	cancelMessage := ""
	if cancelReason != "" {
		cancelMessage = "match cancelled: " + cancelReason
	}

	if c.results != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.results.PublishMatchResult(ctx, c.roomCode, scoreboard, cancelMessage); err != nil {
				zap.L().Error("failed to publish match result",
					zap.String("room", c.roomCode), zap.Error(err))
			}
		}()
	}
	if c.onFinished != nil {
		go c.onFinished(c.roomCode)
	}

	return []outbound{{ev: &domain.Event{
		Type:    domain.EventMatchFinished,
		Content: domain.MatchFinishedPayload{Scoreboard: scoreboard, CancelMessage: cancelMessage},
	}}}
}

func (c *Controller) flush(events []outbound) {
	for _, o := range events {
		switch {
		case o.to != uuid.Nil:
			c.notifier.SendToPlayer(c.roomCode, o.to, o.ev)
		case o.except != uuid.Nil:
			c.notifier.BroadcastExcept(c.roomCode, o.except, o.ev)
		default:
			c.notifier.Broadcast(c.roomCode, o.ev)
		}
	}
}
