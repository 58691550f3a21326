package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"drawsong-service/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu    sync.Mutex
	songs []domain.Song
	fail  bool
}

func (f *fakeCatalog) PickRandomSong(_ context.Context, language string, excludedIDs []int64) (*domain.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, fmt.Errorf("catalog down")
	}
	excluded := make(map[int64]bool, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = true
	}
	for i := range f.songs {
		s := f.songs[i]
		if s.Language == language && !excluded[s.ID] {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%w: no songs left", domain.ErrNotFound)
}

func (f *fakeCatalog) CheckAnswer(_ context.Context, songID int64, text string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.songs {
		if s.ID == songID {
			return strings.EqualFold(strings.TrimSpace(text), s.Title), nil
		}
	}
	return false, fmt.Errorf("%w: song %d", domain.ErrNotFound, songID)
}

type sentEvent struct {
	to     uuid.UUID
	except uuid.UUID
	ev     *domain.Event
}

type fakeNotifier struct {
	mu      sync.Mutex
	events  []sentEvent
	dropped []string
}

func (f *fakeNotifier) Broadcast(roomCode string, ev *domain.Event) {
	f.record(sentEvent{ev: ev})
}

func (f *fakeNotifier) BroadcastExcept(roomCode string, except uuid.UUID, ev *domain.Event) {
	f.record(sentEvent{except: except, ev: ev})
}

func (f *fakeNotifier) SendToPlayer(roomCode string, playerID uuid.UUID, ev *domain.Event) {
	f.record(sentEvent{to: playerID, ev: ev})
}

func (f *fakeNotifier) ClearCanvas(roomCode string) {
	f.record(sentEvent{ev: &domain.Event{Type: domain.EventStroke, Content: &domain.Stroke{ClearAll: true}}})
}

func (f *fakeNotifier) DropRoom(roomCode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropped = append(f.dropped, roomCode)
}

func (f *fakeNotifier) record(e sentEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeNotifier) ofType(eventType string) []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentEvent
	for _, e := range f.events {
		if e.ev.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeNotifier) countOf(eventType string) int {
	return len(f.ofType(eventType))
}

type resultCall struct {
	roomCode      string
	scoreboard    []domain.ScoreEntry
	cancelMessage string
}

type fakeResults struct {
	mu    sync.Mutex
	calls []resultCall
}

func (f *fakeResults) PublishMatchResult(_ context.Context, roomCode string, scoreboard []domain.ScoreEntry, cancelMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, resultCall{roomCode: roomCode, scoreboard: scoreboard, cancelMessage: cancelMessage})
	return nil
}

func (f *fakeResults) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testSongs() []domain.Song {
	return []domain.Song{
		{ID: 1, Title: "Bohemian Rhapsody", Artist: "Queen", Category: "Rock", Language: "en"},
		{ID: 2, Title: "Billie Jean", Artist: "Michael Jackson", Category: "Pop", Language: "en"},
		{ID: 3, Title: "Hotel California", Artist: "Eagles", Category: "Rock", Language: "en"},
		{ID: 4, Title: "Hey Jude", Artist: "The Beatles", Category: "Rock", Language: "en"},
	}
}

type controllerFixture struct {
	ctrl     *Controller
	catalog  *fakeCatalog
	notifier *fakeNotifier
	results  *fakeResults
	players  []*domain.Player
}

// newControllerFixture builds a controller with test-speed timers: a long
// round window, a near-instant get-ready delay and a short transition.
func newControllerFixture(t *testing.T, cfg domain.RoomConfig, names ...string) *controllerFixture {
	t.Helper()
	players := make([]*domain.Player, 0, len(names))
	for i, name := range names {
		players = append(players, &domain.Player{ID: uuid.New(), Username: name, IsHost: i == 0})
	}
	catalog := &fakeCatalog{songs: testSongs()}
	notifier := &fakeNotifier{}
	results := &fakeResults{}

	ctrl := NewController("ROOM42", cfg, players, catalog, notifier, results)
	ctrl.getReadyDelay = time.Millisecond
	ctrl.timer = NewRoundTimer(
		time.Duration(cfg.RoundDuration)*time.Second,
		20*time.Millisecond,
		func() { ctrl.endRound(true) },
		ctrl.prepareNextRound,
	)
	ctrl.guesses = NewGuessValidator(catalog, ctrl.timer)

	return &controllerFixture{ctrl: ctrl, catalog: catalog, notifier: notifier, results: results, players: players}
}

func (fx *controllerFixture) host() *domain.Player { return fx.players[0] }

func (fx *controllerFixture) phase() roundPhase {
	fx.ctrl.mu.Lock()
	defer fx.ctrl.mu.Unlock()
	return fx.ctrl.phase
}

func (fx *controllerFixture) waitGuessing(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return fx.phase() == phaseGuessing },
		2*time.Second, time.Millisecond, "round never reached the guessing phase")
}

func (fx *controllerFixture) drawer(t *testing.T) domain.Player {
	t.Helper()
	for _, p := range fx.ctrl.Players() {
		if p.IsDrawer {
			return p
		}
	}
	t.Fatal("no drawer marked")
	return domain.Player{}
}

func (fx *controllerFixture) guessers(t *testing.T) []domain.Player {
	t.Helper()
	var out []domain.Player
	for _, p := range fx.ctrl.Players() {
		if !p.IsDrawer {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig(rounds int) domain.RoomConfig {
	return domain.RoomConfig{
		Rounds:        rounds,
		RoundDuration: 60,
		Difficulty:    domain.DifficultyMedium,
		Language:      "en",
	}
}

func TestStartGuards(t *testing.T) {
	t.Run("only the host may start", func(t *testing.T) {
		fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
		err := fx.ctrl.Start(fx.players[1].ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, StateWaitingRoom, fx.ctrl.CurrentState())
	})

	t.Run("needs minimum players", func(t *testing.T) {
		fx := newControllerFixture(t, defaultConfig(2), "alice")
		err := fx.ctrl.Start(fx.host().ID)
		assert.ErrorIs(t, err, domain.ErrNotEnough)
	})

	t.Run("cannot start twice", func(t *testing.T) {
		fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
		require.NoError(t, fx.ctrl.Start(fx.host().ID))
		err := fx.ctrl.Start(fx.host().ID)
		assert.ErrorIs(t, err, domain.ErrRoomPlaying)
	})

	t.Run("cannot restart a finished match", func(t *testing.T) {
		fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
		require.NoError(t, fx.ctrl.Start(fx.host().ID))
		fx.ctrl.Cancel("host left")
		err := fx.ctrl.Start(fx.host().ID)
		assert.ErrorIs(t, err, domain.ErrMatchFinished)
	})
}

func TestRoundStartAnnouncements(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob", "carol")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)

	assert.Equal(t, 1, fx.notifier.countOf(domain.EventMatchStarted))
	assert.Equal(t, 1, fx.ctrl.Round())

	drawer := fx.drawer(t)
	started := fx.notifier.ofType(domain.EventRoundStarted)
	require.Len(t, started, 3, "every player gets a personal round_started")

	for _, e := range started {
		payload, ok := e.ev.Content.(domain.RoundStartedPayload)
		require.True(t, ok)
		assert.Equal(t, drawer.ID, payload.DrawerID)
		assert.Equal(t, 60, payload.Duration)
		if e.to == drawer.ID {
			assert.Equal(t, domain.RoleDrawer, payload.Role)
			assert.NotEmpty(t, payload.Title, "drawer sees the title")
			assert.Empty(t, payload.Hints.Category, "drawer gets no hints")
		} else {
			assert.Equal(t, domain.RoleGuesser, payload.Role)
			assert.Empty(t, payload.Title, "guessers never see the title")
			assert.NotEmpty(t, payload.Hints.Category, "medium difficulty reveals the category")
		}
	}
}

func TestCorrectGuessScoresAndEndsRoundEarly(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob", "carol")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)

	guessers := fx.guessers(t)
	require.Len(t, guessers, 2)

	fx.ctrl.SubmitChat(context.Background(), guessers[0].ID, "!guessed 40")
	guessed := fx.notifier.ofType(domain.EventPlayerGuessed)
	require.Len(t, guessed, 1)
	payload := guessed[0].ev.Content.(domain.PlayerGuessedPayload)
	assert.Equal(t, guessers[0].Username, payload.Username)
	assert.Equal(t, 40, payload.Points)
	assert.Equal(t, 0, fx.notifier.countOf(domain.EventRoundEnded), "round keeps running with one guesser pending")

	// a scored player cannot double-dip
	fx.ctrl.SubmitChat(context.Background(), guessers[0].ID, "!guessed 40")
	assert.Equal(t, 1, fx.notifier.countOf(domain.EventPlayerGuessed))

	fx.ctrl.SubmitChat(context.Background(), guessers[1].ID, "!guessed 25")
	require.Equal(t, 1, fx.notifier.countOf(domain.EventRoundEnded), "all guessed ends the round early")
	ended := fx.notifier.ofType(domain.EventRoundEnded)[0].ev.Content.(domain.RoundEndedPayload)
	assert.False(t, ended.TimedOut)
	assert.NotEmpty(t, ended.Title, "round end reveals the title")

	for _, p := range fx.ctrl.Players() {
		switch p.ID {
		case guessers[0].ID:
			assert.Equal(t, 40, p.Score)
		case guessers[1].ID:
			assert.Equal(t, 25, p.Score)
		default:
			assert.Equal(t, 0, p.Score)
		}
	}
}

func TestWrongGuessIsJustChat(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)

	guesser := fx.guessers(t)[0]
	fx.ctrl.SubmitChat(context.Background(), guesser.ID, "definitely not the title")

	assert.Equal(t, 0, fx.notifier.countOf(domain.EventPlayerGuessed))
	chats := fx.notifier.ofType(domain.EventChatMessage)
	require.Len(t, chats, 1)
	assert.Equal(t, "definitely not the title", chats[0].ev.Content.(domain.ChatMessagePayload).Text)
}

func TestCatalogConfirmedGuessScoresTimeRemaining(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)

	fx.ctrl.mu.Lock()
	title := fx.ctrl.currentSong.Title
	fx.ctrl.mu.Unlock()

	guesser := fx.guessers(t)[0]
	fx.ctrl.SubmitChat(context.Background(), guesser.ID, strings.ToUpper(title))

	guessed := fx.notifier.ofType(domain.EventPlayerGuessed)
	require.Len(t, guessed, 1, "case-insensitive title match counts")
	points := guessed[0].ev.Content.(domain.PlayerGuessedPayload).Points
	assert.Greater(t, points, 0)
	assert.LessOrEqual(t, points, 60)
}

func TestGuessAfterRoundEndedIsJustChat(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
	// a long transition keeps the round concluded while the late guesses arrive
	fx.ctrl.timer = NewRoundTimer(60*time.Second, time.Hour,
		func() { fx.ctrl.endRound(true) }, fx.ctrl.prepareNextRound)
	fx.ctrl.guesses = NewGuessValidator(fx.catalog, fx.ctrl.timer)
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)

	fx.ctrl.mu.Lock()
	title := fx.ctrl.currentSong.Title
	fx.ctrl.mu.Unlock()
	guesser := fx.guessers(t)[0]

	fx.ctrl.endRound(true)
	require.Equal(t, 1, fx.notifier.countOf(domain.EventRoundEnded))

	fx.ctrl.SubmitChat(context.Background(), guesser.ID, title)
	fx.ctrl.SubmitChat(context.Background(), guesser.ID, "!guessed 40")

	assert.Equal(t, 0, fx.notifier.countOf(domain.EventPlayerGuessed), "the title is already revealed, nothing left to score")
	assert.Equal(t, 2, fx.notifier.countOf(domain.EventChatMessage))
	for _, p := range fx.ctrl.Players() {
		assert.Equal(t, 0, p.Score)
	}
}

func TestChatFiltering(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)
	before := fx.notifier.countOf(domain.EventChatMessage)

	guesser := fx.guessers(t)[0]
	fx.ctrl.SubmitChat(context.Background(), guesser.ID, "   ")
	fx.ctrl.SubmitChat(context.Background(), guesser.ID, strings.Repeat("word ", domain.MaxChatWords+1))

	assert.Equal(t, before, fx.notifier.countOf(domain.EventChatMessage), "blank and over-long messages are dropped")
}

func TestStrokeGating(t *testing.T) {
	t.Run("drawer strokes fan out to everyone else", func(t *testing.T) {
		fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
		require.NoError(t, fx.ctrl.Start(fx.host().ID))
		fx.waitGuessing(t)

		drawer := fx.drawer(t)
		err := fx.ctrl.SubmitStroke(drawer.ID, &domain.Stroke{Points: []domain.StrokePoint{{X: 1, Y: 2}}})
		require.NoError(t, err)

		strokes := fx.notifier.ofType(domain.EventStroke)
		var forwarded []sentEvent
		for _, e := range strokes {
			if e.except != uuid.Nil {
				forwarded = append(forwarded, e)
			}
		}
		require.Len(t, forwarded, 1)
		assert.Equal(t, drawer.ID, forwarded[0].except, "drawer does not echo their own stroke")
	})

	t.Run("guessers cannot draw", func(t *testing.T) {
		fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
		require.NoError(t, fx.ctrl.Start(fx.host().ID))
		fx.waitGuessing(t)

		err := fx.ctrl.SubmitStroke(fx.guessers(t)[0].ID, &domain.Stroke{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("no drawing during the get-ready window", func(t *testing.T) {
		fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
		fx.ctrl.getReadyDelay = time.Hour
		require.NoError(t, fx.ctrl.Start(fx.host().ID))
		require.Eventually(t, func() bool { return fx.phase() == phaseGetReady },
			2*time.Second, time.Millisecond)

		err := fx.ctrl.SubmitStroke(fx.drawer(t).ID, &domain.Stroke{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestMatchFinishesAfterConfiguredRounds(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(1), "alice", "bob")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)

	// Turn one of two: the guesser scores, the round ends, the transition
	// timer hands the drawer turn to the second player.
	fx.ctrl.SubmitChat(context.Background(), fx.guessers(t)[0].ID, "!guessed 30")
	require.Equal(t, 1, fx.notifier.countOf(domain.EventRoundEnded))
	require.Equal(t, StatePlaying, fx.ctrl.CurrentState())

	fx.waitGuessing(t)
	require.Equal(t, 1, fx.ctrl.Round(), "same round until every player has drawn")

	// Turn two exhausts both the queue and the round budget.
	fx.ctrl.SubmitChat(context.Background(), fx.guessers(t)[0].ID, "!guessed 50")

	require.Eventually(t, func() bool { return fx.ctrl.CurrentState() == StateFinished },
		2*time.Second, time.Millisecond)
	finished := fx.notifier.ofType(domain.EventMatchFinished)
	require.Len(t, finished, 1)
	payload := finished[0].ev.Content.(domain.MatchFinishedPayload)
	assert.Empty(t, payload.CancelMessage)
	require.Len(t, payload.Scoreboard, 2)
	assert.GreaterOrEqual(t, payload.Scoreboard[0].Score, payload.Scoreboard[1].Score, "scoreboard sorted descending")

	require.Eventually(t, func() bool { return fx.results.callCount() == 1 },
		2*time.Second, time.Millisecond, "final scoreboard reaches the result sink")
}

func TestRemovePlayerBelowMinimumCancels(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)

	fx.ctrl.RemovePlayer(fx.players[1].ID)

	assert.Equal(t, StateFinished, fx.ctrl.CurrentState())
	finished := fx.notifier.ofType(domain.EventMatchFinished)
	require.Len(t, finished, 1)
	payload := finished[0].ev.Content.(domain.MatchFinishedPayload)
	assert.Equal(t, "match cancelled: not enough players", payload.CancelMessage)
	require.Len(t, payload.Scoreboard, 1, "partial scores still delivered")
}

func TestDrawerLeavingAdvancesRound(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(1), "alice", "bob", "carol")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)

	firstDrawer := fx.drawer(t)
	fx.ctrl.RemovePlayer(firstDrawer.ID)

	require.Equal(t, 1, fx.notifier.countOf(domain.EventRoundEnded), "losing the drawer ends the round")
	require.Equal(t, StatePlaying, fx.ctrl.CurrentState())

	fx.waitGuessing(t)
	nextDrawer := fx.drawer(t)
	assert.NotEqual(t, firstDrawer.ID, nextDrawer.ID)
	assert.Len(t, fx.ctrl.Players(), 2)
}

func TestCancelDeliversPartialScores(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob", "carol")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)
	fx.ctrl.SubmitChat(context.Background(), fx.guessers(t)[0].ID, "!guessed 15")

	fx.ctrl.Cancel("host left")

	assert.Equal(t, StateFinished, fx.ctrl.CurrentState())
	finished := fx.notifier.ofType(domain.EventMatchFinished)
	require.Len(t, finished, 1)
	payload := finished[0].ev.Content.(domain.MatchFinishedPayload)
	assert.Equal(t, "match cancelled: host left", payload.CancelMessage)
	assert.Equal(t, 15, payload.Scoreboard[0].Score)

	require.Eventually(t, func() bool { return fx.results.callCount() == 1 },
		2*time.Second, time.Millisecond)
}

func TestRoundEndsExactlyOnce(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))
	fx.waitGuessing(t)

	fx.ctrl.endRound(true)
	fx.ctrl.endRound(true)
	fx.ctrl.endRound(false)

	assert.Equal(t, 1, fx.notifier.countOf(domain.EventRoundEnded))
}

func TestCatalogFailureFinishesMatch(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
	fx.catalog.mu.Lock()
	fx.catalog.fail = true
	fx.catalog.mu.Unlock()

	require.NoError(t, fx.ctrl.Start(fx.host().ID))

	require.Eventually(t, func() bool { return fx.ctrl.CurrentState() == StateFinished },
		2*time.Second, time.Millisecond)
	finished := fx.notifier.ofType(domain.EventMatchFinished)
	require.Len(t, finished, 1)
	assert.Contains(t, finished[0].ev.Content.(domain.MatchFinishedPayload).CancelMessage, "content catalog unavailable")
}

func TestSongsAreNotRepeatedWithinAMatch(t *testing.T) {
	fx := newControllerFixture(t, defaultConfig(2), "alice", "bob")
	require.NoError(t, fx.ctrl.Start(fx.host().ID))

	seen := make(map[string]bool)
	for turn := 0; turn < 4; turn++ {
		fx.waitGuessing(t)
		fx.ctrl.mu.Lock()
		title := fx.ctrl.currentSong.Title
		fx.ctrl.mu.Unlock()
		assert.False(t, seen[title], "song %q repeated", title)
		seen[title] = true
		fx.ctrl.SubmitChat(context.Background(), fx.guessers(t)[0].ID, "!guessed 10")
		if fx.ctrl.CurrentState() == StateFinished {
			break
		}
	}
	require.Eventually(t, func() bool { return fx.ctrl.CurrentState() == StateFinished },
		2*time.Second, time.Millisecond)
	assert.Len(t, seen, 4, "two rounds of two turns draw four distinct songs")
}
