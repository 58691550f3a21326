package session

import (
	"context"
	"testing"
	"time"

	"drawsong-service/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type directoryFixture struct {
	dir      *Directory
	notifier *fakeNotifier
	results  *fakeResults
}

func newDirectoryFixture() *directoryFixture {
	notifier := &fakeNotifier{}
	results := &fakeResults{}
	catalog := &fakeCatalog{songs: testSongs()}
	dir := NewDirectory(catalog, notifier, results)
	dir.newController = func(code string, cfg domain.RoomConfig, members []*domain.Player) *Controller {
		ctrl := NewController(code, cfg, members, catalog, notifier, results)
		ctrl.getReadyDelay = time.Millisecond
		ctrl.timer = NewRoundTimer(time.Duration(cfg.RoundDuration)*time.Second, 20*time.Millisecond,
			func() { ctrl.endRound(true) }, ctrl.prepareNextRound)
		ctrl.guesses = NewGuessValidator(catalog, ctrl.timer)
		return ctrl
	}
	return &directoryFixture{
		dir:      dir,
		notifier: notifier,
		results:  results,
	}
}

func validRoomConfig() domain.RoomConfig {
	return domain.RoomConfig{Rounds: 2, RoundDuration: 60}
}

func TestCreateRoomValidation(t *testing.T) {
	fx := newDirectoryFixture()
	host := uuid.New()

	cases := []struct {
		name string
		cfg  domain.RoomConfig
	}{
		{"zero rounds", domain.RoomConfig{Rounds: 0, RoundDuration: 60}},
		{"too many rounds", domain.RoomConfig{Rounds: domain.MaxRounds + 1, RoundDuration: 60}},
		{"round too short", domain.RoomConfig{Rounds: 2, RoundDuration: domain.MinRoundDuration - 1}},
		{"round too long", domain.RoomConfig{Rounds: 2, RoundDuration: domain.MaxRoundDuration + 1}},
		{"unknown difficulty", domain.RoomConfig{Rounds: 2, RoundDuration: 60, Difficulty: "nightmare"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.dir.CreateRoom(host, "alice", tc.cfg)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateRoomDefaults(t *testing.T) {
	fx := newDirectoryFixture()
	room, err := fx.dir.CreateRoom(uuid.New(), "alice", validRoomConfig())
	require.NoError(t, err)

	assert.Len(t, room.Code, 6)
	assert.Equal(t, domain.DifficultyMedium, room.Config.Difficulty)
	assert.Equal(t, "en", room.Config.Language)
	assert.Equal(t, domain.RoomStatusWaiting, room.Status)
	require.Len(t, room.Members, 1)
	assert.True(t, room.Members[0].IsHost)
}

func TestJoinRoomGuards(t *testing.T) {
	fx := newDirectoryFixture()
	host := uuid.New()
	room, err := fx.dir.CreateRoom(host, "alice", validRoomConfig())
	require.NoError(t, err)

	t.Run("unknown room", func(t *testing.T) {
		_, err := fx.dir.JoinRoom("NOPE99", uuid.New(), "bob")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := fx.dir.JoinRoom(room.Code, uuid.New(), "alice")
		assert.ErrorIs(t, err, domain.ErrNameTaken)
	})

	t.Run("room full", func(t *testing.T) {
		_, err := fx.dir.JoinRoom(room.Code, uuid.New(), "bob")
		require.NoError(t, err)
		_, err = fx.dir.JoinRoom(room.Code, uuid.New(), "carol")
		require.NoError(t, err)
		_, err = fx.dir.JoinRoom(room.Code, uuid.New(), "dave")
		require.NoError(t, err)

		_, err = fx.dir.JoinRoom(room.Code, uuid.New(), "eve")
		assert.ErrorIs(t, err, domain.ErrRoomFull)
	})
}

func TestJoinAnnouncesPresence(t *testing.T) {
	fx := newDirectoryFixture()
	room, err := fx.dir.CreateRoom(uuid.New(), "alice", validRoomConfig())
	require.NoError(t, err)

	joined, err := fx.dir.JoinRoom(room.Code, uuid.New(), "bob")
	require.NoError(t, err)
	assert.Len(t, joined.Members, 2)

	require.Equal(t, 1, fx.notifier.countOf(domain.EventPlayerJoined))
	assert.Equal(t, 1, fx.notifier.countOf(domain.EventRoomUpdated))
}

func TestKickPlayer(t *testing.T) {
	fx := newDirectoryFixture()
	host := uuid.New()
	target := uuid.New()
	room, err := fx.dir.CreateRoom(host, "alice", validRoomConfig())
	require.NoError(t, err)
	_, err = fx.dir.JoinRoom(room.Code, target, "bob")
	require.NoError(t, err)

	t.Run("host only", func(t *testing.T) {
		err := fx.dir.KickPlayer(room.Code, target, host)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("host cannot kick themselves", func(t *testing.T) {
		err := fx.dir.KickPlayer(room.Code, host, host)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("kicked player is banned from rejoining", func(t *testing.T) {
		require.NoError(t, fx.dir.KickPlayer(room.Code, host, target))
		assert.Equal(t, 1, fx.notifier.countOf(domain.EventPlayerKicked))

		_, err := fx.dir.JoinRoom(room.Code, target, "bob2")
		assert.ErrorIs(t, err, domain.ErrBanned)
	})
}

func TestUpdateConfig(t *testing.T) {
	fx := newDirectoryFixture()
	host := uuid.New()
	room, err := fx.dir.CreateRoom(host, "alice", validRoomConfig())
	require.NoError(t, err)

	t.Run("host only", func(t *testing.T) {
		err := fx.dir.UpdateConfig(room.Code, uuid.New(), validRoomConfig())
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("applies and broadcasts", func(t *testing.T) {
		cfg := domain.RoomConfig{Rounds: 5, RoundDuration: 90, Difficulty: domain.DifficultyHard}
		require.NoError(t, fx.dir.UpdateConfig(room.Code, host, cfg))

		updated, err := fx.dir.Room(room.Code)
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Config.Rounds)
		assert.Equal(t, domain.DifficultyHard, updated.Config.Difficulty)
	})
}

func TestStartMatch(t *testing.T) {
	fx := newDirectoryFixture()
	host := uuid.New()
	room, err := fx.dir.CreateRoom(host, "alice", validRoomConfig())
	require.NoError(t, err)

	t.Run("needs minimum players", func(t *testing.T) {
		err := fx.dir.StartMatch(room.Code, host)
		assert.ErrorIs(t, err, domain.ErrNotEnough)
		updated, roomErr := fx.dir.Room(room.Code)
		require.NoError(t, roomErr)
		assert.Equal(t, domain.RoomStatusWaiting, updated.Status, "failed start rolls the room back")
	})

	_, err = fx.dir.JoinRoom(room.Code, uuid.New(), "bob")
	require.NoError(t, err)

	t.Run("host only", func(t *testing.T) {
		err := fx.dir.StartMatch(room.Code, uuid.New())
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("starts and locks the room", func(t *testing.T) {
		require.NoError(t, fx.dir.StartMatch(room.Code, host))

		updated, err := fx.dir.Room(room.Code)
		require.NoError(t, err)
		assert.Equal(t, domain.RoomStatusPlaying, updated.Status)

		ctrl, ok := fx.dir.Session(room.Code)
		require.True(t, ok)
		assert.Equal(t, StatePlaying, ctrl.CurrentState())

		_, err = fx.dir.JoinRoom(room.Code, uuid.New(), "late")
		assert.ErrorIs(t, err, domain.ErrRoomPlaying)

		err = fx.dir.UpdateConfig(room.Code, host, validRoomConfig())
		assert.ErrorIs(t, err, domain.ErrRoomPlaying)

		err = fx.dir.StartMatch(room.Code, host)
		assert.ErrorIs(t, err, domain.ErrRoomPlaying)
	})
}

func TestLeaveRoom(t *testing.T) {
	t.Run("regular member leaves", func(t *testing.T) {
		fx := newDirectoryFixture()
		host := uuid.New()
		member := uuid.New()
		room, err := fx.dir.CreateRoom(host, "alice", validRoomConfig())
		require.NoError(t, err)
		_, err = fx.dir.JoinRoom(room.Code, member, "bob")
		require.NoError(t, err)

		require.NoError(t, fx.dir.LeaveRoom(room.Code, member))

		updated, err := fx.dir.Room(room.Code)
		require.NoError(t, err)
		assert.Len(t, updated.Members, 1)
		assert.Equal(t, 1, fx.notifier.countOf(domain.EventPlayerLeft))
	})

	t.Run("host leaving cancels the room", func(t *testing.T) {
		fx := newDirectoryFixture()
		host := uuid.New()
		room, err := fx.dir.CreateRoom(host, "alice", validRoomConfig())
		require.NoError(t, err)
		_, err = fx.dir.JoinRoom(room.Code, uuid.New(), "bob")
		require.NoError(t, err)

		require.NoError(t, fx.dir.LeaveRoom(room.Code, host))

		_, err = fx.dir.Room(room.Code)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 1, fx.notifier.countOf(domain.EventRoomCancelled))
		assert.Contains(t, fx.notifier.dropped, room.Code)
	})

	t.Run("host leaving mid-match delivers a cancelled result", func(t *testing.T) {
		fx := newDirectoryFixture()
		host := uuid.New()
		room, err := fx.dir.CreateRoom(host, "alice", validRoomConfig())
		require.NoError(t, err)
		_, err = fx.dir.JoinRoom(room.Code, uuid.New(), "bob")
		require.NoError(t, err)
		require.NoError(t, fx.dir.StartMatch(room.Code, host))

		require.NoError(t, fx.dir.LeaveRoom(room.Code, host))

		finished := fx.notifier.ofType(domain.EventMatchFinished)
		require.Len(t, finished, 1)
		payload := finished[0].ev.Content.(domain.MatchFinishedPayload)
		assert.Equal(t, "match cancelled: host left", payload.CancelMessage)
		require.Eventually(t, func() bool { return fx.results.callCount() == 1 },
			2*time.Second, time.Millisecond)
	})

	t.Run("last member leaving drops the room", func(t *testing.T) {
		fx := newDirectoryFixture()
		host := uuid.New()
		member := uuid.New()
		room, err := fx.dir.CreateRoom(host, "alice", validRoomConfig())
		require.NoError(t, err)
		_, err = fx.dir.JoinRoom(room.Code, member, "bob")
		require.NoError(t, err)

		require.NoError(t, fx.dir.LeaveRoom(room.Code, member))
		require.NoError(t, fx.dir.LeaveRoom(room.Code, host))

		_, err = fx.dir.Room(room.Code)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestFinishedMatchReturnsRoomToLobby(t *testing.T) {
	fx := newDirectoryFixture()
	host := uuid.New()
	room, err := fx.dir.CreateRoom(host, "alice", domain.RoomConfig{Rounds: 1, RoundDuration: 60})
	require.NoError(t, err)
	_, err = fx.dir.JoinRoom(room.Code, uuid.New(), "bob")
	require.NoError(t, err)
	require.NoError(t, fx.dir.StartMatch(room.Code, host))

	ctrl, ok := fx.dir.Session(room.Code)
	require.True(t, ok)

	// one round with two players is two drawer turns
	for turn := 0; turn < 2; turn++ {
		require.Eventually(t, func() bool {
			ctrl.mu.Lock()
			defer ctrl.mu.Unlock()
			return ctrl.phase == phaseGuessing
		}, 2*time.Second, time.Millisecond, "turn %d never opened", turn+1)
		for _, p := range ctrl.Players() {
			if !p.IsDrawer {
				ctrl.SubmitChat(context.Background(), p.ID, "!guessed 10")
			}
		}
	}

	require.Eventually(t, func() bool { return ctrl.CurrentState() == StateFinished },
		2*time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		_, live := fx.dir.Session(room.Code)
		return !live
	}, 2*time.Second, time.Millisecond, "spent controller is discarded")

	updated, err := fx.dir.Room(room.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomStatusWaiting, updated.Status, "room returns to the lobby")
	assert.Len(t, updated.Members, 2)

	_, err = fx.dir.JoinRoom(room.Code, uuid.New(), "carol")
	assert.NoError(t, err, "lobby accepts new players again")
	require.NoError(t, fx.dir.StartMatch(room.Code, host), "host can start a rematch")
}

func TestListRooms(t *testing.T) {
	fx := newDirectoryFixture()
	assert.Empty(t, fx.dir.ListRooms())

	_, err := fx.dir.CreateRoom(uuid.New(), "alice", validRoomConfig())
	require.NoError(t, err)
	_, err = fx.dir.CreateRoom(uuid.New(), "bob", validRoomConfig())
	require.NoError(t, err)

	rooms := fx.dir.ListRooms()
	assert.Len(t, rooms, 2)
}

func TestRoomCodesAreUnique(t *testing.T) {
	fx := newDirectoryFixture()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		room, err := fx.dir.CreateRoom(uuid.New(), "host", validRoomConfig())
		require.NoError(t, err)
		assert.False(t, seen[room.Code])
		seen[room.Code] = true
	}
}
