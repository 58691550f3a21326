package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"drawsong-service/domain"
)

// SongCatalog is the content-catalog collaborator. Lookups may block on I/O,
// so callers must not hold the session lock across them.
type SongCatalog interface {
	PickRandomSong(ctx context.Context, language string, excludedIDs []int64) (*domain.Song, error)
	CheckAnswer(ctx context.Context, songID int64, text string) (bool, error)
}

// guessedTokenPrefix marks the internal message format used by alternate
// input paths to report an already-scored guess: "!guessed <points>".
const guessedTokenPrefix = "!guessed "

// GuessValidator decides whether a chat message counts as a correct guess for
// the active song and what it is worth.
type GuessValidator struct {
	catalog SongCatalog
	timer   *RoundTimer
}

func NewGuessValidator(catalog SongCatalog, timer *RoundTimer) *GuessValidator {
	return &GuessValidator{catalog: catalog, timer: timer}
}

// CanAttempt reports whether the player is eligible to guess right now:
// the session must be playing with a round actively open, and the player
// present, not the drawer and not already credited this round. Outside the
// guessing phase (get-ready, transition after the title reveal) the message
// is plain chat.
func (v *GuessValidator) CanAttempt(p *domain.Player, state State, phase roundPhase) bool {
	if state != StatePlaying || phase != phaseGuessing || p == nil {
		return false
	}
	return !p.IsDrawer && !p.HasGuessed
}

// CheckGuess reports whether text is a correct guess for the song and how
// many points it earns. A well-formed guessed-token with a positive value is
// accepted as correct carrying its own points; otherwise a catalog-confirmed
// answer is worth the seconds remaining on the round timer.
func (v *GuessValidator) CheckGuess(ctx context.Context, songID int64, text string) (bool, int, error) {
	if points, ok := parseGuessedToken(text); ok {
		return true, points, nil
	}
	correct, err := v.catalog.CheckAnswer(ctx, songID, text)
	if err != nil {
		return false, 0, fmt.Errorf("catalog answer check: %w", err)
	}
	if !correct {
		return false, 0, nil
	}
	return true, v.timer.PointsRemaining(), nil
}

// RecordGuess marks the player as having guessed this round and credits the
// points. Score never decreases.
func (v *GuessValidator) RecordGuess(p *domain.Player, points int) error {
	if p == nil {
		return fmt.Errorf("%w: no player to credit", domain.ErrInvalidInput)
	}
	p.HasGuessed = true
	if points > 0 {
		p.Score += points
	}
	return nil
}

func parseGuessedToken(text string) (int, bool) {
	if !strings.HasPrefix(text, guessedTokenPrefix) {
		return 0, false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(text, guessedTokenPrefix))
	points, err := strconv.Atoi(raw)
	if err != nil || points <= 0 {
		return 0, false
	}
	return points, true
}
