package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"drawsong-service/domain"

	"github.com/lib/pq"
)

const pickRandomSongQuery = `
	SELECT id, title, artist, COALESCE(category, ''), language_code
	FROM songs
	WHERE language_code = $1 AND NOT (id = ANY($2))
	ORDER BY random()
	LIMIT 1;`

// PickRandomSong returns a random song in the given language, skipping
// the ids already played this match.
func (r *Repository) PickRandomSong(ctx context.Context, language string, excludedIDs []int64) (*domain.Song, error) {
	if excludedIDs == nil {
		excludedIDs = []int64{}
	}

	var song domain.Song
	err := r.db.QueryRowContext(ctx, pickRandomSongQuery, language, pq.Array(excludedIDs)).
		Scan(&song.ID, &song.Title, &song.Artist, &song.Category, &song.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no songs left for language %q", domain.ErrNotFound, language)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick random song: %w", err)
	}
	return &song, nil
}

// CheckAnswer reports whether text matches the title of the given song.
// Comparison ignores case and surrounding whitespace.
func (r *Repository) CheckAnswer(ctx context.Context, songID int64, text string) (bool, error) {
	var title string
	err := r.db.QueryRowContext(ctx, `SELECT title FROM songs WHERE id = $1`, songID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%w: song %d", domain.ErrNotFound, songID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to load song title: %w", err)
	}
	return normalizeTitle(text) == normalizeTitle(title), nil
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
