package postgres

import (
	"context"
	"fmt"
	"log"

	"drawsong-service/domain"
)

// SaveMatchResult stores the final scoreboard of a finished or cancelled
// match in a single transaction.
func (r *Repository) SaveMatchResult(ctx context.Context, roomCode string, scoreboard []domain.ScoreEntry, cancelMessage string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var matchID string
	resultQuery := `
		INSERT INTO match_results (room_code, cancel_message)
		VALUES ($1, NULLIF($2, ''))
		RETURNING id`
	if err := tx.QueryRowContext(ctx, resultQuery, roomCode, cancelMessage).Scan(&matchID); err != nil {
		return fmt.Errorf("failed to insert match result: %w", err)
	}

	scoreQuery := `
		INSERT INTO player_scores (match_id, player_id, username, score)
		VALUES ($1, $2, $3, $4)`
	for _, entry := range scoreboard {
		if _, err := tx.ExecContext(ctx, scoreQuery, matchID, entry.PlayerID, entry.Username, entry.Score); err != nil {
			return fmt.Errorf("failed to insert score for %s: %w", entry.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Match result for room %s saved (%d players)", roomCode, len(scoreboard))
	return nil
}
