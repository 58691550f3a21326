package bootstrap

import (
	"context"

	"drawsong-service/config"
	"drawsong-service/domain"
	"drawsong-service/internal/initializer"
)

type PostgresRepository interface {
	PickRandomSong(ctx context.Context, language string, excludedIDs []int64) (*domain.Song, error)
	CheckAnswer(ctx context.Context, songID int64, text string) (bool, error)
	SaveMatchResult(ctx context.Context, roomCode string, scoreboard []domain.ScoreEntry, cancelMessage string) error
	Close() error
}

func InitDatabase(config config.Config) PostgresRepository {
	return initializer.InitDatabase(config)
}
