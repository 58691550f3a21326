package bootstrap

import (
	"context"

	"drawsong-service/config"
	"drawsong-service/domain"
	"drawsong-service/internal/initializer"
)

type Messaging interface {
	PublishMatchResult(ctx context.Context, roomCode string, scoreboard []domain.ScoreEntry, cancelMessage string) error
	Close() error
}

func InitKafka(config config.Config) Messaging {
	return initializer.InitKafka(config)
}
