package bootstrap

import (
	"context"
	"errors"

	"drawsong-service/domain"
)

// matchResultSink persists finished matches to Postgres and announces them
// on Kafka. Both targets are attempted even if one fails.
type matchResultSink struct {
	repo     PostgresRepository
	producer Messaging
}

func NewMatchResultSink(repo PostgresRepository, producer Messaging) *matchResultSink {
	return &matchResultSink{
		repo:     repo,
		producer: producer,
	}
}

func (s *matchResultSink) PublishMatchResult(ctx context.Context, roomCode string, scoreboard []domain.ScoreEntry, cancelMessage string) error {
	saveErr := s.repo.SaveMatchResult(ctx, roomCode, scoreboard, cancelMessage)
	publishErr := s.producer.PublishMatchResult(ctx, roomCode, scoreboard, cancelMessage)
	return errors.Join(saveErr, publishErr)
}
