package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"drawsong-service/domain"

	"github.com/segmentio/kafka-go"
)

// matchResultMessage is the wire format published to the results topic.
type matchResultMessage struct {
	RoomCode      string              `json:"room_code"`
	Scoreboard    []domain.ScoreEntry `json:"scoreboard"`
	CancelMessage string              `json:"cancel_message,omitempty"`
	FinishedAt    time.Time           `json:"finished_at"`
}

// Producer publishes finished-match summaries for downstream consumers
// (stats, leaderboards).
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	conn, err := kafka.DialContext(context.Background(), "tcp", brokers[0])
	if err != nil {
		return nil, fmt.Errorf("failed to connect to kafka: %w", err)
	}
	conn.Close()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}

	log.Printf("Kafka producer initialized for topic %s", topic)
	return &Producer{writer: writer}, nil
}

// PublishMatchResult emits one message per finished match, keyed by room
// code so results for the same room land on the same partition.
func (p *Producer) PublishMatchResult(ctx context.Context, roomCode string, scoreboard []domain.ScoreEntry, cancelMessage string) error {
	payload, err := json.Marshal(matchResultMessage{
		RoomCode:      roomCode,
		Scoreboard:    scoreboard,
		CancelMessage: cancelMessage,
		FinishedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode match result: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(roomCode),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish match result: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
