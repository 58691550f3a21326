package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"drawsong-service/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionManager validates player session tokens against Redis. Tokens are
// written by the auth layer as a JSON map of user fields keyed by the raw
// token string.
type SessionManager struct {
	client *redis.Client
}

func NewSessionManager(redisAddr string, password string, db int) (*SessionManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	log.Println("Connected to Redis successfully")
	return &SessionManager{
		client: client,
	}, nil
}

func (sm *SessionManager) GetRedisClient() *redis.Client {
	return sm.client
}

// GetSession resolves a session token to the user it belongs to.
func (sm *SessionManager) GetSession(ctx context.Context, token string) (*domain.UserSession, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty session token", domain.ErrInvalidInput)
	}

	data, err := sm.client.Get(ctx, token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: session not found", domain.ErrForbidden)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}

	userID, err := uuid.Parse(fields["id"])
	if err != nil {
		return nil, fmt.Errorf("%w: session has no valid user id", domain.ErrForbidden)
	}
	username := fields["username"]
	if username == "" {
		return nil, fmt.Errorf("%w: session has no username", domain.ErrForbidden)
	}

	return &domain.UserSession{
		UserID:   userID,
		Username: username,
	}, nil
}

func (sm *SessionManager) Close() error {
	return sm.client.Close()
}
