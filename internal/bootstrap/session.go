package bootstrap

import (
	"context"

	"drawsong-service/config"
	"drawsong-service/domain"
	"drawsong-service/internal/initializer"
)

type SessionManager interface {
	GetSession(ctx context.Context, token string) (*domain.UserSession, error)
	Close() error
}

func InitSessionRedis(config config.Config) SessionManager {
	return initializer.InitSessionRedis(config)
}
