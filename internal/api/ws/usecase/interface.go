package wsUsecase

import (
	"context"

	"drawsong-service/domain"
)

// SessionStore resolves a connection token into the authenticated user
// behind it.
type SessionStore interface {
	GetSession(ctx context.Context, token string) (*domain.UserSession, error)
}
