package httpUsecase

import (
	"context"
	"net/http"

	"drawsong-service/domain"

	"github.com/google/uuid"
)

type JoinRoomUseCase interface {
	Execute(ctx context.Context, code string, playerID uuid.UUID, username string) (*domain.Room, int, error)
}

type joinRoomUseCase struct {
	directory GameDirectory
}

func NewJoinRoomUseCase(directory GameDirectory) JoinRoomUseCase {
	return &joinRoomUseCase{directory: directory}
}

func (u *joinRoomUseCase) Execute(ctx context.Context, code string, playerID uuid.UUID, username string) (*domain.Room, int, error) {
	room, err := u.directory.JoinRoom(code, playerID, username)
	if err != nil {
		return nil, statusFor(err), err
	}
	return room, http.StatusOK, nil
}
