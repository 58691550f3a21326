package httpUsecase

import (
	"context"
	"net/http"

	"drawsong-service/domain"

	"github.com/google/uuid"
)

type CreateRoomUseCase interface {
	Execute(ctx context.Context, hostID uuid.UUID, username string, cfg domain.RoomConfig) (*domain.Room, int, error)
}

type createRoomUseCase struct {
	directory GameDirectory
}

func NewCreateRoomUseCase(directory GameDirectory) CreateRoomUseCase {
	return &createRoomUseCase{directory: directory}
}

func (u *createRoomUseCase) Execute(ctx context.Context, hostID uuid.UUID, username string, cfg domain.RoomConfig) (*domain.Room, int, error) {
	room, err := u.directory.CreateRoom(hostID, username, cfg)
	if err != nil {
		return nil, statusFor(err), err
	}
	return room, http.StatusCreated, nil
}
