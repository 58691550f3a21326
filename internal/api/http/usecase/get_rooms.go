package httpUsecase

import (
	"context"
	"net/http"

	"drawsong-service/domain"
)

type GetRoomsUseCase interface {
	Execute(ctx context.Context) ([]domain.Room, int, error)
}

type getRoomsUseCase struct {
	directory GameDirectory
}

func NewGetRoomsUseCase(directory GameDirectory) GetRoomsUseCase {
	return &getRoomsUseCase{directory: directory}
}

func (u *getRoomsUseCase) Execute(ctx context.Context) ([]domain.Room, int, error) {
	return u.directory.ListRooms(), http.StatusOK, nil
}
