package httpUsecase

import (
	"context"
	"net/http"

	"drawsong-service/domain"

	"github.com/google/uuid"
)

type UpdateRoomConfigUseCase interface {
	Execute(ctx context.Context, code string, requesterID uuid.UUID, cfg domain.RoomConfig) (int, error)
}

type updateRoomConfigUseCase struct {
	directory GameDirectory
}

func NewUpdateRoomConfigUseCase(directory GameDirectory) UpdateRoomConfigUseCase {
	return &updateRoomConfigUseCase{directory: directory}
}

func (u *updateRoomConfigUseCase) Execute(ctx context.Context, code string, requesterID uuid.UUID, cfg domain.RoomConfig) (int, error) {
	if err := u.directory.UpdateConfig(code, requesterID, cfg); err != nil {
		return statusFor(err), err
	}
	return http.StatusOK, nil
}
