package httpUsecase

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type LeaveRoomUseCase interface {
	Execute(ctx context.Context, code string, playerID uuid.UUID) (int, error)
}

type leaveRoomUseCase struct {
	directory GameDirectory
}

func NewLeaveRoomUseCase(directory GameDirectory) LeaveRoomUseCase {
	return &leaveRoomUseCase{directory: directory}
}

func (u *leaveRoomUseCase) Execute(ctx context.Context, code string, playerID uuid.UUID) (int, error) {
	if err := u.directory.LeaveRoom(code, playerID); err != nil {
		return statusFor(err), err
	}
	return http.StatusOK, nil
}
