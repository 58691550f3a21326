package httpUsecase

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type KickPlayerUseCase interface {
	Execute(ctx context.Context, code string, requesterID, targetID uuid.UUID) (int, error)
}

type kickPlayerUseCase struct {
	directory GameDirectory
}

func NewKickPlayerUseCase(directory GameDirectory) KickPlayerUseCase {
	return &kickPlayerUseCase{directory: directory}
}

func (u *kickPlayerUseCase) Execute(ctx context.Context, code string, requesterID, targetID uuid.UUID) (int, error) {
	if err := u.directory.KickPlayer(code, requesterID, targetID); err != nil {
		return statusFor(err), err
	}
	return http.StatusOK, nil
}
