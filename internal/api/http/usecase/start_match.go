package httpUsecase

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type StartMatchUseCase interface {
	Execute(ctx context.Context, code string, requesterID uuid.UUID) (int, error)
}

type startMatchUseCase struct {
	directory GameDirectory
}

func NewStartMatchUseCase(directory GameDirectory) StartMatchUseCase {
	return &startMatchUseCase{directory: directory}
}

func (u *startMatchUseCase) Execute(ctx context.Context, code string, requesterID uuid.UUID) (int, error) {
	if err := u.directory.StartMatch(code, requesterID); err != nil {
		return statusFor(err), err
	}
	return http.StatusOK, nil
}
