package httpHandler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"drawsong-service/domain"
	httpUsecase "drawsong-service/internal/api/http/usecase"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	UserID        uuid.UUID `reqHeader:"X-User-ID" validate:"required"`
	Username      string    `json:"username" validate:"required,min=2,max=32"`
	Rounds        int       `json:"rounds" validate:"required"`
	RoundDuration int       `json:"round_duration" validate:"required"`
	Difficulty    string    `json:"difficulty"`
	Language      string    `json:"language"`
}

type CreateRoomResponse struct {
	Room RoomView `json:"room"`
}

type CreateRoomHandler struct {
	usecase httpUsecase.CreateRoomUseCase
}

func NewCreateRoomHandler(usecase httpUsecase.CreateRoomUseCase) *CreateRoomHandler {
	return &CreateRoomHandler{usecase: usecase}
}

func (h *CreateRoomHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *CreateRoomRequest) (*CreateRoomResponse, int, error) {
	cfg := domain.RoomConfig{
		Rounds:        req.Rounds,
		RoundDuration: req.RoundDuration,
		Difficulty:    domain.Difficulty(req.Difficulty),
		Language:      req.Language,
	}
	room, status, err := h.usecase.Execute(ctx, req.UserID, req.Username, cfg)
	if err != nil {
		return nil, status, err
	}
	return &CreateRoomResponse{Room: toRoomView(room)}, status, nil
}
