package httpHandler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	httpUsecase "drawsong-service/internal/api/http/usecase"

	"github.com/google/uuid"
)

type StartMatchRequest struct {
	UserID   uuid.UUID `reqHeader:"X-User-ID" validate:"required"`
	RoomCode string    `params:"room_code" validate:"required,len=6"`
}

type StartMatchResponse struct {
	Message string `json:"message"`
}

type StartMatchHandler struct {
	usecase httpUsecase.StartMatchUseCase
}

func NewStartMatchHandler(usecase httpUsecase.StartMatchUseCase) *StartMatchHandler {
	return &StartMatchHandler{usecase: usecase}
}

func (h *StartMatchHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *StartMatchRequest) (*StartMatchResponse, int, error) {
	status, err := h.usecase.Execute(ctx, req.RoomCode, req.UserID)
	if err != nil {
		return nil, status, err
	}
	return &StartMatchResponse{Message: "match started"}, status, nil
}
