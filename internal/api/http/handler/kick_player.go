package httpHandler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	httpUsecase "drawsong-service/internal/api/http/usecase"

	"github.com/google/uuid"
)

type KickPlayerRequest struct {
	UserID   uuid.UUID `reqHeader:"X-User-ID" validate:"required"`
	RoomCode string    `params:"room_code" validate:"required,len=6"`
	TargetID uuid.UUID `json:"target_id" validate:"required"`
}

type KickPlayerResponse struct {
	Message string `json:"message"`
}

type KickPlayerHandler struct {
	usecase httpUsecase.KickPlayerUseCase
}

func NewKickPlayerHandler(usecase httpUsecase.KickPlayerUseCase) *KickPlayerHandler {
	return &KickPlayerHandler{usecase: usecase}
}

func (h *KickPlayerHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *KickPlayerRequest) (*KickPlayerResponse, int, error) {
	status, err := h.usecase.Execute(ctx, req.RoomCode, req.UserID, req.TargetID)
	if err != nil {
		return nil, status, err
	}
	return &KickPlayerResponse{Message: "player kicked"}, status, nil
}
