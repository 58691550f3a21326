package httpHandler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"drawsong-service/domain"
	httpUsecase "drawsong-service/internal/api/http/usecase"

	"github.com/google/uuid"
)

type UpdateRoomConfigRequest struct {
	UserID        uuid.UUID `reqHeader:"X-User-ID" validate:"required"`
	RoomCode      string    `params:"room_code" validate:"required,len=6"`
	Rounds        int       `json:"rounds" validate:"required"`
	RoundDuration int       `json:"round_duration" validate:"required"`
	Difficulty    string    `json:"difficulty"`
	Language      string    `json:"language"`
}

type UpdateRoomConfigResponse struct {
	Message string `json:"message"`
}

type UpdateRoomConfigHandler struct {
	usecase httpUsecase.UpdateRoomConfigUseCase
}

func NewUpdateRoomConfigHandler(usecase httpUsecase.UpdateRoomConfigUseCase) *UpdateRoomConfigHandler {
	return &UpdateRoomConfigHandler{usecase: usecase}
}

func (h *UpdateRoomConfigHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *UpdateRoomConfigRequest) (*UpdateRoomConfigResponse, int, error) {
	cfg := domain.RoomConfig{
		Rounds:        req.Rounds,
		RoundDuration: req.RoundDuration,
		Difficulty:    domain.Difficulty(req.Difficulty),
		Language:      req.Language,
	}
	status, err := h.usecase.Execute(ctx, req.RoomCode, req.UserID, cfg)
	if err != nil {
		return nil, status, err
	}
	return &UpdateRoomConfigResponse{Message: "room updated"}, status, nil
}
