package httpHandler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	httpUsecase "drawsong-service/internal/api/http/usecase"

	"github.com/google/uuid"
)

type JoinRoomRequest struct {
	UserID   uuid.UUID `reqHeader:"X-User-ID" validate:"required"`
	RoomCode string    `params:"room_code" validate:"required,len=6"`
	Username string    `json:"username" validate:"required,min=2,max=32"`
}

type JoinRoomResponse struct {
	Room RoomView `json:"room"`
}

type JoinRoomHandler struct {
	usecase httpUsecase.JoinRoomUseCase
}

func NewJoinRoomHandler(usecase httpUsecase.JoinRoomUseCase) *JoinRoomHandler {
	return &JoinRoomHandler{usecase: usecase}
}

func (h *JoinRoomHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *JoinRoomRequest) (*JoinRoomResponse, int, error) {
	room, status, err := h.usecase.Execute(ctx, req.RoomCode, req.UserID, req.Username)
	if err != nil {
		return nil, status, err
	}
	return &JoinRoomResponse{Room: toRoomView(room)}, status, nil
}
