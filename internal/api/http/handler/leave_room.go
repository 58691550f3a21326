package httpHandler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	httpUsecase "drawsong-service/internal/api/http/usecase"

	"github.com/google/uuid"
)

type LeaveRoomRequest struct {
	UserID   uuid.UUID `reqHeader:"X-User-ID" validate:"required"`
	RoomCode string    `params:"room_code" validate:"required,len=6"`
}

type LeaveRoomResponse struct {
	Message string `json:"message"`
}

type LeaveRoomHandler struct {
	usecase httpUsecase.LeaveRoomUseCase
}

func NewLeaveRoomHandler(usecase httpUsecase.LeaveRoomUseCase) *LeaveRoomHandler {
	return &LeaveRoomHandler{usecase: usecase}
}

func (h *LeaveRoomHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *LeaveRoomRequest) (*LeaveRoomResponse, int, error) {
	status, err := h.usecase.Execute(ctx, req.RoomCode, req.UserID)
	if err != nil {
		return nil, status, err
	}
	return &LeaveRoomResponse{Message: "left room"}, status, nil
}
