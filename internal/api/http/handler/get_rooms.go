package httpHandler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	httpUsecase "drawsong-service/internal/api/http/usecase"
)

type GetRoomsRequest struct{}

type GetRoomsResponse struct {
	Rooms []RoomView `json:"rooms"`
}

type GetRoomsHandler struct {
	usecase httpUsecase.GetRoomsUseCase
}

func NewGetRoomsHandler(usecase httpUsecase.GetRoomsUseCase) *GetRoomsHandler {
	return &GetRoomsHandler{usecase: usecase}
}

func (h *GetRoomsHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *GetRoomsRequest) (*GetRoomsResponse, int, error) {
	rooms, status, err := h.usecase.Execute(ctx)
	if err != nil {
		return nil, status, err
	}
	views := make([]RoomView, 0, len(rooms))
	for i := range rooms {
		views = append(views, toRoomView(&rooms[i]))
	}
	return &GetRoomsResponse{Rooms: views}, status, nil
}
