package wsHandler

import (
	"context"

	"drawsong-service/domain"
	wsUsecase "drawsong-service/internal/api/ws/usecase"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// WebSocketRoomHandler upgrades a client onto its room's event stream.
type WebSocketRoomHandler struct {
	usecase wsUsecase.RoomStreamUseCase
}

type WebSocketRoomRequest struct {
}

func NewWebSocketRoomHandler(usecase wsUsecase.RoomStreamUseCase) *WebSocketRoomHandler {
	return &WebSocketRoomHandler{
		usecase: usecase,
	}
}

func (h *WebSocketRoomHandler) HandleWS(c *websocket.Conn, ctx context.Context, req *WebSocketRoomRequest) {
	roomCode := c.Params("room_code")
	token := c.Query("token")
	if token == "" {
		token = c.Headers("X-Session-Token")
	}
	if roomCode == "" || token == "" {
		h.sendErrorAndClose(c, "room code and session token are required")
		return
	}

	h.usecase.Execute(c, ctx, roomCode, token)
}

func (h *WebSocketRoomHandler) sendErrorAndClose(c *websocket.Conn, msg string) {
	errorMessage := domain.WebSocketErrorMessage{
		Type:    "error",
		Message: msg,
	}
	if err := c.WriteJSON(errorMessage); err != nil {
		zap.L().Debug("failed to send error message to client", zap.Error(err))
	}
	c.Close()
}
