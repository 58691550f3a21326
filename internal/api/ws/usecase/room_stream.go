package wsUsecase

import (
	"context"
	"encoding/json"
	"fmt"

	"drawsong-service/domain"
	gameHub "drawsong-service/internal/api/ws/hub"
	"drawsong-service/internal/session"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// RoomStreamUseCase binds one websocket connection to a room: it subscribes
// the client's push handle, runs the read/write pumps, routes inbound
// messages into the session layer and models a dropped connection as an
// explicit leave.
type RoomStreamUseCase interface {
	Execute(c *websocket.Conn, ctx context.Context, roomCode, token string)
}

type roomStreamUseCase struct {
	directory *session.Directory
	hub       *gameHub.Hub
	chat      *gameHub.ChatHub
	sessions  SessionStore
}

func NewRoomStreamUseCase(directory *session.Directory, h *gameHub.Hub, chat *gameHub.ChatHub, sessions SessionStore) RoomStreamUseCase {
	return &roomStreamUseCase{
		directory: directory,
		hub:       h,
		chat:      chat,
		sessions:  sessions,
	}
}

func (u *roomStreamUseCase) Execute(c *websocket.Conn, ctx context.Context, roomCode, token string) {
	userSession, err := u.sessions.GetSession(ctx, token)
	if err != nil {
		sendErrorAndClose(c, "invalid or expired session token")
		return
	}

	room, err := u.directory.Room(roomCode)
	if err != nil {
		sendErrorAndClose(c, fmt.Sprintf("room %s not found", roomCode))
		return
	}
	if room.Member(userSession.UserID) == nil {
		sendErrorAndClose(c, "you are not a member of this room")
		return
	}

	client := &domain.Client{
		ID:       userSession.UserID,
		Username: userSession.Username,
		RoomCode: roomCode,
		Send:     make(chan []byte, 64),
		Conn:     c,
		Done:     make(chan struct{}),
	}

	u.hub.Subscribe(roomCode, client.ID, gameHub.NewClientPusher(client))
	if err := u.chat.Join(roomCode, client.Username, gameHub.NewClientPusher(client)); err != nil {
		zap.L().Warn("lobby chat join failed",
			zap.String("room", roomCode), zap.String("user", client.Username), zap.Error(err))
	}

	go u.hub.WritePump(client)
	u.hub.ReadPump(client, u.handleInbound, u.handleClose)
}

type chatContent struct {
	Text string `json:"text"`
}

func (u *roomStreamUseCase) handleInbound(client *domain.Client, msg *gameHub.InboundMessage) {
	switch msg.Type {
	case "chat_message":
		var content chatContent
		if err := json.Unmarshal(msg.Content, &content); err != nil {
			return
		}
		if ctrl, ok := u.directory.Session(client.RoomCode); ok {
			ctrl.SubmitChat(context.Background(), client.ID, content.Text)
			return
		}
		// No match running yet: the message is lobby chatter.
		u.chat.Send(client.RoomCode, client.Username, content.Text)

	case "stroke":
		var stroke domain.Stroke
		if err := json.Unmarshal(msg.Content, &stroke); err != nil {
			return
		}
		ctrl, ok := u.directory.Session(client.RoomCode)
		if !ok {
			return
		}
		if err := ctrl.SubmitStroke(client.ID, &stroke); err != nil {
			zap.L().Debug("stroke rejected",
				zap.String("room", client.RoomCode), zap.String("player", client.ID.String()))
		}

	case "lobby_message":
		var content chatContent
		if err := json.Unmarshal(msg.Content, &content); err != nil {
			return
		}
		u.chat.Send(client.RoomCode, client.Username, content.Text)

	default:
		zap.L().Debug("unknown inbound message type", zap.String("type", msg.Type))
	}
}

// handleClose runs once per connection. The transport layer is responsible
// for turning a detected disconnect into an explicit leave of the room.
func (u *roomStreamUseCase) handleClose(client *domain.Client) {
	close(client.Done)
	u.hub.Unsubscribe(client.RoomCode, client.ID)
	u.chat.Leave(client.RoomCode, client.Username)
	if err := u.directory.LeaveRoom(client.RoomCode, client.ID); err != nil {
		zap.L().Debug("leave on disconnect",
			zap.String("room", client.RoomCode), zap.String("player", client.ID.String()), zap.Error(err))
	}
}

func sendErrorAndClose(c *websocket.Conn, msg string) {
	errorMessage := domain.WebSocketErrorMessage{
		Type:    "error",
		Message: msg,
	}
	if err := c.WriteJSON(errorMessage); err != nil {
		zap.L().Debug("failed to send error message to client", zap.Error(err))
	}
	c.Close()
}
