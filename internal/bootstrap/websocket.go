package bootstrap

import (
	gameHub "drawsong-service/internal/api/ws/hub"
	"drawsong-service/internal/initializer"
	"drawsong-service/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func InitWebsocket() (*gameHub.Hub, *gameHub.ChatHub) {
	return initializer.InitWebsocket()
}

// SetupDirectory builds the room directory on top of the push hub and wires
// dead-connection pruning back into room membership.
func SetupDirectory(repo PostgresRepository, hub *gameHub.Hub, results *matchResultSink) *session.Directory {
	directory := session.NewDirectory(repo, hub, results)

	hub.OnCallbackInvalid(func(roomCode string, playerID uuid.UUID) {
		if err := directory.LeaveRoom(roomCode, playerID); err != nil {
			zap.L().Debug("failed to drop player with broken connection",
				zap.String("room_code", roomCode),
				zap.String("player_id", playerID.String()),
				zap.Error(err))
		}
	})

	return directory
}
