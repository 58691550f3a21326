package bootstrap

import (
	httpHandler "drawsong-service/internal/api/http/handler"
	httpUsecase "drawsong-service/internal/api/http/usecase"
	wsHandler "drawsong-service/internal/api/ws/handler"
	gameHub "drawsong-service/internal/api/ws/hub"
	wsUsecase "drawsong-service/internal/api/ws/usecase"
	"drawsong-service/internal/session"
)

func SetupHTTPHandlers(directory *session.Directory) map[string]interface{} {

	createRoomUseCase := httpUsecase.NewCreateRoomUseCase(directory)
	createRoomHandler := httpHandler.NewCreateRoomHandler(createRoomUseCase)

	joinRoomUseCase := httpUsecase.NewJoinRoomUseCase(directory)
	joinRoomHandler := httpHandler.NewJoinRoomHandler(joinRoomUseCase)

	leaveRoomUseCase := httpUsecase.NewLeaveRoomUseCase(directory)
	leaveRoomHandler := httpHandler.NewLeaveRoomHandler(leaveRoomUseCase)

	kickPlayerUseCase := httpUsecase.NewKickPlayerUseCase(directory)
	kickPlayerHandler := httpHandler.NewKickPlayerHandler(kickPlayerUseCase)

	startMatchUseCase := httpUsecase.NewStartMatchUseCase(directory)
	startMatchHandler := httpHandler.NewStartMatchHandler(startMatchUseCase)

	updateConfigUseCase := httpUsecase.NewUpdateRoomConfigUseCase(directory)
	updateConfigHandler := httpHandler.NewUpdateRoomConfigHandler(updateConfigUseCase)

	getRoomsUseCase := httpUsecase.NewGetRoomsUseCase(directory)
	getRoomsHandler := httpHandler.NewGetRoomsHandler(getRoomsUseCase)

	return map[string]interface{}{
		"create-room":   createRoomHandler,
		"join-room":     joinRoomHandler,
		"leave-room":    leaveRoomHandler,
		"kick-player":   kickPlayerHandler,
		"start-match":   startMatchHandler,
		"update-config": updateConfigHandler,
		"get-rooms":     getRoomsHandler,
	}
}

func SetupWSHandlers(directory *session.Directory, hub *gameHub.Hub, chat *gameHub.ChatHub, sessionManager SessionManager) map[string]interface{} {

	roomStreamUseCase := wsUsecase.NewRoomStreamUseCase(directory, hub, chat, sessionManager)
	roomConnectHandler := wsHandler.NewWebSocketRoomHandler(roomStreamUseCase)

	return map[string]interface{}{
		"room-connect": roomConnectHandler,
	}
}
