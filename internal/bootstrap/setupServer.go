package bootstrap

import (
	"time"

	"drawsong-service/config"
	httpGameHandler "drawsong-service/internal/api/http/handler"
	wsGameHandler "drawsong-service/internal/api/ws/handler"
	"drawsong-service/internal/handler"
	"drawsong-service/internal/server"

	"github.com/gofiber/fiber/v2"
)

func SetupServer(config config.Config, httpHandlers map[string]interface{}, wsHandlers map[string]interface{}) *fiber.App {

	serverConfig := server.Config{
		Port:         config.Server.Port,
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	app := server.NewFiberApp(serverConfig)

	createRoomHandler := httpHandlers["create-room"].(*httpGameHandler.CreateRoomHandler)
	joinRoomHandler := httpHandlers["join-room"].(*httpGameHandler.JoinRoomHandler)
	leaveRoomHandler := httpHandlers["leave-room"].(*httpGameHandler.LeaveRoomHandler)
	kickPlayerHandler := httpHandlers["kick-player"].(*httpGameHandler.KickPlayerHandler)
	startMatchHandler := httpHandlers["start-match"].(*httpGameHandler.StartMatchHandler)
	updateConfigHandler := httpHandlers["update-config"].(*httpGameHandler.UpdateRoomConfigHandler)
	getRoomsHandler := httpHandlers["get-rooms"].(*httpGameHandler.GetRoomsHandler)

	app.Post("/rooms", handler.HandleWithFiber[httpGameHandler.CreateRoomRequest, httpGameHandler.CreateRoomResponse](createRoomHandler))
	app.Get("/rooms", handler.HandleWithFiber[httpGameHandler.GetRoomsRequest, httpGameHandler.GetRoomsResponse](getRoomsHandler))
	app.Post("/rooms/:room_code/join", handler.HandleWithFiber[httpGameHandler.JoinRoomRequest, httpGameHandler.JoinRoomResponse](joinRoomHandler))
	app.Post("/rooms/:room_code/leave", handler.HandleWithFiber[httpGameHandler.LeaveRoomRequest, httpGameHandler.LeaveRoomResponse](leaveRoomHandler))
	app.Post("/rooms/:room_code/kick", handler.HandleWithFiber[httpGameHandler.KickPlayerRequest, httpGameHandler.KickPlayerResponse](kickPlayerHandler))
	app.Post("/rooms/:room_code/start", handler.HandleWithFiber[httpGameHandler.StartMatchRequest, httpGameHandler.StartMatchResponse](startMatchHandler))
	app.Patch("/rooms/:room_code/config", handler.HandleWithFiber[httpGameHandler.UpdateRoomConfigRequest, httpGameHandler.UpdateRoomConfigResponse](updateConfigHandler))

	wsRoute := app.Group("/ws")
	roomConnectHandler := wsHandlers["room-connect"].(*wsGameHandler.WebSocketRoomHandler)
	wsRoute.Get("/room/:room_code", handler.HandleWithFiberWS[wsGameHandler.WebSocketRoomRequest](roomConnectHandler))

	return app
}
