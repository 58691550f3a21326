package initializer

import (
	gameHub "drawsong-service/internal/api/ws/hub"
)

func InitWebsocket() (*gameHub.Hub, *gameHub.ChatHub) {
	return gameHub.NewHub(), gameHub.NewChatHub()
}
