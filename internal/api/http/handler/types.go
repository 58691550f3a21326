package httpHandler

import (
	"drawsong-service/domain"

	"github.com/google/uuid"
)

type PlayerView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsHost   bool      `json:"is_host"`
	Score    int       `json:"score"`
}

type RoomView struct {
	Code        string            `json:"code"`
	HostID      uuid.UUID         `json:"host_id"`
	Status      string            `json:"status"`
	Config      domain.RoomConfig `json:"config"`
	Players     []PlayerView      `json:"players"`
	PlayerCount int               `json:"player_count"`
}

func toRoomView(room *domain.Room) RoomView {
	view := RoomView{
		Code:        room.Code,
		HostID:      room.HostID,
		Status:      room.Status,
		Config:      room.Config,
		Players:     make([]PlayerView, 0, len(room.Members)),
		PlayerCount: len(room.Members),
	}
	for _, member := range room.Members {
		view.Players = append(view.Players, PlayerView{
			ID:       member.ID,
			Username: member.Username,
			IsHost:   member.IsHost,
			Score:    member.Score,
		})
	}
	return view
}
