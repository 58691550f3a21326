package httpUsecase

import (
	"errors"
	"net/http"

	"drawsong-service/domain"

	"github.com/google/uuid"
)

// GameDirectory is the room-lifecycle surface the HTTP layer drives.
type GameDirectory interface {
	CreateRoom(hostID uuid.UUID, username string, cfg domain.RoomConfig) (*domain.Room, error)
	JoinRoom(code string, playerID uuid.UUID, username string) (*domain.Room, error)
	LeaveRoom(code string, playerID uuid.UUID) error
	KickPlayer(code string, requesterID, targetID uuid.UUID) error
	UpdateConfig(code string, requesterID uuid.UUID, cfg domain.RoomConfig) error
	StartMatch(code string, requesterID uuid.UUID) error
	ListRooms() []domain.Room
}

// statusFor maps a domain error onto the HTTP status surfaced to the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrBanned):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrNameTaken),
		errors.Is(err, domain.ErrRoomPlaying),
		errors.Is(err, domain.ErrNotEnough),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
