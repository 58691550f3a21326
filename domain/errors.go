package domain

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrForbidden     = errors.New("forbidden")
	ErrRoomFull      = errors.New("room is full")
	ErrRoomPlaying   = errors.New("match already in progress")
	ErrNotEnough     = errors.New("not enough players")
	ErrBanned        = errors.New("player is banned from this room")
	ErrNameTaken     = errors.New("username already taken in this room")
	ErrPushFailed    = errors.New("push delivery failed")
	ErrMatchFinished = errors.New("match already finished")
)
