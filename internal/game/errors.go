package game

import "errors"

var (
	// ErrInvalidSeat is returned for out-of-range, occupied or unknown seats.
	ErrInvalidSeat = errors.New("invalid seat")
	// ErrInsufficientPlayers is returned when fewer than two players can be dealt in.
	ErrInsufficientPlayers = errors.New("insufficient players")
	// ErrOutOfTurn is returned when a seat acts while another seat holds the action.
	ErrOutOfTurn = errors.New("out of turn")
	// ErrIllegalAction is returned for actions the acting player may not take.
	ErrIllegalAction = errors.New("illegal action")
	// ErrEngineInternal is returned when the hand had to be aborted.
	ErrEngineInternal = errors.New("engine internal error")
)
