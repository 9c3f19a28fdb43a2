package game

import "errors"

var (
	// Core failure taxonomy.
	ErrInvalidPlayerCount       = errors.New("at least 4 players are required to start")
	ErrActionAlreadySubmitted   = errors.New("action already submitted this cycle")
	ErrUnknownEntity            = errors.New("room or player not found")
	ErrConcurrentResolutionLost = errors.New("phase already resolved by another caller")

	// Lobby and request validation failures.
	ErrRoomFull           = errors.New("room is full")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrDuplicateNickname  = errors.New("a player with that nickname already exists in the room")
	ErrPlayersNotReady    = errors.New("not all players are ready")
	ErrNotRoomOwner       = errors.New("only the room owner can do that")
	ErrWrongPhase         = errors.New("action not allowed in the current phase")
	ErrNotAlive           = errors.New("dead players cannot act")
	ErrNoNightRole        = errors.New("role has no night action")
	ErrInvalidTarget      = errors.New("target player not found or not alive")
)
