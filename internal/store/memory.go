package store

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"mafia/internal/config"
	"mafia/internal/game"
)

// MemoryStore holds all game state in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room // by join code
	byID  map[string]*game.Room
	cfg   *config.ServerConfig
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(cfg *config.ServerConfig) *MemoryStore {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &MemoryStore{
		rooms: make(map[string]*game.Room),
		byID:  make(map[string]*game.Room),
		cfg:   cfg,
	}
}

// CreateRoom creates a new game room with a collision-free join code.
func (s *MemoryStore) CreateRoom() (*game.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for i := 0; i < 10; i++ {
		code = generateRoomCode(s.cfg.Server.RoomCodeLength)
		if _, exists := s.rooms[code]; !exists {
			break
		}
	}
	if _, exists := s.rooms[code]; exists {
		return nil, fmt.Errorf("could not allocate a unique room code")
	}

	room := &game.Room{
		ID:      uuid.NewString(),
		Code:    code,
		Status:  game.StatusLobby,
		Phase:   game.PhaseLobby,
		Players: make(map[string]*game.Player),
		Votes:   make(map[string]string),
		Settings: game.Settings{
			NightSeconds: s.cfg.Game.NightSeconds,
			DaySeconds:   s.cfg.Game.DaySeconds,
			VoteSeconds:  s.cfg.Game.VoteSeconds,
		}.Clamped(),
		MaxPlayers: s.cfg.Server.MaxPlayersPerRoom,
		CreatedAt:  time.Now(),
	}

	s.rooms[code] = room
	s.byID[room.ID] = room
	return room, nil
}

// GetRoom retrieves a room by its join code.
func (s *MemoryStore) GetRoom(code string) (*game.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, exists := s.rooms[code]
	if !exists {
		return nil, fmt.Errorf("room %s: %w", code, game.ErrUnknownEntity)
	}
	return room, nil
}

// GetRoomByID retrieves a room by its internal id.
func (s *MemoryStore) GetRoomByID(id string) (*game.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, exists := s.byID[id]
	if !exists {
		return nil, fmt.Errorf("room %s: %w", id, game.ErrUnknownEntity)
	}
	return room, nil
}

// generateRoomCode generates an alphanumeric join code. Ambiguous characters
// are left in; codes are short-lived.
func generateRoomCode(length int) string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	rand.Read(b)

	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}
	return string(b)
}
