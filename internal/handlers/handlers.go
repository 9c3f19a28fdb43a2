package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"mafia/internal/config"
	"mafia/internal/game"
	"mafia/internal/store"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store    *store.MemoryStore
	session  *game.Session
	eventBus *EventBus
	cfg      *config.ServerConfig
}

// New creates a new handler with its own event bus and room session.
func New(s *store.MemoryStore, cfg *config.ServerConfig) *Handler {
	h := &Handler{
		store:    s,
		eventBus: NewEventBus(),
		cfg:      cfg,
	}
	h.session = game.NewSession(s, func(roomCode string) {
		h.eventBus.Publish(Event{Type: "room_changed", RoomCode: roomCode})
	})
	return h
}

// Store returns the handler's store (for testing).
func (h *Handler) Store() *store.MemoryStore {
	return h.store
}

// Session returns the handler's room session (for testing).
func (h *Handler) Session() *game.Session {
	return h.session
}

// Event represents a game event.
type Event struct {
	Type     string
	RoomCode string
}

// EventBus manages event subscriptions per room.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan Event),
	}
}

// Subscribe subscribes to events for a room.
func (eb *EventBus) Subscribe(roomCode string) chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan Event, 10)
	eb.subscribers[roomCode] = append(eb.subscribers[roomCode], ch)
	return ch
}

// Unsubscribe removes a subscription.
func (eb *EventBus) Unsubscribe(roomCode string, ch chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subscribers[roomCode]
	for i, sub := range subs {
		if sub == ch {
			eb.subscribers[roomCode] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
}

// Publish publishes an event to all subscribers.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for _, ch := range eb.subscribers[event.RoomCode] {
		select {
		case ch <- event:
		default:
			// Subscriber is behind; it will re-read the snapshot anyway.
		}
	}
}

// playerCookie names the per-room player identity cookie.
func playerCookie(roomCode string) string {
	return "player_" + roomCode
}

// playerID extracts the caller's player id for a room, or "".
func playerID(r *http.Request, roomCode string) string {
	cookie, err := r.Cookie(playerCookie(roomCode))
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setPlayerCookie(w http.ResponseWriter, roomCode, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookie(roomCode),
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	})
}

func clearPlayerCookie(w http.ResponseWriter, roomCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:   playerCookie(roomCode),
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("response encode failed: %v", err)
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// respondError maps the game error taxonomy onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrUnknownEntity):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrNotRoomOwner):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrActionAlreadySubmitted):
		status = http.StatusConflict
	case errors.Is(err, game.ErrRoomFull),
		errors.Is(err, game.ErrGameAlreadyStarted),
		errors.Is(err, game.ErrDuplicateNickname):
		status = http.StatusConflict
	}
	respondJSON(w, status, errorBody{Error: err.Error()})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
