package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mafia/internal/game"
)

type createRoomRequest struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// CreateRoom creates a room; the creator joins it as the owner.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decodeBody(r, &req); err != nil || req.Nickname == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "nickname is required"})
		return
	}

	room, err := h.store.CreateRoom()
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	player := game.NewPlayer(uuid.NewString(), req.Nickname, req.Avatar)
	if err := room.AddPlayer(player); err != nil {
		respondError(w, err)
		return
	}

	log.Printf("room %s created by %s", room.Code, player.Nickname)
	setPlayerCookie(w, room.Code, player.ID)
	respondJSON(w, http.StatusCreated, room.View(player.ID))
}

// JoinRoom adds a player to a lobby.
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	var req createRoomRequest
	if err := decodeBody(r, &req); err != nil || req.Nickname == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "nickname is required"})
		return
	}

	room, err := h.store.GetRoom(roomCode)
	if err != nil {
		respondError(w, err)
		return
	}

	player := game.NewPlayer(uuid.NewString(), req.Nickname, req.Avatar)
	if err := room.AddPlayer(player); err != nil {
		respondError(w, err)
		return
	}

	setPlayerCookie(w, room.Code, player.ID)
	h.eventBus.Publish(Event{Type: "player_joined", RoomCode: room.Code})
	respondJSON(w, http.StatusOK, room.View(player.ID))
}

// LeaveRoom removes the calling player from a room.
func (h *Handler) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	room, err := h.store.GetRoom(roomCode)
	if err != nil {
		respondError(w, err)
		return
	}

	id := playerID(r, roomCode)
	if id == "" {
		respondError(w, game.ErrUnknownEntity)
		return
	}

	room.RemovePlayer(id)
	clearPlayerCookie(w, roomCode)
	h.eventBus.Publish(Event{Type: "player_left", RoomCode: roomCode})
	respondJSON(w, http.StatusOK, nil)
}

type readyRequest struct {
	Ready bool `json:"ready"`
}

// SetReady toggles the calling player's ready flag.
func (h *Handler) SetReady(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	var req readyRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}

	room, err := h.store.GetRoom(roomCode)
	if err != nil {
		respondError(w, err)
		return
	}

	id := playerID(r, roomCode)
	if err := room.SetReady(id, req.Ready); err != nil {
		respondError(w, err)
		return
	}

	h.eventBus.Publish(Event{Type: "player_ready", RoomCode: roomCode})
	respondJSON(w, http.StatusOK, room.View(id))
}

type targetRequest struct {
	TargetID string `json:"targetId"`
}

// KickPlayer removes a player at the owner's request.
func (h *Handler) KickPlayer(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	var req targetRequest
	if err := decodeBody(r, &req); err != nil || req.TargetID == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "targetId is required"})
		return
	}

	room, err := h.store.GetRoom(roomCode)
	if err != nil {
		respondError(w, err)
		return
	}

	id := playerID(r, roomCode)
	if err := room.KickPlayer(id, req.TargetID); err != nil {
		respondError(w, err)
		return
	}

	h.eventBus.Publish(Event{Type: "player_kicked", RoomCode: roomCode})
	respondJSON(w, http.StatusOK, room.View(id))
}

// UpdateSettings replaces the room's phase durations.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	var req game.Settings
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}

	room, err := h.store.GetRoom(roomCode)
	if err != nil {
		respondError(w, err)
		return
	}

	id := playerID(r, roomCode)
	if err := room.UpdateSettings(id, req); err != nil {
		respondError(w, err)
		return
	}

	h.eventBus.Publish(Event{Type: "settings_changed", RoomCode: roomCode})
	respondJSON(w, http.StatusOK, room.View(id))
}

// StartGame deals roles and starts the first night.
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	id := playerID(r, roomCode)
	if err := h.session.StartGame(roomCode, id); err != nil {
		respondError(w, err)
		return
	}

	log.Printf("room %s: game started", roomCode)
	h.respondSnapshot(w, roomCode, id)
}

// SubmitNightAction records the calling player's night action.
func (h *Handler) SubmitNightAction(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	var req targetRequest
	if err := decodeBody(r, &req); err != nil || req.TargetID == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "targetId is required"})
		return
	}

	id := playerID(r, roomCode)
	if err := h.session.SubmitNightAction(roomCode, id, req.TargetID); err != nil {
		respondError(w, err)
		return
	}

	h.respondSnapshot(w, roomCode, id)
}

// ResolveNight force-resolves the night before the deadline, owner only.
func (h *Handler) ResolveNight(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	id := playerID(r, roomCode)
	if err := h.session.ResolveNight(roomCode, id); err != nil {
		respondError(w, err)
		return
	}

	h.respondSnapshot(w, roomCode, id)
}

// StartVote moves the room from day into the vote phase, owner only.
func (h *Handler) StartVote(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	id := playerID(r, roomCode)
	if err := h.session.StartVote(roomCode, id); err != nil {
		respondError(w, err)
		return
	}

	h.respondSnapshot(w, roomCode, id)
}

// SubmitVote records the calling player's vote.
func (h *Handler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	var req targetRequest
	if err := decodeBody(r, &req); err != nil || req.TargetID == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "targetId is required"})
		return
	}

	id := playerID(r, roomCode)
	if err := h.session.SubmitVote(roomCode, id, req.TargetID); err != nil {
		respondError(w, err)
		return
	}

	h.respondSnapshot(w, roomCode, id)
}

// ResolveVote force-resolves the vote before the deadline, owner only.
func (h *Handler) ResolveVote(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	id := playerID(r, roomCode)
	if err := h.session.ResolveVote(roomCode, id); err != nil {
		respondError(w, err)
		return
	}

	h.respondSnapshot(w, roomCode, id)
}

// GetRoom returns the snapshot projection for the calling player.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")
	h.respondSnapshot(w, roomCode, playerID(r, roomCode))
}

func (h *Handler) respondSnapshot(w http.ResponseWriter, roomCode, viewerID string) {
	room, err := h.store.GetRoom(roomCode)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room.View(viewerID))
}
