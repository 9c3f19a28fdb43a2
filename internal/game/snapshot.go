package game

import (
	"sort"
)

// PlayerView is the roster entry exposed to a viewer. Role and the private
// check result are only populated for the viewer's own entry, or for everyone
// once the game has ended.
type PlayerView struct {
	ID          string `json:"id"`
	Nickname    string `json:"nickname"`
	Avatar      string `json:"avatar,omitempty"`
	IsAlive     bool   `json:"isAlive"`
	IsReady     bool   `json:"isReady"`
	IsConnected bool   `json:"isConnected"`

	Role            Role         `json:"role,omitempty"`
	NightSubmitted  bool         `json:"nightSubmitted,omitempty"`
	VoteSubmitted   bool         `json:"voteSubmitted,omitempty"`
	LastCheckResult *CheckResult `json:"lastCheckResult,omitempty"`
}

// RoomView is the read-only projection of a room for one viewer.
type RoomView struct {
	Code          string   `json:"code"`
	Status        Status   `json:"status"`
	Phase         Phase    `json:"phase"`
	DayNumber     int      `json:"dayNumber"`
	OwnerPlayerID string   `json:"ownerPlayerId"`
	PhaseEndsAtMs int64    `json:"phaseEndsAtMs,omitempty"` // 0 when not time-boxed
	Settings      Settings `json:"settings"`
	Winner        Winner   `json:"winner,omitempty"`

	LastKilledPlayerID     string `json:"lastKilledPlayerId,omitempty"`
	LastEliminatedPlayerID string `json:"lastEliminatedPlayerId,omitempty"`

	Players []PlayerView `json:"players"`
}

// View builds the projection of the room for the given viewer.
func (r *Room) View(viewerID string) RoomView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view := RoomView{
		Code:                   r.Code,
		Status:                 r.Status,
		Phase:                  r.Phase,
		DayNumber:              r.DayNumber,
		OwnerPlayerID:          r.OwnerPlayerID,
		Settings:               r.Settings,
		Winner:                 r.Winner,
		LastKilledPlayerID:     r.LastKilledPlayerID,
		LastEliminatedPlayerID: r.LastEliminatedPlayerID,
	}
	if !r.PhaseEndsAt.IsZero() {
		view.PhaseEndsAtMs = r.PhaseEndsAt.UnixMilli()
	}

	ended := r.Status == StatusEnded
	for _, p := range r.Players {
		pv := PlayerView{
			ID:          p.ID,
			Nickname:    p.Nickname,
			Avatar:      p.Avatar,
			IsAlive:     p.IsAlive,
			IsReady:     p.IsReady,
			IsConnected: p.IsConnected,
		}
		if ended || p.ID == viewerID {
			pv.Role = p.Role
		}
		if p.ID == viewerID {
			pv.NightSubmitted = p.NightSubmitted
			pv.VoteSubmitted = p.VoteSubmitted
			pv.LastCheckResult = p.LastCheckResult
		}
		view.Players = append(view.Players, pv)
	}
	sort.Slice(view.Players, func(i, j int) bool {
		return view.Players[i].ID < view.Players[j].ID
	})
	return view
}
