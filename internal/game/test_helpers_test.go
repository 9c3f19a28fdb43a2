package game

import (
	"fmt"
	"time"
)

// buildRoom returns a room already in the night phase with the given roles
// dealt in order to players p0, p1, ... The first player owns the room.
func buildRoom(roles ...Role) *Room {
	r := &Room{
		ID:         "room-1",
		Code:       "TEST1",
		Status:     StatusPlaying,
		Phase:      PhaseNight,
		Players:    make(map[string]*Player),
		Votes:      make(map[string]string),
		Settings:   Settings{NightSeconds: 60, DaySeconds: 60, VoteSeconds: 60},
		MaxPlayers: 12,
		CreatedAt:  time.Now(),
		StartedAt:  time.Now(),
	}
	for i, role := range roles {
		p := NewPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player%d", i), "")
		p.Role = role
		p.IsReady = true
		r.Players[p.ID] = p
	}
	r.OwnerPlayerID = "p0"
	r.PhaseEndsAt = time.Now().Add(time.Minute)
	return r
}

// buildLobby returns a lobby room with n unassigned, ready players.
func buildLobby(n int) *Room {
	r := &Room{
		ID:         "room-1",
		Code:       "TEST1",
		Status:     StatusLobby,
		Phase:      PhaseLobby,
		Players:    make(map[string]*Player),
		Votes:      make(map[string]string),
		Settings:   Settings{NightSeconds: 60, DaySeconds: 60, VoteSeconds: 60},
		MaxPlayers: 12,
		CreatedAt:  time.Now(),
	}
	for i := 0; i < n; i++ {
		p := NewPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player%d", i), "")
		p.IsReady = true
		r.Players[p.ID] = p
		if i == 0 {
			r.OwnerPlayerID = p.ID
		}
	}
	return r
}

// beginVote fast-forwards a room from night into the vote phase.
func beginVote(r *Room) {
	now := time.Now()
	r.ResolveNight(r.CurrentCycle(), now)
	r.BeginVote(r.CurrentCycle(), now)
}
