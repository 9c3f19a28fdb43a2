package game

import (
	"time"
)

// Role is the closed set of roles a player can hold. RoleUnknown is only
// valid before roles are assigned at game start.
type Role string

const (
	RoleUnknown  Role = "unknown"
	RoleCitizen  Role = "citizen"
	RoleMafia    Role = "mafia"
	RoleDon      Role = "don"
	RoleDoctor   Role = "doctor"
	RoleKomissar Role = "komissar"
)

// ParseRole maps a wire string onto a known role. Unrecognized values are
// rejected at the boundary instead of being stored.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCitizen, RoleMafia, RoleDon, RoleDoctor, RoleKomissar:
		return Role(s), true
	}
	return RoleUnknown, false
}

// IsMafiaAligned reports whether the role belongs to the mafia faction.
func (r Role) IsMafiaAligned() bool {
	return r == RoleMafia || r == RoleDon
}

// HasNightAction reports whether the role acts during the night phase.
func (r Role) HasNightAction() bool {
	switch r {
	case RoleMafia, RoleDon, RoleDoctor, RoleKomissar:
		return true
	}
	return false
}

// CheckResult is the komissar's private investigation outcome. It is only
// ever written to the checking player's record.
type CheckResult struct {
	TargetID  string    `json:"targetId"`
	IsMafia   bool      `json:"isMafia"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Player represents a player in a room.
type Player struct {
	ID       string
	Nickname string
	Avatar   string

	Role    Role
	IsAlive bool

	// Lobby / presence flags.
	IsReady     bool
	IsConnected bool
	IsKicked    bool

	// Per-cycle exactly-once guards, reset when the matching cycle resolves.
	NightSubmitted bool
	VoteSubmitted  bool

	// Visible only to this player.
	LastCheckResult *CheckResult

	JoinedAt time.Time
}

// NewPlayer creates a new player waiting in the lobby.
func NewPlayer(id, nickname, avatar string) *Player {
	return &Player{
		ID:          id,
		Nickname:    nickname,
		Avatar:      avatar,
		Role:        RoleUnknown,
		IsAlive:     true,
		IsConnected: true,
		JoinedAt:    time.Now(),
	}
}
