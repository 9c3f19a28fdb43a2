package game

import (
	"strings"
	"sync"
	"time"
)

// Status is the coarse lifecycle of a room.
type Status string

const (
	StatusLobby   Status = "lobby"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

// Phase is the current stage of the game loop.
type Phase string

const (
	PhaseLobby Phase = "lobby"
	PhaseNight Phase = "night"
	PhaseDay   Phase = "day"
	PhaseVote  Phase = "vote"
	PhaseEnded Phase = "ended"
)

// Settings holds the per-room phase durations in seconds.
type Settings struct {
	NightSeconds int `json:"nightSeconds"`
	DaySeconds   int `json:"daySeconds"`
	VoteSeconds  int `json:"voteSeconds"`
}

const (
	minPhaseSeconds = 10
	maxPhaseSeconds = 300
)

func clampSeconds(v int) int {
	if v < minPhaseSeconds {
		return minPhaseSeconds
	}
	if v > maxPhaseSeconds {
		return maxPhaseSeconds
	}
	return v
}

// Clamped bounds every duration to [10,300] seconds.
func (s Settings) Clamped() Settings {
	return Settings{
		NightSeconds: clampSeconds(s.NightSeconds),
		DaySeconds:   clampSeconds(s.DaySeconds),
		VoteSeconds:  clampSeconds(s.VoteSeconds),
	}
}

func (s Settings) night() time.Duration { return time.Duration(s.NightSeconds) * time.Second }
func (s Settings) day() time.Duration   { return time.Duration(s.DaySeconds) * time.Second }
func (s Settings) vote() time.Duration  { return time.Duration(s.VoteSeconds) * time.Second }

// NightScratch is the transient per-night pending state. The mafia/don kill
// slot is last-writer-wins within a cycle.
type NightScratch struct {
	KillTargetID  string
	KillByID      string
	SaveTargetID  string
	SaveByID      string
	CheckTargetID string
	CheckByID     string
}

// CycleToken identifies one timed phase instance. A resolution commit carries
// the token it observed; if the room has moved on, the commit loses with
// ErrConcurrentResolutionLost instead of resolving twice.
type CycleToken struct {
	Phase    Phase
	Deadline time.Time
}

// Room represents one game session.
type Room struct {
	ID   string
	Code string

	Status        Status
	Phase         Phase
	DayNumber     int
	OwnerPlayerID string
	PhaseEndsAt   time.Time // zero when the phase is not time-boxed
	Settings      Settings
	Winner        Winner

	Players map[string]*Player

	// Per-cycle scratch state.
	Night NightScratch
	Votes map[string]string // voterID -> targetID

	// Audit of the most recent resolutions.
	LastKilledPlayerID     string
	LastSavedPlayerID      string
	LastEliminatedPlayerID string

	MaxPlayers int
	CreatedAt  time.Time
	StartedAt  time.Time

	mu sync.RWMutex
}

// AddPlayer adds a player to the lobby. The first player to join becomes the
// room owner.
func (r *Room) AddPlayer(player *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusLobby {
		return ErrGameAlreadyStarted
	}
	if len(r.Players) >= r.MaxPlayers {
		return ErrRoomFull
	}
	for _, p := range r.Players {
		if strings.EqualFold(p.Nickname, player.Nickname) {
			return ErrDuplicateNickname
		}
	}

	r.Players[player.ID] = player
	if r.OwnerPlayerID == "" {
		r.OwnerPlayerID = player.ID
	}
	return nil
}

// RemovePlayer removes a player from the lobby. Once the game is playing the
// roster is fixed; disconnects only flip the presence flag.
func (r *Room) RemovePlayer(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusLobby {
		if p, ok := r.Players[playerID]; ok {
			p.IsConnected = false
		}
		return
	}
	delete(r.Players, playerID)
}

// KickPlayer removes a player at the owner's request, lobby only.
func (r *Room) KickPlayer(callerID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.OwnerPlayerID {
		return ErrNotRoomOwner
	}
	if r.Status != StatusLobby {
		return ErrWrongPhase
	}
	p, ok := r.Players[targetID]
	if !ok {
		return ErrUnknownEntity
	}
	p.IsKicked = true
	delete(r.Players, targetID)
	return nil
}

// SetReady flips a player's ready flag, lobby only.
func (r *Room) SetReady(playerID string, ready bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusLobby {
		return ErrWrongPhase
	}
	p, ok := r.Players[playerID]
	if !ok {
		return ErrUnknownEntity
	}
	p.IsReady = ready
	return nil
}

// UpdateSettings replaces the phase durations, owner only, lobby only.
// Durations are clamped rather than rejected.
func (r *Room) UpdateSettings(callerID string, s Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.OwnerPlayerID {
		return ErrNotRoomOwner
	}
	if r.Status != StatusLobby {
		return ErrWrongPhase
	}
	r.Settings = s.Clamped()
	return nil
}

// GetPlayer retrieves a player by id.
func (r *Room) GetPlayer(playerID string) *Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Players[playerID]
}

// GetPlayers returns the roster as a slice.
func (r *Room) GetPlayers() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.playersLocked()
}

func (r *Room) playersLocked() []*Player {
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	return players
}

// IsOwner reports whether the given player owns the room.
func (r *Room) IsOwner(playerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return playerID != "" && playerID == r.OwnerPlayerID
}

// Ended reports whether the game is over.
func (r *Room) Ended() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Status == StatusEnded
}

// CurrentCycle returns the token of the phase instance in progress.
func (r *Room) CurrentCycle() CycleToken {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return CycleToken{Phase: r.Phase, Deadline: r.PhaseEndsAt}
}

func (r *Room) tokenMatchesLocked(token CycleToken, want Phase) bool {
	return r.Phase == want && token.Phase == want && token.Deadline.Equal(r.PhaseEndsAt)
}

// Start begins the game: owner only, at least four players, everyone ready.
// Roles are dealt and the first night starts immediately.
func (r *Room) Start(callerID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusLobby {
		return ErrGameAlreadyStarted
	}
	if callerID != r.OwnerPlayerID {
		return ErrNotRoomOwner
	}

	players := r.playersLocked()
	if len(players) < MinPlayers {
		return ErrInvalidPlayerCount
	}
	for _, p := range players {
		if !p.IsReady {
			return ErrPlayersNotReady
		}
	}

	if err := AssignRoles(players); err != nil {
		return err
	}

	r.Status = StatusPlaying
	r.Phase = PhaseNight
	r.DayNumber = 0
	r.PhaseEndsAt = now.Add(r.Settings.night())
	r.Night = NightScratch{}
	r.Votes = make(map[string]string)
	r.StartedAt = now
	return nil
}

// endLocked commits a terminal win. The winner is set exactly once; phase
// transitions stop here permanently.
func (r *Room) endLocked(winner Winner) {
	r.Winner = winner
	r.Status = StatusEnded
	r.Phase = PhaseEnded
	r.PhaseEndsAt = time.Time{}
}
