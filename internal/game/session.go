package game

import (
	"errors"
	"log"
	"sync"
	"time"
)

// RoomStore is the lookup surface the session needs from the backing store.
type RoomStore interface {
	GetRoom(code string) (*Room, error)
}

// Session drives the game loop for rooms: it exposes the game operations to
// the application layer and runs one watcher goroutine per playing room that
// polls for phase expiry about once a second.
type Session struct {
	store    RoomStore
	onChange func(roomCode string)

	pollInterval time.Duration

	mu       sync.Mutex
	watching map[string]struct{}
}

// NewSession creates a session. onChange is invoked after every committed
// state change and may be nil.
func NewSession(store RoomStore, onChange func(roomCode string)) *Session {
	return &Session{
		store:        store,
		onChange:     onChange,
		pollInterval: time.Second,
		watching:     make(map[string]struct{}),
	}
}

func (s *Session) changed(code string) {
	if s.onChange != nil {
		s.onChange(code)
	}
}

// StartGame starts the game in a room and begins watching its deadlines.
func (s *Session) StartGame(code, callerID string) error {
	room, err := s.store.GetRoom(code)
	if err != nil {
		return err
	}
	if err := room.Start(callerID, time.Now()); err != nil {
		return err
	}
	s.watch(room)
	s.changed(code)
	return nil
}

// SubmitNightAction records a night action for the acting player.
func (s *Session) SubmitNightAction(code, actorID, targetID string) error {
	room, err := s.store.GetRoom(code)
	if err != nil {
		return err
	}
	if err := room.SubmitNightAction(actorID, targetID); err != nil {
		return err
	}
	s.changed(code)
	return nil
}

// ResolveNight force-resolves the night before its deadline, owner only.
// Losing the race to a concurrent resolver is not an error: the state has
// already advanced.
func (s *Session) ResolveNight(code, callerID string) error {
	room, err := s.store.GetRoom(code)
	if err != nil {
		return err
	}
	if !room.IsOwner(callerID) {
		return ErrNotRoomOwner
	}
	if _, err := room.ResolveNight(room.CurrentCycle(), time.Now()); err != nil {
		if errors.Is(err, ErrConcurrentResolutionLost) {
			return nil
		}
		return err
	}
	s.changed(code)
	return nil
}

// StartVote moves the room from day to vote before the day deadline, owner
// only.
func (s *Session) StartVote(code, callerID string) error {
	room, err := s.store.GetRoom(code)
	if err != nil {
		return err
	}
	if !room.IsOwner(callerID) {
		return ErrNotRoomOwner
	}
	if err := room.BeginVote(room.CurrentCycle(), time.Now()); err != nil {
		if errors.Is(err, ErrConcurrentResolutionLost) {
			return nil
		}
		return err
	}
	s.changed(code)
	return nil
}

// SubmitVote records one vote.
func (s *Session) SubmitVote(code, voterID, targetID string) error {
	room, err := s.store.GetRoom(code)
	if err != nil {
		return err
	}
	if err := room.SubmitVote(voterID, targetID); err != nil {
		return err
	}
	s.changed(code)
	return nil
}

// ResolveVote force-resolves the vote before its deadline, owner only.
func (s *Session) ResolveVote(code, callerID string) error {
	room, err := s.store.GetRoom(code)
	if err != nil {
		return err
	}
	if !room.IsOwner(callerID) {
		return ErrNotRoomOwner
	}
	if _, err := room.ResolveVote(room.CurrentCycle(), time.Now()); err != nil {
		if errors.Is(err, ErrConcurrentResolutionLost) {
			return nil
		}
		return err
	}
	s.changed(code)
	return nil
}

// watch starts the deadline poller for a room, once.
func (s *Session) watch(room *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watching[room.Code]; ok {
		return
	}
	s.watching[room.Code] = struct{}{}
	go s.watchRoom(room)
}

func (s *Session) watchRoom(room *Room) {
	defer func() {
		s.mu.Lock()
		delete(s.watching, room.Code)
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		advanced, err := room.AdvanceIfExpired(time.Now())
		if err != nil {
			log.Printf("room %s: advance failed: %v", room.Code, err)
			continue
		}
		if advanced {
			s.changed(room.Code)
		}
		if room.Ended() {
			return
		}
	}
}
