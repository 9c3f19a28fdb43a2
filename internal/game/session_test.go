package game

import (
	"errors"
	"testing"
)

type stubStore struct {
	rooms map[string]*Room
}

func (s *stubStore) GetRoom(code string) (*Room, error) {
	room, ok := s.rooms[code]
	if !ok {
		return nil, ErrUnknownEntity
	}
	return room, nil
}

func newTestSession(room *Room) (*Session, *int) {
	changes := 0
	s := NewSession(&stubStore{rooms: map[string]*Room{room.Code: room}}, func(string) {
		changes++
	})
	return s, &changes
}

func TestSessionStartGame(t *testing.T) {
	room := buildLobby(5)
	s, changes := newTestSession(room)

	if err := s.StartGame("TEST1", "p1"); !errors.Is(err, ErrNotRoomOwner) {
		t.Fatalf("non-owner start: expected ErrNotRoomOwner, got %v", err)
	}
	if err := s.StartGame("NOPE", "p0"); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("unknown room: expected ErrUnknownEntity, got %v", err)
	}

	if err := s.StartGame("TEST1", "p0"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if room.Status != StatusPlaying {
		t.Errorf("expected playing, got %q", room.Status)
	}
	if *changes != 1 {
		t.Errorf("expected one change notification, got %d", *changes)
	}
}

func TestSessionGameLoop(t *testing.T) {
	room := buildLobby(5)
	s, _ := newTestSession(room)

	if err := s.StartGame("TEST1", "p0"); err != nil {
		t.Fatalf("start: %v", err)
	}

	var mafiaID, doctorID, victimID string
	for _, p := range room.GetPlayers() {
		switch p.Role {
		case RoleMafia:
			mafiaID = p.ID
		case RoleDoctor:
			doctorID = p.ID
		case RoleCitizen:
			victimID = p.ID
		}
	}

	if err := s.SubmitNightAction("TEST1", mafiaID, victimID); err != nil {
		t.Fatalf("night action: %v", err)
	}
	if err := s.SubmitNightAction("TEST1", doctorID, doctorID); err != nil {
		t.Fatalf("doctor self-save: %v", err)
	}

	if err := s.ResolveNight("TEST1", "p1"); !errors.Is(err, ErrNotRoomOwner) {
		t.Fatalf("non-owner resolve: expected ErrNotRoomOwner, got %v", err)
	}
	if err := s.ResolveNight("TEST1", "p0"); err != nil {
		t.Fatalf("resolve night: %v", err)
	}
	if room.Phase != PhaseDay {
		t.Fatalf("expected day, got %q", room.Phase)
	}
	if room.GetPlayer(victimID).IsAlive {
		t.Error("victim should be dead, doctor saved someone else")
	}

	if err := s.StartVote("TEST1", "p0"); err != nil {
		t.Fatalf("start vote: %v", err)
	}
	if room.Phase != PhaseVote {
		t.Fatalf("expected vote, got %q", room.Phase)
	}

	// The room votes out the mafia; town wins.
	for _, p := range room.GetPlayers() {
		if !p.IsAlive || p.ID == mafiaID {
			continue
		}
		if err := s.SubmitVote("TEST1", p.ID, mafiaID); err != nil {
			t.Fatalf("vote from %s: %v", p.ID, err)
		}
	}
	if err := s.ResolveVote("TEST1", "p0"); err != nil {
		t.Fatalf("resolve vote: %v", err)
	}

	if room.Status != StatusEnded || room.Winner != WinnerTown {
		t.Errorf("expected town win, got status=%q winner=%q", room.Status, room.Winner)
	}
}

func TestSessionForceResolveAfterRaceIsSilent(t *testing.T) {
	room := buildLobby(5)
	s, _ := newTestSession(room)
	if err := s.StartGame("TEST1", "p0"); err != nil {
		t.Fatalf("start: %v", err)
	}

	// The deadline poller beat the owner to it.
	if err := s.ResolveNight("TEST1", "p0"); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if room.Phase != PhaseDay {
		t.Fatalf("expected day, got %q", room.Phase)
	}

	// Owner's redundant force-resolve observes the advanced state quietly.
	if err := s.ResolveVote("TEST1", "p0"); err != nil {
		t.Fatalf("losing a resolution race must not surface an error, got %v", err)
	}
	if room.Phase != PhaseDay {
		t.Errorf("redundant resolve must not change state, got %q", room.Phase)
	}
}

func TestSessionSubmitThroughUnknownRoom(t *testing.T) {
	room := buildLobby(5)
	s, _ := newTestSession(room)

	if err := s.SubmitNightAction("NOPE", "p0", "p1"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
	if err := s.SubmitVote("NOPE", "p0", "p1"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
}
