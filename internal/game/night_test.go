package game

import (
	"errors"
	"testing"
	"time"
)

func TestNightSaveBlocksExactKill(t *testing.T) {
	// Scenario: 5 players, mafia targets p3, doctor saves p3.
	room := buildRoom(RoleMafia, RoleDoctor, RoleKomissar, RoleCitizen, RoleCitizen)

	if err := room.SubmitNightAction("p0", "p3"); err != nil {
		t.Fatalf("mafia submit: %v", err)
	}
	if err := room.SubmitNightAction("p1", "p3"); err != nil {
		t.Fatalf("doctor submit: %v", err)
	}

	outcome, err := room.ResolveNight(room.CurrentCycle(), time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if outcome.KilledID != "" {
		t.Errorf("expected no death, got %q", outcome.KilledID)
	}
	if !room.GetPlayer("p3").IsAlive {
		t.Error("saved player should be alive")
	}
	if room.LastKilledPlayerID != "" {
		t.Errorf("lastKilledPlayerId should be empty, got %q", room.LastKilledPlayerID)
	}
	if room.Phase != PhaseDay {
		t.Errorf("expected day phase, got %q", room.Phase)
	}
	if room.DayNumber != 1 {
		t.Errorf("expected day 1, got %d", room.DayNumber)
	}
}

func TestNightSaveElsewhereDoesNotBlock(t *testing.T) {
	// Scenario: 5 players, mafia targets p3, doctor saves p4.
	room := buildRoom(RoleMafia, RoleDoctor, RoleKomissar, RoleCitizen, RoleCitizen)

	if err := room.SubmitNightAction("p0", "p3"); err != nil {
		t.Fatalf("mafia submit: %v", err)
	}
	if err := room.SubmitNightAction("p1", "p4"); err != nil {
		t.Fatalf("doctor submit: %v", err)
	}

	outcome, err := room.ResolveNight(room.CurrentCycle(), time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if outcome.KilledID != "p3" {
		t.Errorf("expected p3 killed, got %q", outcome.KilledID)
	}
	if room.GetPlayer("p3").IsAlive {
		t.Error("killed player should be dead")
	}
	if room.LastKilledPlayerID != "p3" {
		t.Errorf("lastKilledPlayerId: want p3, got %q", room.LastKilledPlayerID)
	}
	if room.Phase != PhaseDay {
		t.Errorf("expected day phase, got %q", room.Phase)
	}
}

func TestNightCheckResultIsPrivate(t *testing.T) {
	room := buildRoom(RoleMafia, RoleDoctor, RoleKomissar, RoleCitizen, RoleCitizen)

	if err := room.SubmitNightAction("p2", "p0"); err != nil {
		t.Fatalf("komissar submit: %v", err)
	}
	if _, err := room.ResolveNight(room.CurrentCycle(), time.Now()); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	checker := room.GetPlayer("p2")
	if checker.LastCheckResult == nil {
		t.Fatal("komissar should have a check result")
	}
	if checker.LastCheckResult.TargetID != "p0" || !checker.LastCheckResult.IsMafia {
		t.Errorf("unexpected check result: %+v", checker.LastCheckResult)
	}

	for _, id := range []string{"p0", "p1", "p3", "p4"} {
		if room.GetPlayer(id).LastCheckResult != nil {
			t.Errorf("player %s should not carry a check result", id)
		}
	}
}

func TestNightCheckTownTarget(t *testing.T) {
	room := buildRoom(RoleMafia, RoleDoctor, RoleKomissar, RoleCitizen, RoleCitizen)

	room.SubmitNightAction("p2", "p3")
	room.ResolveNight(room.CurrentCycle(), time.Now())

	result := room.GetPlayer("p2").LastCheckResult
	if result == nil || result.IsMafia {
		t.Errorf("citizen should check as town, got %+v", result)
	}
}

func TestNightDoubleSubmit(t *testing.T) {
	room := buildRoom(RoleMafia, RoleDoctor, RoleKomissar, RoleCitizen, RoleCitizen)

	if err := room.SubmitNightAction("p0", "p3"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	err := room.SubmitNightAction("p0", "p4")
	if !errors.Is(err, ErrActionAlreadySubmitted) {
		t.Fatalf("expected ErrActionAlreadySubmitted, got %v", err)
	}
	if room.Night.KillTargetID != "p3" {
		t.Errorf("rejected resubmit must not change scratch, kill target is %q", room.Night.KillTargetID)
	}
}

func TestNightDonOverwritesMafiaKill(t *testing.T) {
	// Mafia and don share one kill slot, last writer wins.
	room := buildRoom(RoleMafia, RoleDon, RoleDoctor, RoleKomissar, RoleCitizen,
		RoleCitizen, RoleCitizen, RoleCitizen, RoleCitizen)

	if err := room.SubmitNightAction("p0", "p4"); err != nil {
		t.Fatalf("mafia submit: %v", err)
	}
	if err := room.SubmitNightAction("p1", "p5"); err != nil {
		t.Fatalf("don submit: %v", err)
	}

	if room.Night.KillTargetID != "p5" || room.Night.KillByID != "p1" {
		t.Errorf("expected don's target to win the slot, got %q by %q",
			room.Night.KillTargetID, room.Night.KillByID)
	}
}

func TestNightSubmitValidation(t *testing.T) {
	room := buildRoom(RoleMafia, RoleDoctor, RoleKomissar, RoleCitizen, RoleCitizen)

	if err := room.SubmitNightAction("p3", "p0"); !errors.Is(err, ErrNoNightRole) {
		t.Errorf("citizen acting at night: expected ErrNoNightRole, got %v", err)
	}
	if err := room.SubmitNightAction("ghost", "p0"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("unknown actor: expected ErrUnknownEntity, got %v", err)
	}
	if err := room.SubmitNightAction("p0", "ghost"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("unknown target: expected ErrInvalidTarget, got %v", err)
	}

	room.GetPlayer("p0").IsAlive = false
	if err := room.SubmitNightAction("p0", "p3"); !errors.Is(err, ErrNotAlive) {
		t.Errorf("dead actor: expected ErrNotAlive, got %v", err)
	}
}

func TestNightResetsSubmittedFlags(t *testing.T) {
	room := buildRoom(RoleMafia, RoleDoctor, RoleKomissar, RoleCitizen, RoleCitizen)

	room.SubmitNightAction("p0", "p3")
	room.SubmitNightAction("p1", "p4")
	room.ResolveNight(room.CurrentCycle(), time.Now())

	for _, p := range room.GetPlayers() {
		if p.NightSubmitted {
			t.Errorf("player %s still flagged as submitted after resolution", p.ID)
		}
	}
}

func TestNightResolutionEndsGameOnMafiaWin(t *testing.T) {
	room := buildRoom(RoleMafia, RoleMafia, RoleCitizen, RoleDoctor)

	room.SubmitNightAction("p0", "p2")
	outcome, err := room.ResolveNight(room.CurrentCycle(), time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if outcome.Winner != WinnerMafia {
		t.Errorf("expected mafia win, got %q", outcome.Winner)
	}
	if room.Status != StatusEnded || room.Phase != PhaseEnded {
		t.Errorf("expected ended room, got status=%q phase=%q", room.Status, room.Phase)
	}
	if room.Winner != WinnerMafia {
		t.Errorf("winner not recorded, got %q", room.Winner)
	}
	if !room.PhaseEndsAt.IsZero() {
		t.Error("ended room should have no deadline")
	}
}

func TestNightResolutionIdempotent(t *testing.T) {
	room := buildRoom(RoleMafia, RoleDoctor, RoleKomissar, RoleCitizen, RoleCitizen)
	room.SubmitNightAction("p0", "p3")

	token := room.CurrentCycle()
	if _, err := room.ResolveNight(token, time.Now()); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if _, err := room.ResolveNight(token, time.Now()); !errors.Is(err, ErrConcurrentResolutionLost) {
		t.Fatalf("second resolve with same token: expected ErrConcurrentResolutionLost, got %v", err)
	}

	if room.DayNumber != 1 {
		t.Errorf("exactly one resolution should have committed, day=%d", room.DayNumber)
	}
}
