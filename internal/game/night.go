package game

import "time"

// NightOutcome is the committed result of one night resolution.
type NightOutcome struct {
	KilledID  string
	SavedID   string
	Winner    Winner
	NextPhase Phase
}

// SubmitNightAction records one night action for the acting player. The role
// is read from the actor's own record, never from the caller. Mafia and don
// share a single kill slot: the latest submission from either overwrites it.
func (r *Room) SubmitNightAction(actorID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Phase != PhaseNight {
		return ErrWrongPhase
	}
	actor, ok := r.Players[actorID]
	if !ok {
		return ErrUnknownEntity
	}
	if !actor.IsAlive {
		return ErrNotAlive
	}
	if !actor.Role.HasNightAction() {
		return ErrNoNightRole
	}
	target, ok := r.Players[targetID]
	if !ok || !target.IsAlive {
		return ErrInvalidTarget
	}
	if actor.NightSubmitted {
		return ErrActionAlreadySubmitted
	}

	switch actor.Role {
	case RoleMafia, RoleDon:
		r.Night.KillTargetID = targetID
		r.Night.KillByID = actorID
	case RoleDoctor:
		r.Night.SaveTargetID = targetID
		r.Night.SaveByID = actorID
	case RoleKomissar:
		r.Night.CheckTargetID = targetID
		r.Night.CheckByID = actorID
	}
	actor.NightSubmitted = true
	return nil
}

// ResolveNight commits the night resolution for the cycle identified by
// token. A caller holding a stale token loses with
// ErrConcurrentResolutionLost and must not treat that as a failure.
func (r *Room) ResolveNight(token CycleToken, now time.Time) (*NightOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.resolveNightLocked(token, now)
}

func (r *Room) resolveNightLocked(token CycleToken, now time.Time) (*NightOutcome, error) {
	if !r.tokenMatchesLocked(token, PhaseNight) {
		return nil, ErrConcurrentResolutionLost
	}

	// Komissar investigation: written only to the checking player's record.
	if r.Night.CheckTargetID != "" {
		if checker, ok := r.Players[r.Night.CheckByID]; ok {
			if target, ok := r.Players[r.Night.CheckTargetID]; ok {
				checker.LastCheckResult = &CheckResult{
					TargetID:  target.ID,
					IsMafia:   target.Role.IsMafiaAligned(),
					CheckedAt: now,
				}
			}
		}
	}

	// The doctor blocks the kill only on an exact target match.
	killedID := ""
	if r.Night.KillTargetID != "" && r.Night.KillTargetID != r.Night.SaveTargetID {
		if victim, ok := r.Players[r.Night.KillTargetID]; ok {
			victim.IsAlive = false
			killedID = victim.ID
		}
	}

	for _, p := range r.Players {
		p.NightSubmitted = false
	}

	r.LastKilledPlayerID = killedID
	r.LastSavedPlayerID = r.Night.SaveTargetID

	outcome := &NightOutcome{
		KilledID: killedID,
		SavedID:  r.Night.SaveTargetID,
		Winner:   EvaluateWinner(r.playersLocked()),
	}

	if outcome.Winner != WinnerNone {
		r.endLocked(outcome.Winner)
		outcome.NextPhase = PhaseEnded
		return outcome, nil
	}

	r.Phase = PhaseDay
	r.DayNumber++
	r.PhaseEndsAt = now.Add(r.Settings.day())
	r.Votes = make(map[string]string)
	outcome.NextPhase = PhaseDay
	return outcome, nil
}
