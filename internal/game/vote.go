package game

import "time"

// VoteOutcome is the committed result of one vote resolution.
type VoteOutcome struct {
	EliminatedID string
	Winner       Winner
	NextPhase    Phase
}

// BeginVote moves the room from day into the vote phase. Both the owner's
// early trigger and deadline expiry go through the same token check, so only
// one of them starts the cycle.
func (r *Room) BeginVote(token CycleToken, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.beginVoteLocked(token, now)
}

func (r *Room) beginVoteLocked(token CycleToken, now time.Time) error {
	if !r.tokenMatchesLocked(token, PhaseDay) {
		return ErrConcurrentResolutionLost
	}
	r.Phase = PhaseVote
	r.PhaseEndsAt = now.Add(r.Settings.vote())
	return nil
}

// SubmitVote records one vote for an alive voter against an alive target.
func (r *Room) SubmitVote(voterID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Phase != PhaseVote {
		return ErrWrongPhase
	}
	voter, ok := r.Players[voterID]
	if !ok {
		return ErrUnknownEntity
	}
	if !voter.IsAlive {
		return ErrNotAlive
	}
	target, ok := r.Players[targetID]
	if !ok || !target.IsAlive {
		return ErrInvalidTarget
	}
	if voter.VoteSubmitted {
		return ErrActionAlreadySubmitted
	}

	r.Votes[voterID] = targetID
	voter.VoteSubmitted = true
	return nil
}

// ResolveVote commits the vote resolution for the cycle identified by token.
func (r *Room) ResolveVote(token CycleToken, now time.Time) (*VoteOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.resolveVoteLocked(token, now)
}

func (r *Room) resolveVoteLocked(token CycleToken, now time.Time) (*VoteOutcome, error) {
	if !r.tokenMatchesLocked(token, PhaseVote) {
		return nil, ErrConcurrentResolutionLost
	}

	// Votes from or toward players who died mid-cycle do not count.
	tally := make(map[string]int)
	for voterID, targetID := range r.Votes {
		voter, ok := r.Players[voterID]
		if !ok || !voter.IsAlive {
			continue
		}
		target, ok := r.Players[targetID]
		if !ok || !target.IsAlive {
			continue
		}
		tally[targetID]++
	}

	eliminatedID := uniqueMax(tally)
	if eliminatedID != "" {
		r.Players[eliminatedID].IsAlive = false
	}

	for _, p := range r.Players {
		p.VoteSubmitted = false
	}

	r.LastEliminatedPlayerID = eliminatedID

	outcome := &VoteOutcome{
		EliminatedID: eliminatedID,
		Winner:       EvaluateWinner(r.playersLocked()),
	}

	if outcome.Winner != WinnerNone {
		r.endLocked(outcome.Winner)
		outcome.NextPhase = PhaseEnded
		return outcome, nil
	}

	r.Phase = PhaseNight
	r.PhaseEndsAt = now.Add(r.Settings.night())
	r.Night = NightScratch{}
	r.Votes = make(map[string]string)
	outcome.NextPhase = PhaseNight
	return outcome, nil
}

// uniqueMax returns the key with the strictly highest count, or "" when the
// maximum is shared or no votes were cast.
func uniqueMax(tally map[string]int) string {
	best := ""
	bestCount := 0
	tied := false
	for id, count := range tally {
		switch {
		case count > bestCount:
			best, bestCount, tied = id, count, false
		case count == bestCount:
			tied = true
		}
	}
	if tied || bestCount == 0 {
		return ""
	}
	return best
}
