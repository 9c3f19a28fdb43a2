package game

import "time"

// AdvanceIfExpired resolves the current phase if its deadline has passed and
// reports whether anything changed. Callers may race freely: the room mutex
// serializes them and the loser simply observes the advanced state and
// returns false. Before the deadline this is a no-op.
func (r *Room) AdvanceIfExpired(now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusPlaying || r.PhaseEndsAt.IsZero() || now.Before(r.PhaseEndsAt) {
		return false, nil
	}

	token := CycleToken{Phase: r.Phase, Deadline: r.PhaseEndsAt}
	switch r.Phase {
	case PhaseNight:
		if _, err := r.resolveNightLocked(token, now); err != nil {
			return false, err
		}
	case PhaseDay:
		if err := r.beginVoteLocked(token, now); err != nil {
			return false, err
		}
	case PhaseVote:
		if _, err := r.resolveVoteLocked(token, now); err != nil {
			return false, err
		}
	default:
		return false, nil
	}
	return true, nil
}
