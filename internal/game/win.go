package game

// Winner identifies the faction that won a game, if any.
type Winner string

const (
	WinnerNone  Winner = ""
	WinnerTown  Winner = "town"
	WinnerMafia Winner = "mafia"
)

// EvaluateWinner inspects the roster after a death-producing resolution.
// Town wins once no mafia-aligned player is alive. Mafia wins when it has
// reached parity with the town; the tie goes to the mafia because they know
// who everyone is.
func EvaluateWinner(players []*Player) Winner {
	aliveMafia := 0
	aliveTotal := 0
	for _, p := range players {
		if !p.IsAlive {
			continue
		}
		aliveTotal++
		if p.Role.IsMafiaAligned() {
			aliveMafia++
		}
	}

	aliveTown := aliveTotal - aliveMafia
	switch {
	case aliveMafia == 0:
		return WinnerTown
	case aliveMafia >= aliveTown:
		return WinnerMafia
	}
	return WinnerNone
}
