package game

import (
	"math/rand"
)

// MinPlayers is the smallest roster a game can start with.
const MinPlayers = 4

// RolesForPlayerCount returns the role multiset for n players: 1 mafia-aligned
// slot below 6 players, 2 from 6, 3 from 9. At 9 players and up one of those
// slots is the don. Always exactly one komissar and one doctor, citizens for
// the rest.
func RolesForPlayerCount(n int) ([]Role, error) {
	if n < MinPlayers {
		return nil, ErrInvalidPlayerCount
	}

	mafiaAligned := 1
	switch {
	case n >= 9:
		mafiaAligned = 3
	case n >= 6:
		mafiaAligned = 2
	}

	roles := make([]Role, 0, n)
	if n >= 9 {
		roles = append(roles, RoleDon)
		mafiaAligned--
	}
	for i := 0; i < mafiaAligned; i++ {
		roles = append(roles, RoleMafia)
	}
	roles = append(roles, RoleKomissar, RoleDoctor)
	for len(roles) < n {
		roles = append(roles, RoleCitizen)
	}
	return roles, nil
}

// AssignRoles deals a role to every player. The player order and the role
// list are shuffled independently and paired by index, so neither list alone
// determines the pairing.
func AssignRoles(players []*Player) error {
	roles, err := RolesForPlayerCount(len(players))
	if err != nil {
		return err
	}

	shuffled := make([]*Player, len(players))
	copy(shuffled, players)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	rand.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	for i, p := range shuffled {
		p.Role = roles[i]
	}
	return nil
}
