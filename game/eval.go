package game

// EvaluateMaterial scores a state between -1 and 1 from the current player's
// perspective using the normalized hit-point differential of the two armies.
// It is the default cutoff evaluation for depth-capped rollouts.
func EvaluateMaterial(s State) float64 {
	bs, ok := s.(*BattleState)
	if !ok {
		panic("unexpected state type")
	}

	ally := hpRatio(bs.TeamUnits(bs.ActiveTeam))
	enemy := hpRatio(bs.TeamUnits(bs.ActiveTeam.Other()))
	return ally - enemy
}

// hpRatio is the team's current hit points over its maximum, 0 for a wiped
// team.
func hpRatio(units []*Unit) float64 {
	if len(units) == 0 {
		return 0
	}
	var hp, maxHP int
	for _, u := range units {
		hp += u.HP
		maxHP += u.Stats.MaxHP
	}
	return float64(hp) / float64(maxHP)
}
