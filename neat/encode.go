package neat

import "kriegsspiel/game"

// FeatureCount is the width of the encoded feature vector. Genomes used for
// battle agents must declare exactly this many inputs.
const FeatureCount = 18

// Encode folds a battle state, an acting unit and one candidate action into
// a fixed-length numeric vector: the unit's own stats, team material, the
// action kind, the terrain under the resulting position and local enemy
// pressure. All features are normalized to roughly [0, 1].
func Encode(s *game.BattleState, u *game.Unit, action game.Move) []float64 {
	maxDim := float64(s.Grid.Rows())
	if c := float64(s.Grid.Cols()); c > maxDim {
		maxDim = c
	}

	allies := s.TeamUnits(u.Team)
	enemies := s.TeamUnits(u.Team.Other())

	var isMove, isAttack, isPass float64
	dest := u.Pos
	var targetHP, targetArmor float64
	switch a := action.(type) {
	case game.MoveAction:
		isMove = 1
		dest = a.To
	case game.AttackAction:
		isAttack = 1
		if target := s.UnitByID(a.TargetID); target != nil {
			targetHP = ratio(target.HP, target.Stats.MaxHP)
			targetArmor = float64(target.Stats.Armor) / 100
		}
	case game.PassAction:
		isPass = 1
	}

	terrain := s.Grid.TerrainAt(dest)

	return []float64{
		1, // bias
		ratio(u.HP, u.Stats.MaxHP),
		float64(u.Stats.Attack) / 100,
		float64(u.Stats.Armor) / 100,
		float64(u.Stats.Range) / maxDim,
		float64(u.Stats.Movement) / 10,
		teamHPRatio(allies),
		teamHPRatio(enemies),
		float64(len(allies)) / 10,
		float64(len(enemies)) / 10,
		isMove,
		isAttack,
		isPass,
		terrain.DefenseBonus(),
		terrain.AttackBonus(),
		nearestEnemyDistance(dest, enemies) / maxDim,
		targetHP,
		targetArmor,
	}
}

func ratio(v, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(v) / float64(max)
}

func teamHPRatio(units []*game.Unit) float64 {
	var hp, maxHP int
	for _, u := range units {
		hp += u.HP
		maxHP += u.Stats.MaxHP
	}
	return ratio(hp, maxHP)
}

func nearestEnemyDistance(from game.Cell, enemies []*game.Unit) float64 {
	if len(enemies) == 0 {
		return 0
	}
	nearest := from.Manhattan(enemies[0].Pos)
	for _, e := range enemies[1:] {
		if d := from.Manhattan(e.Pos); d < nearest {
			nearest = d
		}
	}
	return float64(nearest)
}
