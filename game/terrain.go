package game

// Terrain is the static tile type of a grid cell. Terrain never changes
// during a battle; bonuses and move costs are fixed constants.
type Terrain int

const (
	Plains Terrain = iota
	Hills
	Water
	Mountain
)

// Impassable is the move cost of terrain no unit may enter.
const Impassable = 1 << 20

// DefenseBonus returns the fraction of incoming damage the terrain absorbs
// for a defender standing on it.
func (t Terrain) DefenseBonus() float64 {
	switch t {
	case Hills:
		return 0.20
	case Water:
		return 0.10
	default:
		return 0
	}
}

// AttackBonus returns the fractional modifier applied to outgoing damage
// for an attacker standing on it. Water penalizes attacks.
func (t Terrain) AttackBonus() float64 {
	switch t {
	case Hills:
		return 0.10
	case Water:
		return -0.10
	default:
		return 0
	}
}

// MoveCost returns the movement points spent entering the terrain.
func (t Terrain) MoveCost() int {
	switch t {
	case Hills, Water:
		return 2
	case Mountain:
		return Impassable
	default:
		return 1
	}
}

// Passable reports whether any unit may enter the terrain.
func (t Terrain) Passable() bool {
	return t != Mountain
}

func (t Terrain) String() string {
	switch t {
	case Plains:
		return "plains"
	case Hills:
		return "hills"
	case Water:
		return "water"
	case Mountain:
		return "mountain"
	default:
		return "unknown"
	}
}
