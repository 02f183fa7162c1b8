package game

import "fmt"

// Team identifies one of the two sides of a battle.
type Team int

const (
	Team1 Team = 1
	Team2 Team = 2
)

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == Team1 {
		return Team2
	}
	return Team1
}

func (t Team) String() string {
	switch t {
	case Team1:
		return "team1"
	case Team2:
		return "team2"
	default:
		return "unknown"
	}
}

// UnitType enumerates the four unit templates.
type UnitType int

const (
	Swordsman UnitType = iota
	Archer
	Horseman
	Spearman
)

// UnitTypes lists all templates in stable order, for drafting and encoding.
var UnitTypes = []UnitType{Swordsman, Archer, Horseman, Spearman}

func (ut UnitType) String() string {
	switch ut {
	case Swordsman:
		return "swordsman"
	case Archer:
		return "archer"
	case Horseman:
		return "horseman"
	case Spearman:
		return "spearman"
	default:
		return "unknown"
	}
}

// ParseUnitType resolves a template name from a draft or config file.
func ParseUnitType(name string) (UnitType, error) {
	for _, ut := range UnitTypes {
		if ut.String() == name {
			return ut, nil
		}
	}
	return 0, fmt.Errorf("unknown unit type %q", name)
}

// UnitStats is the fixed stat block of a unit template.
type UnitStats struct {
	Cost     int
	MaxHP    int
	Armor    int
	Attack   int
	Range    int
	Movement int
}

var statTemplates = map[UnitType]UnitStats{
	Swordsman: {Cost: 20, MaxHP: 110, Armor: 40, Attack: 50, Range: 1, Movement: 2},
	Archer:    {Cost: 25, MaxHP: 70, Armor: 15, Attack: 45, Range: 3, Movement: 3},
	Horseman:  {Cost: 30, MaxHP: 100, Armor: 30, Attack: 50, Range: 1, Movement: 4},
	Spearman:  {Cost: 20, MaxHP: 115, Armor: 35, Attack: 50, Range: 1, Movement: 2},
}

// Stats returns the template stat block for the unit type.
func (ut UnitType) Stats() UnitStats {
	return statTemplates[ut]
}

// effectiveness holds the attacker-vs-defender damage multipliers. Pairs not
// listed are neutral (1.0).
var effectiveness = map[UnitType]map[UnitType]float64{
	Archer:   {Horseman: 0.8},
	Horseman: {Archer: 1.3, Swordsman: 1.1, Spearman: 0.8},
	Spearman: {Swordsman: 0.9, Horseman: 1.3},
}

// Effectiveness returns the damage multiplier for an attacker type against a
// defender type.
func Effectiveness(attacker, defender UnitType) float64 {
	if m, ok := effectiveness[attacker]; ok {
		if mult, ok := m[defender]; ok {
			return mult
		}
	}
	return 1.0
}

// ActionState tracks what a unit may still do this turn.
type ActionState int

const (
	CanMove ActionState = iota
	MovedOnly
	Done
)

func (as ActionState) String() string {
	switch as {
	case CanMove:
		return "can-move"
	case MovedOnly:
		return "moved-only"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Unit is one combat entity. Stats are copied from the type template at
// creation so hypothetical branches never share mutable stat state.
type Unit struct {
	ID    int
	Team  Team
	Type  UnitType
	Stats UnitStats
	HP    int
	Pos   Cell
	State ActionState
}

// NewUnit creates a full-health unit from its type template.
func NewUnit(id int, team Team, ut UnitType, pos Cell) *Unit {
	stats := ut.Stats()
	return &Unit{
		ID:    id,
		Team:  team,
		Type:  ut,
		Stats: stats,
		HP:    stats.MaxHP,
		Pos:   pos,
	}
}

// Alive reports whether the unit is still on the battlefield.
func (u *Unit) Alive() bool {
	return u.HP > 0
}

func (u *Unit) copy() *Unit {
	c := *u
	return &c
}
