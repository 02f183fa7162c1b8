package game

import "fmt"

// StartingFunds is the default budget each side drafts its army from.
const StartingFunds = 100

// ValidateArmy checks a drafted unit list against a funds budget before a
// battle starts. The draft screen itself is an external collaborator; this is
// the engine-side validation it calls.
func ValidateArmy(types []UnitType, funds int) error {
	if len(types) == 0 {
		return fmt.Errorf("army is empty")
	}
	total := 0
	for _, ut := range types {
		if _, ok := statTemplates[ut]; !ok {
			return fmt.Errorf("unknown unit type %d", ut)
		}
		total += ut.Stats().Cost
	}
	if total > funds {
		return fmt.Errorf("army costs %d, exceeds funds %d", total, funds)
	}
	return nil
}
