// Package dice rolls ability scores for new characters.
package dice

import (
	"errors"
	"math/rand/v2"
	"slices"
)

// Abilities lists the six ability scores in sheet order.
var Abilities = []string{"STR", "DEX", "CON", "INT", "WIS", "CHA"}

// ErrInvalidDiceSpec indicates a roll with non-positive sides or count.
var ErrInvalidDiceSpec = errors.New("dice must have positive sides and count")

// Roll captures one ability-score roll: every die and the kept total.
type Roll struct {
	Ability string `json:"ability"`
	Dice    []int  `json:"dice"`
	Dropped int    `json:"dropped"`
	Score   int    `json:"score"`
}

// Roller rolls dice from a single random source. It is not safe for
// concurrent use; create one per request.
type Roller struct {
	rng *rand.Rand
}

// NewRoller seeds a Roller. Equal seeds produce equal rolls.
func NewRoller(seed uint64) *Roller {
	return &Roller{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Roll throws count dice with the given number of sides.
func (r *Roller) Roll(count, sides int) ([]int, error) {
	if count <= 0 || sides <= 0 {
		return nil, ErrInvalidDiceSpec
	}
	out := make([]int, count)
	for i := range out {
		out[i] = r.rng.IntN(sides) + 1
	}
	return out, nil
}

// AbilityScores rolls 4d6 per ability and keeps the highest three.
func (r *Roller) AbilityScores() []Roll {
	rolls := make([]Roll, 0, len(Abilities))
	for _, ability := range Abilities {
		dice, _ := r.Roll(4, 6)
		lowest := slices.Min(dice)
		total := 0
		for _, d := range dice {
			total += d
		}
		rolls = append(rolls, Roll{
			Ability: ability,
			Dice:    dice,
			Dropped: lowest,
			Score:   total - lowest,
		})
	}
	return rolls
}
