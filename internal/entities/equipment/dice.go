package equipment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// Limits on item dice notation
const (
	MaxDiceCount = 100
	MaxDieSize   = 1000
)

var diceNotationRegex = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// DiceNotation is a parsed NdM+K expression
type DiceNotation struct {
	Count    int
	Size     int
	Modifier int
}

// String renders the notation in canonical form
func (d DiceNotation) String() string {
	switch {
	case d.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", d.Count, d.Size, d.Modifier)
	case d.Modifier < 0:
		return fmt.Sprintf("%dd%d%d", d.Count, d.Size, d.Modifier)
	default:
		return fmt.Sprintf("%dd%d", d.Count, d.Size)
	}
}

// ParseDice parses notation like "1d8", "2d6+3" or "1d4-1"
func ParseDice(notation string) (DiceNotation, error) {
	matches := diceNotationRegex.FindStringSubmatch(strings.ToLower(strings.ReplaceAll(notation, " ", "")))
	if matches == nil {
		return DiceNotation{}, errors.InvalidArgumentf("invalid dice notation: %q (expected format: NdM, NdM+K or NdM-K)", notation)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return DiceNotation{}, errors.InvalidArgumentf("invalid dice count in notation: %s", notation)
	}
	size, err := strconv.Atoi(matches[2])
	if err != nil {
		return DiceNotation{}, errors.InvalidArgumentf("invalid die size in notation: %s", notation)
	}
	modifier := 0
	if matches[3] != "" {
		modifier, err = strconv.Atoi(matches[3])
		if err != nil {
			return DiceNotation{}, errors.InvalidArgumentf("invalid modifier in notation: %s", notation)
		}
	}

	if count <= 0 || count > MaxDiceCount || size <= 0 || size > MaxDieSize {
		return DiceNotation{}, errors.InvalidArgumentf("dice count must be 1-%d and die size 1-%d: %s",
			MaxDiceCount, MaxDieSize, notation)
	}

	return DiceNotation{Count: count, Size: size, Modifier: modifier}, nil
}

func validateDice(field, notation string, vb *errors.ValidationBuilder) {
	if strings.TrimSpace(notation) == "" {
		return
	}
	if _, err := ParseDice(notation); err != nil {
		vb.Field(field, errors.GetMessage(err))
	}
}
