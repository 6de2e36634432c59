package equipment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

func TestParseDice(t *testing.T) {
	tests := []struct {
		notation string
		want     equipment.DiceNotation
		canon    string
	}{
		{"1d8", equipment.DiceNotation{Count: 1, Size: 8}, "1d8"},
		{"2D6+3", equipment.DiceNotation{Count: 2, Size: 6, Modifier: 3}, "2d6+3"},
		{"1d4 - 1", equipment.DiceNotation{Count: 1, Size: 4, Modifier: -1}, "1d4-1"},
	}
	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			got, err := equipment.ParseDice(tt.notation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.canon, got.String())
		})
	}

	for _, bad := range []string{"", "d6", "1d", "0d6", "1d0", "2x6", "1d6+", "101d6", "1d6+2+1"} {
		_, err := equipment.ParseDice(bad)
		assert.True(t, errors.IsInvalidArgument(err), bad)
	}
}

func TestItemFieldsRejectBadDice(t *testing.T) {
	err := equipment.ItemFields{Name: "Dagger", Type: equipment.TypeWeapon, Dice: "one d4"}.Validate()
	assert.True(t, errors.IsInvalidArgument(err))

	bad := "banana"
	err = equipment.ItemPatch{Dice: &bad}.Validate()
	assert.True(t, errors.IsInvalidArgument(err))

	empty := ""
	assert.NoError(t, equipment.ItemPatch{Dice: &empty}.Validate())
}
