package equipment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
)

func TestWeight(t *testing.T) {
	assert.Equal(t, 3, equipment.Weight(equipment.TypeArmor))
	assert.Equal(t, 0, equipment.Weight(equipment.TypeKey))
	assert.Equal(t, 2, equipment.Weight(equipment.TypeShield))
	assert.Equal(t, equipment.DefaultWeight, equipment.Weight("gizmo"))
}

func TestEncumbrance(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	pouch, _ := equipment.LookupBag(equipment.BagPouch)
	snap := equipment.NewSnapshot("char-1", "Mira", pouch, now)

	for _, f := range []struct {
		id string
		t  equipment.ItemType
	}{
		{"plate", equipment.TypeArmor},
		{"hammer", equipment.TypeTool},
		{"rope", equipment.TypeTool},
		{"coin", equipment.TypeTrinket},
	} {
		_, err := snap.AddItem("", f.id, equipment.ItemFields{Name: f.id, Type: f.t}, now)
		assert.NoError(t, err)
	}

	report := equipment.Encumbrance(snap)
	assert.Equal(t, 7, report.TotalWeight)
	assert.Equal(t, 5, report.Capacity)
	assert.True(t, report.OverEncumbered)

	_, err := snap.Equip("plate", "", now)
	assert.NoError(t, err)

	report = equipment.Encumbrance(snap)
	assert.Equal(t, 4, report.TotalWeight)
	assert.False(t, report.OverEncumbered)
}
