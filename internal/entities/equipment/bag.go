package equipment

import (
	"strings"

	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// Bag is the active carrying configuration
type Bag struct {
	Name            string `json:"name"`
	Capacity        int    `json:"capacity"`
	ConsumableSlots int    `json:"consumableSlots"`
	Bonus           string `json:"bonus,omitempty"`
}

// Bag presets
const (
	BagPouch        = "pouch"
	BagSatchel      = "satchel"
	BagBackpack     = "backpack"
	BagExplorerPack = "explorer-pack"
	BagOfHolding    = "bag-of-holding"
)

var bagPresets = []Bag{
	{Name: BagPouch, Capacity: 5, ConsumableSlots: 1},
	{Name: BagSatchel, Capacity: 10, ConsumableSlots: 2},
	{Name: BagBackpack, Capacity: 20, ConsumableSlots: 4},
	{Name: BagExplorerPack, Capacity: 25, ConsumableSlots: 6},
	{Name: BagOfHolding, Capacity: 50, ConsumableSlots: 6, Bonus: "Interior weighs nothing"},
}

// DefaultBag is the bag a new character starts with
func DefaultBag() Bag {
	b, _ := LookupBag(BagBackpack)
	return b
}

// BagPresets returns the built-in bags ordered by capacity
func BagPresets() []Bag {
	return append([]Bag(nil), bagPresets...)
}

// LookupBag finds a preset by name (case-insensitive)
func LookupBag(name string) (Bag, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, b := range bagPresets {
		if b.Name == name {
			return b, true
		}
	}
	return Bag{}, false
}

// Validate checks a custom bag
func (b Bag) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", b.Name, vb)
	errors.ValidateNonNegative("capacity", b.Capacity, vb)
	errors.ValidateNonNegative("consumable_slots", b.ConsumableSlots, vb)
	return vb.Build()
}

// SwitchBag returns a copy of old with bag active and the belt resized to the
// new consumable slot count. Belt entries past the new size are unequipped and
// returned; their items stay in the inventory. old is never modified.
func SwitchBag(old Snapshot, bag Bag) (Snapshot, []string) {
	next := old.Clone()
	next.Bag = bag

	size := bag.ConsumableSlots
	if size < 0 {
		size = 0
	}

	var discarded []string
	belt := make([]string, size)
	for i, id := range old.Equipped.Belt {
		if i < size {
			belt[i] = id
			continue
		}
		if id != "" {
			discarded = append(discarded, id)
		}
	}
	next.Equipped.Belt = belt
	return next, discarded
}
