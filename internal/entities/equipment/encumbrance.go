package equipment

// DefaultWeight applies to any type missing from the weight table
const DefaultWeight = 1

var weightByType = map[ItemType]int{
	TypeWeapon:     2,
	TypeShield:     2,
	TypeArmor:      3,
	TypeClothing:   1,
	TypeJewelry:    0,
	TypeConsumable: 1,
	TypePotion:     1,
	TypeAmmunition: 1,
	TypeTool:       2,
	TypeLight:      1,
	TypeQuest:      1,
	TypeKey:        0,
	TypeDocument:   0,
	TypeMaterial:   1,
	TypeIngredient: 1,
	TypeComponent:  1,
	TypeTrinket:    0,
	TypeKeepsake:   0,
	TypeMisc:       1,
}

// Weight returns the carry weight of an item type
func Weight(t ItemType) int {
	if w, ok := weightByType[t]; ok {
		return w
	}
	return DefaultWeight
}

// Report is the derived encumbrance status of a snapshot
type Report struct {
	TotalWeight    int  `json:"totalWeight"`
	Capacity       int  `json:"capacity"`
	OverEncumbered bool `json:"overEncumbered"`
}

// TotalWeight sums the weight of every carried item. Equipped items are worn
// and do not count.
func TotalWeight(s Snapshot) int {
	equipped := s.Equipped.EquippedIDs()
	total := 0
	for _, items := range s.Inventory {
		for _, item := range items {
			if _, worn := equipped[item.ID]; worn {
				continue
			}
			total += Weight(item.Type)
		}
	}
	return total
}

// Capacity returns the active bag capacity
func Capacity(s Snapshot) int {
	return s.Bag.Capacity
}

// Encumbrance derives the report for s without touching it
func Encumbrance(s Snapshot) Report {
	total := TotalWeight(s)
	capacity := Capacity(s)
	return Report{
		TotalWeight:    total,
		Capacity:       capacity,
		OverEncumbered: total > capacity,
	}
}
