package equipment

import (
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// JewelrySlots is the fixed size of the jewelry array
const JewelrySlots = 3

// SlotName names an equipped position
type SlotName string

// Equipped positions
const (
	SlotPrimaryWeapon   SlotName = "primaryWeapon"
	SlotSecondaryWeapon SlotName = "secondaryWeapon"
	SlotArmor           SlotName = "armor"
	SlotClothing        SlotName = "clothing"
	SlotJewelry         SlotName = "jewelry"
	SlotBelt            SlotName = "belt"
)

// String returns the string representation of the slot name
func (s SlotName) String() string {
	return string(s)
}

// IsValid checks if the slot name is one of the equipped positions
func (s SlotName) IsValid() bool {
	switch s {
	case SlotPrimaryWeapon, SlotSecondaryWeapon, SlotArmor, SlotClothing, SlotJewelry, SlotBelt:
		return true
	default:
		return false
	}
}

// IsIndexed reports whether the slot is an array that needs an index
func (s SlotName) IsIndexed() bool {
	return s == SlotJewelry || s == SlotBelt
}

// AllSlotNames returns every slot name
func AllSlotNames() []SlotName {
	return []SlotName{
		SlotPrimaryWeapon,
		SlotSecondaryWeapon,
		SlotArmor,
		SlotClothing,
		SlotJewelry,
		SlotBelt,
	}
}

// SlotRef addresses one slot. Index is only meaningful for jewelry and belt.
type SlotRef struct {
	Name  SlotName `json:"slot"`
	Index int      `json:"index"`
}

// EquippedState holds item references by id; an empty string is an empty slot.
// An id appears in at most one slot.
type EquippedState struct {
	PrimaryWeapon   string               `json:"primaryWeapon"`
	SecondaryWeapon string               `json:"secondaryWeapon"`
	Armor           string               `json:"armor"`
	Clothing        string               `json:"clothing"`
	Jewelry         [JewelrySlots]string `json:"jewelry"`
	Belt            []string             `json:"belt"`
}

// NewEquippedState returns an empty state with a belt of beltSize slots
func NewEquippedState(beltSize int) EquippedState {
	if beltSize < 0 {
		beltSize = 0
	}
	return EquippedState{Belt: make([]string, beltSize)}
}

// Clone returns a copy that shares no memory with e
func (e EquippedState) Clone() EquippedState {
	out := e
	if e.Belt != nil {
		out.Belt = append(make([]string, 0, len(e.Belt)), e.Belt...)
	}
	return out
}

func (e *EquippedState) single(name SlotName) *string {
	switch name {
	case SlotPrimaryWeapon:
		return &e.PrimaryWeapon
	case SlotSecondaryWeapon:
		return &e.SecondaryWeapon
	case SlotArmor:
		return &e.Armor
	case SlotClothing:
		return &e.Clothing
	default:
		return nil
	}
}

func (e *EquippedState) array(name SlotName) []string {
	switch name {
	case SlotJewelry:
		return e.Jewelry[:]
	case SlotBelt:
		return e.Belt
	default:
		return nil
	}
}

// Locate returns the slot holding itemID
func (e EquippedState) Locate(itemID string) (SlotRef, bool) {
	if itemID == "" {
		return SlotRef{}, false
	}
	for _, name := range []SlotName{SlotPrimaryWeapon, SlotSecondaryWeapon, SlotArmor, SlotClothing} {
		if *e.single(name) == itemID {
			return SlotRef{Name: name}, true
		}
	}
	for _, name := range []SlotName{SlotJewelry, SlotBelt} {
		for i, id := range e.array(name) {
			if id == itemID {
				return SlotRef{Name: name, Index: i}, true
			}
		}
	}
	return SlotRef{}, false
}

// IsEquipped reports whether itemID appears in any slot
func (e EquippedState) IsEquipped(itemID string) bool {
	_, ok := e.Locate(itemID)
	return ok
}

// EquippedIDs returns the set of referenced item ids
func (e EquippedState) EquippedIDs() map[string]SlotRef {
	out := make(map[string]SlotRef)
	for _, name := range []SlotName{SlotPrimaryWeapon, SlotSecondaryWeapon, SlotArmor, SlotClothing} {
		if id := *e.single(name); id != "" {
			out[id] = SlotRef{Name: name}
		}
	}
	for _, name := range []SlotName{SlotJewelry, SlotBelt} {
		for i, id := range e.array(name) {
			if id != "" {
				out[id] = SlotRef{Name: name, Index: i}
			}
		}
	}
	return out
}

// Get returns the item id held by ref
func (e EquippedState) Get(ref SlotRef) (string, error) {
	if err := e.checkRef(ref); err != nil {
		return "", err
	}
	if ref.Name.IsIndexed() {
		return e.array(ref.Name)[ref.Index], nil
	}
	return *e.single(ref.Name), nil
}

// Clear empties ref and returns the id it held. Clearing an empty slot is a no-op.
func (e *EquippedState) Clear(ref SlotRef) (string, error) {
	if err := e.checkRef(ref); err != nil {
		return "", err
	}
	if ref.Name.IsIndexed() {
		arr := e.array(ref.Name)
		prev := arr[ref.Index]
		arr[ref.Index] = ""
		return prev, nil
	}
	slot := e.single(ref.Name)
	prev := *slot
	*slot = ""
	return prev, nil
}

// Release clears every slot that references itemID and reports whether any did
func (e *EquippedState) Release(itemID string) bool {
	released := false
	for {
		ref, ok := e.Locate(itemID)
		if !ok {
			return released
		}
		// ref came from Locate, so it is always in range
		_, _ = e.Clear(ref)
		released = true
	}
}

// Equip places itemID according to kind. target is required for weapons and
// optional otherwise. The state is unchanged when an error is returned.
func (e *EquippedState) Equip(itemID string, kind SlotKind, target SlotName) (SlotRef, error) {
	if itemID == "" {
		return SlotRef{}, errors.InvalidArgument("item id is required")
	}
	if kind == nil {
		return SlotRef{}, errors.InvalidArgument("slot kind is required")
	}
	if ref, ok := e.Locate(itemID); ok {
		return SlotRef{}, errors.AlreadyEquippedf("item %s is already equipped in %s", itemID, ref.Name).
			WithMeta("slot", string(ref.Name)).
			WithMeta("index", ref.Index)
	}
	return kind.place(e, itemID, target)
}

func (e EquippedState) checkRef(ref SlotRef) error {
	if !ref.Name.IsValid() {
		return errors.InvalidArgumentf("unknown slot %q", ref.Name)
	}
	if !ref.Name.IsIndexed() {
		return nil
	}
	arr := e.array(ref.Name)
	if ref.Index < 0 || ref.Index >= len(arr) {
		return errors.InvalidArgumentf("%s index %d out of range [0, %d)", ref.Name, ref.Index, len(arr))
	}
	return nil
}

// SlotKind is the closed set of slot-resolution rules. Each item type that can be
// equipped resolves to exactly one kind.
type SlotKind interface {
	// Kind names the variant
	Kind() string
	// Slots lists the slot names the variant may occupy
	Slots() []SlotName
	place(e *EquippedState, itemID string, target SlotName) (SlotRef, error)
}

// WeaponKind needs an explicit choice between the two weapon slots
type WeaponKind struct{}

// ArmorKind occupies the single armor slot
type ArmorKind struct{}

// ClothingKind occupies the single clothing slot
type ClothingKind struct{}

// JewelryKind fills the first empty jewelry slot
type JewelryKind struct{}

// BeltKind fills the first empty belt slot
type BeltKind struct{}

var (
	_ SlotKind = WeaponKind{}
	_ SlotKind = ArmorKind{}
	_ SlotKind = ClothingKind{}
	_ SlotKind = JewelryKind{}
	_ SlotKind = BeltKind{}
)

// KindOf resolves the slot kind for an item type
func KindOf(t ItemType) (SlotKind, bool) {
	switch t {
	case TypeWeapon, TypeShield:
		return WeaponKind{}, true
	case TypeArmor:
		return ArmorKind{}, true
	case TypeClothing:
		return ClothingKind{}, true
	case TypeJewelry:
		return JewelryKind{}, true
	case TypeConsumable, TypePotion:
		return BeltKind{}, true
	default:
		return nil, false
	}
}

// Kind implements SlotKind
func (WeaponKind) Kind() string { return "weapon" }

// Slots implements SlotKind
func (WeaponKind) Slots() []SlotName { return []SlotName{SlotPrimaryWeapon, SlotSecondaryWeapon} }

func (WeaponKind) place(e *EquippedState, itemID string, target SlotName) (SlotRef, error) {
	if target != SlotPrimaryWeapon && target != SlotSecondaryWeapon {
		return SlotRef{}, errors.InvalidArgumentf(
			"weapons need an explicit slot: %s or %s", SlotPrimaryWeapon, SlotSecondaryWeapon)
	}
	return placeSingle(e, itemID, target)
}

// Kind implements SlotKind
func (ArmorKind) Kind() string { return "armor" }

// Slots implements SlotKind
func (ArmorKind) Slots() []SlotName { return []SlotName{SlotArmor} }

func (ArmorKind) place(e *EquippedState, itemID string, target SlotName) (SlotRef, error) {
	if err := checkTarget(target, SlotArmor); err != nil {
		return SlotRef{}, err
	}
	return placeSingle(e, itemID, SlotArmor)
}

// Kind implements SlotKind
func (ClothingKind) Kind() string { return "clothing" }

// Slots implements SlotKind
func (ClothingKind) Slots() []SlotName { return []SlotName{SlotClothing} }

func (ClothingKind) place(e *EquippedState, itemID string, target SlotName) (SlotRef, error) {
	if err := checkTarget(target, SlotClothing); err != nil {
		return SlotRef{}, err
	}
	return placeSingle(e, itemID, SlotClothing)
}

// Kind implements SlotKind
func (JewelryKind) Kind() string { return "jewelry" }

// Slots implements SlotKind
func (JewelryKind) Slots() []SlotName { return []SlotName{SlotJewelry} }

func (JewelryKind) place(e *EquippedState, itemID string, target SlotName) (SlotRef, error) {
	if err := checkTarget(target, SlotJewelry); err != nil {
		return SlotRef{}, err
	}
	return placeFirstEmpty(e, itemID, SlotJewelry)
}

// Kind implements SlotKind
func (BeltKind) Kind() string { return "belt" }

// Slots implements SlotKind
func (BeltKind) Slots() []SlotName { return []SlotName{SlotBelt} }

func (BeltKind) place(e *EquippedState, itemID string, target SlotName) (SlotRef, error) {
	if err := checkTarget(target, SlotBelt); err != nil {
		return SlotRef{}, err
	}
	return placeFirstEmpty(e, itemID, SlotBelt)
}

func checkTarget(target, want SlotName) error {
	if target != "" && target != want {
		return errors.InvalidArgumentf("item can only be equipped in %s, not %s", want, target)
	}
	return nil
}

func placeSingle(e *EquippedState, itemID string, name SlotName) (SlotRef, error) {
	slot := e.single(name)
	if *slot != "" {
		return SlotRef{}, errors.SlotConflictf("slot %s is occupied by %s", name, *slot).
			WithMeta("slot", string(name))
	}
	*slot = itemID
	return SlotRef{Name: name}, nil
}

func placeFirstEmpty(e *EquippedState, itemID string, name SlotName) (SlotRef, error) {
	arr := e.array(name)
	for i, id := range arr {
		if id == "" {
			arr[i] = itemID
			return SlotRef{Name: name, Index: i}, nil
		}
	}
	return SlotRef{}, errors.CapacityExceededf("no empty %s slot (%d total)", name, len(arr)).
		WithMeta("slot", string(name))
}
