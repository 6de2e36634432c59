package equipment

import (
	"encoding/json"
	"time"

	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// Snapshot is the full equipment state of one character. It is the unit stored
// in the local cache, carried as the remote record payload and reconciled.
type Snapshot struct {
	CharacterID  string              `json:"characterId"`
	Name         string              `json:"name"`
	Equipped     EquippedState       `json:"equipped"`
	Inventory    map[Category][]Item `json:"inventory"`
	Currency     Currency            `json:"currency"`
	Bag          Bag                 `json:"selectedBag"`
	LastModified time.Time           `json:"lastModified"`
}

// NewSnapshot returns an empty character carrying bag
func NewSnapshot(characterID, name string, bag Bag, now time.Time) Snapshot {
	s := Snapshot{
		CharacterID: characterID,
		Name:        name,
		Equipped:    NewEquippedState(bag.ConsumableSlots),
		Inventory:   make(map[Category][]Item, len(AllCategories())),
		Bag:         bag,
	}
	for _, c := range AllCategories() {
		s.Inventory[c] = []Item{}
	}
	s.Touch(now)
	return s
}

// Touch stamps LastModified at millisecond precision
func (s *Snapshot) Touch(now time.Time) {
	s.LastModified = now.UTC().Truncate(time.Millisecond)
}

// Clone returns a deep copy of s
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Equipped = s.Equipped.Clone()
	out.Currency = s.Currency.Clone()
	out.Inventory = make(map[Category][]Item, len(s.Inventory))
	for c, items := range s.Inventory {
		cp := make([]Item, len(items))
		for i, item := range items {
			cp[i] = item.Clone()
		}
		out.Inventory[c] = cp
	}
	return out
}

// Items returns every item in category display order
func (s Snapshot) Items() []Item {
	var out []Item
	for _, c := range AllCategories() {
		out = append(out, s.Inventory[c]...)
	}
	for c, items := range s.Inventory {
		if !c.IsValid() {
			out = append(out, items...)
		}
	}
	return out
}

// FindItem locates an item by id
func (s Snapshot) FindItem(itemID string) (Item, Category, bool) {
	for c, items := range s.Inventory {
		for _, item := range items {
			if item.ID == itemID {
				return item, c, true
			}
		}
	}
	return Item{}, "", false
}

// IsEquipped reports whether the item occupies any slot
func (s Snapshot) IsEquipped(itemID string) bool {
	return s.Equipped.IsEquipped(itemID)
}

// AddItem appends a new item with the given id. An empty category is chosen
// from the item type.
func (s *Snapshot) AddItem(category Category, id string, fields ItemFields, now time.Time) (Item, error) {
	if err := fields.Validate(); err != nil {
		return Item{}, err
	}
	if id == "" {
		return Item{}, errors.InvalidArgument("item id is required")
	}
	if _, _, exists := s.FindItem(id); exists {
		return Item{}, errors.InvalidArgumentf("item id %s already in use", id)
	}

	item := fields.toItem(id)
	if category == "" {
		category = CategoryFor(item.Type)
	}
	if !category.IsValid() {
		return Item{}, errors.InvalidArgumentf("unknown category %q", category)
	}

	if s.Inventory == nil {
		s.Inventory = make(map[Category][]Item)
	}
	s.Inventory[category] = append(s.Inventory[category], item)
	s.Touch(now)
	return item.Clone(), nil
}

// EditItem updates item fields in place. Id, category and equip state stay put.
func (s *Snapshot) EditItem(itemID string, patch ItemPatch, now time.Time) (Item, error) {
	if err := patch.Validate(); err != nil {
		return Item{}, err
	}
	category, idx, err := s.locate(itemID)
	if err != nil {
		return Item{}, err
	}

	item := s.Inventory[category][idx].Clone()
	patch.apply(&item)
	if item.Type != s.Inventory[category][idx].Type && s.IsEquipped(itemID) {
		return Item{}, errors.InvalidArgumentf("cannot change the type of equipped item %s", itemID).
			WithMeta("item_id", itemID)
	}

	s.Inventory[category][idx] = item
	s.Touch(now)
	return item.Clone(), nil
}

// DropItem unequips the item and removes it from its category
func (s *Snapshot) DropItem(itemID string, now time.Time) (Item, error) {
	category, idx, err := s.locate(itemID)
	if err != nil {
		return Item{}, err
	}
	item := s.remove(category, idx)
	s.Touch(now)
	return item, nil
}

// SellItem drops the item and adds gold coins through the currency ledger
func (s *Snapshot) SellItem(itemID string, gold int, policy ConversionPolicy, now time.Time) (Item, error) {
	if gold < 0 {
		return Item{}, errors.InvalidArgumentf("sale amount must be non-negative, got %d", gold)
	}
	category, idx, err := s.locate(itemID)
	if err != nil {
		return Item{}, err
	}
	item := s.remove(category, idx)
	if err := s.Currency.AddCoins(gold, policy); err != nil {
		return Item{}, err
	}
	s.Touch(now)
	return item, nil
}

// Equip places an inventory item into a slot. target is required for
// weapons and shields.
func (s *Snapshot) Equip(itemID string, target SlotName, now time.Time) (SlotRef, error) {
	item, _, ok := s.FindItem(itemID)
	if !ok {
		return SlotRef{}, itemNotFound(itemID)
	}
	kind, ok := KindOf(item.Type)
	if !ok {
		return SlotRef{}, errors.InvalidArgumentf("items of type %q cannot be equipped", item.Type).
			WithMeta("item_id", itemID)
	}
	ref, err := s.Equipped.Equip(itemID, kind, target)
	if err != nil {
		return SlotRef{}, err
	}
	s.Touch(now)
	return ref, nil
}

// Unequip clears a slot and returns the id it held. An empty slot is a no-op
// and leaves LastModified alone.
func (s *Snapshot) Unequip(ref SlotRef, now time.Time) (string, error) {
	prev, err := s.Equipped.Clear(ref)
	if err != nil {
		return "", err
	}
	if prev != "" {
		s.Touch(now)
	}
	return prev, nil
}

// Validate checks the cross-structure invariants of a snapshot read from storage
func (s Snapshot) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("character_id", s.CharacterID, vb)

	seen := make(map[string]bool)
	for c, items := range s.Inventory {
		if !c.IsValid() {
			vb.Fieldf("inventory", "unknown category %q", c)
		}
		for _, item := range items {
			if seen[item.ID] {
				vb.Fieldf("inventory", "item %s appears more than once", item.ID)
			}
			seen[item.ID] = true
		}
	}

	counts := make(map[string]int)
	for _, id := range s.Equipped.allRefs() {
		counts[id]++
		if !seen[id] {
			vb.Fieldf("equipped", "item %s is equipped but not in the inventory", id)
		}
	}
	for id, n := range counts {
		if n > 1 {
			vb.Fieldf("equipped", "item %s is equipped %d times", id, n)
		}
	}
	if len(s.Equipped.Belt) != s.Bag.ConsumableSlots {
		vb.Fieldf("equipped", "belt has %d slots, bag %s has %d",
			len(s.Equipped.Belt), s.Bag.Name, s.Bag.ConsumableSlots)
	}
	if err := s.Currency.Validate(); err != nil {
		vb.Field("currency", errors.GetMessage(err))
	}
	return vb.Build()
}

// MarshalSnapshot encodes s as the stored payload
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode snapshot")
	}
	return data, nil
}

// UnmarshalSnapshot decodes a stored payload. Missing categories are created
// and the belt is sized to the bag.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed snapshot payload")
	}
	if s.Inventory == nil {
		s.Inventory = make(map[Category][]Item)
	}
	for _, c := range AllCategories() {
		if s.Inventory[c] == nil {
			s.Inventory[c] = []Item{}
		}
	}
	if s.Equipped.Belt == nil {
		s.Equipped.Belt = make([]string, s.Bag.ConsumableSlots)
	}
	return s, nil
}

func (s Snapshot) locate(itemID string) (Category, int, error) {
	for c, items := range s.Inventory {
		for i, item := range items {
			if item.ID == itemID {
				return c, i, nil
			}
		}
	}
	return "", 0, itemNotFound(itemID)
}

// remove auto-unequips before deleting
func (s *Snapshot) remove(category Category, idx int) Item {
	items := s.Inventory[category]
	item := items[idx]
	s.Equipped.Release(item.ID)
	s.Inventory[category] = append(items[:idx:idx], items[idx+1:]...)
	return item
}

func (e EquippedState) allRefs() []string {
	var out []string
	for _, id := range []string{e.PrimaryWeapon, e.SecondaryWeapon, e.Armor, e.Clothing} {
		if id != "" {
			out = append(out, id)
		}
	}
	for _, id := range e.Jewelry {
		if id != "" {
			out = append(out, id)
		}
	}
	for _, id := range e.Belt {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func itemNotFound(itemID string) error {
	return errors.NotFoundf("item %s not found", itemID).WithMeta("item_id", itemID)
}
