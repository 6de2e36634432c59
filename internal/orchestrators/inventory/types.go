package inventory

import (
	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
)

// CharacterRef addresses one cached character
type CharacterRef struct {
	RoomID      string
	CharacterID string
}

// MutationOutput is returned by every operation that changes a snapshot
type MutationOutput struct {
	Snapshot    equipment.Snapshot
	Encumbrance equipment.Report
}

// CreateCharacterInput defines the request for creating a cached character
type CreateCharacterInput struct {
	RoomID string
	// CharacterID is generated when empty
	CharacterID string
	Name        string
	// BagName selects a preset; empty means the default bag
	BagName string
	// CustomBag overrides BagName
	CustomBag *equipment.Bag
}

// CreateCharacterOutput defines the response for creating a cached character
type CreateCharacterOutput struct {
	MutationOutput
}

// GetCharacterInput defines the request for reading a cached character
type GetCharacterInput struct {
	CharacterRef
}

// GetCharacterOutput defines the response for reading a cached character
type GetCharacterOutput struct {
	Snapshot    equipment.Snapshot
	Encumbrance equipment.Report
	// Pending is true when the snapshot has changes the server has not seen
	Pending bool
}

// ListCharactersInput defines the request for listing a room's cache
type ListCharactersInput struct {
	RoomID string
}

// CharacterSummary is one line of a room listing
type CharacterSummary struct {
	CharacterID string
	Name        string
	Encumbrance equipment.Report
	Pending     bool
}

// ListCharactersOutput defines the response for listing a room's cache
type ListCharactersOutput struct {
	Characters []CharacterSummary
}

// DeleteCharacterInput defines the request for removing a cached character
type DeleteCharacterInput struct {
	CharacterRef
}

// DeleteCharacterOutput defines the response for removing a cached character
type DeleteCharacterOutput struct{}

// AddItemInput defines the request for adding an item
type AddItemInput struct {
	CharacterRef
	// Category is chosen from the item type when empty
	Category equipment.Category
	Fields   equipment.ItemFields
}

// AddItemOutput defines the response for adding an item
type AddItemOutput struct {
	MutationOutput
	Item equipment.Item
}

// EditItemInput defines the request for editing an item
type EditItemInput struct {
	CharacterRef
	ItemID string
	Patch  equipment.ItemPatch
}

// EditItemOutput defines the response for editing an item
type EditItemOutput struct {
	MutationOutput
	Item equipment.Item
}

// DropItemInput defines the request for dropping an item
type DropItemInput struct {
	CharacterRef
	ItemID string
}

// DropItemOutput defines the response for dropping an item
type DropItemOutput struct {
	MutationOutput
	Item equipment.Item
}

// SellItemInput defines the request for selling an item
type SellItemInput struct {
	CharacterRef
	ItemID string
	Gold   int
}

// SellItemOutput defines the response for selling an item
type SellItemOutput struct {
	MutationOutput
	Item equipment.Item
}

// EquipInput defines the request for equipping an item
type EquipInput struct {
	CharacterRef
	ItemID string
	// Slot is required for weapons and shields
	Slot equipment.SlotName
}

// EquipOutput defines the response for equipping an item
type EquipOutput struct {
	MutationOutput
	Slot equipment.SlotRef
}

// UnequipInput defines the request for clearing a slot
type UnequipInput struct {
	CharacterRef
	Slot equipment.SlotRef
}

// UnequipOutput defines the response for clearing a slot
type UnequipOutput struct {
	MutationOutput
	// ItemID is empty when the slot was already empty
	ItemID string
}

// IsEquippedInput defines the request for checking an item's equip state
type IsEquippedInput struct {
	CharacterRef
	ItemID string
}

// IsEquippedOutput defines the response for checking an item's equip state
type IsEquippedOutput struct {
	Equipped bool
	Slot     *equipment.SlotRef
}

// SwitchBagInput defines the request for changing bags
type SwitchBagInput struct {
	CharacterRef
	BagName   string
	CustomBag *equipment.Bag
}

// SwitchBagOutput defines the response for changing bags
type SwitchBagOutput struct {
	MutationOutput
	// Discarded lists belt items unequipped because the new belt is shorter
	Discarded []string
}

// RollItemInput defines the request for rolling an item's dice
type RollItemInput struct {
	CharacterRef
	ItemID string
}

// RollItemOutput defines the response for rolling an item's dice
type RollItemOutput struct {
	Item     equipment.Item
	Notation equipment.DiceNotation
	Rolls    []int
	Total    int
}

// AddCoinsInput defines the request for adding coins
type AddCoinsInput struct {
	CharacterRef
	Amount int
}

// RemoveCoinsInput defines the request for spending coins
type RemoveCoinsInput struct {
	CharacterRef
	Amount int
}

// AdjustPouchesInput defines the request for changing the pouch count
type AdjustPouchesInput struct {
	CharacterRef
	Delta int
}

// SetEquippedPouchesInput defines the request for wearing pouches
type SetEquippedPouchesInput struct {
	CharacterRef
	Count int
}

// AddBankInput defines the request for opening a bank entry
type AddBankInput struct {
	CharacterRef
	Location string
}

// RemoveBankInput defines the request for closing a bank entry
type RemoveBankInput struct {
	CharacterRef
	Index int
}

// SetBankLocationInput defines the request for renaming a bank entry
type SetBankLocationInput struct {
	CharacterRef
	Index    int
	Location string
}

// AdjustBankChestsInput defines the request for moving chests in a bank
type AdjustBankChestsInput struct {
	CharacterRef
	Index int
	Delta int
}

// CurrencyOutput defines the response of every currency operation
type CurrencyOutput struct {
	MutationOutput
	Currency equipment.Currency
	// BankIndex is set by AddBank
	BankIndex int
}
