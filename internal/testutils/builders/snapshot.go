// Package builders provides test data builders for creating test fixtures
package builders

import (
	"fmt"
	"time"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
)

// SnapshotBuilder provides a fluent interface for building test snapshots
type SnapshotBuilder struct {
	snap  equipment.Snapshot
	items int
}

// NewSnapshotBuilder creates a builder for an empty backpack-carrying character
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{
		snap: equipment.NewSnapshot("char-test-001", "Mira Ashdown", equipment.DefaultBag(),
			time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

// WithCharacterID sets the character id
func (b *SnapshotBuilder) WithCharacterID(id string) *SnapshotBuilder {
	b.snap.CharacterID = id
	return b
}

// WithName sets the character name
func (b *SnapshotBuilder) WithName(name string) *SnapshotBuilder {
	b.snap.Name = name
	return b
}

// WithBag switches to a preset bag
func (b *SnapshotBuilder) WithBag(name string) *SnapshotBuilder {
	bag, ok := equipment.LookupBag(name)
	if !ok {
		panic(fmt.Sprintf("unknown bag preset %q", name))
	}
	b.snap, _ = equipment.SwitchBag(b.snap, bag)
	return b
}

// WithItem adds an item with a generated id item-N and returns the builder
func (b *SnapshotBuilder) WithItem(name string, t equipment.ItemType) *SnapshotBuilder {
	b.items++
	id := fmt.Sprintf("item-%d", b.items)
	if _, err := b.snap.AddItem("", id, equipment.ItemFields{Name: name, Type: t}, b.snap.LastModified); err != nil {
		panic(err)
	}
	return b
}

// WithEquipped adds an item and equips it into target
func (b *SnapshotBuilder) WithEquipped(name string, t equipment.ItemType, target equipment.SlotName) *SnapshotBuilder {
	b.WithItem(name, t)
	id := fmt.Sprintf("item-%d", b.items)
	if _, err := b.snap.Equip(id, target, b.snap.LastModified); err != nil {
		panic(err)
	}
	return b
}

// WithCurrency replaces the carried currency
func (b *SnapshotBuilder) WithCurrency(c equipment.Currency) *SnapshotBuilder {
	b.snap.Currency = c
	return b
}

// WithLastModified sets the timestamp
func (b *SnapshotBuilder) WithLastModified(t time.Time) *SnapshotBuilder {
	b.snap.LastModified = t.UTC().Truncate(time.Millisecond)
	return b
}

// Build returns a copy of the snapshot
func (b *SnapshotBuilder) Build() equipment.Snapshot {
	return b.snap.Clone()
}

// BuildJSON returns the encoded snapshot payload
func (b *SnapshotBuilder) BuildJSON() []byte {
	data, err := equipment.MarshalSnapshot(b.snap)
	if err != nil {
		panic(err)
	}
	return data
}
