// Package inventory implements the local-first inventory orchestrator. Every
// operation reads a snapshot from the local cache, applies one change and
// writes it back with a fresh timestamp; the server is never contacted.
package inventory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.uber.org/zap"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/clock"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/idgen"
	"github.com/Zevankai/Equipment-Tool/internal/repositories/snapshot"
)

// Service defines the inventory operations on cached characters
type Service interface {
	// Characters
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)

	// Items
	AddItem(ctx context.Context, input *AddItemInput) (*AddItemOutput, error)
	EditItem(ctx context.Context, input *EditItemInput) (*EditItemOutput, error)
	DropItem(ctx context.Context, input *DropItemInput) (*DropItemOutput, error)
	SellItem(ctx context.Context, input *SellItemInput) (*SellItemOutput, error)
	RollItem(ctx context.Context, input *RollItemInput) (*RollItemOutput, error)

	// Slots and bags
	Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error)
	Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error)
	IsEquipped(ctx context.Context, input *IsEquippedInput) (*IsEquippedOutput, error)
	SwitchBag(ctx context.Context, input *SwitchBagInput) (*SwitchBagOutput, error)

	// Currency
	AddCoins(ctx context.Context, input *AddCoinsInput) (*CurrencyOutput, error)
	RemoveCoins(ctx context.Context, input *RemoveCoinsInput) (*CurrencyOutput, error)
	AdjustPouches(ctx context.Context, input *AdjustPouchesInput) (*CurrencyOutput, error)
	SetEquippedPouches(ctx context.Context, input *SetEquippedPouchesInput) (*CurrencyOutput, error)
	AddBank(ctx context.Context, input *AddBankInput) (*CurrencyOutput, error)
	RemoveBank(ctx context.Context, input *RemoveBankInput) (*CurrencyOutput, error)
	SetBankLocation(ctx context.Context, input *SetBankLocationInput) (*CurrencyOutput, error)
	AdjustBankChests(ctx context.Context, input *AdjustBankChestsInput) (*CurrencyOutput, error)
}

// Config holds the dependencies for the inventory orchestrator
type Config struct {
	SnapshotRepo snapshot.Repository
	// ItemIDs generates item ids
	ItemIDs idgen.Generator
	// CharacterIDs generates ids for characters created without one
	CharacterIDs idgen.Generator
	Clock        clock.Clock
	DiceRoller   dice.Roller
	Conversion   equipment.ConversionPolicy
	Logger       *zap.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()

	if c.SnapshotRepo == nil {
		vb.RequiredField("SnapshotRepo")
	}
	if c.ItemIDs == nil {
		vb.RequiredField("ItemIDs")
	}
	if c.CharacterIDs == nil {
		vb.RequiredField("CharacterIDs")
	}
	if c.Conversion != equipment.SingleStep && c.Conversion != equipment.Cascade {
		vb.InvalidField("Conversion", "unknown conversion policy")
	}

	return vb.Build()
}

type orchestrator struct {
	snapshots    snapshot.Repository
	itemIDs      idgen.Generator
	characterIDs idgen.Generator
	clock        clock.Clock
	roller       dice.Roller
	conversion   equipment.ConversionPolicy
	logger       *zap.Logger

	// mu serialises read-modify-write cycles on the cache
	mu sync.Mutex
}

// NewOrchestrator creates a new inventory orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	r := cfg.DiceRoller
	if r == nil {
		r = dice.DefaultRoller
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	return &orchestrator{
		snapshots:    cfg.SnapshotRepo,
		itemIDs:      cfg.ItemIDs,
		characterIDs: cfg.CharacterIDs,
		clock:        c,
		roller:       r,
		conversion:   cfg.Conversion,
		logger:       l.Named("orchestrator.inventory"),
	}, nil
}

func validateRef(ref CharacterRef) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("room_id", ref.RoomID, vb)
	errors.ValidateRequired("character_id", ref.CharacterID, vb)
	return vb.Build()
}

func resolveBag(name string, custom *equipment.Bag) (equipment.Bag, error) {
	if custom != nil {
		if err := custom.Validate(); err != nil {
			return equipment.Bag{}, err
		}
		return *custom, nil
	}
	if strings.TrimSpace(name) == "" {
		return equipment.DefaultBag(), nil
	}
	bag, ok := equipment.LookupBag(name)
	if !ok {
		return equipment.Bag{}, errors.InvalidArgumentf("unknown bag %q", name).WithMeta("bag", name)
	}
	return bag, nil
}

func result(s equipment.Snapshot) MutationOutput {
	return MutationOutput{Snapshot: s, Encumbrance: equipment.Encumbrance(s)}
}

// load reads a cached snapshot
func (o *orchestrator) load(ctx context.Context, ref CharacterRef) (snapshot.Entry, error) {
	if err := validateRef(ref); err != nil {
		return snapshot.Entry{}, err
	}
	out, err := o.snapshots.Get(ctx, snapshot.GetInput{RoomID: ref.RoomID, CharacterID: ref.CharacterID})
	if err != nil {
		return snapshot.Entry{}, errors.Wrapf(err, "failed to load character %s", ref.CharacterID)
	}
	return out.Entry, nil
}

// mutate applies fn to a copy of the cached snapshot and saves it when fn
// stamped a new LastModified. Stamps are strictly increasing per character.
// A failing fn leaves the cache untouched.
func (o *orchestrator) mutate(
	ctx context.Context,
	ref CharacterRef,
	fn func(s *equipment.Snapshot, now time.Time) error,
) (equipment.Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, err := o.load(ctx, ref)
	if err != nil {
		return equipment.Snapshot{}, err
	}

	before := entry.Snapshot.LastModified
	now := clock.Stamp(o.clock)
	if !now.After(before) {
		now = before.Add(time.Millisecond)
	}

	next := entry.Snapshot.Clone()
	if err := fn(&next, now); err != nil {
		return equipment.Snapshot{}, err
	}
	if next.LastModified.Equal(before) {
		return next, nil
	}

	out, err := o.snapshots.Save(ctx, snapshot.SaveInput{RoomID: ref.RoomID, Snapshot: next})
	if err != nil {
		return equipment.Snapshot{}, errors.Wrapf(err, "failed to save character %s", ref.CharacterID)
	}
	return out.Entry.Snapshot, nil
}

func (o *orchestrator) CreateCharacter(
	ctx context.Context,
	input *CreateCharacterInput,
) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("room_id", input.RoomID, vb)
	errors.ValidateRequired("name", input.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	bag, err := resolveBag(input.BagName, input.CustomBag)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.CharacterID)
	if id == "" {
		id = o.characterIDs.Generate()
	} else {
		_, err := o.snapshots.Get(ctx, snapshot.GetInput{RoomID: input.RoomID, CharacterID: id})
		switch {
		case err == nil:
			return nil, errors.InvalidArgumentf("character %s already exists in room %s", id, input.RoomID).
				WithMeta("character_id", id)
		case !errors.IsNotFound(err):
			return nil, errors.Wrapf(err, "failed to check character %s", id)
		}
	}

	snap := equipment.NewSnapshot(id, strings.TrimSpace(input.Name), bag, clock.Stamp(o.clock))
	out, err := o.snapshots.Save(ctx, snapshot.SaveInput{RoomID: input.RoomID, Snapshot: snap})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create character %s", id)
	}

	o.logger.Info("created character",
		zap.String("room_id", input.RoomID),
		zap.String("character_id", id),
		zap.String("bag", bag.Name))

	return &CreateCharacterOutput{MutationOutput: result(out.Entry.Snapshot)}, nil
}

func (o *orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	entry, err := o.load(ctx, input.CharacterRef)
	if err != nil {
		return nil, err
	}
	return &GetCharacterOutput{
		Snapshot:    entry.Snapshot,
		Encumbrance: equipment.Encumbrance(entry.Snapshot),
		Pending:     entry.Pending(),
	}, nil
}

func (o *orchestrator) ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	out, err := o.snapshots.List(ctx, snapshot.ListInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list room %s", input.RoomID)
	}

	summaries := make([]CharacterSummary, 0, len(out.Entries))
	for _, e := range out.Entries {
		summaries = append(summaries, CharacterSummary{
			CharacterID: e.Snapshot.CharacterID,
			Name:        e.Snapshot.Name,
			Encumbrance: equipment.Encumbrance(e.Snapshot),
			Pending:     e.Pending(),
		})
	}
	return &ListCharactersOutput{Characters: summaries}, nil
}

func (o *orchestrator) DeleteCharacter(
	ctx context.Context,
	input *DeleteCharacterInput,
) (*DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateRef(input.CharacterRef); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := o.snapshots.Delete(ctx, snapshot.DeleteInput{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
		DeletedAt:   clock.Stamp(o.clock),
	}); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character %s", input.CharacterID)
	}

	o.logger.Info("deleted character",
		zap.String("room_id", input.RoomID),
		zap.String("character_id", input.CharacterID))

	return &DeleteCharacterOutput{}, nil
}

func (o *orchestrator) AddItem(ctx context.Context, input *AddItemInput) (*AddItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var item equipment.Item
	snap, err := o.mutate(ctx, input.CharacterRef, func(s *equipment.Snapshot, now time.Time) error {
		var err error
		item, err = s.AddItem(input.Category, o.itemIDs.Generate(), input.Fields, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &AddItemOutput{MutationOutput: result(snap), Item: item}, nil
}

func (o *orchestrator) EditItem(ctx context.Context, input *EditItemInput) (*EditItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Patch.IsEmpty() {
		return nil, errors.InvalidArgument("no item fields to change")
	}

	var item equipment.Item
	snap, err := o.mutate(ctx, input.CharacterRef, func(s *equipment.Snapshot, now time.Time) error {
		var err error
		item, err = s.EditItem(input.ItemID, input.Patch, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &EditItemOutput{MutationOutput: result(snap), Item: item}, nil
}

func (o *orchestrator) DropItem(ctx context.Context, input *DropItemInput) (*DropItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var item equipment.Item
	snap, err := o.mutate(ctx, input.CharacterRef, func(s *equipment.Snapshot, now time.Time) error {
		var err error
		item, err = s.DropItem(input.ItemID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &DropItemOutput{MutationOutput: result(snap), Item: item}, nil
}

func (o *orchestrator) SellItem(ctx context.Context, input *SellItemInput) (*SellItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var item equipment.Item
	snap, err := o.mutate(ctx, input.CharacterRef, func(s *equipment.Snapshot, now time.Time) error {
		var err error
		item, err = s.SellItem(input.ItemID, input.Gold, o.conversion, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	o.logger.Debug("sold item",
		zap.String("character_id", input.CharacterID),
		zap.String("item_id", item.ID),
		zap.Int("gold", input.Gold))

	return &SellItemOutput{MutationOutput: result(snap), Item: item}, nil
}

func (o *orchestrator) Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var ref equipment.SlotRef
	snap, err := o.mutate(ctx, input.CharacterRef, func(s *equipment.Snapshot, now time.Time) error {
		var err error
		ref, err = s.Equip(input.ItemID, input.Slot, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &EquipOutput{MutationOutput: result(snap), Slot: ref}, nil
}

func (o *orchestrator) Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var itemID string
	snap, err := o.mutate(ctx, input.CharacterRef, func(s *equipment.Snapshot, now time.Time) error {
		var err error
		itemID, err = s.Unequip(input.Slot, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &UnequipOutput{MutationOutput: result(snap), ItemID: itemID}, nil
}

func (o *orchestrator) IsEquipped(ctx context.Context, input *IsEquippedInput) (*IsEquippedOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	entry, err := o.load(ctx, input.CharacterRef)
	if err != nil {
		return nil, err
	}
	if _, _, ok := entry.Snapshot.FindItem(input.ItemID); !ok {
		return nil, errors.NotFoundf("item %s not found", input.ItemID).WithMeta("item_id", input.ItemID)
	}

	ref, ok := entry.Snapshot.Equipped.Locate(input.ItemID)
	if !ok {
		return &IsEquippedOutput{}, nil
	}
	return &IsEquippedOutput{Equipped: true, Slot: &ref}, nil
}

func (o *orchestrator) SwitchBag(ctx context.Context, input *SwitchBagInput) (*SwitchBagOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	bag, err := resolveBag(input.BagName, input.CustomBag)
	if err != nil {
		return nil, err
	}

	var discarded []string
	snap, err := o.mutate(ctx, input.CharacterRef, func(s *equipment.Snapshot, now time.Time) error {
		var next equipment.Snapshot
		next, discarded = equipment.SwitchBag(*s, bag)
		next.Touch(now)
		*s = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(discarded) > 0 {
		o.logger.Info("belt items unequipped by bag switch",
			zap.String("character_id", input.CharacterID),
			zap.String("bag", bag.Name),
			zap.Strings("item_ids", discarded))
	}

	return &SwitchBagOutput{MutationOutput: result(snap), Discarded: discarded}, nil
}
