package inventory

import (
	"context"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// RollItem rolls the dice notation attached to an item. The snapshot is not
// modified.
func (o *orchestrator) RollItem(ctx context.Context, input *RollItemInput) (*RollItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	entry, err := o.load(ctx, input.CharacterRef)
	if err != nil {
		return nil, err
	}

	item, _, ok := entry.Snapshot.FindItem(input.ItemID)
	if !ok {
		return nil, errors.NotFoundf("item %s not found", input.ItemID).WithMeta("item_id", input.ItemID)
	}
	if item.Dice == "" {
		return nil, errors.InvalidArgumentf("item %s has no dice", item.Name).WithMeta("item_id", item.ID)
	}

	notation, err := equipment.ParseDice(item.Dice)
	if err != nil {
		return nil, err
	}

	rolls, err := o.roller.RollN(notation.Count, notation.Size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %s", notation)
	}

	total := notation.Modifier
	for _, r := range rolls {
		total += r
	}

	return &RollItemOutput{
		Item:     item,
		Notation: notation,
		Rolls:    rolls,
		Total:    total,
	}, nil
}
