package inventory

import (
	"context"
	"time"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// currency runs one ledger change and stamps the snapshot when it succeeds
func (o *orchestrator) currency(
	ctx context.Context,
	ref CharacterRef,
	fn func(c *equipment.Currency) (int, error),
) (*CurrencyOutput, error) {
	bank := -1
	snap, err := o.mutate(ctx, ref, func(s *equipment.Snapshot, now time.Time) error {
		idx, err := fn(&s.Currency)
		if err != nil {
			return err
		}
		bank = idx
		s.Touch(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CurrencyOutput{
		MutationOutput: result(snap),
		Currency:       snap.Currency,
		BankIndex:      bank,
	}, nil
}

func (o *orchestrator) AddCoins(ctx context.Context, input *AddCoinsInput) (*CurrencyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.currency(ctx, input.CharacterRef, func(c *equipment.Currency) (int, error) {
		return -1, c.AddCoins(input.Amount, o.conversion)
	})
}

func (o *orchestrator) RemoveCoins(ctx context.Context, input *RemoveCoinsInput) (*CurrencyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.currency(ctx, input.CharacterRef, func(c *equipment.Currency) (int, error) {
		return -1, c.RemoveCoins(input.Amount)
	})
}

func (o *orchestrator) AdjustPouches(ctx context.Context, input *AdjustPouchesInput) (*CurrencyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.currency(ctx, input.CharacterRef, func(c *equipment.Currency) (int, error) {
		return -1, c.AdjustPouches(input.Delta)
	})
}

func (o *orchestrator) SetEquippedPouches(
	ctx context.Context,
	input *SetEquippedPouchesInput,
) (*CurrencyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.currency(ctx, input.CharacterRef, func(c *equipment.Currency) (int, error) {
		return -1, c.SetEquippedPouches(input.Count)
	})
}

func (o *orchestrator) AddBank(ctx context.Context, input *AddBankInput) (*CurrencyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.currency(ctx, input.CharacterRef, func(c *equipment.Currency) (int, error) {
		return c.AddBank(input.Location), nil
	})
}

func (o *orchestrator) RemoveBank(ctx context.Context, input *RemoveBankInput) (*CurrencyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.currency(ctx, input.CharacterRef, func(c *equipment.Currency) (int, error) {
		return -1, c.RemoveBank(input.Index)
	})
}

func (o *orchestrator) SetBankLocation(ctx context.Context, input *SetBankLocationInput) (*CurrencyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.currency(ctx, input.CharacterRef, func(c *equipment.Currency) (int, error) {
		return input.Index, c.SetBankLocation(input.Index, input.Location)
	})
}

func (o *orchestrator) AdjustBankChests(ctx context.Context, input *AdjustBankChestsInput) (*CurrencyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.currency(ctx, input.CharacterRef, func(c *equipment.Currency) (int, error) {
		return input.Index, c.AdjustBankChests(input.Index, input.Delta)
	})
}
