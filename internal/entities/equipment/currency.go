package equipment

import (
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// Currency limits
const (
	CoinsPerPouch      = 10
	PouchesPerChest    = 10
	MaxPouches         = 10
	MaxChest           = 1
	MaxEquippedPouches = 2
)

// ConversionPolicy decides how far one coin addition may carry upward
type ConversionPolicy int

const (
	// SingleStep converts coins into pouches while there is room and promotes
	// at most one full set of pouches into the chest per call. Large additions
	// can leave coins stuck above the pouch cap.
	SingleStep ConversionPolicy = iota
	// Cascade keeps converting until nothing more can carry
	Cascade
)

// String returns the string representation of the policy
func (p ConversionPolicy) String() string {
	switch p {
	case SingleStep:
		return "single-step"
	case Cascade:
		return "cascade"
	default:
		return "unknown"
	}
}

// Bank is coin storage left somewhere in the world
type Bank struct {
	Location string `json:"location"`
	Chests   int    `json:"chests"`
}

// Currency is the carried money of one character. Coins stay below
// CoinsPerPouch unless the pouches are full. EquippedPouches never exceeds
// Pouches or MaxEquippedPouches.
type Currency struct {
	Coins           int    `json:"coins"`
	Pouches         int    `json:"pouches"`
	Chest           int    `json:"chest"`
	EquippedPouches int    `json:"equippedPouches"`
	Banks           []Bank `json:"banks"`
}

// Clone returns a copy that shares no memory with c
func (c Currency) Clone() Currency {
	out := c
	if c.Banks != nil {
		out.Banks = append(make([]Bank, 0, len(c.Banks)), c.Banks...)
	}
	return out
}

// Value returns the carried total in coins, banks excluded
func (c Currency) Value() int {
	return c.Coins + c.Pouches*CoinsPerPouch + c.Chest*PouchesPerChest*CoinsPerPouch
}

// AddCoins adds n coins and carries them upward according to policy
func (c *Currency) AddCoins(n int, policy ConversionPolicy) error {
	if n < 0 {
		return errors.InvalidArgumentf("coin amount must be non-negative, got %d", n)
	}
	c.Coins += n

	if policy == Cascade {
		c.cascade()
		return nil
	}

	promoted := c.promote()
	for c.Coins >= CoinsPerPouch && c.Pouches < MaxPouches {
		c.Coins -= CoinsPerPouch
		c.Pouches++
	}
	if !promoted && c.Coins < CoinsPerPouch {
		c.promote()
	}
	return nil
}

// RemoveCoins spends n coins, breaking pouches and then the chest as needed
func (c *Currency) RemoveCoins(n int) error {
	if n < 0 {
		return errors.InvalidArgumentf("coin amount must be non-negative, got %d", n)
	}
	if c.Value() < n {
		return errors.InvalidArgumentf("insufficient funds: have %d coins, need %d", c.Value(), n).
			WithMeta("available", c.Value())
	}
	for c.Coins < n {
		if c.Pouches > 0 {
			c.Pouches--
			c.Coins += CoinsPerPouch
			continue
		}
		c.Chest--
		c.Pouches += PouchesPerChest
	}
	c.Coins -= n
	c.clampEquipped()
	return nil
}

// AdjustPouches changes the pouch count by delta; a full set of pouches
// moves into an empty chest
func (c *Currency) AdjustPouches(delta int) error {
	next := c.Pouches + delta
	if next < 0 {
		return errors.InvalidArgumentf("pouches cannot go below zero (have %d, delta %d)", c.Pouches, delta)
	}
	chest := c.Chest
	if next >= PouchesPerChest && chest < MaxChest {
		next -= PouchesPerChest
		chest++
	}
	if next > MaxPouches {
		return errors.CapacityExceededf("pouches cannot exceed %d", MaxPouches)
	}
	c.Pouches = next
	c.Chest = chest
	c.clampEquipped()
	return nil
}

// SetEquippedPouches sets how many pouches are worn
func (c *Currency) SetEquippedPouches(n int) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("equipped_pouches", n, 0, MaxEquippedPouches, vb)
	if n > c.Pouches {
		vb.Fieldf("equipped_pouches", "cannot exceed carried pouches (%d)", c.Pouches)
	}
	if err := vb.Build(); err != nil {
		return err
	}
	c.EquippedPouches = n
	return nil
}

// AddBank appends a bank entry and returns its index
func (c *Currency) AddBank(location string) int {
	c.Banks = append(c.Banks, Bank{Location: location})
	return len(c.Banks) - 1
}

// RemoveBank deletes the bank at index i
func (c *Currency) RemoveBank(i int) error {
	if err := c.checkBank(i); err != nil {
		return err
	}
	c.Banks = append(c.Banks[:i:i], c.Banks[i+1:]...)
	return nil
}

// SetBankLocation renames the bank at index i
func (c *Currency) SetBankLocation(i int, location string) error {
	if err := c.checkBank(i); err != nil {
		return err
	}
	c.Banks[i].Location = location
	return nil
}

// AdjustBankChests changes the chest count of bank i by delta
func (c *Currency) AdjustBankChests(i, delta int) error {
	if err := c.checkBank(i); err != nil {
		return err
	}
	next := c.Banks[i].Chests + delta
	if next < 0 {
		return errors.InvalidArgumentf("bank %d chests cannot go below zero (have %d, delta %d)",
			i, c.Banks[i].Chests, delta)
	}
	c.Banks[i].Chests = next
	return nil
}

// Validate checks the stored ranges. It is used on snapshots read from outside.
func (c Currency) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateNonNegative("coins", c.Coins, vb)
	errors.ValidateRange("pouches", c.Pouches, 0, MaxPouches, vb)
	errors.ValidateRange("chest", c.Chest, 0, MaxChest, vb)
	errors.ValidateRange("equipped_pouches", c.EquippedPouches, 0, MaxEquippedPouches, vb)
	if c.EquippedPouches > c.Pouches {
		vb.Field("equipped_pouches", "cannot exceed carried pouches")
	}
	for i, b := range c.Banks {
		if b.Chests < 0 {
			vb.Fieldf("banks", "bank %d has negative chests", i)
		}
	}
	return vb.Build()
}

func (c *Currency) promote() bool {
	if c.Pouches >= PouchesPerChest && c.Chest < MaxChest {
		c.Pouches -= PouchesPerChest
		c.Chest++
		c.clampEquipped()
		return true
	}
	return false
}

func (c *Currency) cascade() {
	for {
		changed := false
		for c.Coins >= CoinsPerPouch && c.Pouches < MaxPouches {
			c.Coins -= CoinsPerPouch
			c.Pouches++
			changed = true
		}
		if c.promote() {
			changed = true
		}
		if !changed {
			return
		}
	}
}

func (c *Currency) clampEquipped() {
	if c.EquippedPouches > c.Pouches {
		c.EquippedPouches = c.Pouches
	}
	if c.EquippedPouches > MaxEquippedPouches {
		c.EquippedPouches = MaxEquippedPouches
	}
	if c.EquippedPouches < 0 {
		c.EquippedPouches = 0
	}
}

func (c Currency) checkBank(i int) error {
	if i < 0 || i >= len(c.Banks) {
		return errors.NotFoundf("bank %d not found", i).WithMeta("banks", len(c.Banks))
	}
	return nil
}
