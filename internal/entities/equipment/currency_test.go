package equipment_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

type CurrencyTestSuite struct {
	suite.Suite
}

func TestCurrencySuite(t *testing.T) {
	suite.Run(t, new(CurrencyTestSuite))
}

func (s *CurrencyTestSuite) TestAddCoinsSingleStep() {
	testCases := []struct {
		name  string
		start equipment.Currency
		add   int
		want  equipment.Currency
	}{
		{
			name: "ten coins become a pouch",
			add:  10,
			want: equipment.Currency{Pouches: 1},
		},
		{
			name:  "remainder stays as coins",
			start: equipment.Currency{Coins: 7},
			add:   15,
			want:  equipment.Currency{Coins: 2, Pouches: 2},
		},
		{
			name:  "filling the pouches promotes to the chest",
			start: equipment.Currency{Pouches: 9},
			add:   10,
			want:  equipment.Currency{Chest: 1},
		},
		{
			name:  "large overflow leaves coins stuck",
			start: equipment.Currency{Pouches: 9},
			add:   100,
			want:  equipment.Currency{Coins: 90, Pouches: 10},
		},
		{
			name:  "stuck pouches promote on the next addition",
			start: equipment.Currency{Coins: 90, Pouches: 10},
			add:   0,
			want:  equipment.Currency{Coins: 0, Pouches: 9, Chest: 1},
		},
		{
			name:  "full chest keeps pouches at the cap",
			start: equipment.Currency{Pouches: 9, Chest: 1},
			add:   25,
			want:  equipment.Currency{Coins: 15, Pouches: 10, Chest: 1},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			c := tc.start
			s.Require().NoError(c.AddCoins(tc.add, equipment.SingleStep))
			s.Equal(tc.want.Coins, c.Coins)
			s.Equal(tc.want.Pouches, c.Pouches)
			s.Equal(tc.want.Chest, c.Chest)
			s.False(c.Coins >= equipment.CoinsPerPouch && c.Pouches < equipment.MaxPouches)
		})
	}
}

func (s *CurrencyTestSuite) TestAddCoinsCascade() {
	c := equipment.Currency{Pouches: 9}
	s.Require().NoError(c.AddCoins(100, equipment.Cascade))

	s.Equal(0, c.Coins)
	s.Equal(9, c.Pouches)
	s.Equal(1, c.Chest)
	s.Equal(190, c.Value())
}

func (s *CurrencyTestSuite) TestAddCoinsRejectsNegative() {
	c := equipment.Currency{Coins: 3}
	err := c.AddCoins(-1, equipment.SingleStep)
	s.True(errors.IsInvalidArgument(err))
	s.Equal(3, c.Coins)
}

func (s *CurrencyTestSuite) TestRemoveCoinsBreaksPouches() {
	c := equipment.Currency{Coins: 2, Pouches: 2, EquippedPouches: 2}
	s.Require().NoError(c.RemoveCoins(5))

	s.Equal(7, c.Coins)
	s.Equal(1, c.Pouches)
	s.Equal(1, c.EquippedPouches)
}

func (s *CurrencyTestSuite) TestRemoveCoinsBreaksChest() {
	c := equipment.Currency{Chest: 1}
	s.Require().NoError(c.RemoveCoins(1))

	s.Equal(9, c.Coins)
	s.Equal(9, c.Pouches)
	s.Equal(0, c.Chest)
}

func (s *CurrencyTestSuite) TestRemoveCoinsInsufficient() {
	c := equipment.Currency{Coins: 4, Pouches: 1}
	err := c.RemoveCoins(15)
	s.True(errors.IsInvalidArgument(err))
	s.Equal(equipment.Currency{Coins: 4, Pouches: 1}, c)
}

func (s *CurrencyTestSuite) TestAdjustPouches() {
	c := equipment.Currency{Pouches: 2, EquippedPouches: 2}

	s.Require().NoError(c.AdjustPouches(-1))
	s.Equal(1, c.Pouches)
	s.Equal(1, c.EquippedPouches)

	err := c.AdjustPouches(-2)
	s.True(errors.IsInvalidArgument(err))
	s.Equal(1, c.Pouches)

	s.Require().NoError(c.AdjustPouches(9))
	s.Equal(0, c.Pouches)
	s.Equal(1, c.Chest)
	s.Equal(0, c.EquippedPouches)

	s.Require().NoError(c.AdjustPouches(10))
	s.Equal(10, c.Pouches)

	err = c.AdjustPouches(1)
	s.True(errors.IsCapacityExceeded(err))
}

func (s *CurrencyTestSuite) TestSetEquippedPouches() {
	c := equipment.Currency{Pouches: 1}

	s.Require().NoError(c.SetEquippedPouches(1))
	s.Equal(1, c.EquippedPouches)

	s.True(errors.IsInvalidArgument(c.SetEquippedPouches(2)))
	s.True(errors.IsInvalidArgument(c.SetEquippedPouches(-1)))

	c.Pouches = 5
	s.True(errors.IsInvalidArgument(c.SetEquippedPouches(3)))
	s.Require().NoError(c.SetEquippedPouches(2))
}

func (s *CurrencyTestSuite) TestBanks() {
	c := equipment.Currency{}

	s.Equal(0, c.AddBank("Waterdeep"))
	s.Equal(1, c.AddBank(""))

	s.Require().NoError(c.SetBankLocation(1, "Neverwinter"))
	s.Require().NoError(c.AdjustBankChests(1, 3))
	s.True(errors.IsInvalidArgument(c.AdjustBankChests(1, -4)))
	s.Equal(3, c.Banks[1].Chests)

	s.Require().NoError(c.RemoveBank(0))
	s.Require().Len(c.Banks, 1)
	s.Equal("Neverwinter", c.Banks[0].Location)

	s.True(errors.IsNotFound(c.RemoveBank(4)))
	s.True(errors.IsNotFound(c.SetBankLocation(-1, "x")))
}

func (s *CurrencyTestSuite) TestCloneIsIndependent() {
	c := equipment.Currency{Banks: []equipment.Bank{{Location: "Baldur's Gate", Chests: 1}}}
	cp := c.Clone()
	cp.Banks[0].Chests = 9
	s.Equal(1, c.Banks[0].Chests)
}
