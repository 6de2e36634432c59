package inventory_test

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/inventory"
	mockclock "github.com/Zevankai/Equipment-Tool/internal/pkg/clock/mock"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/idgen"
	idgenmock "github.com/Zevankai/Equipment-Tool/internal/pkg/idgen/mock"
	"github.com/Zevankai/Equipment-Tool/internal/repositories/snapshot"
	snapshotmock "github.com/Zevankai/Equipment-Tool/internal/repositories/snapshot/mock"
	"github.com/Zevankai/Equipment-Tool/internal/testutils"
	"github.com/Zevankai/Equipment-Tool/internal/testutils/builders"
)

type fixedRoller struct {
	face int
}

func (r *fixedRoller) Roll(_ int) (int, error) { return r.face, nil }

func (r *fixedRoller) RollN(count, _ int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = r.face
	}
	return out, nil
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctx   context.Context
	repo  *snapshot.SQLiteRepository
	clock *testutils.StepClock
	svc   inventory.Service
	ref   inventory.CharacterRef
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()

	repo, err := snapshot.OpenSQLite(s.ctx, &snapshot.SQLiteConfig{
		Path: filepath.Join(s.T().TempDir(), "cache.db"),
	})
	s.Require().NoError(err)
	s.repo = repo
	s.clock = testutils.NewStepClock(testutils.TestEpoch, time.Second)

	svc, err := inventory.NewOrchestrator(&inventory.Config{
		SnapshotRepo: repo,
		ItemIDs:      idgen.NewSequential("item"),
		CharacterIDs: idgen.NewSequential("char"),
		Clock:        s.clock,
		DiceRoller:   &fixedRoller{face: 3},
	})
	s.Require().NoError(err)
	s.svc = svc

	out, err := s.svc.CreateCharacter(s.ctx, &inventory.CreateCharacterInput{
		RoomID:  testutils.TestRoomID,
		Name:    testutils.TestCharacterName,
		BagName: equipment.BagExplorerPack,
	})
	s.Require().NoError(err)
	s.ref = inventory.CharacterRef{RoomID: testutils.TestRoomID, CharacterID: out.Snapshot.CharacterID}
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.NoError(s.repo.Close())
}

func (s *OrchestratorTestSuite) add(name string, t equipment.ItemType) equipment.Item {
	out, err := s.svc.AddItem(s.ctx, &inventory.AddItemInput{
		CharacterRef: s.ref,
		Fields:       equipment.ItemFields{Name: name, Type: t},
	})
	s.Require().NoError(err)
	return out.Item
}

func (s *OrchestratorTestSuite) get() *inventory.GetCharacterOutput {
	out, err := s.svc.GetCharacter(s.ctx, &inventory.GetCharacterInput{CharacterRef: s.ref})
	s.Require().NoError(err)
	return out
}

func (s *OrchestratorTestSuite) TestNewValidatesConfig() {
	_, err := inventory.NewOrchestrator(&inventory.Config{})
	s.True(errors.IsInvalidArgument(err))

	_, err = inventory.NewOrchestrator(&inventory.Config{
		SnapshotRepo: s.repo,
		ItemIDs:      idgen.NewSequential("item"),
		CharacterIDs: idgen.NewSequential("char"),
		Conversion:   equipment.ConversionPolicy(9),
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestCreateCharacter() {
	got := s.get()
	s.Equal("char_1", got.Snapshot.CharacterID)
	s.Equal(equipment.BagExplorerPack, got.Snapshot.Bag.Name)
	s.Len(got.Snapshot.Equipped.Belt, 6)
	s.Equal(25, got.Encumbrance.Capacity)
	s.True(got.Pending)

	_, err := s.svc.CreateCharacter(s.ctx, &inventory.CreateCharacterInput{
		RoomID: testutils.TestRoomID, CharacterID: "char_1", Name: "Copy",
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.svc.CreateCharacter(s.ctx, &inventory.CreateCharacterInput{
		RoomID: testutils.TestRoomID, Name: "Odd", BagName: "sack",
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestEveryMutationStampsANewTime() {
	before := s.get().Snapshot.LastModified

	item := s.add("Longsword", equipment.TypeWeapon)
	afterAdd := s.get().Snapshot.LastModified
	s.True(afterAdd.After(before))

	_, err := s.svc.Equip(s.ctx, &inventory.EquipInput{
		CharacterRef: s.ref, ItemID: item.ID, Slot: equipment.SlotPrimaryWeapon,
	})
	s.Require().NoError(err)
	s.True(s.get().Snapshot.LastModified.After(afterAdd))
}

func (s *OrchestratorTestSuite) TestStampsStayMonotonicWhenClockStalls() {
	svc, err := inventory.NewOrchestrator(&inventory.Config{
		SnapshotRepo: s.repo,
		ItemIDs:      idgen.NewSequential("stall"),
		CharacterIDs: idgen.NewSequential("char"),
		Clock:        testutils.NewStepClock(testutils.TestEpoch, 0),
	})
	s.Require().NoError(err)

	first, err := svc.AddCoins(s.ctx, &inventory.AddCoinsInput{CharacterRef: s.ref, Amount: 1})
	s.Require().NoError(err)
	second, err := svc.AddCoins(s.ctx, &inventory.AddCoinsInput{CharacterRef: s.ref, Amount: 1})
	s.Require().NoError(err)
	s.True(second.Snapshot.LastModified.After(first.Snapshot.LastModified))
	s.Equal(2, second.Currency.Coins)
}

func (s *OrchestratorTestSuite) TestEquipRejectionLeavesCacheUntouched() {
	plate := s.add("Plate", equipment.TypeArmor)
	leather := s.add("Leather", equipment.TypeArmor)

	_, err := s.svc.Equip(s.ctx, &inventory.EquipInput{CharacterRef: s.ref, ItemID: plate.ID})
	s.Require().NoError(err)
	snapBefore := s.get().Snapshot

	_, err = s.svc.Equip(s.ctx, &inventory.EquipInput{CharacterRef: s.ref, ItemID: leather.ID})
	s.True(errors.IsSlotConflict(err))

	_, err = s.svc.Equip(s.ctx, &inventory.EquipInput{CharacterRef: s.ref, ItemID: plate.ID})
	s.True(errors.IsAlreadyEquipped(err))

	s.Equal(snapBefore, s.get().Snapshot)
}

func (s *OrchestratorTestSuite) TestEncumbranceReturnedWithMutations() {
	out, err := s.svc.AddItem(s.ctx, &inventory.AddItemInput{
		CharacterRef: s.ref,
		Fields:       equipment.ItemFields{Name: "Anvil", Type: equipment.TypeTool},
	})
	s.Require().NoError(err)
	s.Equal(2, out.Encumbrance.TotalWeight)

	eq, err := s.svc.IsEquipped(s.ctx, &inventory.IsEquippedInput{CharacterRef: s.ref, ItemID: out.Item.ID})
	s.Require().NoError(err)
	s.False(eq.Equipped)
	s.Nil(eq.Slot)
}

func (s *OrchestratorTestSuite) TestUnequipEmptySlotDoesNotStamp() {
	before := s.get().Snapshot.LastModified

	out, err := s.svc.Unequip(s.ctx, &inventory.UnequipInput{
		CharacterRef: s.ref,
		Slot:         equipment.SlotRef{Name: equipment.SlotArmor},
	})
	s.Require().NoError(err)
	s.Empty(out.ItemID)
	s.Equal(before, s.get().Snapshot.LastModified)
}

func (s *OrchestratorTestSuite) TestSellItem() {
	gem := s.add("Ruby", equipment.TypeTrinket)

	out, err := s.svc.SellItem(s.ctx, &inventory.SellItemInput{CharacterRef: s.ref, ItemID: gem.ID, Gold: 25})
	s.Require().NoError(err)
	s.Equal(equipment.Currency{Coins: 5, Pouches: 2}, out.Snapshot.Currency)
	_, _, found := out.Snapshot.FindItem(gem.ID)
	s.False(found)

	_, err = s.svc.SellItem(s.ctx, &inventory.SellItemInput{CharacterRef: s.ref, ItemID: gem.ID, Gold: 1})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestSwitchBagReportsDiscarded() {
	var potions []string
	for i := 0; i < 4; i++ {
		p := s.add("Potion", equipment.TypePotion)
		_, err := s.svc.Equip(s.ctx, &inventory.EquipInput{CharacterRef: s.ref, ItemID: p.ID})
		s.Require().NoError(err)
		potions = append(potions, p.ID)
	}

	out, err := s.svc.SwitchBag(s.ctx, &inventory.SwitchBagInput{CharacterRef: s.ref, BagName: equipment.BagSatchel})
	s.Require().NoError(err)
	s.Equal(potions[2:], out.Discarded)
	s.Len(out.Snapshot.Equipped.Belt, 2)
	s.Len(out.Snapshot.Items(), 4)

	_, err = s.svc.SwitchBag(s.ctx, &inventory.SwitchBagInput{
		CharacterRef: s.ref,
		CustomBag:    &equipment.Bag{Name: "cart", Capacity: -1},
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestRollItem() {
	out, err := s.svc.AddItem(s.ctx, &inventory.AddItemInput{
		CharacterRef: s.ref,
		Fields:       equipment.ItemFields{Name: "Greataxe", Type: equipment.TypeWeapon, Dice: "2d12+2"},
	})
	s.Require().NoError(err)

	roll, err := s.svc.RollItem(s.ctx, &inventory.RollItemInput{CharacterRef: s.ref, ItemID: out.Item.ID})
	s.Require().NoError(err)
	s.Equal([]int{3, 3}, roll.Rolls)
	s.Equal(8, roll.Total)
	s.Equal("2d12+2", roll.Notation.String())

	rope := s.add("Rope", equipment.TypeTool)
	_, err = s.svc.RollItem(s.ctx, &inventory.RollItemInput{CharacterRef: s.ref, ItemID: rope.ID})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestCurrencyOperations() {
	out, err := s.svc.AddCoins(s.ctx, &inventory.AddCoinsInput{CharacterRef: s.ref, Amount: 37})
	s.Require().NoError(err)
	s.Equal(equipment.Currency{Coins: 7, Pouches: 3}, out.Currency)

	out, err = s.svc.SetEquippedPouches(s.ctx, &inventory.SetEquippedPouchesInput{CharacterRef: s.ref, Count: 2})
	s.Require().NoError(err)
	s.Equal(2, out.Currency.EquippedPouches)

	out, err = s.svc.RemoveCoins(s.ctx, &inventory.RemoveCoinsInput{CharacterRef: s.ref, Amount: 30})
	s.Require().NoError(err)
	s.Equal(7, out.Currency.Value())
	s.Equal(0, out.Currency.EquippedPouches)

	_, err = s.svc.RemoveCoins(s.ctx, &inventory.RemoveCoinsInput{CharacterRef: s.ref, Amount: 8})
	s.True(errors.IsInvalidArgument(err))

	out, err = s.svc.AdjustPouches(s.ctx, &inventory.AdjustPouchesInput{CharacterRef: s.ref, Delta: 4})
	s.Require().NoError(err)
	s.Equal(4, out.Currency.Pouches)

	out, err = s.svc.AddBank(s.ctx, &inventory.AddBankInput{CharacterRef: s.ref, Location: "Waterdeep"})
	s.Require().NoError(err)
	s.Equal(0, out.BankIndex)

	out, err = s.svc.AdjustBankChests(s.ctx, &inventory.AdjustBankChestsInput{CharacterRef: s.ref, Index: 0, Delta: 3})
	s.Require().NoError(err)
	s.Equal(3, out.Currency.Banks[0].Chests)

	out, err = s.svc.SetBankLocation(s.ctx, &inventory.SetBankLocationInput{CharacterRef: s.ref, Index: 0, Location: "Neverwinter"})
	s.Require().NoError(err)
	s.Equal("Neverwinter", out.Currency.Banks[0].Location)

	_, err = s.svc.RemoveBank(s.ctx, &inventory.RemoveBankInput{CharacterRef: s.ref, Index: 4})
	s.True(errors.IsNotFound(err))

	out, err = s.svc.RemoveBank(s.ctx, &inventory.RemoveBankInput{CharacterRef: s.ref, Index: 0})
	s.Require().NoError(err)
	s.Empty(out.Currency.Banks)
}

func (s *OrchestratorTestSuite) TestListAndDelete() {
	_, err := s.svc.CreateCharacter(s.ctx, &inventory.CreateCharacterInput{
		RoomID: testutils.TestRoomID, CharacterID: "char_0", Name: "Tobin",
	})
	s.Require().NoError(err)

	list, err := s.svc.ListCharacters(s.ctx, &inventory.ListCharactersInput{RoomID: testutils.TestRoomID})
	s.Require().NoError(err)
	s.Require().Len(list.Characters, 2)
	s.Equal("char_0", list.Characters[0].CharacterID)

	_, err = s.svc.DeleteCharacter(s.ctx, &inventory.DeleteCharacterInput{CharacterRef: s.ref})
	s.Require().NoError(err)
	_, err = s.svc.GetCharacter(s.ctx, &inventory.GetCharacterInput{CharacterRef: s.ref})
	s.True(errors.IsNotFound(err))

	tombs, err := s.repo.ListTombstones(s.ctx, snapshot.ListTombstonesInput{RoomID: testutils.TestRoomID})
	s.Require().NoError(err)
	s.True(tombs.Has(s.ref.CharacterID))
	s.False(tombs.Has("char_0"))
}

func (s *OrchestratorTestSuite) TestMissingCharacter() {
	_, err := s.svc.AddCoins(s.ctx, &inventory.AddCoinsInput{
		CharacterRef: inventory.CharacterRef{RoomID: testutils.TestRoomID, CharacterID: "ghost"},
		Amount:       1,
	})
	s.True(errors.IsNotFound(err))

	_, err = s.svc.AddCoins(s.ctx, &inventory.AddCoinsInput{Amount: 1})
	s.True(errors.IsInvalidArgument(err))
}

func TestSaveFailureIsStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := snapshotmock.NewMockRepository(ctrl)
	snap := builders.NewSnapshotBuilder().Build()

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(&snapshot.GetOutput{Entry: snapshot.Entry{RoomID: testutils.TestRoomID, Snapshot: snap}}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		Return(nil, errors.Storage(stderrors.New("database is locked"), "failed to save snapshot"))

	svc, err := inventory.NewOrchestrator(&inventory.Config{
		SnapshotRepo: repo,
		ItemIDs:      idgen.NewSequential("item"),
		CharacterIDs: idgen.NewSequential("char"),
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.AddCoins(context.Background(), &inventory.AddCoinsInput{
		CharacterRef: inventory.CharacterRef{RoomID: testutils.TestRoomID, CharacterID: snap.CharacterID},
		Amount:       5,
	})
	if !errors.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestCreateCharacterUsesGeneratorsAndClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	repo, err := snapshot.OpenSQLite(ctx, &snapshot.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "cache.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = repo.Close() }()

	characterIDs := idgenmock.NewMockGenerator(ctrl)
	characterIDs.EXPECT().Generate().Return("char_a1b2")
	itemIDs := idgenmock.NewMockGenerator(ctrl)
	itemIDs.EXPECT().Generate().Return("item_c3d4")

	clk := mockclock.NewMockClock(ctrl)
	clk.EXPECT().Now().Return(testutils.TestEpoch.Add(1500 * time.Microsecond))
	// a clock running behind the cached stamp still moves it forward
	clk.EXPECT().Now().Return(testutils.TestEpoch)

	svc, err := inventory.NewOrchestrator(&inventory.Config{
		SnapshotRepo: repo,
		ItemIDs:      itemIDs,
		CharacterIDs: characterIDs,
		Clock:        clk,
	})
	if err != nil {
		t.Fatal(err)
	}

	created, err := svc.CreateCharacter(ctx, &inventory.CreateCharacterInput{
		RoomID: testutils.TestRoomID,
		Name:   testutils.TestCharacterName,
	})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "char_a1b2", created.Snapshot.CharacterID)
	assert.Equal(t, testutils.TestEpoch.Add(time.Millisecond), created.Snapshot.LastModified)

	added, err := svc.AddItem(ctx, &inventory.AddItemInput{
		CharacterRef: inventory.CharacterRef{RoomID: testutils.TestRoomID, CharacterID: "char_a1b2"},
		Fields:       equipment.ItemFields{Name: "Lantern", Type: equipment.TypeLight},
	})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "item_c3d4", added.Item.ID)
	assert.Equal(t, testutils.TestEpoch.Add(2*time.Millisecond), added.Snapshot.LastModified)
}
