package character_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/repositories/character"
	"github.com/Zevankai/Equipment-Tool/internal/testutils"
)

// RepositoryContractSuite runs the same behaviour checks against every backend
type RepositoryContractSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *testutils.StepClock
	repo    character.Repository
	newRepo func(s *RepositoryContractSuite) (character.Repository, func())
	cleanup func()
}

func (s *RepositoryContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = testutils.NewStepClock(testutils.TestEpoch, time.Second)
	s.repo, s.cleanup = s.newRepo(s)
}

func (s *RepositoryContractSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *RepositoryContractSuite) upsert(room, id, name, data string) *character.UpsertOutput {
	out, err := s.repo.Upsert(s.ctx, character.UpsertInput{
		RoomID:      room,
		CharacterID: id,
		Name:        name,
		Data:        json.RawMessage(data),
	})
	s.Require().NoError(err)
	return out
}

func (s *RepositoryContractSuite) TestUpsertCreatesThenReplaces() {
	first := s.upsert("room-1", "char-1", "Mira", `{"coins":1}`)
	s.True(first.Created)
	s.Equal(testutils.TestEpoch, first.Character.UpdatedAt)

	second := s.upsert("room-1", "char-1", "Mira the Bold", `{"coins":2}`)
	s.False(second.Created)
	s.Equal("Mira the Bold", second.Character.Name)
	s.JSONEq(`{"coins":2}`, string(second.Character.Data))
	s.Equal(first.Character.CreatedAt, second.Character.CreatedAt)
	s.True(second.Character.UpdatedAt.After(first.Character.UpdatedAt))

	got, err := s.repo.Get(s.ctx, character.GetInput{RoomID: "room-1", CharacterID: "char-1"})
	s.Require().NoError(err)
	s.Equal(second.Character.UpdatedAt, got.Character.UpdatedAt)
	s.JSONEq(`{"coins":2}`, string(got.Character.Data))
}

func (s *RepositoryContractSuite) TestUpsertWithoutDataStoresEmptyObject() {
	out := s.upsert("room-1", "char-1", "Mira", "")
	s.JSONEq(`{}`, string(out.Character.Data))
}

func (s *RepositoryContractSuite) TestUpsertValidation() {
	_, err := s.repo.Upsert(s.ctx, character.UpsertInput{CharacterID: "char-1"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Upsert(s.ctx, character.UpsertInput{RoomID: "room-1", CharacterID: "char-1", Data: json.RawMessage(`{`)})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryContractSuite) TestIDsMayNotContainKeySeparator() {
	_, err := s.repo.Upsert(s.ctx, character.UpsertInput{RoomID: "a:b", CharacterID: "c", Name: "room-ab"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Upsert(s.ctx, character.UpsertInput{RoomID: "a", CharacterID: "b:c", Name: "room-a"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, character.GetInput{RoomID: "a:b", CharacterID: "c"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.ListByRoom(s.ctx, character.ListByRoomInput{RoomID: "a:b"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{RoomID: "a", CharacterID: "b:c"})
	s.True(errors.IsInvalidArgument(err))

	out, err := s.repo.ListByRoom(s.ctx, character.ListByRoomInput{RoomID: "a"})
	s.Require().NoError(err)
	s.Empty(out.Characters)
}

func (s *RepositoryContractSuite) TestListByRoomIsolatesRooms() {
	s.upsert("room-1", "char-1", "Mira", `{}`)
	s.upsert("room-1", "char-2", "Tobin", `{}`)
	s.upsert("room-2", "char-3", "Ash", `{}`)

	out, err := s.repo.ListByRoom(s.ctx, character.ListByRoomInput{RoomID: "room-1"})
	s.Require().NoError(err)
	s.Equal([]string{"char-1", "char-2"}, out.Characters.IDs())
	s.Equal("Tobin", out.Characters["char-2"].Name)

	empty, err := s.repo.ListByRoom(s.ctx, character.ListByRoomInput{RoomID: "room-9"})
	s.Require().NoError(err)
	s.Empty(empty.Characters)

	_, err = s.repo.ListByRoom(s.ctx, character.ListByRoomInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryContractSuite) TestUpdateMergesSuppliedFields() {
	created := s.upsert("room-1", "char-1", "Mira", `{"coins":1}`)

	name := "Mira Ashdown"
	out, err := s.repo.Update(s.ctx, character.UpdateInput{RoomID: "room-1", CharacterID: "char-1", Name: &name})
	s.Require().NoError(err)
	s.Equal(name, out.Character.Name)
	s.JSONEq(`{"coins":1}`, string(out.Character.Data))
	s.True(out.Character.UpdatedAt.After(created.Character.UpdatedAt))

	out, err = s.repo.Update(s.ctx, character.UpdateInput{
		RoomID: "room-1", CharacterID: "char-1", Data: json.RawMessage(`{"coins":5}`),
	})
	s.Require().NoError(err)
	s.Equal(name, out.Character.Name)
	s.JSONEq(`{"coins":5}`, string(out.Character.Data))
}

func (s *RepositoryContractSuite) TestUpdateMissingIsNotFound() {
	name := "ghost"
	_, err := s.repo.Update(s.ctx, character.UpdateInput{RoomID: "room-1", CharacterID: "nobody", Name: &name})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryContractSuite) TestDelete() {
	s.upsert("room-1", "char-1", "Mira", `{}`)

	_, err := s.repo.Delete(s.ctx, character.DeleteInput{RoomID: "room-1", CharacterID: "char-1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, character.GetInput{RoomID: "room-1", CharacterID: "char-1"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{RoomID: "room-1", CharacterID: "char-1"})
	s.True(errors.IsNotFound(err))

	out, err := s.repo.ListByRoom(s.ctx, character.ListByRoomInput{RoomID: "room-1"})
	s.Require().NoError(err)
	s.Empty(out.Characters)
}

func (s *RepositoryContractSuite) TestReturnedRecordsAreCopies() {
	s.upsert("room-1", "char-1", "Mira", `{"a":1}`)

	got, err := s.repo.Get(s.ctx, character.GetInput{RoomID: "room-1", CharacterID: "char-1"})
	s.Require().NoError(err)
	got.Character.Name = "changed"
	got.Character.Data[2] = 'b'

	again, err := s.repo.Get(s.ctx, character.GetInput{RoomID: "room-1", CharacterID: "char-1"})
	s.Require().NoError(err)
	s.Equal("Mira", again.Character.Name)
	s.JSONEq(`{"a":1}`, string(again.Character.Data))
}
