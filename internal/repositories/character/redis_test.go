package character_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/Zevankai/Equipment-Tool/internal/errors"
	redisclient "github.com/Zevankai/Equipment-Tool/internal/redis"
	"github.com/Zevankai/Equipment-Tool/internal/repositories/character"
	"github.com/Zevankai/Equipment-Tool/internal/testutils"
)

func TestRedisRepositoryContract(t *testing.T) {
	suite.Run(t, &RepositoryContractSuite{
		newRepo: func(s *RepositoryContractSuite) (character.Repository, func()) {
			client, cleanup := testutils.CreateTestRedisClient(s.T())
			repo, err := character.NewRedis(&character.RedisConfig{Client: client, Clock: s.clock})
			s.Require().NoError(err)
			return repo, cleanup
		},
	})
}

type RedisRepositoryTestSuite struct {
	suite.Suite
	ctx       context.Context
	miniRedis *miniredis.Miniredis
	client    redisclient.Client
	repo      character.Repository
	cleanup   func()
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.client, s.cleanup = testutils.CreateTestRedisClientWithContext(s.T(), func(mr *miniredis.Miniredis) {
		s.miniRedis = mr
	})

	repo, err := character.NewRedis(&character.RedisConfig{
		Client: s.client,
		Clock:  testutils.NewStepClock(testutils.TestEpoch, time.Millisecond),
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidation() {
	_, err := character.NewRedis(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = character.NewRedis(&character.RedisConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestKeyLayout() {
	_, err := s.repo.Upsert(s.ctx, character.UpsertInput{
		RoomID:      "room-1",
		CharacterID: "char-1",
		Name:        "Mira",
		Data:        json.RawMessage(`{}`),
	})
	s.Require().NoError(err)

	s.True(s.miniRedis.Exists("character:room-1:char-1"))
	members, err := s.miniRedis.Members("room:room-1:characters")
	s.Require().NoError(err)
	s.Equal([]string{"char-1"}, members)
}

func (s *RedisRepositoryTestSuite) TestListByRoomCleansStaleIndexEntries() {
	_, err := s.repo.Upsert(s.ctx, character.UpsertInput{RoomID: "room-1", CharacterID: "char-1", Name: "Mira"})
	s.Require().NoError(err)
	_, err = s.miniRedis.SAdd("room:room-1:characters", "ghost")
	s.Require().NoError(err)

	out, err := s.repo.ListByRoom(s.ctx, character.ListByRoomInput{RoomID: "room-1"})
	s.Require().NoError(err)
	s.Equal([]string{"char-1"}, out.Characters.IDs())

	members, err := s.miniRedis.Members("room:room-1:characters")
	s.Require().NoError(err)
	s.Equal([]string{"char-1"}, members)
}

func (s *RedisRepositoryTestSuite) TestCorruptRecordIsStorageError() {
	s.Require().NoError(s.miniRedis.Set("character:room-1:char-1", "{not json"))

	_, err := s.repo.Get(s.ctx, character.GetInput{RoomID: "room-1", CharacterID: "char-1"})
	s.True(errors.IsStorage(err))
}

func (s *RedisRepositoryTestSuite) TestListByRoomSkipsCorruptRecords() {
	_, err := s.repo.Upsert(s.ctx, character.UpsertInput{RoomID: "room-1", CharacterID: "char-1", Name: "Mira"})
	s.Require().NoError(err)
	s.Require().NoError(s.miniRedis.Set("character:room-1:char-2", "{not json"))
	_, err = s.miniRedis.SAdd("room:room-1:characters", "char-2")
	s.Require().NoError(err)

	out, err := s.repo.ListByRoom(s.ctx, character.ListByRoomInput{RoomID: "room-1"})
	s.Require().NoError(err)
	s.Equal([]string{"char-1"}, out.Characters.IDs())

	members, err := s.miniRedis.Members("room:room-1:characters")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"char-1", "char-2"}, members)
}

func (s *RedisRepositoryTestSuite) TestServerDownIsStorageError() {
	s.miniRedis.Close()

	_, err := s.repo.ListByRoom(s.ctx, character.ListByRoomInput{RoomID: "room-1"})
	s.True(errors.IsStorage(err))
}
