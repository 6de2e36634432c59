package character_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Zevankai/Equipment-Tool/internal/engine"
	enginemock "github.com/Zevankai/Equipment-Tool/internal/engine/mock"
	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	charorch "github.com/Zevankai/Equipment-Tool/internal/orchestrators/character"
	characterrepo "github.com/Zevankai/Equipment-Tool/internal/repositories/character"
	characterrepomock "github.com/Zevankai/Equipment-Tool/internal/repositories/character/mock"
	"github.com/Zevankai/Equipment-Tool/internal/services/character"
	"github.com/Zevankai/Equipment-Tool/internal/testutils"
	"github.com/Zevankai/Equipment-Tool/internal/testutils/builders"
	"github.com/Zevankai/Equipment-Tool/internal/testutils/mocks"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	ctrl         *gomock.Controller
	mockRepo     *characterrepomock.MockRepository
	mockEngine   *enginemock.MockEngine
	orchestrator *charorch.Orchestrator
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = characterrepomock.NewMockRepository(s.ctrl)
	s.mockEngine = enginemock.NewMockEngine(s.ctrl)

	o, err := charorch.New(&charorch.Config{
		CharacterRepo: s.mockRepo,
		Engine:        s.mockEngine,
	})
	s.Require().NoError(err)
	s.orchestrator = o
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) TestNewValidatesConfig() {
	_, err := charorch.New(&charorch.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "CharacterRepo")
}

func (s *OrchestratorTestSuite) TestListCharacters() {
	rec := builders.NewRecordBuilder().Build()
	mocks.ExpectRoomRead(s.ctx, s.mockRepo, testutils.TestRoomID, rec)

	out, err := s.orchestrator.ListCharacters(s.ctx, &character.ListCharactersInput{RoomID: testutils.TestRoomID})
	s.Require().NoError(err)
	s.Equal([]string{rec.CharacterID}, out.Characters.IDs())
}

func (s *OrchestratorTestSuite) TestListCharactersRequiresRoom() {
	_, err := s.orchestrator.ListCharacters(s.ctx, &character.ListCharactersInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestConcurrentListingsEachGetACopy() {
	release := make(chan struct{})
	s.mockRepo.EXPECT().ListByRoom(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, characterrepo.ListByRoomInput) (*characterrepo.ListByRoomOutput, error) {
			<-release
			return &characterrepo.ListByRoomOutput{Characters: entities.RoomCharacters{}}, nil
		}).MinTimes(1).MaxTimes(4)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.orchestrator.ListCharacters(s.ctx, &character.ListCharactersInput{RoomID: testutils.TestRoomID})
			s.NoError(err)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
}

func (s *OrchestratorTestSuite) TestCanceledCallerDoesNotCancelSharedListing() {
	entered := make(chan struct{})
	release := make(chan struct{})
	readErr := make(chan error, 1)
	s.mockRepo.EXPECT().ListByRoom(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ characterrepo.ListByRoomInput) (*characterrepo.ListByRoomOutput, error) {
			close(entered)
			<-release
			readErr <- ctx.Err()
			return &characterrepo.ListByRoomOutput{Characters: entities.RoomCharacters{}}, nil
		})

	callerCtx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() {
		_, err := s.orchestrator.ListCharacters(callerCtx, &character.ListCharactersInput{RoomID: testutils.TestRoomID})
		done <- err
	}()

	<-entered
	cancel()
	err := <-done
	s.Equal(errors.CodeCanceled, errors.GetCode(err))

	close(release)
	s.NoError(<-readErr)
}

func (s *OrchestratorTestSuite) TestSaveCharacter() {
	rec := builders.NewRecordBuilder().Build()
	s.mockRepo.EXPECT().Upsert(gomock.Any(), characterrepo.UpsertInput{
		RoomID:      rec.RoomID,
		CharacterID: rec.CharacterID,
		Name:        rec.Name,
		Data:        rec.Data,
	}).Return(&characterrepo.UpsertOutput{Character: rec, Created: true}, nil)

	out, err := s.orchestrator.SaveCharacter(s.ctx, &character.SaveCharacterInput{
		RoomID:      rec.RoomID,
		CharacterID: rec.CharacterID,
		Name:        rec.Name,
		Data:        rec.Data,
	})
	s.Require().NoError(err)
	s.True(out.Created)
	s.Equal(rec, out.Character)
}

func (s *OrchestratorTestSuite) TestUpdateCharacterNeedsAField() {
	_, err := s.orchestrator.UpdateCharacter(s.ctx, &character.UpdateCharacterInput{
		RoomID:      testutils.TestRoomID,
		CharacterID: testutils.TestCharacterID,
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestUpdateCharacterMissing() {
	name := "Renamed"
	s.mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("character not found"))

	_, err := s.orchestrator.UpdateCharacter(s.ctx, &character.UpdateCharacterInput{
		RoomID:      testutils.TestRoomID,
		CharacterID: "ghost",
		Name:        &name,
	})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestDeleteCharacter() {
	s.mockRepo.EXPECT().Delete(gomock.Any(), characterrepo.DeleteInput{
		RoomID:      testutils.TestRoomID,
		CharacterID: testutils.TestCharacterID,
	}).Return(&characterrepo.DeleteOutput{}, nil)

	_, err := s.orchestrator.DeleteCharacter(s.ctx, &character.DeleteCharacterInput{
		RoomID:      testutils.TestRoomID,
		CharacterID: testutils.TestCharacterID,
	})
	s.NoError(err)
}

func (s *OrchestratorTestSuite) TestSyncCharactersDelegatesToEngine() {
	local := map[string]engine.LocalCharacter{
		"char-a": {Name: "A", Data: []byte(`{}`), LastModified: testutils.Millis(5)},
	}
	s.mockEngine.EXPECT().Reconcile(gomock.Any(), &engine.ReconcileInput{RoomID: testutils.TestRoomID, Local: local}).
		Return(&engine.ReconcileOutput{
			Characters: entities.RoomCharacters{},
			Result:     engine.Result{Created: []string{"char-a"}},
		}, nil)

	out, err := s.orchestrator.SyncCharacters(s.ctx, &character.SyncCharactersInput{
		RoomID: testutils.TestRoomID,
		Local:  local,
	})
	s.Require().NoError(err)
	s.Equal([]string{"char-a"}, out.Result.Created)
}

func (s *OrchestratorTestSuite) TestSyncStorageFailureKeepsCode() {
	s.mockEngine.EXPECT().Reconcile(gomock.Any(), gomock.Any()).
		Return(nil, errors.Storage(stderrors.New("broken pipe"), "failed to write character"))

	_, err := s.orchestrator.SyncCharacters(s.ctx, &character.SyncCharactersInput{RoomID: testutils.TestRoomID})
	s.True(errors.IsStorage(err))
}
