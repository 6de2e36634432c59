package rest_test

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Zevankai/Equipment-Tool/internal/engine"
	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/handlers/rest"
	"github.com/Zevankai/Equipment-Tool/internal/services/character"
	charactermock "github.com/Zevankai/Equipment-Tool/internal/services/character/mock"
	"github.com/Zevankai/Equipment-Tool/internal/testutils"
)

type CharacterRoutesTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockCharacter *charactermock.MockService
	router        http.Handler
}

func TestCharacterRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(CharacterRoutesTestSuite))
}

func (s *CharacterRoutesTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockCharacter = charactermock.NewMockService(s.ctrl)

	handler, err := rest.NewCharacterHandler(&rest.CharacterHandlerConfig{CharacterService: s.mockCharacter})
	s.Require().NoError(err)
	s.router = rest.NewRouter(rest.RouterConfig{
		Handler:        handler,
		AllowedOrigins: []string{"https://app.example"},
	})
}

func (s *CharacterRoutesTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CharacterRoutesTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *CharacterRoutesTestSuite) record(id string) *entities.CharacterRecord {
	return &entities.CharacterRecord{
		RoomID:      testutils.TestRoomID,
		CharacterID: id,
		Name:        testutils.TestCharacterName,
		Data:        json.RawMessage(`{"coins":4}`),
		UpdatedAt:   testutils.TestEpoch,
	}
}

func (s *CharacterRoutesTestSuite) TestHealthz() {
	w := s.do(http.MethodGet, "/healthz", "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
}

func (s *CharacterRoutesTestSuite) TestList() {
	s.mockCharacter.EXPECT().
		ListCharacters(gomock.Any(), &character.ListCharactersInput{RoomID: testutils.TestRoomID}).
		Return(&character.ListCharactersOutput{Characters: entities.RoomCharacters{
			testutils.TestCharacterID: s.record(testutils.TestCharacterID),
		}}, nil)

	w := s.do(http.MethodGet, "/api/characters?roomId="+testutils.TestRoomID, "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"characters":{"char-test-001":{
		"id":"char-test-001","name":"Mira Ashdown","data":{"coins":4},"lastModified":"2025-03-01T12:00:00Z"
	}}}`, w.Body.String())
}

func (s *CharacterRoutesTestSuite) TestListRequiresRoom() {
	w := s.do(http.MethodGet, "/api/characters", "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"code":"INVALID_ARGUMENT","message":"roomId is required"}`, w.Body.String())
}

func (s *CharacterRoutesTestSuite) TestSaveCreated() {
	s.mockCharacter.EXPECT().
		SaveCharacter(gomock.Any(), &character.SaveCharacterInput{
			RoomID:      testutils.TestRoomID,
			CharacterID: testutils.TestCharacterID,
			Name:        testutils.TestCharacterName,
			Data:        json.RawMessage(`{"coins":4}`),
		}).
		Return(&character.SaveCharacterOutput{Character: s.record(testutils.TestCharacterID), Created: true}, nil)

	w := s.do(http.MethodPost, "/api/characters",
		`{"roomId":"room-test-001","characterId":"char-test-001","name":"Mira Ashdown","data":{"coins":4}}`)
	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), `"id":"char-test-001"`)
}

func (s *CharacterRoutesTestSuite) TestSaveValidation() {
	w := s.do(http.MethodPost, "/api/characters", `{"name":"nobody"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/characters", `not json`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *CharacterRoutesTestSuite) TestUpdateUsesPathID() {
	name := "Renamed"
	s.mockCharacter.EXPECT().
		UpdateCharacter(gomock.Any(), &character.UpdateCharacterInput{
			RoomID:      testutils.TestRoomID,
			CharacterID: "char-9",
			Name:        &name,
		}).
		Return(&character.UpdateCharacterOutput{Character: s.record("char-9")}, nil)

	w := s.do(http.MethodPut, "/api/characters/char-9", `{"roomId":"room-test-001","name":"Renamed"}`)
	s.Equal(http.StatusOK, w.Code)
}

func (s *CharacterRoutesTestSuite) TestUpdateMissing() {
	s.mockCharacter.EXPECT().
		UpdateCharacter(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("character ghost not found in room room-test-001"))

	w := s.do(http.MethodPut, "/api/characters/ghost", `{"roomId":"room-test-001","data":{}}`)
	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(w.Body.String(), `"code":"NOT_FOUND"`)
}

func (s *CharacterRoutesTestSuite) TestDelete() {
	s.mockCharacter.EXPECT().
		DeleteCharacter(gomock.Any(), &character.DeleteCharacterInput{
			RoomID:      testutils.TestRoomID,
			CharacterID: testutils.TestCharacterID,
		}).
		Return(&character.DeleteCharacterOutput{}, nil)

	w := s.do(http.MethodDelete, "/api/characters/char-test-001?roomId=room-test-001", "")
	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(w.Body.String())
}

func (s *CharacterRoutesTestSuite) TestSync() {
	s.mockCharacter.EXPECT().
		SyncCharacters(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, in *character.SyncCharactersInput) (*character.SyncCharactersOutput, error) {
			s.Equal(testutils.TestRoomID, in.RoomID)
			s.Require().Contains(in.Local, "a")
			s.True(in.Local["a"].LastModified.IsZero())
			return &character.SyncCharactersOutput{
				Characters: entities.RoomCharacters{"a": s.record("a")},
				Result:     engine.Result{Updated: []string{"a"}},
			}, nil
		})

	w := s.do(http.MethodPost, "/api/sync", `{"roomId":"room-test-001","localData":{"a":{"name":"A","data":{}}}}`)
	s.Equal(http.StatusOK, w.Code)

	var body struct {
		SyncResult struct {
			Updated   []string          `json:"updated"`
			Created   []string          `json:"created"`
			Conflicts []json.RawMessage `json:"conflicts"`
		} `json:"syncResult"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal([]string{"a"}, body.SyncResult.Updated)
	s.Equal([]string{}, body.SyncResult.Created)
	s.Empty(body.SyncResult.Conflicts)
}

func (s *CharacterRoutesTestSuite) TestStorageFailureRendersInternal() {
	s.mockCharacter.EXPECT().
		ListCharacters(gomock.Any(), gomock.Any()).
		Return(nil, errors.Storage(stderrors.New("dial tcp 10.0.0.7:6379"), "failed to read room index"))

	w := s.do(http.MethodGet, "/api/characters?roomId=r", "")
	s.Equal(http.StatusInternalServerError, w.Code)
	s.JSONEq(`{"code":"INTERNAL","message":"internal storage error"}`, w.Body.String())
}

func (s *CharacterRoutesTestSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/characters", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusNoContent, w.Code)
	s.Equal("https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Empty(w.Header().Get("Access-Control-Allow-Origin"))
}
