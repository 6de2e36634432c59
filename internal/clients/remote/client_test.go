package remote_test

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	apiv1alpha1 "github.com/Zevankai/Equipment-Tool/internal/api/v1alpha1"
	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
	"github.com/Zevankai/Equipment-Tool/internal/engine"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/testutils"
)

// fakeServer records the last sync request and answers from canned data
type fakeServer struct {
	apiv1alpha1.UnimplementedCharacterServiceServer
	lastSync *apiv1alpha1.SyncCharactersRequest
	block    chan struct{}
}

func (f *fakeServer) ListCharacters(ctx context.Context, req *apiv1alpha1.ListCharactersRequest) (*apiv1alpha1.ListCharactersResponse, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &apiv1alpha1.ListCharactersResponse{Characters: map[string]*apiv1alpha1.Character{
		"a": {ID: "a", Name: "Alda", Data: json.RawMessage(`{}`), LastModified: testutils.TestEpoch},
	}}, nil
}

func (f *fakeServer) SaveCharacter(_ context.Context, req *apiv1alpha1.SaveCharacterRequest) (*apiv1alpha1.SaveCharacterResponse, error) {
	return &apiv1alpha1.SaveCharacterResponse{
		Character: &apiv1alpha1.Character{ID: req.CharacterID, Name: req.Name, Data: req.Data, LastModified: testutils.TestEpoch},
		Created:   true,
	}, nil
}

func (f *fakeServer) DeleteCharacter(_ context.Context, req *apiv1alpha1.DeleteCharacterRequest) (*apiv1alpha1.DeleteCharacterResponse, error) {
	return nil, errors.ToGRPCError(errors.NotFoundf("character %s not found", req.CharacterID))
}

func (f *fakeServer) SyncCharacters(_ context.Context, req *apiv1alpha1.SyncCharactersRequest) (*apiv1alpha1.SyncCharactersResponse, error) {
	f.lastSync = req
	server := &apiv1alpha1.Character{ID: "a", Name: "Server A", LastModified: testutils.TestEpoch}
	return &apiv1alpha1.SyncCharactersResponse{
		Characters: map[string]*apiv1alpha1.Character{"a": server},
		SyncResult: apiv1alpha1.SyncResult{
			Conflicts: []apiv1alpha1.Conflict{{CharacterID: "a", LocalData: req.LocalData["a"], ServerData: server}},
		},
	}, nil
}

type ClientTestSuite struct {
	suite.Suite
	ctx    context.Context
	fake   *fakeServer
	srv    *grpc.Server
	conn   *grpc.ClientConn
	client remote.Client
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fake = &fakeServer{}

	lis := bufconn.Listen(1 << 20)
	s.srv = grpc.NewServer()
	apiv1alpha1.RegisterCharacterServiceServer(s.srv, s.fake)
	go func() { _ = s.srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.conn = conn

	client, closeFn, err := remote.New(&remote.Config{Conn: conn, Timeout: 200 * time.Millisecond})
	s.Require().NoError(err)
	s.NoError(closeFn())
	s.client = client
}

func (s *ClientTestSuite) TearDownTest() {
	_ = s.conn.Close()
	s.srv.Stop()
}

func (s *ClientTestSuite) TestListCharacters() {
	out, err := s.client.ListCharacters(s.ctx, &remote.ListInput{RoomID: testutils.TestRoomID})
	s.Require().NoError(err)
	s.Require().Contains(out.Characters, "a")
	s.Equal(testutils.TestRoomID, out.Characters["a"].RoomID)
	s.Equal(testutils.TestEpoch, out.Characters["a"].UpdatedAt)
}

func (s *ClientTestSuite) TestSaveCharacter() {
	out, err := s.client.SaveCharacter(s.ctx, &remote.SaveInput{
		RoomID:      testutils.TestRoomID,
		CharacterID: "b",
		Name:        "Bryn",
		Data:        json.RawMessage(`{"x":1}`),
	})
	s.Require().NoError(err)
	s.True(out.Created)
	s.Equal("b", out.Character.CharacterID)
	s.JSONEq(`{"x":1}`, string(out.Character.Data))
}

func (s *ClientTestSuite) TestDeleteCharacterKeepsCode() {
	err := s.client.DeleteCharacter(s.ctx, &remote.DeleteInput{RoomID: testutils.TestRoomID, CharacterID: "ghost"})
	s.True(errors.IsNotFound(err))
}

func (s *ClientTestSuite) TestSyncCharacters() {
	out, err := s.client.SyncCharacters(s.ctx, &remote.SyncInput{
		RoomID: testutils.TestRoomID,
		Local: map[string]engine.LocalCharacter{
			"a": {Name: "Local A", Data: json.RawMessage(`{}`), LastModified: testutils.Millis(-1000)},
		},
	})
	s.Require().NoError(err)

	s.Require().NotNil(s.fake.lastSync)
	s.Require().NotNil(s.fake.lastSync.LocalData["a"].LastModified)

	s.Equal([]string{"a"}, out.Result.ConflictIDs())
	s.Equal("Server A", out.Result.Conflicts[0].Server.Name)
	s.Equal(testutils.TestRoomID, out.Result.Conflicts[0].Server.RoomID)
	s.Equal(testutils.Millis(-1000), out.Result.Conflicts[0].Local.LastModified)
}

func (s *ClientTestSuite) TestTimeout() {
	s.fake.block = make(chan struct{})
	defer close(s.fake.block)

	_, err := s.client.ListCharacters(s.ctx, &remote.ListInput{RoomID: testutils.TestRoomID})
	s.Require().Error(err)
	s.Equal(errors.CodeDeadlineExceeded, errors.GetCode(err))
}

func (s *ClientTestSuite) TestUnimplementedMethod() {
	name := "x"
	_, err := s.client.UpdateCharacter(s.ctx, &remote.UpdateInput{RoomID: "r", CharacterID: "c", Name: &name})
	s.Equal(errors.CodeUnimplemented, errors.GetCode(err))
}
