// Package remote is the client for the character service of a remote ledger
package remote

//go:generate mockgen -destination=mock/mock_client.go -package=remotemock github.com/Zevankai/Equipment-Tool/internal/clients/remote Client

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	apiv1alpha1 "github.com/Zevankai/Equipment-Tool/internal/api/v1alpha1"
	"github.com/Zevankai/Equipment-Tool/internal/engine"
	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// Client defines the interface for talking to the remote character store
type Client interface {
	// ListCharacters returns every record of a room
	ListCharacters(ctx context.Context, input *ListInput) (*ListOutput, error)

	// SaveCharacter creates or replaces a record
	SaveCharacter(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// UpdateCharacter merges a name and/or payload into an existing record
	UpdateCharacter(ctx context.Context, input *UpdateInput) (*UpdateOutput, error)

	// DeleteCharacter removes a record
	DeleteCharacter(ctx context.Context, input *DeleteInput) error

	// SyncCharacters runs one reconciliation pass on the server
	SyncCharacters(ctx context.Context, input *SyncInput) (*SyncOutput, error)
}

// ListInput defines the request for listing a room
type ListInput struct {
	RoomID string
}

// ListOutput defines the response for listing a room
type ListOutput struct {
	Characters entities.RoomCharacters
}

// SaveInput defines the request for saving a record
type SaveInput struct {
	RoomID      string
	CharacterID string
	Name        string
	Data        json.RawMessage
}

// SaveOutput defines the response for saving a record
type SaveOutput struct {
	Character *entities.CharacterRecord
	Created   bool
}

// UpdateInput defines the request for a partial update
type UpdateInput struct {
	RoomID      string
	CharacterID string
	Name        *string
	Data        json.RawMessage
}

// UpdateOutput defines the response for a partial update
type UpdateOutput struct {
	Character *entities.CharacterRecord
}

// DeleteInput defines the request for deleting a record
type DeleteInput struct {
	RoomID      string
	CharacterID string
}

// SyncInput defines the request for a reconciliation pass
type SyncInput struct {
	RoomID string
	Local  map[string]engine.LocalCharacter
}

// SyncOutput defines the response of a reconciliation pass
type SyncOutput struct {
	Characters entities.RoomCharacters
	Result     engine.Result
}

// Config contains configuration for the remote client
type Config struct {
	// Conn is an established connection; when nil Address is dialed
	Conn grpc.ClientConnInterface
	// Address of the server (optional, defaults to localhost:50051)
	Address string
	// Timeout per call (optional, defaults to 10 seconds)
	Timeout time.Duration
	Logger  *zap.Logger
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Address == "" {
		cfg.Address = "localhost:50051"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Timeout < 0 {
		return errors.InvalidArgument("timeout cannot be negative")
	}
	return nil
}

type client struct {
	api     apiv1alpha1.CharacterServiceClient
	conn    *grpc.ClientConn
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a new remote client with the given configuration. The
// returned close function releases a connection New dialed itself.
func New(cfg *Config) (Client, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	c := &client{
		timeout: cfg.Timeout,
		logger:  l.Named("remote"),
	}

	conn := cfg.Conn
	if conn == nil {
		cc, err := grpc.NewClient(cfg.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create connection")
		}
		c.conn = cc
		conn = cc
	}
	c.api = apiv1alpha1.NewCharacterServiceClient(conn)

	closeFn := func() error { return nil }
	if c.conn != nil {
		closeFn = c.conn.Close
	}
	return c, closeFn, nil
}

func (c *client) ListCharacters(ctx context.Context, input *ListInput) (*ListOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.ListCharacters(ctx, &apiv1alpha1.ListCharactersRequest{RoomID: input.RoomID})
	if err != nil {
		return nil, c.fail("list characters", err)
	}
	return &ListOutput{Characters: apiv1alpha1.RoomFromCharacters(input.RoomID, resp.Characters)}, nil
}

func (c *client) SaveCharacter(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.SaveCharacter(ctx, &apiv1alpha1.SaveCharacterRequest{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
		Name:        input.Name,
		Data:        input.Data,
	})
	if err != nil {
		return nil, c.fail("save character", err)
	}
	return &SaveOutput{
		Character: apiv1alpha1.RecordFromCharacter(input.RoomID, resp.Character),
		Created:   resp.Created,
	}, nil
}

func (c *client) UpdateCharacter(ctx context.Context, input *UpdateInput) (*UpdateOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.UpdateCharacter(ctx, &apiv1alpha1.UpdateCharacterRequest{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
		Name:        input.Name,
		Data:        input.Data,
	})
	if err != nil {
		return nil, c.fail("update character", err)
	}
	return &UpdateOutput{Character: apiv1alpha1.RecordFromCharacter(input.RoomID, resp.Character)}, nil
}

func (c *client) DeleteCharacter(ctx context.Context, input *DeleteInput) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.api.DeleteCharacter(ctx, &apiv1alpha1.DeleteCharacterRequest{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
	})
	if err != nil {
		return c.fail("delete character", err)
	}
	return nil
}

func (c *client) SyncCharacters(ctx context.Context, input *SyncInput) (*SyncOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.SyncCharacters(ctx, &apiv1alpha1.SyncCharactersRequest{
		RoomID:    input.RoomID,
		LocalData: apiv1alpha1.LocalMapFromEngine(input.Local),
	})
	if err != nil {
		return nil, c.fail("sync characters", err)
	}
	return &SyncOutput{
		Characters: apiv1alpha1.RoomFromCharacters(input.RoomID, resp.Characters),
		Result:     apiv1alpha1.EngineResult(input.RoomID, resp.SyncResult),
	}, nil
}

// fail maps a status error back to a ledger error
func (c *client) fail(op string, err error) error {
	converted := errors.FromGRPCError(err)
	c.logger.Debug("remote call failed",
		zap.String("op", op),
		zap.String("code", errors.GetCode(converted).String()),
		zap.Error(err))
	return converted
}
