package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "equipment.api.v1alpha1.CharacterService"

// Full method names
const (
	CharacterService_ListCharacters_FullMethodName  = "/" + ServiceName + "/ListCharacters"
	CharacterService_SaveCharacter_FullMethodName   = "/" + ServiceName + "/SaveCharacter"
	CharacterService_UpdateCharacter_FullMethodName = "/" + ServiceName + "/UpdateCharacter"
	CharacterService_DeleteCharacter_FullMethodName = "/" + ServiceName + "/DeleteCharacter"
	CharacterService_SyncCharacters_FullMethodName  = "/" + ServiceName + "/SyncCharacters"
)

// CharacterServiceServer is the server API for the character service
type CharacterServiceServer interface {
	ListCharacters(context.Context, *ListCharactersRequest) (*ListCharactersResponse, error)
	SaveCharacter(context.Context, *SaveCharacterRequest) (*SaveCharacterResponse, error)
	UpdateCharacter(context.Context, *UpdateCharacterRequest) (*UpdateCharacterResponse, error)
	DeleteCharacter(context.Context, *DeleteCharacterRequest) (*DeleteCharacterResponse, error)
	SyncCharacters(context.Context, *SyncCharactersRequest) (*SyncCharactersResponse, error)
}

// UnimplementedCharacterServiceServer can be embedded to stay forward compatible
type UnimplementedCharacterServiceServer struct{}

func (UnimplementedCharacterServiceServer) ListCharacters(context.Context, *ListCharactersRequest) (*ListCharactersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCharacters not implemented")
}

func (UnimplementedCharacterServiceServer) SaveCharacter(context.Context, *SaveCharacterRequest) (*SaveCharacterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveCharacter not implemented")
}

func (UnimplementedCharacterServiceServer) UpdateCharacter(context.Context, *UpdateCharacterRequest) (*UpdateCharacterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateCharacter not implemented")
}

func (UnimplementedCharacterServiceServer) DeleteCharacter(context.Context, *DeleteCharacterRequest) (*DeleteCharacterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteCharacter not implemented")
}

func (UnimplementedCharacterServiceServer) SyncCharacters(context.Context, *SyncCharactersRequest) (*SyncCharactersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SyncCharacters not implemented")
}

// RegisterCharacterServiceServer registers srv with s
func RegisterCharacterServiceServer(s grpc.ServiceRegistrar, srv CharacterServiceServer) {
	s.RegisterService(&CharacterService_ServiceDesc, srv)
}

// unary builds a method handler that decodes req, runs call through the interceptor chain
func unary[Req any, Resp any](
	fullMethod string,
	call func(CharacterServiceServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CharacterServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CharacterServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CharacterService_ServiceDesc is the grpc.ServiceDesc for the character service
var CharacterService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CharacterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListCharacters",
			Handler: unary(CharacterService_ListCharacters_FullMethodName,
				CharacterServiceServer.ListCharacters),
		},
		{
			MethodName: "SaveCharacter",
			Handler: unary(CharacterService_SaveCharacter_FullMethodName,
				CharacterServiceServer.SaveCharacter),
		},
		{
			MethodName: "UpdateCharacter",
			Handler: unary(CharacterService_UpdateCharacter_FullMethodName,
				CharacterServiceServer.UpdateCharacter),
		},
		{
			MethodName: "DeleteCharacter",
			Handler: unary(CharacterService_DeleteCharacter_FullMethodName,
				CharacterServiceServer.DeleteCharacter),
		},
		{
			MethodName: "SyncCharacters",
			Handler: unary(CharacterService_SyncCharacters_FullMethodName,
				CharacterServiceServer.SyncCharacters),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "equipment/api/v1alpha1/character.proto",
}

// CharacterServiceClient is the client API for the character service
type CharacterServiceClient interface {
	ListCharacters(ctx context.Context, in *ListCharactersRequest, opts ...grpc.CallOption) (*ListCharactersResponse, error)
	SaveCharacter(ctx context.Context, in *SaveCharacterRequest, opts ...grpc.CallOption) (*SaveCharacterResponse, error)
	UpdateCharacter(ctx context.Context, in *UpdateCharacterRequest, opts ...grpc.CallOption) (*UpdateCharacterResponse, error)
	DeleteCharacter(ctx context.Context, in *DeleteCharacterRequest, opts ...grpc.CallOption) (*DeleteCharacterResponse, error)
	SyncCharacters(ctx context.Context, in *SyncCharactersRequest, opts ...grpc.CallOption) (*SyncCharactersResponse, error)
}

type characterServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCharacterServiceClient returns a client that always calls with the JSON codec
func NewCharacterServiceClient(cc grpc.ClientConnInterface) CharacterServiceClient {
	return &characterServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *characterServiceClient) ListCharacters(ctx context.Context, in *ListCharactersRequest, opts ...grpc.CallOption) (*ListCharactersResponse, error) {
	return invoke[ListCharactersResponse](ctx, c.cc, CharacterService_ListCharacters_FullMethodName, in, opts)
}

func (c *characterServiceClient) SaveCharacter(ctx context.Context, in *SaveCharacterRequest, opts ...grpc.CallOption) (*SaveCharacterResponse, error) {
	return invoke[SaveCharacterResponse](ctx, c.cc, CharacterService_SaveCharacter_FullMethodName, in, opts)
}

func (c *characterServiceClient) UpdateCharacter(ctx context.Context, in *UpdateCharacterRequest, opts ...grpc.CallOption) (*UpdateCharacterResponse, error) {
	return invoke[UpdateCharacterResponse](ctx, c.cc, CharacterService_UpdateCharacter_FullMethodName, in, opts)
}

func (c *characterServiceClient) DeleteCharacter(ctx context.Context, in *DeleteCharacterRequest, opts ...grpc.CallOption) (*DeleteCharacterResponse, error) {
	return invoke[DeleteCharacterResponse](ctx, c.cc, CharacterService_DeleteCharacter_FullMethodName, in, opts)
}

func (c *characterServiceClient) SyncCharacters(ctx context.Context, in *SyncCharactersRequest, opts ...grpc.CallOption) (*SyncCharactersResponse, error) {
	return invoke[SyncCharactersResponse](ctx, c.cc, CharacterService_SyncCharacters_FullMethodName, in, opts)
}
