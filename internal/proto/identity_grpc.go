package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// IdentityClient is the client API for the Identity service.
type IdentityClient interface {
	CreateAccount(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*AccountResponse, error)
	SignIn(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*AccountResponse, error)
	SendPasswordReset(ctx context.Context, in *EmailRequest, opts ...grpc.CallOption) (*Empty, error)
	ConfirmPasswordReset(ctx context.Context, in *ConfirmPasswordResetRequest, opts ...grpc.CallOption) (*Empty, error)
	UpdateEmail(ctx context.Context, in *EmailRequest, opts ...grpc.CallOption) (*AccountResponse, error)
	GetAccount(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*AccountResponse, error)
}

type identityClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityClient(cc grpc.ClientConnInterface) IdentityClient {
	return &identityClient{cc}
}

func (c *identityClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *identityClient) CreateAccount(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	out, err := c.invoke(ctx, Identity_CreateAccount_FullMethodName, in.ToStruct(), opts)
	if err != nil {
		return nil, err
	}
	return AccountResponseFromStruct(out), nil
}

func (c *identityClient) SignIn(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	out, err := c.invoke(ctx, Identity_SignIn_FullMethodName, in.ToStruct(), opts)
	if err != nil {
		return nil, err
	}
	return AccountResponseFromStruct(out), nil
}

func (c *identityClient) SendPasswordReset(ctx context.Context, in *EmailRequest, opts ...grpc.CallOption) (*Empty, error) {
	if _, err := c.invoke(ctx, Identity_SendPasswordReset_FullMethodName, in.ToStruct(), opts); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (c *identityClient) ConfirmPasswordReset(ctx context.Context, in *ConfirmPasswordResetRequest, opts ...grpc.CallOption) (*Empty, error) {
	if _, err := c.invoke(ctx, Identity_ConfirmPasswordReset_FullMethodName, in.ToStruct(), opts); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (c *identityClient) UpdateEmail(ctx context.Context, in *EmailRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	out, err := c.invoke(ctx, Identity_UpdateEmail_FullMethodName, in.ToStruct(), opts)
	if err != nil {
		return nil, err
	}
	return AccountResponseFromStruct(out), nil
}

func (c *identityClient) GetAccount(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*AccountResponse, error) {
	out, err := c.invoke(ctx, Identity_GetAccount_FullMethodName, in.ToStruct(), opts)
	if err != nil {
		return nil, err
	}
	return AccountResponseFromStruct(out), nil
}

// IdentityServer is the server API for the Identity service. Implementations
// must embed UnimplementedIdentityServer.
type IdentityServer interface {
	CreateAccount(context.Context, *CredentialsRequest) (*AccountResponse, error)
	SignIn(context.Context, *CredentialsRequest) (*AccountResponse, error)
	SendPasswordReset(context.Context, *EmailRequest) (*Empty, error)
	ConfirmPasswordReset(context.Context, *ConfirmPasswordResetRequest) (*Empty, error)
	UpdateEmail(context.Context, *EmailRequest) (*AccountResponse, error)
	GetAccount(context.Context, *Empty) (*AccountResponse, error)
	mustEmbedUnimplementedIdentityServer()
}

type UnimplementedIdentityServer struct{}

func (UnimplementedIdentityServer) CreateAccount(context.Context, *CredentialsRequest) (*AccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAccount not implemented")
}
func (UnimplementedIdentityServer) SignIn(context.Context, *CredentialsRequest) (*AccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignIn not implemented")
}
func (UnimplementedIdentityServer) SendPasswordReset(context.Context, *EmailRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SendPasswordReset not implemented")
}
func (UnimplementedIdentityServer) ConfirmPasswordReset(context.Context, *ConfirmPasswordResetRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ConfirmPasswordReset not implemented")
}
func (UnimplementedIdentityServer) UpdateEmail(context.Context, *EmailRequest) (*AccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateEmail not implemented")
}
func (UnimplementedIdentityServer) GetAccount(context.Context, *Empty) (*AccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAccount not implemented")
}
func (UnimplementedIdentityServer) mustEmbedUnimplementedIdentityServer() {}

func RegisterIdentityServer(s grpc.ServiceRegistrar, srv IdentityServer) {
	s.RegisterService(&Identity_ServiceDesc, srv)
}

type structMessage interface {
	ToStruct() *structpb.Struct
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler that
// speaks structpb on the wire.
func unaryHandler[Req any, Resp structMessage](
	fullMethod string,
	decode func(*structpb.Struct) Req,
	call func(IdentityServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(IdentityServer), ctx, decode(req.(*structpb.Struct)))
			if err != nil {
				return nil, err
			}
			return resp.ToStruct(), nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handler)
	}
}

var Identity_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateAccount",
			Handler: unaryHandler(Identity_CreateAccount_FullMethodName, CredentialsRequestFromStruct,
				IdentityServer.CreateAccount),
		},
		{
			MethodName: "SignIn",
			Handler: unaryHandler(Identity_SignIn_FullMethodName, CredentialsRequestFromStruct,
				IdentityServer.SignIn),
		},
		{
			MethodName: "SendPasswordReset",
			Handler: unaryHandler(Identity_SendPasswordReset_FullMethodName, EmailRequestFromStruct,
				IdentityServer.SendPasswordReset),
		},
		{
			MethodName: "ConfirmPasswordReset",
			Handler: unaryHandler(Identity_ConfirmPasswordReset_FullMethodName, ConfirmPasswordResetRequestFromStruct,
				IdentityServer.ConfirmPasswordReset),
		},
		{
			MethodName: "UpdateEmail",
			Handler: unaryHandler(Identity_UpdateEmail_FullMethodName, EmailRequestFromStruct,
				IdentityServer.UpdateEmail),
		},
		{
			MethodName: "GetAccount",
			Handler: unaryHandler(Identity_GetAccount_FullMethodName, EmptyFromStruct,
				IdentityServer.GetAccount),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "skillsync/identity/v1/identity.proto",
}
