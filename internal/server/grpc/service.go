package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is declared by hand over protobuf well-known types, so no
// generated code is needed on either side.
const (
	ServiceName = "gophsession.TokenService"

	MethodRefresh    = "/" + ServiceName + "/Refresh"
	MethodRevoke     = "/" + ServiceName + "/Revoke"
	MethodIntrospect = "/" + ServiceName + "/Introspect"
)

// TokenServiceServer is the server API for the token service.
//
// Refresh and Revoke take the refresh token as a StringValue. Refresh and
// Introspect answer with a Struct.
type TokenServiceServer interface {
	Refresh(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Revoke(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	Introspect(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TokenServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Refresh", Handler: refreshHandler},
		{MethodName: "Revoke", Handler: revokeHandler},
		{MethodName: "Introspect", Handler: introspectHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophsession/token_service",
}

// RegisterTokenServiceServer registers srv on s.
func RegisterTokenServiceServer(s grpc.ServiceRegistrar, srv TokenServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func refreshHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenServiceServer).Refresh(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodRefresh}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenServiceServer).Refresh(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func revokeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenServiceServer).Revoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodRevoke}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenServiceServer).Revoke(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func introspectHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenServiceServer).Introspect(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodIntrospect}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenServiceServer).Introspect(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// TokenServiceClient calls the token service over cc.
type TokenServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTokenServiceClient(cc grpc.ClientConnInterface) *TokenServiceClient {
	return &TokenServiceClient{cc: cc}
}

func (c *TokenServiceClient) Refresh(ctx context.Context, refreshToken string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodRefresh, wrapperspb.String(refreshToken), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TokenServiceClient) Revoke(ctx context.Context, refreshToken string, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodRevoke, wrapperspb.String(refreshToken), new(emptypb.Empty), opts...)
}

func (c *TokenServiceClient) Introspect(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodIntrospect, new(emptypb.Empty), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
