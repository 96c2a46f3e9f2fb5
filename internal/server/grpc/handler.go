package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Refresh(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {

	pair, err := s.tokens.Refresh(ctx, req.GetValue())

	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		s.logger.Error(ctx, "refresh failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return structpb.NewStruct(map[string]any{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (s *GRPCServer) Revoke(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {

	if err := s.tokens.Revoke(ctx, req.GetValue()); err != nil {
		s.logger.Error(ctx, "revoke failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Introspect(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	aud := make([]any, 0, len(claims.Audience))
	for _, a := range claims.Audience {
		aud = append(aud, a)
	}

	fields := map[string]any{
		"sub":   claims.Subject,
		"email": claims.Email,
		"role":  claims.Role,
		"name":  claims.Name,
		"iss":   claims.Issuer,
		"aud":   aud,
		"jti":   claims.ID,
	}
	if claims.IssuedAt != nil {
		fields["iat"] = float64(claims.IssuedAt.Unix())
	}
	if claims.ExpiresAt != nil {
		fields["exp"] = float64(claims.ExpiresAt.Unix())
	}

	return structpb.NewStruct(fields)
}
