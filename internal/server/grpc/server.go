// Package grpc exposes the token lifecycle operations over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/auth"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"google.golang.org/grpc"
)

// TokenService is the part of services.TokenService the transport needs.
type TokenService interface {
	Refresh(ctx context.Context, token string) (*models.TokenPair, error)
	Revoke(ctx context.Context, token string) error
	Verify(accessToken string) (*auth.Claims, error)
}

type GRPCServer struct {
	address string
	tokens  TokenService
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, ts TokenService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		tokens:  ts,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	RegisterTokenServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
