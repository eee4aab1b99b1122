// Package grpc exposes the account service over gRPC, together with the
// standard health service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/skillsync/internal/logging"
	pb "github.com/dmitrijs2005/skillsync/internal/proto"
	"github.com/dmitrijs2005/skillsync/internal/server/auth"
	"github.com/dmitrijs2005/skillsync/internal/server/models"
	"github.com/dmitrijs2005/skillsync/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// AccountService is what the handlers need from services.AccountService.
type AccountService interface {
	CreateAccount(ctx context.Context, email, password string) (*services.Session, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	SendPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, password string) error
	UpdateEmail(ctx context.Context, claims *auth.Claims, newEmail string) (*services.Session, error)
	GetAccount(ctx context.Context, uid string) (*models.Account, error)
	VerifyIDToken(token string) (*auth.Claims, error)
}

type GRPCServer struct {
	pb.UnimplementedIdentityServer
	address  string
	accounts AccountService
	logger   logging.Logger
	health   *health.Server
}

func NewGRPCServer(a string, l logging.Logger, as AccountService) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: as,
		health:   health.NewServer(),
	}
}

// Register installs the identity and health services on srv.
func (s *GRPCServer) Register(srv *grpc.Server) {
	pb.RegisterIdentityServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
}

// NewServer builds a grpc.Server with the auth interceptor and both
// services registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.idTokenInterceptor)}, opts...)
	srv := grpc.NewServer(opts...)
	s.Register(srv)
	return srv
}

// Run serves until ctx is done, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
