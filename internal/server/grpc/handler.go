package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/skillsync/internal/common"
	pb "github.com/dmitrijs2005/skillsync/internal/proto"
	"github.com/dmitrijs2005/skillsync/internal/server/models"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Unexpected errors are
// logged and hidden behind Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "the email address is already in use")
	case errors.Is(err, common.ErrorInvalidEmail):
		return status.Error(codes.InvalidArgument, "the email address is badly formatted")
	case errors.Is(err, common.ErrorWeakPassword):
		return fieldError("password", "password is too weak")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "invalid email or password")
	case errors.Is(err, common.ErrorRecentLoginNeed):
		return status.Error(codes.FailedPrecondition, "recent login required")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return fieldError("token", "reset token is invalid or expired")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "account not found")
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

// fieldError is an InvalidArgument status naming the offending field.
func fieldError(field, msg string) error {
	st := status.New(codes.InvalidArgument, msg)
	withDetails, err := st.WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{{Field: field, Description: msg}},
	})
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}

func accountResponse(acc *models.Account, token string) *pb.AccountResponse {
	return &pb.AccountResponse{Uid: acc.ID, Email: acc.Email, IdToken: token}
}

func (s *GRPCServer) CreateAccount(ctx context.Context, req *pb.CredentialsRequest) (*pb.AccountResponse, error) {
	sess, err := s.accounts.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return accountResponse(sess.Account, sess.IDToken), nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *pb.CredentialsRequest) (*pb.AccountResponse, error) {
	sess, err := s.accounts.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return accountResponse(sess.Account, sess.IDToken), nil
}

func (s *GRPCServer) SendPasswordReset(ctx context.Context, req *pb.EmailRequest) (*pb.Empty, error) {
	if err := s.accounts.SendPasswordReset(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCServer) ConfirmPasswordReset(ctx context.Context, req *pb.ConfirmPasswordResetRequest) (*pb.Empty, error) {
	if err := s.accounts.ConfirmPasswordReset(ctx, req.Token, req.Password); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCServer) UpdateEmail(ctx context.Context, req *pb.EmailRequest) (*pb.AccountResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	sess, err := s.accounts.UpdateEmail(ctx, claims, req.Email)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return accountResponse(sess.Account, sess.IDToken), nil
}

func (s *GRPCServer) GetAccount(ctx context.Context, _ *pb.Empty) (*pb.AccountResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	acc, err := s.accounts.GetAccount(ctx, claims.UID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return accountResponse(acc, ""), nil
}
