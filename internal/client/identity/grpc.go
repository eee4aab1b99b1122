package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/skillsync/internal/client/repositories/kv"
	"github.com/dmitrijs2005/skillsync/internal/common"
	pb "github.com/dmitrijs2005/skillsync/internal/proto"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var errNoSession = &ProviderError{Kind: KindOther, Message: "no signed-in user"}

// GRPCProvider implements Provider against identityd over gRPC. The ID
// token of the current session is cached in a key-value namespace and
// attached to every call by a client interceptor.
type GRPCProvider struct {
	conn   *grpc.ClientConn
	client pb.IdentityClient
	health healthpb.HealthClient
	cache  *TokenCache

	mu    sync.Mutex
	token string
}

// NewGRPCProvider connects lazily to endpoint. store must be bound to the
// namespace reserved for identity data.
func NewGRPCProvider(endpoint string, store kv.Repository, opts ...grpc.DialOption) (*GRPCProvider, error) {
	p := &GRPCProvider{cache: NewTokenCache(store)}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(p.idTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity client: %w", err)
	}
	p.conn = conn
	p.client = pb.NewIdentityClient(conn)
	p.health = healthpb.NewHealthClient(conn)
	return p, nil
}

func withIDToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (p *GRPCProvider) currentToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

func (p *GRPCProvider) setToken(token string) {
	p.mu.Lock()
	p.token = token
	p.mu.Unlock()
}

func (p *GRPCProvider) idTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := p.currentToken(); token != "" {
		ctx = withIDToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// CurrentUser restores the session from the token cache.
func (p *GRPCProvider) CurrentUser(ctx context.Context) (*User, error) {
	token, user, err := p.cache.Load(ctx)
	if err != nil {
		return nil, err
	}
	p.setToken(token)
	return user, nil
}

// CreateAccount registers email. The returned user is not signed in.
func (p *GRPCProvider) CreateAccount(ctx context.Context, email, password string) (*User, error) {
	resp, err := p.client.CreateAccount(ctx, &pb.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, mapError(err, false)
	}
	return &User{UID: resp.Uid, Email: resp.Email}, nil
}

// SignIn verifies the credentials and caches the returned ID token.
func (p *GRPCProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	resp, err := p.client.SignIn(ctx, &pb.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, mapError(err, true)
	}
	if err := p.startSession(ctx, resp.IdToken); err != nil {
		return nil, err
	}
	return &User{UID: resp.Uid, Email: resp.Email}, nil
}

// SignOut forgets the cached token. It never goes to the network.
func (p *GRPCProvider) SignOut(ctx context.Context) error {
	p.setToken("")
	return p.cache.Clear(ctx)
}

func (p *GRPCProvider) SendPasswordReset(ctx context.Context, email string) error {
	if _, err := p.client.SendPasswordReset(ctx, &pb.EmailRequest{Email: email}); err != nil {
		return mapError(err, false)
	}
	return nil
}

// ConfirmPasswordReset sets a new password using the token delivered by
// SendPasswordReset.
func (p *GRPCProvider) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	_, err := p.client.ConfirmPasswordReset(ctx, &pb.ConfirmPasswordResetRequest{Token: token, Password: password})
	if err != nil {
		return mapError(err, false)
	}
	return nil
}

// UpdateEmail changes the signed-in account's email and caches the
// reissued token.
func (p *GRPCProvider) UpdateEmail(ctx context.Context, newEmail string) (*User, error) {
	if p.currentToken() == "" {
		return nil, errNoSession
	}
	resp, err := p.client.UpdateEmail(ctx, &pb.EmailRequest{Email: newEmail})
	if err != nil {
		return nil, mapError(err, false)
	}
	if resp.IdToken != "" {
		if err := p.startSession(ctx, resp.IdToken); err != nil {
			return nil, err
		}
	}
	return &User{UID: resp.Uid, Email: resp.Email}, nil
}

func (p *GRPCProvider) startSession(ctx context.Context, token string) error {
	if token == "" {
		return &ProviderError{Kind: KindOther, Message: "identity service returned no token"}
	}
	if err := p.cache.Save(ctx, token); err != nil {
		return err
	}
	p.setToken(token)
	return nil
}

// Ping reports whether the identity service answers health checks.
func (p *GRPCProvider) Ping(ctx context.Context) error {
	resp, err := p.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	if err != nil {
		return mapError(err, false)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return &ProviderError{Kind: KindOther, Message: msgUnavailable}
	}
	return nil
}

// Close releases the connection.
func (p *GRPCProvider) Close() error {
	return p.conn.Close()
}

// mapError turns a gRPC status into a *ProviderError. NotFound only means
// bad credentials on the sign-in path.
func mapError(err error, signIn bool) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &ProviderError{Kind: KindOther, Message: msgUnavailable, Err: err}
		}
		return &ProviderError{Kind: KindOther, Message: err.Error(), Err: err}
	}

	switch st.Code() {
	case codes.AlreadyExists:
		return &ProviderError{Kind: KindCredentialsInUse, Message: st.Message(), Err: err}
	case codes.InvalidArgument:
		if violatesField(st, "password") || violatesField(st, "token") {
			return &ProviderError{Kind: KindOther, Message: st.Message(), Err: err}
		}
		return &ProviderError{Kind: KindMalformedEmail, Message: st.Message(), Err: err}
	case codes.Unauthenticated:
		return &ProviderError{Kind: KindInvalidCredentials, Message: st.Message(), Err: err}
	case codes.NotFound:
		if signIn {
			return &ProviderError{Kind: KindInvalidCredentials, Message: st.Message(), Err: err}
		}
	case codes.FailedPrecondition:
		return &ProviderError{Kind: KindRequiresRecentLogin, Message: st.Message(), Err: err}
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return &ProviderError{Kind: KindOther, Message: msgUnavailable, Err: err}
	}
	return &ProviderError{Kind: KindOther, Message: st.Message(), Err: err}
}

// violatesField reports whether st carries a BadRequest detail naming field.
func violatesField(st *status.Status, field string) bool {
	for _, d := range st.Details() {
		br, ok := d.(*errdetails.BadRequest)
		if !ok {
			continue
		}
		for _, v := range br.GetFieldViolations() {
			if v.GetField() == field {
				return true
			}
		}
	}
	return false
}
