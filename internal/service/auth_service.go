package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/paylink/internal/auth"
	"github.com/mmynk/paylink/internal/middleware"
	"github.com/mmynk/paylink/internal/models"
	"github.com/mmynk/paylink/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         auth.UserStorage
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users auth.UserStorage, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.InfoContext(ctx, "Register request", "email", req.Msg.Email)

	if req.Msg.DisplayName == "" {
		return nil, validationError(models.NewValidationError("display_name", "display name must not be blank"))
	}

	reg := auth.Registration{
		Email:       req.Msg.Email,
		DisplayName: req.Msg.DisplayName,
		Phone:       req.Msg.Phone,
		Document:    req.Msg.Document,
	}
	user, err := s.authenticator.Register(ctx, reg, req.Msg.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "Registration failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, auth.ErrEmailExists)
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, validationError(models.NewValidationError("password", auth.ErrWeakPassword.Error()))
		}
		return nil, toConnectError(s.logger, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}

	s.logger.InfoContext(ctx, "User registered successfully", "user_id", user.ID)
	return connect.NewResponse(&api.RegisterResponse{User: toAPIUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.InfoContext(ctx, "Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "Login failed", "email", req.Msg.Email)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}

	s.logger.InfoContext(ctx, "User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{User: toAPIUser(user), Token: token}), nil
}

// GetCurrentUser returns the currently authenticated user's profile.
func (s *AuthService) GetCurrentUser(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.GetCurrentUserResponse], error) {
	principal := middleware.PrincipalFrom(ctx)
	if principal == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.users.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	if user == nil {
		// Token outlived the account.
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
