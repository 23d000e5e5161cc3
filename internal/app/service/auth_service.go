package service

import (
	"context"
	"errors"
	"fmt"

	"sweetshop/internal/common"
	"sweetshop/internal/common/security"
	"sweetshop/internal/domain/model"
	"sweetshop/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo  repository.UserRepository
	tokenAuth *security.TokenAuth
}

func NewAuthService(userRepo repository.UserRepository, tokenAuth *security.TokenAuth) *AuthService {
	return &AuthService{userRepo: userRepo, tokenAuth: tokenAuth}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// invalidCredentials is the single error returned for both unknown-user and
// wrong-password logins, so callers cannot enumerate usernames.
func invalidCredentials() error {
	return fmt.Errorf("incorrect username or password: %w", common.ErrUnauthorized)
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", common.ErrValidation)
	}

	// Role assignment is server-side. A caller may opt into a non-privileged
	// role; admin roles are only granted through the role administration
	// endpoint.
	role := req.Role
	switch role {
	case "":
		role = model.RoleWorker
	case model.RoleWorker, model.RoleCustomer:
	default:
		return nil, fmt.Errorf("role %q cannot be self-assigned: %w", req.Role, common.ErrValidation)
	}

	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		HashedPassword: hashedPassword,
		Role:           role,
	}

	// The unique constraint on username is the atomic backstop for the
	// check-then-insert window above.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.HashedPassword = "" // Clear before returning
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	if username == "" || password == "" {
		return nil, invalidCredentials()
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(password, user.HashedPassword) {
		return nil, invalidCredentials()
	}

	token, err := s.tokenAuth.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// ChangeRole assigns a new role to an existing user. Authorization (the
// superadmin gate) is enforced by the caller's middleware chain.
func (s *AuthService) ChangeRole(ctx context.Context, username, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, common.ErrValidation)
	}
	user, err := s.userRepo.UpdateRole(ctx, username, role)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}
