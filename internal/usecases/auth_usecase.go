package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/domain/repositories"
	"sprintos.backend/pkg/crypto"
	"sprintos.backend/pkg/jwt"
	"sprintos.backend/pkg/redis"
)

// SessionStore persists server-side login sessions
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

var (
	hashPassword = crypto.HashPassword
	newSessionID = func() (string, error) { return crypto.GenerateRandomToken(32) }
)

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
	sessions   SessionStore
}

// NewAuthUsecase creates a new auth usecase. sessions may be nil when redis is unavailable.
func NewAuthUsecase(userRepo repositories.UserRepository, jwtService *jwt.JWTService, sessions SessionStore) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// Signup registers a new user and signs them in
func (u *AuthUsecase) Signup(ctx context.Context, input *entities.SignupInput) (*entities.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	if email == "" || name == "" {
		return nil, domainerrors.BadRequest("name and email are required")
	}
	if len(input.Password) < entities.MinPasswordLength {
		return nil, domainerrors.BadRequest("password must be at least 6 characters")
	}

	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.Conflict("Email already registered")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("Email already registered")
		}
		return nil, err
	}

	return u.issue(ctx, user, false)
}

// Login authenticates a user and returns tokens, or a session id when requested
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return u.issue(ctx, user, input.UseSession)
}

func (u *AuthUsecase) issue(ctx context.Context, user *entities.User, useSession bool) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	if !useSession || u.sessions == nil {
		return &entities.AuthResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			User:         user,
		}, nil
	}

	sessionID, err := newSessionID()
	if err != nil {
		return nil, err
	}
	err = u.sessions.CreateSession(ctx, sessionID, &redis.SessionData{
		UserID:       user.ID.String(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, u.jwtService.RefreshExpiry())
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{SessionID: sessionID, User: user}, nil
}

// ResolveSession returns the claims behind a session id. An expired access
// token is renewed from the stored refresh token and written back.
func (u *AuthUsecase) ResolveSession(ctx context.Context, sessionID string) (*jwt.Claims, error) {
	if u.sessions == nil || sessionID == "" {
		return nil, domainerrors.ErrUnauthorized
	}

	data, err := u.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	claims, err := u.jwtService.ValidateToken(data.AccessToken)
	if err == nil {
		return claims, nil
	}
	if !errors.Is(err, jwt.ErrExpiredToken) {
		return nil, domainerrors.ErrUnauthorized
	}

	refresh, err := u.jwtService.ValidateRefreshToken(data.RefreshToken)
	if err != nil {
		_ = u.sessions.DeleteSession(ctx, sessionID)
		return nil, domainerrors.ErrTokenExpired
	}

	pair, err := u.jwtService.GenerateTokenPair(refresh.UserID, refresh.Email)
	if err != nil {
		return nil, err
	}
	data.AccessToken, data.RefreshToken = pair.AccessToken, pair.RefreshToken
	if err := u.sessions.CreateSession(ctx, sessionID, data, u.jwtService.RefreshExpiry()); err != nil {
		return nil, err
	}

	return u.jwtService.ValidateToken(pair.AccessToken)
}

// Logout drops the server-side session, if any
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if u.sessions == nil || sessionID == "" {
		return nil
	}
	return u.sessions.DeleteSession(ctx, sessionID)
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email)
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}
