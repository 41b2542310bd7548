package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/passhash"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type AuthService struct {
	userRepo UserRepo
	tokens   TokenProvider
	log      logger.Logger
}

func NewAuthService(userRepo UserRepo, tokens TokenProvider, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

// Register creates a new account with the requested role. The role is
// fixed at registration; there is no way to change it afterwards.
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) (uuid.UUID, error) {
	ctx = wrap.WithAction(ctx, "register")

	if req.Role != types.CustomerRole && req.Role != types.DriverRole {
		return uuid.UUID{}, wrap.Error(ctx, ErrInvalidRole)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, types.ErrUserNotFound) {
		return uuid.UUID{}, wrap.Error(ctx, err)
	}
	if existing != nil {
		return uuid.UUID{}, wrap.Error(ctx, ErrNotUniqueEmail)
	}

	hash, err := passhash.HashPassword(req.Password)
	if err != nil {
		s.log.Error(ctx, "could not hash password", err)
		return uuid.UUID{}, wrap.Error(ctx, err)
	}

	user := models.User{
		Email: email,
		Role:  req.Role.String(),
	}
	user.SetPassword(hash)

	id, err := s.userRepo.Create(ctx, &user)
	if err != nil {
		s.log.Error(ctx, "could not save user", err)
		return uuid.UUID{}, wrap.Error(ctx, err)
	}

	ctx = wrap.WithUserID(ctx, id.String())
	s.log.Info(ctx, "user registered", "role", user.Role)
	return id, nil
}

// Login verifies the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "login")

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, wrap.Error(ctx, ErrInvalidCredentials)
		}
		return nil, wrap.Error(ctx, err)
	}

	if ok, err := passhash.VerifyPassword(password, user.GetPassword()); err != nil || !ok {
		return nil, wrap.Error(ctx, ErrInvalidCredentials)
	}

	tokens, err := s.tokens.GenerateTokens(ctx, user)
	if err != nil {
		return nil, wrap.Error(ctx, ErrTokenGenerateFail)
	}

	ctx = wrap.WithUserID(ctx, user.ID.String())
	s.log.Info(ctx, "user logged in")
	return tokens, nil
}

// Refresh rotates the refresh token and issues a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "refresh")

	pair, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return pair, nil
}

// Authenticate validates an access token and loads the account behind it.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != models.AccessToken {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}
