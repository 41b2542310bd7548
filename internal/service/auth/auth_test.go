package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type nopTxManager struct{}

func (nopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (uuid.UUID, error) {
	id, err := uuid.New()
	if err != nil {
		return uuid.UUID{}, err
	}
	cp := *user
	cp.ID = id
	f.users[id] = &cp
	return id, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeRefreshRepo struct {
	records map[uuid.UUID]*models.RefreshTokenRecord
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{records: make(map[uuid.UUID]*models.RefreshTokenRecord)}
}

func (f *fakeRefreshRepo) Save(ctx context.Context, record *models.RefreshTokenRecord) error {
	cp := *record
	f.records[record.ID] = &cp
	return nil
}

func (f *fakeRefreshRepo) Get(ctx context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error) {
	r, ok := f.records[tokenID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRefreshRepo) MarkUsed(ctx context.Context, tokenID uuid.UUID) error {
	r, ok := f.records[tokenID]
	if !ok {
		return errors.New("no such token")
	}
	r.Revoked = true
	return nil
}

func newTestServices(t *testing.T) (*AuthService, *TokenService, *fakeUserRepo) {
	t.Helper()
	l := logger.InitLogger("auth-test", logger.LevelError)
	users := newFakeUserRepo()
	tokens := NewTokenService("test-secret", users, newFakeRefreshRepo(), nopTxManager{}, time.Hour, 15*time.Minute, l)
	return NewAuthService(users, tokens, l), tokens, users
}

func registerUser(t *testing.T, svc *AuthService, email string, role types.UserRole) uuid.UUID {
	t.Helper()
	id, err := svc.Register(context.Background(), &models.UserCreateRequest{
		Email:    email,
		Password: "hunter22",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return id
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	svc, _, _ := newTestServices(t)

	_, err := svc.Register(context.Background(), &models.UserCreateRequest{
		Email:    "a@example.com",
		Password: "hunter22",
		Role:     types.UserRole("ADMIN"),
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRegister_NormalizesEmailAndRejectsDuplicates(t *testing.T) {
	svc, _, users := newTestServices(t)

	id := registerUser(t, svc, "  Rider@Example.COM ", types.CustomerRole)
	stored, err := users.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.Email != "rider@example.com" {
		t.Fatalf("email must be normalized, got %q", stored.Email)
	}
	if stored.PasswordHash == "hunter22" || stored.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	_, err = svc.Register(context.Background(), &models.UserCreateRequest{
		Email:    "rider@example.com",
		Password: "other",
		Role:     types.DriverRole,
	})
	if !errors.Is(err, ErrNotUniqueEmail) {
		t.Fatalf("expected ErrNotUniqueEmail, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestServices(t)
	registerUser(t, svc, "rider@example.com", types.CustomerRole)

	pair, err := svc.Login(context.Background(), "Rider@example.com ", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("both tokens must be issued")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}

	if _, err := svc.Login(context.Background(), "rider@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestServices(t)
	id := registerUser(t, svc, "driver@example.com", types.DriverRole)

	pair, err := svc.Login(context.Background(), "driver@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != id {
		t.Fatal("authenticate must return the token's owner")
	}
	if !user.IsDriver() {
		t.Fatalf("role lost in transit: %q", user.Role)
	}

	// Refresh tokens must not act as access tokens.
	if _, err := svc.Authenticate(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token as access: expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: expected ErrInvalidToken, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _, _ := newTestServices(t)
	registerUser(t, svc, "rider@example.com", types.CustomerRole)

	pair, err := svc.Login(context.Background(), "rider@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fresh, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh.AccessToken == "" || fresh.RefreshToken == "" {
		t.Fatal("refresh must issue a full pair")
	}

	// The old refresh token was consumed by the rotation.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reused refresh token: expected ErrInvalidToken, got %v", err)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestServices(t)
	registerUser(t, svc, "rider@example.com", types.CustomerRole)

	pair, err := svc.Login(context.Background(), "rider@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	l := logger.InitLogger("auth-test", logger.LevelError)
	users := newFakeUserRepo()
	tokens := NewTokenService("test-secret", users, newFakeRefreshRepo(), nopTxManager{}, -time.Hour, -time.Minute, l)

	id, err := uuid.New()
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}
	pair, err := tokens.GenerateTokens(context.Background(), &models.User{ID: id, Email: "x@example.com"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tokens.Validate(context.Background(), pair.AccessToken); err == nil {
		t.Fatal("expired token must not validate")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	l := logger.InitLogger("auth-test", logger.LevelError)
	users := newFakeUserRepo()
	issuer := NewTokenService("secret-a", users, newFakeRefreshRepo(), nopTxManager{}, time.Hour, 15*time.Minute, l)
	verifier := NewTokenService("secret-b", users, newFakeRefreshRepo(), nopTxManager{}, time.Hour, 15*time.Minute, l)

	id, err := uuid.New()
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}
	pair, err := issuer.GenerateTokens(context.Background(), &models.User{ID: id, Email: "x@example.com"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.Validate(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign signature: expected ErrInvalidToken, got %v", err)
	}
}
