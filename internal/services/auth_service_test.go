package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rentals/internal/apperrors"
	"rentals/internal/config"
	"rentals/internal/logger"
	"rentals/internal/models"
	"rentals/internal/services"
)

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo *MockUserRepository, events services.EventPublisher) *services.AuthService {
	cfg := config.JWTConfig{Secret: testJWTSecret, ExpiresIn: time.Hour}
	return services.NewAuthService(repo, cfg, events, logger.Discard())
}

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	events := new(MockPublisher)
	authService := newAuthService(mockRepo, events)

	// Test successful registration with the default role
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, apperrors.NotFound("user not found")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = "user-123"
	}).Return(nil).Once()
	events.On("Publish", ctx, services.EventUserRegistered, mock.Anything).Return(nil).Once()

	result, err := authService.Register(ctx, services.RegisterInput{Email: " Test@Example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "test@example.com", result.User.Email)
	assert.Equal(t, models.NewRoles(models.RoleTenant), result.User.Roles)
	assert.NotNil(t, result.User.TenantProfile)
	assert.Nil(t, result.User.OperatorProfile)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
	events.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.Register(ctx, services.RegisterInput{Email: "test@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterOperatorCreatesOperatorProfile(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)

	mockRepo.On("GetByEmail", ctx, "op@example.com").Return(nil, apperrors.NotFound("user not found")).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.OperatorProfile != nil && u.TenantProfile == nil && u.Roles.String() == "operator"
	})).Return(nil).Once()

	_, err := authService.Register(ctx, services.RegisterInput{
		Email:    "op@example.com",
		Password: "password123",
		Roles:    models.NewRoles(models.RoleOperator),
	})
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterRejectsAdminAndUnknownRoles(t *testing.T) {
	ctx := context.Background()
	for _, roles := range []string{"admin", "tenant,landlord"} {
		mockRepo := new(MockUserRepository)
		authService := newAuthService(mockRepo, nil)
		mockRepo.On("GetByEmail", ctx, "x@example.com").Return(nil, apperrors.NotFound("user not found")).Once()

		_, err := authService.Register(ctx, services.RegisterInput{
			Email:    "x@example.com",
			Password: "password123",
			Roles:    models.ParseRoles(roles),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation, roles)
		assert.Contains(t, apperrors.Fields(err), "roles")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Roles:    models.NewRoles(models.RoleOperator),
		Status:   models.StatusActive,
	}

	// Test successful login
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	result, err := authService.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)

	claims, err := authService.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, []string{"operator"}, claims.Roles)
	assert.WithinDuration(t, time.Now().Add(time.Hour), time.Unix(claims.ExpiresAt, 0), time.Minute)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, err = authService.Login(ctx, "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid credentials")

	// Test invalid credentials (user not found)
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperrors.NotFound("user not found")).Once()
	_, err = authService.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid credentials") // Should return generic invalid credentials message

	// Test suspended account
	suspended := *user
	suspended.Status = models.StatusSuspended
	mockRepo.On("GetByEmail", ctx, user.Email).Return(&suspended, nil).Once()
	_, err = authService.Login(ctx, "test@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository), nil)
	now := time.Now()

	valid := signed(t, services.Claims{
		Email:          "test@example.com",
		Roles:          []string{"tenant"},
		StandardClaims: jwt.StandardClaims{Subject: "user-123", IssuedAt: now.Unix(), ExpiresAt: now.Add(time.Hour).Unix()},
	})
	claims, err := authService.ValidateToken(valid)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.StandardClaims{
		Subject: "user-123", ExpiresAt: now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"malformed": "invalid.token.string",
		"expired": signed(t, services.Claims{
			StandardClaims: jwt.StandardClaims{Subject: "user-123", ExpiresAt: now.Add(-time.Hour).Unix()},
		}),
		"tampered": tampered,
		"missing subject": signed(t, services.Claims{
			Email:          "test@example.com",
			StandardClaims: jwt.StandardClaims{ExpiresAt: now.Add(time.Hour).Unix()},
		}),
		"unsigned":     noneToken,
		"wrong secret": mustSign(t, "another-secret", now),
	}
	for name, token := range cases {
		_, err := authService.ValidateToken(token)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized, name)
		assert.Contains(t, err.Error(), "invalid token", name)
	}
}

func mustSign(t *testing.T, secret string, now time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject: "user-123", ExpiresAt: now.Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)

	user := &models.User{ID: "user-123", Email: "test@example.com", Status: models.StatusActive, TenantProfile: &models.TenantProfile{ID: "tp-1"}}
	token, err := authService.IssueToken(user)
	require.NoError(t, err)

	mockRepo.On("GetWithProfiles", ctx, "user-123").Return(user, nil).Once()
	identity, err := authService.ResolveIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.ID)
	assert.Equal(t, models.NewRoles(models.RoleTenant), identity.Roles)
	assert.Equal(t, "tp-1", identity.TenantProfile.ID)

	// A valid token for a deleted account no longer authenticates.
	mockRepo.On("GetWithProfiles", ctx, "user-123").Return(nil, apperrors.NotFound("user with ID user-123 not found")).Once()
	_, err = authService.ResolveIdentity(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// Suspending an account revokes its outstanding tokens.
	suspended := *user
	suspended.Status = models.StatusSuspended
	mockRepo.On("GetWithProfiles", ctx, "user-123").Return(&suspended, nil).Once()
	_, err = authService.ResolveIdentity(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.EqualError(t, err, "account is suspended")

	// Infrastructure failures are not reported as bad credentials.
	mockRepo.On("GetWithProfiles", ctx, "user-123").Return(nil, fmt.Errorf("connection refused")).Once()
	_, err = authService.ResolveIdentity(ctx, token)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
	mockRepo.AssertExpectations(t)
}
