package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"rentals/internal/apperrors"
	"rentals/internal/config"
	"rentals/internal/metrics"
	"rentals/internal/models"
	"rentals/internal/repositories"
)

// Claims is the payload of an access token.
type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.StandardClaims
}

// RegisterInput is the request body for account registration.
type RegisterInput struct {
	Email    string       `json:"email" validate:"required,email,max=255"`
	Password string       `json:"password" validate:"required,min=6,max=72"`
	FullName *string      `json:"full_name" validate:"omitempty,max=255"`
	Roles    models.Roles `json:"roles"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration // Duration for which JWT is valid
	events    EventPublisher
	log       logrus.FieldLogger
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(userRepo repositories.UserRepository, cfg config.JWTConfig, events EventPublisher, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.Secret),
		tokenTTL:  cfg.ExpiresIn,
		events:    events,
		log:       log,
	}
}

// Register creates an account, hashes its password and creates the profile
// matching each of its roles.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	// Check if email already exists
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict("email '%s' already registered", email)
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roles := in.Roles.OrDefault()
	for _, r := range roles {
		if !r.Valid() {
			return nil, apperrors.Validation("Validation failed", map[string]string{
				"roles": fmt.Sprintf("unknown role '%s'", r),
			})
		}
		if r == models.RoleAdmin {
			return nil, apperrors.Validation("Validation failed", map[string]string{
				"roles": "admin accounts cannot self-register",
			})
		}
	}

	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
		Roles:    roles,
		FullName: in.FullName,
	}
	if roles.Has(models.RoleTenant) {
		user.TenantProfile = &models.TenantProfile{FullName: in.FullName}
	}
	if roles.Has(models.RoleOperator) {
		user.OperatorProfile = &models.OperatorProfile{FullName: in.FullName}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	metrics.RegistrationsTotal.WithLabelValues(string(roles[0])).Inc()
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "roles": roles.String()}).Info("User registered")

	publish(ctx, s.events, s.log, EventUserRegistered, map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"roles":   roles,
	})

	return s.result(user)
}

// Login authenticates a user by email and password and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		if errors.Is(err, apperrors.ErrNotFound) {
			// Do not reveal whether the email exists.
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	// Accounts created through an external provider have no password.
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if user.Status != models.StatusActive {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.Unauthorized("account is %s", user.Status)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return s.result(user)
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, User: user}, nil
}

// IssueToken signs an HS256 access token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	roles := user.RoleList()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: user.Email,
		Roles: names,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning its claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token: %v", err)
	}
	if !token.Valid {
		return nil, apperrors.Unauthorized("invalid token")
	}
	if claims.Subject == "" {
		return nil, apperrors.Unauthorized("invalid token: missing subject")
	}
	return claims, nil
}

// ResolveIdentity validates a token and loads the caller it names.
func (s *AuthService) ResolveIdentity(ctx context.Context, tokenString string) (*models.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetWithProfiles(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	if user.Status != models.StatusActive {
		return nil, apperrors.Unauthorized("account is %s", user.Status)
	}
	return models.NewIdentity(user), nil
}
