package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"honors_gwa/backend/internal/shared"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const issuer = "honors-gwa"

// UserFinder looks accounts up by email or student number; unknown
// identifiers are (nil, nil)
type UserFinder interface {
	FindByIdentifier(ctx context.Context, identifier string) (*shared.User, error)
}

// CustomClaims for JWT
type CustomClaims struct {
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	YearLevel  int    `json:"year_level,omitempty"`
	jwt.RegisteredClaims
}

// RequestContext returns the caller identity carried by the claims
func (c *CustomClaims) RequestContext() shared.RequestContext {
	return shared.RequestContext{
		UserID:     c.UserID,
		Role:       c.Role,
		Department: c.Department,
		YearLevel:  c.YearLevel,
	}
}

// LoginResult is returned on a successful login
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *shared.User `json:"user"`
}

// AuthService issues and verifies HS256 tokens for accounts in the users collection
type AuthService struct {
	users  UserFinder
	config shared.SecurityConfig
	now    func() time.Time
}

// NewAuthService creates a new AuthService instance
func NewAuthService(users UserFinder, config shared.SecurityConfig) *AuthService {
	return &AuthService{users: users, config: config, now: time.Now}
}

// Login authenticates a user and returns a JWT
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, shared.NewValidationError("identifier and password are required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user, err := s.users.FindByIdentifier(queryCtx, identifier)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactive
	}

	token, expiresAt, err := s.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GenerateToken creates a signed JWT for the user
func (s *AuthService) GenerateToken(user *shared.User) (string, time.Time, error) {
	now := s.now()
	expirationTime := now.Add(time.Duration(s.config.JWTExpirationHours) * time.Hour)

	claims := CustomClaims{
		UserID:     user.ID,
		Role:       user.Role,
		Department: user.Department,
		YearLevel:  user.YearLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))

	return tokenString, expirationTime, err
}

// ParseToken validates the JWT signature and expiry and extracts claims
func (s *AuthService) ParseToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword hashes a password with the configured bcrypt cost
func (s *AuthService) HashPassword(password string) (string, error) {
	cost := s.config.BCryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
