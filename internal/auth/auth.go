// Package auth issues and verifies the JWT bearer tokens protecting the
// write endpoints. Accounts are stored with bcrypt password hashes; tokens
// are signed HS256 with the configured secret.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/courtside/club-stats-service/internal/config"
	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized marks a missing, malformed or expired token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrWeakPassword rejects registration passwords below the minimum length.
	ErrWeakPassword = errors.New("password too weak")
)

const minPasswordLen = 8

// Claims is the token payload: subject is the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service registers accounts and exchanges credentials for tokens.
type Service struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewService(users repository.UserRepository, cfg config.AuthConfig, logger zerolog.Logger) *Service {
	l := logger.With().Str("module", "auth").Logger()
	ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{users: users, secret: []byte(cfg.JWTSecret), tokenTTL: ttl, log: l}
}

// Register creates an account. The email is lowercased so lookups are
// case-insensitive; duplicates surface as repository.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, fmt.Errorf("%w: malformed email", ErrInvalidCredentials)
	}
	if len(password) < minPasswordLen {
		return model.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	out, err := s.users.Create(ctx, model.User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return model.User{}, err
	}
	s.log.Info().Int64("user_id", out.ID).Msg("account registered")
	return out, nil
}

// Login verifies the credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies a bearer token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
