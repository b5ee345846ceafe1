// Package auth implements credential registration, login and bearer-token
// verification for the invoice API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/tutorbill/invoice-service/internal/errors"

	"github.com/tutorbill/invoice-service/internal/app/domain/user"
	"github.com/tutorbill/invoice-service/internal/app/storage"
	"github.com/tutorbill/invoice-service/pkg/logger"
)

const (
	tokenTTL = 24 * time.Hour
	issuer   = "tutorbill"
)

// Claims is the JWT payload issued on login.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service is the auth gate: it hashes and verifies passwords and issues and
// validates signed tokens.
type Service struct {
	users  storage.UserStore
	secret []byte
	cost   int
	log    *logger.Logger
	now    func() time.Time
}

// New creates the auth service. cost is the bcrypt cost factor; values below
// bcrypt.MinCost fall back to the default of 10.
func New(users storage.UserStore, secret string, cost int, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	if cost < bcrypt.MinCost {
		cost = 10
	}
	return &Service{
		users:  users,
		secret: []byte(secret),
		cost:   cost,
		log:    log,
		now:    time.Now,
	}
}

// Register hashes the password and stores the credential record. Any store
// failure, including a duplicate username, surfaces as one undifferentiated
// validation error. The stored record, hash included, is returned to the
// caller.
func (s *Service) Register(ctx context.Context, username, password string) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return user.User{}, apperrors.Validation("registration failed")
	}

	stored, err := s.users.CreateUser(ctx, user.User{Username: username, Password: string(hash)})
	if err != nil {
		s.log.WithError(err).WithField("username", username).Warn("registration failed")
		return user.User{}, apperrors.Validation("registration failed")
	}
	return stored, nil
}

// Login verifies the credentials and issues a signed token. An unknown
// username and a wrong password produce the same auth error so callers cannot
// enumerate accounts.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return "", apperrors.Auth("invalid credentials")
	}
	if err != nil {
		return "", apperrors.Storage("user lookup failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", apperrors.Auth("invalid credentials")
	}

	return s.issueToken(u.Username)
}

// VerifyToken validates the signature and expiry of a bearer token and
// returns the username it encodes.
func (s *Service) VerifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", apperrors.Auth("invalid or expired token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Username == "" {
		return "", apperrors.Auth("invalid or expired token")
	}
	return claims.Username, nil
}

func (s *Service) issueToken(username string) (string, error) {
	now := s.now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Storage("token signing failed", err)
	}
	return signed, nil
}
