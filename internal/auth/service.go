package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	redisstore "github.com/ssRohan-32/link-organizer/internal/store/redis"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// userRecord is the stored account document.
type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Service implements the authentication provider the core needs:
// signup and login issuing stateless bearer tokens. Logout and password
// reset stay with the external identity layer.
type Service struct {
	client   *redis.Client
	secret   []byte
	tokenTTL time.Duration
}

// NewService creates an auth service backed by redis.
func NewService(client *redis.Client, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{
		client:   client,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// SignUp registers a new account and returns a signed token.
func (s *Service) SignUp(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	rec := userRecord{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal user record: %w", err)
	}

	created, err := s.client.SetNX(ctx, redisstore.UserKey(email), data, 0).Result()
	if err != nil {
		return "", fmt.Errorf("failed to store user record: %w", err)
	}
	if !created {
		return "", ErrEmailTaken
	}

	return GenerateToken(rec.ID, s.secret, s.tokenTTL)
}

// SignIn verifies credentials and returns a signed token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	data, err := s.client.Get(ctx, redisstore.UserKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to read user record: %w", err)
	}

	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("failed to unmarshal user record: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return GenerateToken(rec.ID, s.secret, s.tokenTTL)
}

// UserID resolves a bearer token to the signed-in user's id.
func (s *Service) UserID(token string) (string, error) {
	return UserIDFromToken(token, s.secret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
