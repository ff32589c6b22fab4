package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/auth"
	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/ports"
)

// AuthService handles registration and login.
type AuthService struct {
	users  ports.UserStore
	hasher ports.Hasher
	tokens *auth.TokenService
	idGen  ports.IDGenerator
	clock  ports.Clock
	logger zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users ports.UserStore,
	hasher ports.Hasher,
	tokens *auth.TokenService,
	idGen ports.IDGenerator,
	clock ports.Clock,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		idGen:  idGen,
		clock:  clock,
		logger: logger,
	}
}

// Session is an issued session token with its owner.
type Session struct {
	Token string
	User  ports.User
}

// Register creates a new account and signs it in.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Session{}, err
	}

	now := s.clock.Now().UTC()
	u := ports.User{
		ID:           s.idGen.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Status:       billing.StatusNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, err
	}

	s.logger.Info().Str("user_id", u.ID).Msg("user registered")

	token, _, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: u}, nil
}

// Login verifies credentials and issues a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ports.ErrNotFound) {
		// Burn a compare anyway so unknown emails cost the same as wrong
		// passwords.
		s.hasher.Compare([]byte("$2a$10$invalidinvalidinvalidinvalidinvalid"), password)
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if !s.hasher.Compare(u.PasswordHash, password) {
		s.logger.Debug().Str("user_id", u.ID).Msg("failed login attempt")
		return Session{}, ErrInvalidCredentials
	}

	token, _, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: u}, nil
}

// Me returns the account for a user ID.
func (s *AuthService) Me(ctx context.Context, userID string) (ports.User, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, ports.ErrNotFound) {
		return ports.User{}, ErrUnauthenticated
	}
	return u, err
}
