package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// UserRepository persists accounts.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, user models.User) error
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Service authenticates users and keeps the account list in memory.
type Service struct {
	repo   UserRepository
	tokens *TokenManager
	logger *zap.Logger

	mu    sync.RWMutex
	users []models.User
}

// NewService wires the auth service.
func NewService(repo UserRepository, tokens *TokenManager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Bootstrap loads stored accounts, seeding the default set when none exist.
func (s *Service) Bootstrap(ctx context.Context, fleetSize int, defaultPassword string) error {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		users, err = SeedUsers(fleetSize, defaultPassword)
		if err != nil {
			return err
		}
		for _, u := range users {
			if err := s.repo.SaveUser(ctx, u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Username, err)
			}
		}
		s.logger.Info("default accounts seeded", zap.Int("count", len(users)))
	}

	sortUsers(users)
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// Login matches the username case-insensitively and checks the password.
func (s *Service) Login(_ context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, domain.ErrUnauthorized
	}

	user, ok := s.findByUsername(username)
	if !ok {
		return LoginResult{}, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, domain.ErrUnauthorized
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return LoginResult{Token: token, User: user}, nil
}

// Authenticate resolves a session token to its account. Tokens issued before
// the account's last password change are rejected.
func (s *Service) Authenticate(token string) (models.User, error) {
	session, err := s.tokens.Validate(token)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	user, ok := s.User(session.UserID)
	if !ok {
		return models.User{}, domain.ErrUnauthorized
	}
	if session.CredentialVersion != user.CredentialVersion {
		return models.User{}, fmt.Errorf("%w: session predates password change", domain.ErrUnauthorized)
	}
	return user, nil
}

// User returns an account by id.
func (s *Service) User(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// Users returns every account in seed order.
func (s *Service) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...)
}

// MobileUsers returns the crew and driver accounts.
func (s *Service) MobileUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if u.IsMobile() {
			out = append(out, u)
		}
	}
	return out
}

// ChangePassword replaces a user's password. Only admins may call it.
func (s *Service) ChangePassword(ctx context.Context, actor models.User, userID, newPassword string) error {
	if actor.Role != models.RoleAdmin {
		return domain.ErrForbidden
	}
	if strings.TrimSpace(newPassword) == "" {
		return domain.NewValidationError("password", "required")
	}

	user, ok := s.User(userID)
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.CredentialVersion++
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = user
		}
	}
	s.mu.Unlock()

	s.logger.Info("password changed", zap.String("user_id", user.ID), zap.String("by", actor.ID))
	return nil
}

func (s *Service) findByUsername(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return models.User{}, false
}

