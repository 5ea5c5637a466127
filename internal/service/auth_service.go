package service

import (
	"errors"
	"fmt"
	"time"

	"vocadrill/internal/models"
	"vocadrill/internal/repository"
	"vocadrill/internal/security"
	"vocadrill/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo        *repository.UserRepository
	tokens          *security.TokenIssuer
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenIssuer, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		tokens:          tokens,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and creates a session
func (s *AuthService) Login(email, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, user, nil
}

// LoginOAuth finds or creates the account for an OAuth identity and
// starts a session for it
func (s *AuthService) LoginOAuth(provider, subject, email, name string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}

	if user == nil {
		// A random password hash keeps the password login path closed
		// for accounts created through OAuth.
		randomHash, err := security.HashPassword(security.GenerateSessionID())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to hash placeholder password: %w", err)
		}
		user, err = s.userRepo.CreateOAuthUser(email, randomHash, name, provider, subject)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create oauth user: %w", err)
		}
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, user, nil
}

// ValidateSession checks a session ID and returns the owning user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		// Best effort removal; an expired row is harmless either way.
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	return s.userRepo.GetUserByID(session.UserID)
}

// Logout removes a session
func (s *AuthService) Logout(sessionID string) error {
	return s.userRepo.DeleteSession(sessionID)
}

// CleanupExpiredSessions removes sessions past their expiry
func (s *AuthService) CleanupExpiredSessions() error {
	return s.userRepo.DeleteExpiredSessions()
}

// IssueAPIToken creates a signed bearer token for the given user
func (s *AuthService) IssueAPIToken(userID int64) (string, error) {
	return s.tokens.Issue(userID)
}

// ValidateAPIToken checks a bearer token and returns the owning user
func (s *AuthService) ValidateAPIToken(token string) (*models.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetUserByID(userID)
}
