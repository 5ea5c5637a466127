package repository

import (
	"database/sql"
	"time"

	"vocadrill/internal/database"
	"vocadrill/internal/models"
)

// UserRepository handles user and session database operations
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user account
func (r *UserRepository) CreateUser(email, passwordHash, name string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name)
		VALUES (?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, email, passwordHash, name)
	if err != nil {
		return nil, err
	}

	return r.GetUserByID(id)
}

// CreateOAuthUser creates a user account linked to an OAuth identity
func (r *UserRepository) CreateOAuthUser(email, passwordHash, name, provider, subject string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, oauth_provider, oauth_subject)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, email, passwordHash, name, provider, subject)
	if err != nil {
		return nil, err
	}

	return r.GetUserByID(id)
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(userID int64) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at
		FROM users
		WHERE id = ?
	`
	return r.scanUser(r.db.QueryRow(query, userID))
}

// GetUserByEmail retrieves a user by email, or nil if not found
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at
		FROM users
		WHERE email = ?
	`

	user, err := r.scanUser(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// GetUserByOAuth retrieves a user by OAuth provider and subject, or nil if not found
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at
		FROM users
		WHERE oauth_provider = ? AND oauth_subject = ?
	`

	user, err := r.scanUser(r.db.QueryRow(query, provider, subject))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSession stores a new authenticated session
func (r *UserRepository) CreateSession(sessionID string, userID int64, expiresAt time.Time) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES (?, ?, ?)
	`

	_, err := r.db.Exec(query, sessionID, userID, expiresAt)
	if err != nil {
		return nil, err
	}

	return &models.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID, or nil if not found
func (r *UserRepository) GetSession(sessionID string) (*models.Session, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`

	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session
func (r *UserRepository) DeleteSession(sessionID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	return err
}

// DeleteExpiredSessions removes all sessions past their expiry
func (r *UserRepository) DeleteExpiredSessions() error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	return err
}
