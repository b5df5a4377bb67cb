package main

import (
	"errors"
	"fmt"
	"strings"

	"sosmed/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrUserExists signals a duplicate username on registration.
var ErrUserExists = errors.New("user already exists")

// SessionStore owns the sessions table: one row per successful login,
// invalidated (never deleted) on logout.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(userID uint, userAgent string) (*models.Session, error) {
	sess := models.Session{UserID: userID, UserAgent: userAgent, Valid: true}
	if err := s.db.Create(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

// FindActiveByUser returns the user's sessions that are still valid.
func (s *SessionStore) FindActiveByUser(userID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Where("user_id = ? AND valid = ?", userID, true).Order("id").Find(&sessions).Error
	return sessions, err
}

// FindByID returns nil with no error when the session does not exist.
func (s *SessionStore) FindByID(id uint) (*models.Session, error) {
	var sess models.Session
	if err := s.db.First(&sess, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

// Invalidate flips valid to false and returns the updated record. The flip is
// one-way and idempotent: invalidating an already-invalid session succeeds
// without changing anything. Returns nil when the session does not exist.
func (s *SessionStore) Invalidate(id uint) (*models.Session, error) {
	if err := s.db.Model(&models.Session{}).Where("id = ?", id).Update("valid", false).Error; err != nil {
		return nil, err
	}
	return s.FindByID(id)
}

// InvalidateAllForUser revokes every session of a user. Used by the account
// deletion flow so outstanding refresh tokens die immediately.
func (s *SessionStore) InvalidateAllForUser(userID uint) error {
	return s.db.Model(&models.Session{}).Where("user_id = ?", userID).Update("valid", false).Error
}

// UserStore is the source of truth for principals and their credentials.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByID returns nil with no error when the user does not exist.
func (s *UserStore) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ValidateCredentials returns the user when username and password match, nil
// otherwise. Unknown username and wrong password are indistinguishable to the
// caller so the login surface cannot be used to enumerate users.
func (s *UserStore) ValidateCredentials(username, password string) (*models.User, error) {
	user, err := s.FindByUsername(strings.TrimSpace(username))
	if err != nil || user == nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

// Create hashes the password and inserts the user.
func (s *UserStore) Create(user *models.User, password string) error {
	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" {
		return fmt.Errorf("username required")
	}
	if len(password) < 6 { // basic password policy
		return fmt.Errorf("password too short (min 6)")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.HashedPassword = hashedPassword
	if err := s.db.Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "already exists")
}
