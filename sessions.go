package main

import (
	"errors"

	"sosmed/models"
)

var (
	// ErrInvalidCredentials deliberately covers both unknown-username and
	// wrong-password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrRenewalRefused covers every expected renewal failure: bad or expired
	// refresh token, missing or invalidated session, deleted principal.
	ErrRenewalRefused = errors.New("access token renewal refused")
)

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SessionService orchestrates the session lifecycle: login, listing, logout
// and silent access-token renewal.
type SessionService struct {
	users    *UserStore
	sessions *SessionStore
	codec    *TokenCodec
}

func NewSessionService(users *UserStore, sessions *SessionStore, codec *TokenCodec) *SessionService {
	return &SessionService{users: users, sessions: sessions, codec: codec}
}

// Login validates credentials, opens a session and mints both tokens against
// it, embedding the principal as it exists right now.
func (s *SessionService) Login(username, password, userAgent string) (*TokenPair, error) {
	user, err := s.users.ValidateCredentials(username, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	sess, err := s.sessions.Create(user.ID, userAgent)
	if err != nil {
		return nil, err
	}
	accessToken, err := s.codec.Sign(user, sess.ID, TokenClassAccess)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.Sign(user, sess.ID, TokenClassRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *SessionService) ListActiveSessions(userID uint) ([]models.Session, error) {
	return s.sessions.FindActiveByUser(userID)
}

// Logout invalidates the session and returns the updated record. Invalidating
// twice is a no-op success.
func (s *SessionService) Logout(sessionID uint) (*models.Session, error) {
	return s.sessions.Invalidate(sessionID)
}

// RenewAccessToken exchanges a still-valid refresh token for a fresh access
// token. The snapshot embedded in the refresh token is not trusted: the
// referenced session must still be valid in the store, and the principal is
// re-read before minting so the new token carries current data. Expected
// failures return ErrRenewalRefused; anything else is a store failure.
func (s *SessionService) RenewAccessToken(refreshToken string) (string, error) {
	res := s.codec.Verify(refreshToken, TokenClassRefresh)
	if !res.Valid {
		return "", ErrRenewalRefused
	}
	sess, err := s.sessions.FindByID(res.Claims.SessionID)
	if err != nil {
		return "", err
	}
	if sess == nil || !sess.Valid {
		return "", ErrRenewalRefused
	}
	user, err := s.users.FindByID(res.Claims.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrRenewalRefused
	}
	return s.codec.Sign(user, sess.ID, TokenClassAccess)
}
