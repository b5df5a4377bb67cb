package main

import (
	"errors"
	"time"

	"sosmed/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClass selects which signing secret and lifetime apply. The two classes
// share a payload shape; they are told apart by secret and by the kind claim.
type TokenClass string

const (
	TokenClassAccess  TokenClass = "access"
	TokenClassRefresh TokenClass = "refresh"
)

// AuthClaims is the payload of both token classes: a snapshot of the
// principal at signing time plus the id of the session it was minted under.
// Kind names the class the token was signed for; Verify rejects a mismatch
// even if the signature happens to check out.
type AuthClaims struct {
	UserID    uint   `json:"uid"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"isAdmin"`
	IsGuest   bool   `json:"isGuest"`
	SessionID uint   `json:"session"`
	Kind      string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenConfig carries the per-class secrets and lifetimes.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (c TokenConfig) validate() error {
	if len(c.AccessSecret) == 0 || len(c.RefreshSecret) == 0 {
		return errors.New("token secrets must not be empty")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.AccessTTL > c.RefreshTTL {
		return errors.New("access TTL must not exceed refresh TTL")
	}
	return nil
}

// TokenCodec signs and verifies both token classes with HMAC-SHA256.
type TokenCodec struct {
	cfg TokenConfig
}

func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &TokenCodec{cfg: cfg}, nil
}

func (tc *TokenCodec) secret(class TokenClass) []byte {
	if class == TokenClassRefresh {
		return tc.cfg.RefreshSecret
	}
	return tc.cfg.AccessSecret
}

func (tc *TokenCodec) ttl(class TokenClass) time.Duration {
	if class == TokenClassRefresh {
		return tc.cfg.RefreshTTL
	}
	return tc.cfg.AccessTTL
}

// Sign mints a token of the given class embedding a snapshot of user and the
// session it belongs to.
func (tc *TokenCodec) Sign(user *models.User, sessionID uint, class TokenClass) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		IsGuest:   user.IsGuest,
		SessionID: sessionID,
		Kind:      string(class),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl(class))),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.secret(class))
}

// VerifyResult distinguishes an expired token from a tampered or garbage one.
// Claims is non-nil only when Valid is true.
type VerifyResult struct {
	Valid   bool
	Expired bool
	Claims  *AuthClaims
}

// Verify checks token against the secret bound to class. An expired but
// otherwise sound token reports Expired; a bad signature, wrong algorithm,
// kind mismatch or garbage input reports neither Valid nor Expired.
func (tc *TokenCodec) Verify(tokenString string, class TokenClass) VerifyResult {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return tc.secret(class), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenMalformed) {
			return VerifyResult{}
		}
		return VerifyResult{Expired: errors.Is(err, jwt.ErrTokenExpired)}
	}
	if !token.Valid || claims.Kind != string(class) {
		return VerifyResult{}
	}
	return VerifyResult{Valid: true, Claims: claims}
}
