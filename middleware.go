package main

import (
	"errors"
	"net/http"
	"strings"

	"sosmed/models"

	"github.com/gin-gonic/gin"
)

const (
	ctxClaimsKey = "authClaims"
	ctxUserKey   = "currentUser"
)

// deserializeUser runs on every request. It never rejects a request: it
// either attaches the caller's identity to the context or leaves the request
// unauthenticated for the guards downstream to deal with. A malformed or
// tampered access token is treated the same as an absent one. When the access
// token is expired and an X-Refresh header is present, the renewal path runs
// and a successful renewal is handed back via the X-Access-Token response
// header.
func deserializeUser(svc *SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		accessToken := strings.TrimSpace(authHeader[len("Bearer "):])
		if accessToken == "" {
			c.Next()
			return
		}

		res := svc.codec.Verify(accessToken, TokenClassAccess)
		if res.Valid {
			c.Set(ctxClaimsKey, res.Claims)
			c.Next()
			return
		}

		refreshToken := c.GetHeader("X-Refresh")
		if !res.Expired || refreshToken == "" {
			c.Next()
			return
		}

		newToken, err := svc.RenewAccessToken(refreshToken)
		if err != nil {
			if !errors.Is(err, ErrRenewalRefused) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
				return
			}
			c.Next()
			return
		}
		c.Header("X-Access-Token", newToken)
		if renewed := svc.codec.Verify(newToken, TokenClassAccess); renewed.Valid {
			c.Set(ctxClaimsKey, renewed.Claims)
		}
		c.Next()
	}
}

// authClaims returns the claims deserializeUser attached, or nil.
func authClaims(c *gin.Context) *AuthClaims {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*AuthClaims)
	return claims
}

// currentUser returns the fresh principal requireUser attached, or nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// requireUser re-reads the principal from the user store so a token cannot
// outlive an account edit or deletion, then replaces the context identity
// with the fresh row.
func requireUser(users *UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := authClaims(c)
		if claims == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		user, err := users.FindByID(claims.UserID)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if user == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// requireAdmin trusts the token snapshot's admin flag. It does not re-read
// the user row the way requireUser does.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := authClaims(c)
		if claims == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
