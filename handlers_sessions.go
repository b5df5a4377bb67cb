package main

import (
	"errors"
	"net/http"
	"strings"

	"sosmed/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func createSessionHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := sessionSvc.Login(req.Username, req.Password, c.GetHeader("User-Agent"))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

func listSessionsHandler(c *gin.Context) {
	user := currentUser(c)
	sessions, err := sessionSvc.ListActiveSessions(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sessions})
}

// deleteSessionHandler logs out the session the presented token was minted
// under. The access token itself stays cryptographically valid until its own
// expiry; what dies here is the ability to renew.
func deleteSessionHandler(c *gin.Context) {
	claims := authClaims(c)
	session, err := sessionSvc.Logout(claims.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "accessToken": nil, "refreshToken": nil})
}

// createGuestHandler provisions a throwaway guest account and logs it in, so
// visitors can try the app without registering.
func createGuestHandler(c *gin.Context) {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	password := "guest-" + suffix
	guest := models.User{
		Username:  "Guest_#" + suffix,
		FirstName: "Guest",
		LastName:  "#" + suffix,
		IsGuest:   true,
	}
	if err := userStore.Create(&guest, password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	pair, err := sessionSvc.Login(guest.Username, password, c.GetHeader("User-Agent"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "guest login failed"})
		return
	}
	c.JSON(http.StatusOK, pair)
}
