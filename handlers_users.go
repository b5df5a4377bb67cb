package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"sosmed/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
)

func registerHandler(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		City      string `json:"city"`
		State     string `json:"state"`
		Country   string `json:"country"`
		ImageURL  string `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		City:      req.City,
		State:     req.State,
		Country:   req.Country,
		ImageURL:  req.ImageURL,
		// Public signup is gated; otherwise new accounts are guests.
		IsGuest: !cfg.AllowNewPublicUsers,
	}
	if err := userStore.Create(&user, req.Password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// getUserHandler also answers /users/self for the authenticated user.
func getUserHandler(c *gin.Context) {
	requestingUser := currentUser(c)
	idParam := c.Param("userId")
	if idParam == "self" {
		c.JSON(http.StatusOK, requestingUser)
		return
	}
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := userStore.FindByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if user == nil {
		c.Status(http.StatusNotFound)
		return
	}
	var followCount int64
	db.Table("user_follows").
		Where("follower_id = ? AND followee_id = ?", requestingUser.ID, user.ID).
		Count(&followCount)
	c.JSON(http.StatusOK, struct {
		models.User
		FollowedByMe bool `json:"followedByMe"`
	}{User: *user, FollowedByMe: followCount > 0})
}

// listUsersHandler returns the directory of real (non-guest) users other than
// the caller, optionally filtered by a name search term.
func listUsersHandler(c *gin.Context) {
	user := currentUser(c)
	q := db.Model(&models.User{}).
		Where("id <> ? AND is_guest = ?", user.ID, false).
		Order("last_name")
	if term := c.Query("q"); term != "" {
		pattern := "%" + term + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ?", pattern, pattern)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func updateUserHandler(c *gin.Context) {
	requestingUser := currentUser(c)
	target, ok := userFromParam(c)
	if !ok {
		return
	}
	if target.ID != requestingUser.ID {
		c.Status(http.StatusForbidden)
		return
	}
	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		City      *string `json:"city"`
		State     *string `json:"state"`
		Country   *string `json:"country"`
		ImageURL  *string `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) > 0 {
		if err := db.Model(target).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	}
	c.JSON(http.StatusOK, target)
}

// deleteUserHandler removes the account (self only) and revokes its sessions
// so outstanding refresh tokens stop renewing immediately.
func deleteUserHandler(c *gin.Context) {
	requestingUser := currentUser(c)
	target, ok := userFromParam(c)
	if !ok {
		return
	}
	if target.ID != requestingUser.ID {
		c.Status(http.StatusForbidden)
		return
	}
	if err := sessionStore.InvalidateAllForUser(target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	db.Model(target).Association("Following").Clear()
	db.Model(target).Association("Followers").Clear()
	result := db.Delete(&models.User{}, target.ID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deletedCount": result.RowsAffected,
		"accessToken":  nil,
		"refreshToken": nil,
	})
}

func getUserFollowsHandler(c *gin.Context) {
	target, ok := userFromParam(c)
	if !ok {
		return
	}
	var following []models.User
	if err := db.Model(target).Association("Following").Find(&following); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

// followUserHandler sets or clears the follow edge; both directions of the
// join table are the same row, so the follower/following views stay in sync.
func followUserHandler(c *gin.Context) {
	requestingUser := currentUser(c)
	target, ok := userFromParam(c)
	if !ok {
		return
	}
	var req struct {
		Follow *bool `json:"follow" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	assoc := db.Model(requestingUser).Association("Following")
	if err := assoc.Delete(target); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "follow update failed"})
		return
	}
	if *req.Follow {
		if err := assoc.Append(target); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "follow update failed"})
			return
		}
	}
	c.Status(http.StatusOK)
}

// uploadAvatarHandler accepts a multipart image, downsizes it to a square
// thumbnail and records its public path on the user.
func uploadAvatarHandler(c *gin.Context) {
	user := currentUser(c)
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer src.Close()
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image format"})
		return
	}
	thumb := imaging.Fill(img, 256, 256, imaging.Center, imaging.Lanczos)
	name := fmt.Sprintf("user_%d.jpg", user.ID)
	fullPath := filepath.Join(cfg.UploadBase, "avatars", name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	if err := imaging.Save(thumb, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	imageURL := "public/avatars/" + name
	if err := db.Model(user).Update("image_url", imageURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}

// populateHandler seeds fake users (each with a few posts) for demo
// environments. Admin only.
func populateHandler(c *gin.Context) {
	var req struct {
		UserCount int `json:"userCount" binding:"required,min=1,max=100"`
		PostCount int `json:"postCount" binding:"min=0,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	usersCreated, postsCreated := 0, 0
	for i := 0; i < req.UserCount; i++ {
		user := models.User{
			Username:  gofakeit.Username(),
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			City:      gofakeit.City(),
			State:     gofakeit.State(),
			Country:   gofakeit.Country(),
		}
		if err := userStore.Create(&user, gofakeit.Password(true, true, true, false, false, 16)); err != nil {
			if errors.Is(err, ErrUserExists) {
				continue // random collision, skip
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "populate failed"})
			return
		}
		usersCreated++
		for j := 0; j < req.PostCount; j++ {
			post := models.Post{
				AuthorID:     user.ID,
				Text:         gofakeit.Sentence(12),
				PostDate:     time.Now(),
				IsPublicPost: true,
			}
			if err := db.Create(&post).Error; err == nil {
				postsCreated++
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"usersCreated": usersCreated, "postsCreated": postsCreated})
}

// userFromParam resolves :userId, writing the error response on failure.
func userFromParam(c *gin.Context) (*models.User, bool) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return nil, false
	}
	user, err := userStore.FindByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	if user == nil {
		c.Status(http.StatusNotFound)
		return nil, false
	}
	return user, true
}
