package main

import (
	"net/http"
	"strconv"
	"time"

	"sosmed/models"

	"github.com/gin-gonic/gin"
)

func createCommentHandler(c *gin.Context) {
	user := currentUser(c)
	post, ok := postFromParam(c)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment := models.Comment{
		PostID:          post.ID,
		AuthorID:        user.ID,
		Text:            req.Text,
		PostDate:        time.Now(),
		IsPublicComment: !user.IsGuest,
	}
	if err := db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	comment.Author = *user
	decorateComment(&comment)
	c.JSON(http.StatusCreated, comment)
}

func getCommentsByPostHandler(c *gin.Context) {
	post, ok := postFromParam(c)
	if !ok {
		return
	}
	var comments []models.Comment
	if err := db.Preload("Author").
		Where("post_id = ?", post.ID).
		Order("post_date").
		Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	for i := range comments {
		decorateComment(&comments[i])
	}
	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func getCommentHandler(c *gin.Context) {
	comment, ok := commentFromParam(c)
	if !ok {
		return
	}
	decorateComment(comment)
	c.JSON(http.StatusOK, comment)
}

func updateCommentHandler(c *gin.Context) {
	user := currentUser(c)
	comment, ok := commentFromParam(c)
	if !ok {
		return
	}
	if comment.AuthorID != user.ID {
		c.Status(http.StatusForbidden)
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	now := time.Now()
	if err := db.Model(comment).Updates(map[string]interface{}{
		"text":           req.Text,
		"last_edit_date": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	comment.Text = req.Text
	comment.LastEditDate = &now
	decorateComment(comment)
	c.JSON(http.StatusOK, comment)
}

func deleteCommentHandler(c *gin.Context) {
	user := currentUser(c)
	comment, ok := commentFromParam(c)
	if !ok {
		return
	}
	if comment.AuthorID != user.ID {
		c.Status(http.StatusForbidden)
		return
	}
	db.Model(comment).Association("Likes").Clear()
	if err := db.Delete(&models.Comment{}, comment.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusOK)
}

func likeCommentHandler(c *gin.Context) {
	user := currentUser(c)
	comment, ok := commentFromParam(c)
	if !ok {
		return
	}
	var req struct {
		Like *bool `json:"like" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	assoc := db.Model(comment).Association("Likes")
	if err := assoc.Delete(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "like update failed"})
		return
	}
	if *req.Like {
		if err := assoc.Append(user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "like update failed"})
			return
		}
	}
	decorateComment(comment)
	c.JSON(http.StatusOK, comment)
}

// commentFromParam resolves :commentId, writing the error response on failure.
func commentFromParam(c *gin.Context) (*models.Comment, bool) {
	id, err := strconv.ParseUint(c.Param("commentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return nil, false
	}
	var comment models.Comment
	if err := db.Preload("Author").First(&comment, id).Error; err != nil {
		c.Status(http.StatusNotFound)
		return nil, false
	}
	return &comment, true
}

func decorateComment(comment *models.Comment) {
	var likeIDs []uint
	db.Table("comment_likes").Where("comment_id = ?", comment.ID).Pluck("user_id", &likeIDs)
	if likeIDs == nil {
		likeIDs = []uint{}
	}
	comment.LikeIDs = likeIDs
	comment.NumLikes = int64(len(likeIDs))
}
