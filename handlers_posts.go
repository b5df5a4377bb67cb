package main

import (
	"net/http"
	"strconv"
	"time"

	"sosmed/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func createPostHandler(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post := models.Post{
		AuthorID: user.ID,
		Text:     req.Text,
		PostDate: time.Now(),
		// Guests only write private posts.
		IsPublicPost: !user.IsGuest,
	}
	if err := db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	post.Author = *user
	decoratePost(&post)
	c.JSON(http.StatusCreated, post)
}

// getRecentPostsHandler lists the caller's own posts plus everyone's public
// ones, newest first.
func getRecentPostsHandler(c *gin.Context) {
	user := currentUser(c)
	q := db.Preload("Author").
		Where("author_id = ? OR is_public_post = ?", user.ID, true).
		Order("post_date desc")
	q = applyPaging(c, q)
	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	decoratePosts(posts)
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// getFollowedPostsHandler is the followed-users feed: public posts by the
// people the caller follows, plus the caller's own.
func getFollowedPostsHandler(c *gin.Context) {
	user := currentUser(c)
	var authorIDs []uint
	if err := db.Table("user_follows").Where("follower_id = ?", user.ID).
		Pluck("followee_id", &authorIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	authorIDs = append(authorIDs, user.ID)
	q := db.Preload("Author").
		Where("author_id IN ? AND is_public_post = ?", authorIDs, true).
		Order("post_date desc")
	q = applyPaging(c, q)
	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	decoratePosts(posts)
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// getPostsByUserHandler lists a user's posts; private ones show only to
// their author.
func getPostsByUserHandler(c *gin.Context) {
	requestingUser := currentUser(c)
	target, ok := userFromParam(c)
	if !ok {
		return
	}
	q := db.Preload("Author").Where("author_id = ?", target.ID).Order("post_date desc")
	if target.ID != requestingUser.ID {
		q = q.Where("is_public_post = ?", true)
	}
	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	decoratePosts(posts)
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func getPostHandler(c *gin.Context) {
	post, ok := postFromParam(c)
	if !ok {
		return
	}
	decoratePost(post)
	c.JSON(http.StatusOK, post)
}

func updatePostHandler(c *gin.Context) {
	user := currentUser(c)
	post, ok := postFromParam(c)
	if !ok {
		return
	}
	if post.AuthorID != user.ID {
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
	if err := db.Model(post).Updates(map[string]interface{}{
		"text":           req.Text,
		"last_edit_date": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	post.Text = req.Text
	post.LastEditDate = &now
	decoratePost(post)
	c.JSON(http.StatusOK, post)
}

// likePostHandler sets or clears the caller's like; liking twice stays a
// single like.
func likePostHandler(c *gin.Context) {
	user := currentUser(c)
	post, ok := postFromParam(c)
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
	assoc := db.Model(post).Association("Likes")
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
	decoratePost(post)
	c.JSON(http.StatusOK, post)
}

// deletePostHandler removes the post (author only) along with its comments.
func deletePostHandler(c *gin.Context) {
	user := currentUser(c)
	post, ok := postFromParam(c)
	if !ok {
		return
	}
	if post.AuthorID != user.ID {
		c.Status(http.StatusForbidden)
		return
	}
	commentResult := db.Where("post_id = ?", post.ID).Delete(&models.Comment{})
	if commentResult.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	db.Model(post).Association("Likes").Clear()
	postResult := db.Delete(&models.Post{}, post.ID)
	if postResult.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"posts_deleted":    postResult.RowsAffected,
		"comments_deleted": commentResult.RowsAffected,
	})
}

// postFromParam resolves :postId, writing the error response on failure.
func postFromParam(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseUint(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return nil, false
	}
	var post models.Post
	if err := db.Preload("Author").First(&post, id).Error; err != nil {
		c.Status(http.StatusNotFound)
		return nil, false
	}
	return &post, true
}

func applyPaging(c *gin.Context, q *gorm.DB) *gorm.DB {
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q = q.Limit(n)
		}
	}
	if v := c.Query("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q = q.Offset(n)
		}
	}
	return q
}

// decoratePost fills the computed like/comment fields before serialization.
func decoratePost(post *models.Post) {
	var likeIDs []uint
	db.Table("post_likes").Where("post_id = ?", post.ID).Pluck("user_id", &likeIDs)
	if likeIDs == nil {
		likeIDs = []uint{}
	}
	post.LikeIDs = likeIDs
	post.NumLikes = int64(len(likeIDs))
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&post.NumComments)
}

func decoratePosts(posts []models.Post) {
	for i := range posts {
		decoratePost(&posts[i])
	}
}
