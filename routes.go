package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine) {
	r.Use(deserializeUser(sessionSvc))

	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/authcheck", requireUser(userStore), func(c *gin.Context) { c.Status(http.StatusOK) })

	r.POST("/sessions", createSessionHandler)
	r.GET("/sessions", requireUser(userStore), listSessionsHandler)
	r.DELETE("/sessions", requireUser(userStore), deleteSessionHandler)
	r.POST("/guest", createGuestHandler)

	r.POST("/users", registerHandler)
	r.GET("/users", requireUser(userStore), listUsersHandler)
	// /users/:userId also answers for the literal id "self"
	r.GET("/users/:userId", requireUser(userStore), getUserHandler)
	r.PUT("/users/:userId", requireUser(userStore), updateUserHandler)
	r.DELETE("/users/:userId", requireUser(userStore), deleteUserHandler)
	r.GET("/users/:userId/posts", requireUser(userStore), getPostsByUserHandler)
	r.GET("/users/:userId/following", requireUser(userStore), getUserFollowsHandler)
	r.POST("/users/:userId/follow", requireUser(userStore), followUserHandler)
	r.POST("/avatar", requireUser(userStore), uploadAvatarHandler)
	r.POST("/populate", requireAdmin(), populateHandler)

	r.POST("/posts", requireUser(userStore), createPostHandler)
	r.GET("/posts", requireUser(userStore), getRecentPostsHandler)
	r.GET("/feed", requireUser(userStore), getFollowedPostsHandler)
	r.GET("/posts/:postId", requireUser(userStore), getPostHandler)
	r.PUT("/posts/:postId", requireUser(userStore), updatePostHandler)
	r.DELETE("/posts/:postId", requireUser(userStore), deletePostHandler)
	r.POST("/posts/:postId/like", requireUser(userStore), likePostHandler)

	r.POST("/posts/:postId/comments", requireUser(userStore), createCommentHandler)
	r.GET("/posts/:postId/comments", requireUser(userStore), getCommentsByPostHandler)
	r.GET("/comments/:commentId", requireUser(userStore), getCommentHandler)
	r.PUT("/comments/:commentId", requireUser(userStore), updateCommentHandler)
	r.DELETE("/comments/:commentId", requireUser(userStore), deleteCommentHandler)
	r.POST("/comments/:commentId/like", requireUser(userStore), likeCommentHandler)
}
