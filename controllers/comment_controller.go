package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
)

// CommentController manages comment endpoints.
type CommentController struct {
	comments *services.CommentService
	cfg      config.AppConfig
}

// NewCommentController creates a new CommentController.
func NewCommentController(comments *services.CommentService, cfg config.AppConfig) *CommentController {
	return &CommentController{comments: comments, cfg: cfg}
}

type createCommentRequest struct {
	PostID      uint   `json:"PostId" binding:"required"`
	CommentText string `json:"commentText"`
}

// ListComments returns the comments of the post in :id.
func (c *CommentController) ListComments(ctx *gin.Context) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	key := utils.PostCommentsKey(postID)
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	comments, err := c.comments.ListByPost(ctx.Request.Context(), postID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.CacheSetJSON(key, envelope(comments), 10*time.Minute)
	utils.Success(ctx, comments)
}

// CreateComment adds a comment by the caller.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	act, ok := actor(ctx, c.cfg)
	if !ok {
		return
	}
	var req createCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "PostId is required")
		return
	}

	comment, err := c.comments.Create(ctx.Request.Context(), req.PostID, req.CommentText, act)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.CacheDelete(utils.PostCommentsKey(comment.PostID))
	utils.Created(ctx, comment)
}

// DeleteComment removes a comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	act, ok := actor(ctx, c.cfg)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "commentId")
	if !ok {
		return
	}

	comment, err := c.comments.Delete(ctx.Request.Context(), id, act)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.CacheDelete(utils.PostCommentsKey(comment.PostID))
	utils.Success(ctx, gin.H{"id": comment.ID, "PostId": comment.PostID})
}
