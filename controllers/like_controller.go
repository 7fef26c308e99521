package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
)

// LikeController toggles likes.
type LikeController struct {
	likes *services.LikeService
	cfg   config.AppConfig
}

// NewLikeController creates a new LikeController.
func NewLikeController(likes *services.LikeService, cfg config.AppConfig) *LikeController {
	return &LikeController{likes: likes, cfg: cfg}
}

type toggleLikeRequest struct {
	PostID uint `json:"PostId" binding:"required"`
}

// Toggle likes or unlikes a post for the caller.
func (l *LikeController) Toggle(ctx *gin.Context) {
	act, ok := actor(ctx, l.cfg)
	if !ok {
		return
	}
	var req toggleLikeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "PostId is required")
		return
	}

	liked, err := l.likes.Toggle(ctx.Request.Context(), req.PostID, act)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"liked": liked})
}
