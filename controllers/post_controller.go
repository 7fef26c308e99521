package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
)

// PostController manages post endpoints.
type PostController struct {
	posts *services.PostService
	cfg   config.AppConfig
}

// NewPostController creates a new PostController.
func NewPostController(posts *services.PostService, cfg config.AppConfig) *PostController {
	return &PostController{posts: posts, cfg: cfg}
}

type createPostRequest struct {
	Title    string `json:"title"`
	PostText string `json:"postText"`
}

type updateTitleRequest struct {
	NewTitle string `json:"newTitle"`
	ID       uint   `json:"id" binding:"required"`
}

type updateTextRequest struct {
	NewText string `json:"newText"`
	ID      uint   `json:"id" binding:"required"`
}

// ListPosts returns all posts sorted by ?sortBy= together with the caller's likes.
func (p *PostController) ListPosts(ctx *gin.Context) {
	act, ok := actor(ctx, p.cfg)
	if !ok {
		return
	}
	list, err := p.posts.List(ctx.Request.Context(), ctx.Query("sortBy"), act.ID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, list)
}

// GetPost returns a single post.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	key := utils.PostDetailKey(id)
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	post, err := p.posts.Get(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.CacheSetJSON(key, envelope(post), time.Hour)
	utils.Success(ctx, post)
}

// CreatePost stores a post by the caller.
func (p *PostController) CreatePost(ctx *gin.Context) {
	act, ok := actor(ctx, p.cfg)
	if !ok {
		return
	}
	var req createPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body")
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), req.Title, req.PostText, act)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Created(ctx, post)
}

// UpdateTitle changes the title of a post.
func (p *PostController) UpdateTitle(ctx *gin.Context) {
	act, ok := actor(ctx, p.cfg)
	if !ok {
		return
	}
	var req updateTitleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "id is required")
		return
	}

	post, err := p.posts.UpdateTitle(ctx.Request.Context(), req.ID, req.NewTitle, act)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.CacheDelete(utils.PostDetailKey(post.ID))
	utils.Success(ctx, post)
}

// UpdateText changes the body of a post.
func (p *PostController) UpdateText(ctx *gin.Context) {
	act, ok := actor(ctx, p.cfg)
	if !ok {
		return
	}
	var req updateTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "id is required")
		return
	}

	post, err := p.posts.UpdateText(ctx.Request.Context(), req.ID, req.NewText, act)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.CacheDelete(utils.PostDetailKey(post.ID))
	utils.Success(ctx, post)
}

// DeletePost removes a post with its comments and likes.
func (p *PostController) DeletePost(ctx *gin.Context) {
	act, ok := actor(ctx, p.cfg)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "postId")
	if !ok {
		return
	}

	post, err := p.posts.Delete(ctx.Request.Context(), id, act)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.CacheDelete(utils.PostDetailKey(post.ID), utils.PostCommentsKey(post.ID))
	utils.Success(ctx, gin.H{"id": post.ID, "title": post.Title})
}
