package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/middleware"
	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
)

// AuthController handles registration, login and account endpoints.
type AuthController struct {
	users *services.UserService
	cfg   config.AppConfig
}

// NewAuthController creates a new AuthController.
func NewAuthController(users *services.UserService, cfg config.AppConfig) *AuthController {
	return &AuthController{users: users, cfg: cfg}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account.
func (a *AuthController) Register(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "username and password are required")
		return
	}

	user, err := a.users.Register(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"id": user.ID, "username": user.Username})
}

// Login checks credentials and returns a token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "username and password are required")
		return
	}

	res, err := a.users.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, res)
}

// Auth echoes the identity carried by the token.
func (a *AuthController) Auth(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		utils.Error(ctx, 401, 40101, "user not logged in")
		return
	}
	utils.Success(ctx, identity)
}

// Logout revokes the presented token until it would have expired.
func (a *AuthController) Logout(ctx *gin.Context) {
	claims, token, ok := middleware.GetClaims(ctx)
	if !ok {
		utils.Error(ctx, 401, 40101, "user not logged in")
		return
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// GetUser returns a user's public profile with their posts and likes.
func (a *AuthController) GetUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	profile, err := a.users.AssociatedPosts(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, profile)
}

// DeleteUser removes an account.
func (a *AuthController) DeleteUser(ctx *gin.Context) {
	act, ok := actor(ctx, a.cfg)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	user, err := a.users.Delete(ctx.Request.Context(), id, act)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"id": user.ID, "username": user.Username})
}
