package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/middleware"
	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
)

// respondServiceError maps service errors to the response envelope. Storage
// details are logged, never returned.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		utils.Error(ctx, http.StatusNotFound, 40402, "user_no_exist")
	case errors.Is(err, services.ErrPostNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
	case errors.Is(err, services.ErrCommentNotFound):
		utils.Error(ctx, http.StatusNotFound, 40403, "comment not found")
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
	case errors.Is(err, services.ErrUserAlreadyExists):
		utils.Error(ctx, http.StatusConflict, 40901, "user_already_exists")
	case errors.Is(err, services.ErrAlreadyExists):
		utils.Error(ctx, http.StatusConflict, 40900, "already exists")
	case errors.Is(err, services.ErrAccountGone):
		utils.Error(ctx, http.StatusUnauthorized, 40106, "user not logged in")
	case errors.Is(err, services.ErrWrongPassword):
		utils.Error(ctx, http.StatusUnauthorized, 40110, "wrong_password")
	case errors.Is(err, services.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, 40001, strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": "))
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40302, "not allowed to modify this resource")
	case errors.Is(err, services.ErrAuditWrite):
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to record action")
	default:
		utils.Logger.Error("request failed",
			zap.String("path", ctx.FullPath()),
			zap.String("request_id", ctx.GetString(utils.ContextRequestIDKey)),
			zap.Error(err),
		)
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	}
}

func badRequest(ctx *gin.Context, message string) {
	utils.Error(ctx, http.StatusBadRequest, 40000, message)
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param(param)), 10, 32)
	if err != nil || id == 0 {
		badRequest(ctx, "invalid "+param)
		return 0, false
	}
	return uint(id), true
}

// actor resolves the authenticated caller. AuthRequired guarantees an identity
// on protected routes; a missing one answers 401.
func actor(ctx *gin.Context, cfg config.AppConfig) (services.Actor, bool) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "user not logged in")
		return services.Actor{}, false
	}
	return services.Actor{
		ID:       identity.ID,
		Username: identity.Username,
		Admin:    cfg.IsAdmin(identity.Username),
	}, true
}

// envelope mirrors utils.JSONResponse so cached bytes can be replayed as is.
func envelope(data interface{}) utils.JSONResponse {
	return utils.JSONResponse{Code: 0, Message: "success", Data: data}
}
