package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/metrics"
	"github.com/cppla/postboard/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw token so logout can revoke it.
	ContextTokenKey = "token"
	// ContextClaimsKey stores the verified claims.
	ContextClaimsKey = "claims"
)

// AuthRequired verifies the token carried in header. The value may be the raw
// token or "Bearer <token>".
func AuthRequired(tokens *utils.TokenService, header string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx.GetHeader(header))
		if tokenString == "" {
			metrics.IncAuthFailure("missing")
			utils.Error(ctx, http.StatusUnauthorized, 40101, "user not logged in")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			metrics.IncAuthFailure("revoked")
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			metrics.IncAuthFailure("invalid")
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.ID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Set(ContextClaimsKey, claims)
		ctx.Next()
	}
}

// AdminRequired only lets through identities listed in cfg.AdminUsernames.
// It must run after AuthRequired.
func AdminRequired(cfg config.AppConfig) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := GetIdentity(ctx)
		if !ok || !cfg.IsAdmin(identity.Username) {
			utils.Error(ctx, http.StatusForbidden, 40301, "admin only")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// GetIdentity returns the identity stored by AuthRequired.
func GetIdentity(ctx *gin.Context) (utils.Identity, bool) {
	id, ok := ctx.Get(ContextUserIDKey)
	if !ok {
		return utils.Identity{}, false
	}
	uid, ok := id.(uint)
	if !ok {
		return utils.Identity{}, false
	}
	return utils.Identity{ID: uid, Username: ctx.GetString(ContextUsernameKey)}, true
}

// GetClaims returns the verified claims together with the raw token.
func GetClaims(ctx *gin.Context) (*utils.Claims, string, bool) {
	v, ok := ctx.Get(ContextClaimsKey)
	if !ok {
		return nil, "", false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ctx.GetString(ContextTokenKey), ok
}

func bearerToken(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > 7 && strings.EqualFold(value[:7], "Bearer ") {
		value = strings.TrimSpace(value[7:])
	}
	return value
}
