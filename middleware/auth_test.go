package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/utils"
)

func newAuthEngine(tokens *utils.TokenService, cfg config.AppConfig) (*gin.Engine, *bool) {
	gin.SetMode(gin.TestMode)
	reached := new(bool)
	r := gin.New()
	r.GET("/me", AuthRequired(tokens, "accessToken"), func(ctx *gin.Context) {
		*reached = true
		id, ok := GetIdentity(ctx)
		if !ok {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, id)
	})
	r.GET("/admin", AuthRequired(tokens, "accessToken"), AdminRequired(cfg), func(ctx *gin.Context) {
		*reached = true
		ctx.Status(http.StatusNoContent)
	})
	return r, reached
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("accessToken", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	tokens := utils.NewTokenService("secret", time.Hour)
	r, reached := newAuthEngine(tokens, config.AppConfig{})

	token, err := tokens.Issue(utils.Identity{ID: 3, Username: "bob"})
	require.NoError(t, err)

	w := doGet(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "user not logged in")
	assert.False(t, *reached, "handler ran without a token")

	w = doGet(r, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *reached, "handler ran with an invalid token")

	w = doGet(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *reached)
	assert.JSONEq(t, `{"id":3,"username":"bob"}`, w.Body.String())

	w = doGet(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired_RevokedToken(t *testing.T) {
	tokens := utils.NewTokenService("secret", time.Hour)
	r, reached := newAuthEngine(tokens, config.AppConfig{})

	token, err := tokens.Issue(utils.Identity{ID: 4, Username: "eve"})
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	w := doGet(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token revoked")
	assert.False(t, *reached)
}

func TestAdminRequired(t *testing.T) {
	tokens := utils.NewTokenService("secret", time.Hour)
	r, reached := newAuthEngine(tokens, config.AppConfig{AdminUsernames: []string{"root"}})

	user, err := tokens.Issue(utils.Identity{ID: 1, Username: "bob"})
	require.NoError(t, err)
	admin, err := tokens.Issue(utils.Identity{ID: 2, Username: "root"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", user).Code)
	assert.False(t, *reached)
	assert.Equal(t, http.StatusNoContent, doGet(r, "/admin", admin).Code)
	assert.True(t, *reached)
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(2).Middleware())
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doGet(r, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "/", "").Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(ctx *gin.Context) { ctx.String(http.StatusOK, ctx.GetString(utils.ContextRequestIDKey)) })

	w := doGet(r, "/", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}
