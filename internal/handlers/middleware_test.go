package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"directchat/internal/errs"
	"directchat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	rh := NewRestHandler(nil)
	router := gin.New()
	router.GET("/protected", rh.MustAuthenticateMiddleware(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"user_id":  ctx.GetUint("user_id"),
			"user_tag": ctx.GetString("user_tag"),
		})
	})
	return router
}

func TestMustAuthenticateMiddleware_MissingToken(t *testing.T) {
	router := protectedRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), errs.ErrUnauthorized.Error())
}

func TestMustAuthenticateMiddleware_GarbageToken(t *testing.T) {
	router := protectedRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(recorder, request)

	// A presented-but-broken token gets a different error than no token.
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), errs.ErrInvalidToken.Error())
}

func TestMustAuthenticateMiddleware_ExpiredToken(t *testing.T) {
	router := protectedRouter()

	token, err := utils.CreateJwtToken(7, "alice#7", utils.GetJwtKey(), time.Now().Add(-time.Hour))
	assert.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), errs.ErrInvalidToken.Error())
}

func TestMustAuthenticateMiddleware_ValidToken(t *testing.T) {
	router := protectedRouter()

	token, err := utils.CreateJwtToken(7, "alice#7", utils.GetJwtKey(), time.Now().Add(time.Hour))
	assert.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"user_id":7`)
	assert.Contains(t, recorder.Body.String(), `"user_tag":"alice#7"`)
}
