package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUnique(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, Unique([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, Unique[int64](nil))
}

func TestPassword(t *testing.T) {
	SetPasswordCost(bcrypt.MinCost)
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.Error(t, err)
}

func TestBlacklistFallsBackToMemory(t *testing.T) {
	BlacklistToken("tok-a", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted("tok-a"))
	assert.False(t, IsTokenBlacklisted("tok-b"))

	// already expired tokens are not stored
	BlacklistToken("tok-c", time.Now().Add(-time.Second))
	assert.False(t, IsTokenBlacklisted("tok-c"))
}

func TestNotBlankValidator(t *testing.T) {
	RegisterValidators()
	type payload struct {
		Title string `binding:"notblank"`
	}
	assert.NoError(t, binding.Validator.ValidateStruct(payload{Title: "x"}))
	assert.Error(t, binding.Validator.ValidateStruct(payload{Title: " \t"}))
}

func TestGinzapEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Ginzap(Logger, time.RFC3339, true), RecoveryWithZap(Logger, false))
	r.GET("/ok", func(ctx *gin.Context) { ctx.String(http.StatusOK, RequestID(ctx)) })
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, w.Body.String(), "incident")
}
