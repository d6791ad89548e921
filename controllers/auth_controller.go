package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/quill/middleware"
	"github.com/cppla/quill/models"
	"github.com/cppla/quill/store"
	"github.com/cppla/quill/utils"
)

// AuthController handles local account registration and token issuance.
type AuthController struct {
	users  store.UserStore
	secret string
	ttl    time.Duration
}

// NewAuthController creates an AuthController issuing tokens valid for ttl.
func NewAuthController(users store.UserStore, secret string, ttl time.Duration) *AuthController {
	return &AuthController{users: users, secret: secret, ttl: ttl}
}

type credentials struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// Register creates an account with a bcrypt-hashed password.
func (a *AuthController) Register(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidPayload(ctx)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if !validUsername(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40004, "username may only contain letters, digits, '-' and '_'")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		internalError(ctx, 50002, err)
		return
	}
	id, err := a.users.InsertUser(ctx.Request.Context(), req.Username, hash)
	if errors.Is(err, store.ErrDuplicate) {
		utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
		return
	}
	if err != nil {
		internalError(ctx, 50003, err)
		return
	}
	utils.Success(ctx, models.Identity{UserID: id, Username: req.Username})
}

// Login verifies credentials and issues a token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidPayload(ctx)
		return
	}

	user, err := a.users.GetUserByUsername(ctx.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		internalError(ctx, 50004, err)
		return
	}
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(a.secret, user.UserID, user.Username, a.ttl)
	if err != nil {
		internalError(ctx, 50005, err)
		return
	}
	utils.Success(ctx, gin.H{
		"token": token,
		"user":  models.Identity{UserID: user.UserID, Username: user.Username},
	})
}

// Logout revokes the presented token until it would have expired.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(a.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the caller's identity.
func (a *AuthController) Me(ctx *gin.Context) {
	caller, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	utils.Success(ctx, caller)
}

func validUsername(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
