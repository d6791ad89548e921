package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/quill/models"
	"github.com/cppla/quill/utils"
)

const (
	// ContextIdentityKey stores the caller's models.Identity inside the Gin context.
	ContextIdentityKey = "identity"
	// ContextTokenKey stores the raw bearer token so it can be revoked on logout.
	ContextTokenKey = "token"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// Authenticate resolves the caller from a JWT when one is presented. It never
// aborts: requests without a valid token simply carry no identity and the
// services decide whether that is acceptable.
func Authenticate(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := BearerToken(ctx.GetHeader("Authorization"))
		if !ok {
			ctx.Next()
			return
		}
		if utils.IsTokenBlacklisted(token) {
			utils.Sugar.Debugw("revoked token presented", "request_id", utils.RequestID(ctx))
			ctx.Next()
			return
		}
		claims, err := utils.ParseToken(secret, token)
		if err != nil {
			utils.Sugar.Debugw("invalid token presented", "request_id", utils.RequestID(ctx), "error", err)
			ctx.Next()
			return
		}

		ctx.Set(ContextIdentityKey, models.Identity{UserID: claims.UserID, Username: claims.Username})
		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}

// AuthRequired rejects requests that Authenticate could not attach an identity to.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := IdentityFrom(ctx); !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
			return
		}
		ctx.Next()
	}
}

// IdentityFrom returns the caller identity placed by Authenticate.
func IdentityFrom(ctx *gin.Context) (models.Identity, bool) {
	value, exists := ctx.Get(ContextIdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	id, ok := value.(models.Identity)
	if !ok || !id.Authenticated() {
		return models.Identity{}, false
	}
	return id, true
}
