package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// RequestScope derives each request's context through scope before the
// handlers run, so request-local state such as a batching loader lives and
// dies with that request.
func RequestScope(scope func(context.Context) context.Context) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Request = ctx.Request.WithContext(scope(ctx.Request.Context()))
		ctx.Next()
	}
}
