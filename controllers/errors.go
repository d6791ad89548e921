package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cppla/quill/services"
	"github.com/cppla/quill/utils"
)

// statusClientClosedRequest is logged when the caller hung up before the answer.
const statusClientClosedRequest = 499

// errorResponder turns service errors into the uniform error envelope.
type errorResponder struct {
	forbiddenStatus int
}

func newErrorResponder(forbiddenStatus int) errorResponder {
	if forbiddenStatus != http.StatusUnauthorized {
		forbiddenStatus = http.StatusForbidden
	}
	return errorResponder{forbiddenStatus: forbiddenStatus}
}

// respond writes the error for a request about resource ("post", "comment").
func (r errorResponder) respond(ctx *gin.Context, resource string, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, r.forbiddenStatus, 40301, "you can only modify your own "+resource)
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, resource+" not found")
	case errors.Is(err, services.ErrInvalidInput):
		utils.Error(ctx, http.StatusBadRequest, 40002, resource+" cannot be blank")
	case errors.Is(err, context.Canceled):
		utils.Logger.Debug("request abandoned by client",
			zap.String("request_id", utils.RequestID(ctx)),
			zap.String("path", ctx.FullPath()),
		)
		ctx.AbortWithStatus(statusClientClosedRequest)
	default:
		internalError(ctx, 50001, err)
	}
}

// internalError logs the cause under a fresh incident id and hides it from the client.
func internalError(ctx *gin.Context, code int, err error) {
	incident := uuid.NewString()
	utils.Logger.Error("request failed",
		zap.String("incident", incident),
		zap.String("request_id", utils.RequestID(ctx)),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.FullPath()),
		zap.Error(err),
	)
	utils.InternalError(ctx, code, incident)
}

func invalidPayload(ctx *gin.Context) {
	utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
}

// pathID parses a positive integer path parameter.
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid "+name)
		return 0, false
	}
	return id, true
}
