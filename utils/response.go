package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for error responses.
type JSONResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Incident string `json:"incident,omitempty"`
}

// Success writes data as the response body.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, data)
}

// NoContent answers 200 with an empty body.
func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	ctx.AbortWithStatusJSON(status, JSONResponse{Code: code, Message: message})
}

// InternalError answers 500 with an opaque incident id instead of the cause.
func InternalError(ctx *gin.Context, code int, incident string) {
	ctx.AbortWithStatusJSON(http.StatusInternalServerError, JSONResponse{
		Code:     code,
		Message:  "internal server error",
		Incident: incident,
	})
}
