package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cppla/quill/middleware"
	"github.com/cppla/quill/services"
	"github.com/cppla/quill/utils"
)

// CommentController serves the comment endpoints.
type CommentController struct {
	comments *services.CommentService
	errorResponder
}

// NewCommentController creates a CommentController. forbiddenStatus is the
// status used when a caller edits or deletes a comment it does not own.
func NewCommentController(comments *services.CommentService, forbiddenStatus int) *CommentController {
	return &CommentController{comments: comments, errorResponder: newErrorResponder(forbiddenStatus)}
}

// ListComments returns the most recent comments.
func (c *CommentController) ListComments(ctx *gin.Context) {
	comments, err := c.comments.ListRecent(ctx.Request.Context())
	if err != nil {
		c.respond(ctx, "comment", err)
		return
	}
	utils.Success(ctx, comments)
}

// CreateComment adds a comment by the caller to an existing post.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	caller, ok := middleware.IdentityFrom(ctx)
	if !ok {
		c.respond(ctx, "comment", services.ErrUnauthenticated)
		return
	}
	var req struct {
		PostID  int64  `json:"post_id" binding:"required,gt=0"`
		Content string `json:"content" binding:"notblank"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidPayload(ctx)
		return
	}

	comment, err := c.comments.Create(ctx.Request.Context(), caller, req.PostID, req.Content)
	if err != nil {
		resource := "comment"
		if errors.Is(err, services.ErrNotFound) {
			resource = "post"
		}
		c.respond(ctx, resource, err)
		return
	}
	utils.Success(ctx, comment)
}

// UpdateComment replaces the content of the caller's comment.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	commentID, ok := pathID(ctx, "comment_id")
	if !ok {
		return
	}
	caller, ok := middleware.IdentityFrom(ctx)
	if !ok {
		c.respond(ctx, "comment", services.ErrUnauthenticated)
		return
	}
	var req struct {
		Content string `json:"content" binding:"notblank"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		// ownership outranks a bad body
		if err := c.comments.Authorize(ctx.Request.Context(), caller, commentID); err != nil {
			c.respond(ctx, "comment", err)
			return
		}
		invalidPayload(ctx)
		return
	}

	comment, err := c.comments.Edit(ctx.Request.Context(), caller, commentID, req.Content)
	if err != nil {
		c.respond(ctx, "comment", err)
		return
	}
	utils.Success(ctx, comment)
}

// DeleteComment removes the caller's comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	commentID, ok := pathID(ctx, "comment_id")
	if !ok {
		return
	}
	caller, _ := middleware.IdentityFrom(ctx)
	if err := c.comments.Delete(ctx.Request.Context(), caller, commentID); err != nil {
		c.respond(ctx, "comment", err)
		return
	}
	utils.NoContent(ctx)
}
