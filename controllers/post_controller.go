package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/quill/middleware"
	"github.com/cppla/quill/services"
	"github.com/cppla/quill/utils"
)

// PostController serves the post endpoints.
type PostController struct {
	posts *services.PostService
	errorResponder
}

// NewPostController creates a PostController. forbiddenStatus is the status
// used when a caller edits or deletes a post it does not own.
func NewPostController(posts *services.PostService, forbiddenStatus int) *PostController {
	return &PostController{posts: posts, errorResponder: newErrorResponder(forbiddenStatus)}
}

type postRequest struct {
	Title    string `json:"title" binding:"notblank,max=255"`
	Markdown string `json:"markdown"`
}

// ListPosts returns the most recent posts with their comments.
func (p *PostController) ListPosts(ctx *gin.Context) {
	posts, err := p.posts.ListRecent(ctx.Request.Context())
	if err != nil {
		p.respond(ctx, "post", err)
		return
	}
	utils.Success(ctx, posts)
}

// GetPost returns one post with its comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, ok := pathID(ctx, "post_id")
	if !ok {
		return
	}
	post, err := p.posts.Get(ctx.Request.Context(), postID)
	if err != nil {
		p.respond(ctx, "post", err)
		return
	}
	utils.Success(ctx, post)
}

// CreatePost stores a post for the authenticated caller.
func (p *PostController) CreatePost(ctx *gin.Context) {
	caller, ok := middleware.IdentityFrom(ctx)
	if !ok {
		p.respond(ctx, "post", services.ErrUnauthenticated)
		return
	}
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidPayload(ctx)
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), caller, req.Title, req.Markdown)
	if err != nil {
		p.respond(ctx, "post", err)
		return
	}
	utils.Success(ctx, post)
}

// UpdatePost replaces the title and markdown of the caller's post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	postID, ok := pathID(ctx, "post_id")
	if !ok {
		return
	}
	caller, ok := middleware.IdentityFrom(ctx)
	if !ok {
		p.respond(ctx, "post", services.ErrUnauthenticated)
		return
	}
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		// ownership outranks a bad body
		if err := p.posts.Authorize(ctx.Request.Context(), caller, postID); err != nil {
			p.respond(ctx, "post", err)
			return
		}
		invalidPayload(ctx)
		return
	}

	post, err := p.posts.Edit(ctx.Request.Context(), caller, postID, req.Title, req.Markdown)
	if err != nil {
		p.respond(ctx, "post", err)
		return
	}
	utils.Success(ctx, post)
}

// DeletePost removes the caller's post. Its comments are kept.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID, ok := pathID(ctx, "post_id")
	if !ok {
		return
	}
	caller, _ := middleware.IdentityFrom(ctx)
	if err := p.posts.Delete(ctx.Request.Context(), caller, postID); err != nil {
		p.respond(ctx, "post", err)
		return
	}
	utils.NoContent(ctx)
}
