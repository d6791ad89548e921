package services

import (
	"context"
	"errors"
	"strings"

	"github.com/cppla/quill/models"
	"github.com/cppla/quill/store"
)

// PostService implements post reads with nested comments and owner-only mutations.
type PostService struct {
	posts    store.PostStore
	comments *CommentService
	authors  Authors
}

// NewPostService creates a new PostService instance.
func NewPostService(posts store.PostStore, comments *CommentService, authors Authors) *PostService {
	return &PostService{posts: posts, comments: comments, authors: authors}
}

// ListRecent returns at most RecentLimit posts, newest first, each with its comments.
// The number of store queries does not depend on the number of posts.
func (s *PostService) ListRecent(ctx context.Context) ([]models.PostView, error) {
	rows, err := s.posts.ListPosts(ctx, RecentLimit)
	if err != nil {
		return nil, storeErr("list posts", err)
	}
	views := make([]models.PostView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	postIDs := make([]int64, 0, len(rows))
	authorIDs := make([]int64, 0, len(rows))
	for _, p := range rows {
		postIDs = append(postIDs, p.PostID)
		authorIDs = append(authorIDs, p.UserID)
	}
	names, err := s.authors.ResolveMany(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		views = append(views, models.NewPostView(p, names[p.UserID], comments[p.PostID]))
	}
	return views, nil
}

// Get returns one post with its author and comments.
func (s *PostService) Get(ctx context.Context, postID int64) (models.PostView, error) {
	p, err := s.posts.GetPost(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return models.PostView{}, ErrNotFound
	}
	if err != nil {
		return models.PostView{}, storeErr("get post", err)
	}
	author, err := s.authors.Resolve(ctx, p.UserID)
	if err != nil {
		return models.PostView{}, err
	}
	comments, err := s.comments.ListForPost(ctx, postID)
	if err != nil {
		return models.PostView{}, err
	}
	return models.NewPostView(p, author, comments), nil
}

// Create stores a new post by caller. A fresh post has no comments.
func (s *PostService) Create(ctx context.Context, caller models.Identity, title, markdown string) (models.PostView, error) {
	if !caller.Authenticated() {
		return models.PostView{}, ErrUnauthenticated
	}
	if strings.TrimSpace(title) == "" {
		return models.PostView{}, ErrInvalidInput
	}
	id, err := s.posts.InsertPost(ctx, models.NewPost{UserID: caller.UserID, Title: title, Markdown: markdown})
	if err != nil {
		return models.PostView{}, storeErr("insert post", err)
	}
	return s.reread(ctx, caller, id, []models.CommentView{})
}

// Edit replaces title and markdown of a post owned by caller.
func (s *PostService) Edit(ctx context.Context, caller models.Identity, postID int64, title, markdown string) (models.PostView, error) {
	if err := authorize(ctx, caller, PostOwner(s.posts), postID); err != nil {
		return models.PostView{}, err
	}
	if strings.TrimSpace(title) == "" {
		return models.PostView{}, ErrInvalidInput
	}
	n, err := s.posts.UpdatePost(ctx, postID, title, markdown)
	if err != nil {
		return models.PostView{}, storeErr("update post", err)
	}
	if n == 0 {
		return models.PostView{}, ErrNotFound
	}
	return s.reread(ctx, caller, postID, []models.CommentView{})
}

// Authorize reports whether caller may edit or delete the post, without
// touching it.
func (s *PostService) Authorize(ctx context.Context, caller models.Identity, postID int64) error {
	return authorize(ctx, caller, PostOwner(s.posts), postID)
}

// Delete removes a post owned by caller. Its comments are left in place.
func (s *PostService) Delete(ctx context.Context, caller models.Identity, postID int64) error {
	if err := authorize(ctx, caller, PostOwner(s.posts), postID); err != nil {
		return err
	}
	if _, err := s.posts.DeletePost(ctx, postID); err != nil {
		return storeErr("delete post", err)
	}
	return nil
}

func (s *PostService) reread(ctx context.Context, caller models.Identity, postID int64, comments []models.CommentView) (models.PostView, error) {
	p, err := s.posts.GetPost(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return models.PostView{}, ErrNotFound
	}
	if err != nil {
		return models.PostView{}, storeErr("get post", err)
	}
	return models.NewPostView(p, caller.Username, comments), nil
}
