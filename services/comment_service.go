package services

import (
	"context"
	"errors"
	"strings"

	"github.com/cppla/quill/models"
	"github.com/cppla/quill/store"
)

// RecentLimit caps every "recent" listing.
const RecentLimit = 10

// CommentService implements comment reads and owner-only mutations.
type CommentService struct {
	comments store.CommentStore
	posts    store.PostStore
	authors  Authors
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(comments store.CommentStore, posts store.PostStore, authors Authors) *CommentService {
	return &CommentService{comments: comments, posts: posts, authors: authors}
}

// ListRecent returns at most RecentLimit comments, oldest id first.
func (s *CommentService) ListRecent(ctx context.Context) ([]models.CommentView, error) {
	rows, err := s.comments.ListComments(ctx, RecentLimit)
	if err != nil {
		return nil, storeErr("list comments", err)
	}
	return s.decorate(ctx, rows)
}

// ListForPost returns every comment on a post. An unknown post yields an empty list.
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]models.CommentView, error) {
	rows, err := s.comments.ListPostComments(ctx, postID)
	if err != nil {
		return nil, storeErr("list post comments", err)
	}
	return s.decorate(ctx, rows)
}

// ListForPosts groups the comments of several posts using one comment query and
// one author lookup. Every requested post has an entry, possibly empty.
func (s *CommentService) ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]models.CommentView, error) {
	out := make(map[int64][]models.CommentView, len(postIDs))
	for _, id := range postIDs {
		out[id] = []models.CommentView{}
	}
	if len(postIDs) == 0 {
		return out, nil
	}
	rows, err := s.comments.ListCommentsForPosts(ctx, postIDs)
	if err != nil {
		return nil, storeErr("list comments for posts", err)
	}
	views, err := s.decorate(ctx, rows)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		out[v.PostID] = append(out[v.PostID], v)
	}
	return out, nil
}

// Create adds a comment by caller to an existing post.
func (s *CommentService) Create(ctx context.Context, caller models.Identity, postID int64, content string) (models.CommentView, error) {
	if !caller.Authenticated() {
		return models.CommentView{}, ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return models.CommentView{}, ErrInvalidInput
	}
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.CommentView{}, ErrNotFound
		}
		return models.CommentView{}, storeErr("get post", err)
	}
	id, err := s.comments.InsertComment(ctx, models.NewComment{PostID: postID, UserID: caller.UserID, Content: content})
	if err != nil {
		return models.CommentView{}, storeErr("insert comment", err)
	}
	return s.reread(ctx, caller, id)
}

// Edit replaces the content of a comment owned by caller.
func (s *CommentService) Edit(ctx context.Context, caller models.Identity, commentID int64, content string) (models.CommentView, error) {
	if err := authorize(ctx, caller, CommentOwner(s.comments), commentID); err != nil {
		return models.CommentView{}, err
	}
	if strings.TrimSpace(content) == "" {
		return models.CommentView{}, ErrInvalidInput
	}
	n, err := s.comments.UpdateComment(ctx, commentID, content)
	if err != nil {
		return models.CommentView{}, storeErr("update comment", err)
	}
	if n == 0 {
		// deleted between the ownership check and the update
		return models.CommentView{}, ErrNotFound
	}
	return s.reread(ctx, caller, commentID)
}

// Authorize reports whether caller may edit or delete the comment, without
// touching it.
func (s *CommentService) Authorize(ctx context.Context, caller models.Identity, commentID int64) error {
	return authorize(ctx, caller, CommentOwner(s.comments), commentID)
}

// Delete removes a comment owned by caller. A row that vanished after the
// ownership check still counts as deleted.
func (s *CommentService) Delete(ctx context.Context, caller models.Identity, commentID int64) error {
	if err := authorize(ctx, caller, CommentOwner(s.comments), commentID); err != nil {
		return err
	}
	if _, err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return storeErr("delete comment", err)
	}
	return nil
}

// reread loads a comment the caller just wrote. The author is the caller, so no
// lookup is needed.
func (s *CommentService) reread(ctx context.Context, caller models.Identity, commentID int64) (models.CommentView, error) {
	c, err := s.comments.GetComment(ctx, commentID)
	if errors.Is(err, store.ErrNotFound) {
		return models.CommentView{}, ErrNotFound
	}
	if err != nil {
		return models.CommentView{}, storeErr("get comment", err)
	}
	return models.NewCommentView(c, caller.Username), nil
}

func (s *CommentService) decorate(ctx context.Context, rows []models.Comment) ([]models.CommentView, error) {
	views := make([]models.CommentView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}
	ids := make([]int64, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.UserID)
	}
	names, err := s.authors.ResolveMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range rows {
		views = append(views, models.NewCommentView(c, names[c.UserID]))
	}
	return views, nil
}
