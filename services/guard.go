package services

import (
	"context"
	"errors"

	"github.com/cppla/quill/models"
	"github.com/cppla/quill/store"
)

// Decision is the outcome of an ownership check.
type Decision int

const (
	Allowed Decision = iota
	Denied
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "not_found"
	}
}

// Err converts a refusal into the matching service error.
func (d Decision) Err() error {
	switch d {
	case Allowed:
		return nil
	case Denied:
		return ErrForbidden
	default:
		return ErrNotFound
	}
}

// OwnerFunc returns the user id recorded as the owner of a resource, or
// store.ErrNotFound.
type OwnerFunc func(ctx context.Context, resourceID int64) (int64, error)

// PostOwner looks up the owner of a post.
func PostOwner(posts store.PostStore) OwnerFunc {
	return func(ctx context.Context, postID int64) (int64, error) {
		p, err := posts.GetPost(ctx, postID)
		return p.UserID, err
	}
}

// CommentOwner looks up the author of a comment.
func CommentOwner(comments store.CommentStore) OwnerFunc {
	return func(ctx context.Context, commentID int64) (int64, error) {
		c, err := comments.GetComment(ctx, commentID)
		return c.UserID, err
	}
}

// Owns decides whether callerID may mutate the resource. Ownership is strict
// equality of user ids; there is no override.
func Owns(ctx context.Context, owner OwnerFunc, resourceID, callerID int64) (Decision, error) {
	ownerID, err := owner(ctx, resourceID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound, nil
	}
	if err != nil {
		return NotFound, storeErr("check ownership", err)
	}
	if ownerID != callerID {
		return Denied, nil
	}
	return Allowed, nil
}

// authorize runs the shared prelude of every mutation: identity first, then ownership.
func authorize(ctx context.Context, caller models.Identity, owner OwnerFunc, resourceID int64) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}
	decision, err := Owns(ctx, owner, resourceID, caller.UserID)
	if err != nil {
		return err
	}
	return decision.Err()
}
