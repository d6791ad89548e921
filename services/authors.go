package services

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/cppla/quill/utils"
)

// UserDirectory is the username lookup the resolver batches against.
type UserDirectory interface {
	Usernames(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

// Authors resolves user ids to display names.
type Authors interface {
	Resolve(ctx context.Context, userID int64) (string, error)
	ResolveMany(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

const authorBatchCapacity = 100

// AuthorResolver batches lookups issued within a short window into one query.
// Results are never cached: every call reaches the directory. Batching only
// spans one request: each request carries its own loader (see Scope), so a
// batch never runs under another caller's context.
type AuthorResolver struct {
	users UserDirectory
	wait  time.Duration
}

type loaderKey struct{ r *AuthorResolver }

// NewAuthorResolver builds a resolver that waits up to wait to collect ids.
func NewAuthorResolver(users UserDirectory, wait time.Duration) *AuthorResolver {
	return &AuthorResolver{users: users, wait: wait}
}

func (r *AuthorResolver) newLoader() *dataloader.Loader[int64, string] {
	return dataloader.NewBatchedLoader(r.batch,
		dataloader.WithCache[int64, string](&dataloader.NoCache[int64, string]{}),
		dataloader.WithWait[int64, string](r.wait),
		dataloader.WithBatchCapacity[int64, string](authorBatchCapacity),
	)
}

// Scope returns a copy of ctx carrying a loader private to one request.
// Lookups made with the returned context share batches with each other only.
func (r *AuthorResolver) Scope(ctx context.Context) context.Context {
	return context.WithValue(ctx, loaderKey{r}, r.newLoader())
}

// loader returns the request's loader, or a fresh one for unscoped callers.
func (r *AuthorResolver) loader(ctx context.Context) *dataloader.Loader[int64, string] {
	if l, ok := ctx.Value(loaderKey{r}).(*dataloader.Loader[int64, string]); ok {
		return l
	}
	return r.newLoader()
}

func (r *AuthorResolver) batch(ctx context.Context, keys []int64) []*dataloader.Result[string] {
	results := make([]*dataloader.Result[string], len(keys))
	names, err := r.users.Usernames(ctx, utils.Unique(keys))
	for i, id := range keys {
		if err != nil {
			results[i] = &dataloader.Result[string]{Error: storeErr("resolve authors", err)}
			continue
		}
		name, ok := names[id]
		if !ok {
			results[i] = &dataloader.Result[string]{Error: ErrAuthorNotFound}
			continue
		}
		results[i] = &dataloader.Result[string]{Data: name}
	}
	return results
}

// Resolve returns the username of one user.
func (r *AuthorResolver) Resolve(ctx context.Context, userID int64) (string, error) {
	return r.loader(ctx).Load(ctx, userID)()
}

// ResolveMany returns the usernames of all given users, failing if any is unknown.
func (r *AuthorResolver) ResolveMany(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	ids := utils.Unique(userIDs)
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	names, errs := r.loader(ctx).LoadMany(ctx, ids)()
	for i, id := range ids {
		if i < len(errs) && errs[i] != nil {
			return nil, errs[i]
		}
		out[id] = names[i]
	}
	return out, nil
}
