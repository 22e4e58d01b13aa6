package leaderboard

import "context"

// Ranker produces ranked leaderboard pages.
// Implementations must apply the same ordering as SortEntries.
type Ranker interface {
	// Top returns the first n entries for the scope, ranks assigned 1..n.
	// n must already be clamped by the caller.
	Top(ctx context.Context, scope Scope, n int) ([]Entry, error)
}

// Cache is a read-through page cache in front of a Ranker.
// A cache miss or error is never fatal to the read path.
type Cache interface {
	// Get returns the cached page for (scope, n); ok is false on a miss.
	Get(ctx context.Context, scope Scope, n int) (entries []Entry, ok bool, err error)

	// Set stores the page for (scope, n).
	Set(ctx context.Context, scope Scope, n int, entries []Entry) error
}
