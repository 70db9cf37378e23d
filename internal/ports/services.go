// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never driver rows or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrStore, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/go-blog-service/internal/domain"
)

// PostFilter narrows a post listing. Empty fields do not filter.
type PostFilter struct {
	// TitleContains matches titles containing the value, ignoring case.
	TitleContains string

	// AuthorContains matches author usernames containing the value, ignoring case.
	AuthorContains string

	// Tag matches the tag exactly, case-sensitive.
	Tag string
}

// PostRepository persists posts and runs filtered retrieval.
// Listings are ordered by id ascending.
type PostRepository interface {
	// List returns every post matching filter.
	List(ctx context.Context, filter PostFilter) ([]domain.Post, error)

	// Get returns the post with id.
	// Returns domain.ErrNotFound if the post does not exist.
	Get(ctx context.Context, id int64) (*domain.Post, error)

	// Create inserts a post for the identity authorID and returns it with
	// its assigned id and timestamps.
	Create(ctx context.Context, authorID int64, changes domain.PostChanges) (*domain.Post, error)

	// Update overwrites title, body and tag of the post with id.
	// Returns domain.ErrNotFound if the post does not exist.
	Update(ctx context.Context, id int64, changes domain.PostChanges) (*domain.Post, error)

	// Delete removes the post with id.
	// Returns domain.ErrNotFound if the post does not exist.
	Delete(ctx context.Context, id int64) error
}

// IdentityRepository looks up the accounts that author posts.
type IdentityRepository interface {
	// FindByUsername returns the identity with username.
	// Returns domain.ErrNotFound if no such identity exists.
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)

	// CreateIdentity registers a username.
	// Returns domain.ErrConflict if the username is taken.
	CreateIdentity(ctx context.Context, username string) (*domain.Identity, error)

	// DeleteIdentity removes the identity and, by cascade, its posts.
	// Returns domain.ErrNotFound if no such identity exists.
	DeleteIdentity(ctx context.Context, id int64) error
}

// Store is the full persistence contract satisfied by each repository adapter.
type Store interface {
	PostRepository
	IdentityRepository
	HealthChecker

	// Close releases the underlying resources.
	Close() error
}
