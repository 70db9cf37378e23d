// Package memory provides an in-process implementation of the repository
// ports. It backs the local profile and the test suites.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen/go-blog-service/internal/domain"
	"github.com/jsamuelsen/go-blog-service/internal/ports"
)

// Store keeps posts and identities in maps guarded by a RWMutex.
// Ids come from monotonically increasing counters and are never reused.
type Store struct {
	mu sync.RWMutex

	posts      map[int64]*domain.Post
	identities map[int64]*domain.Identity

	nextPostID     int64
	nextIdentityID int64

	now func() time.Time
}

var _ ports.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		posts:      make(map[int64]*domain.Post),
		identities: make(map[int64]*domain.Identity),
		now:        time.Now,
	}
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "memory"
}

// Check implements ports.HealthChecker. The store is always reachable.
func (s *Store) Check(ctx context.Context) error {
	return ctx.Err()
}

// Close implements ports.Store.
func (s *Store) Close() error {
	return nil
}

// List implements ports.PostRepository.
func (s *Store) List(ctx context.Context, filter ports.PostFilter) ([]domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	title := strings.ToLower(filter.TitleContains)
	author := strings.ToLower(filter.AuthorContains)

	out := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if title != "" && !strings.Contains(strings.ToLower(p.Title), title) {
			continue
		}

		if author != "" && !strings.Contains(strings.ToLower(p.Author.Username), author) {
			continue
		}

		if filter.Tag != "" && p.Tag != filter.Tag {
			continue
		}

		out = append(out, *p)
	}

	slices.SortFunc(out, func(a, b domain.Post) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return out, nil
}

// Get implements ports.PostRepository.
func (s *Store) Get(ctx context.Context, id int64) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, postNotFound(id)
	}

	cp := *p

	return &cp, nil
}

// Create implements ports.PostRepository.
func (s *Store) Create(ctx context.Context, authorID int64, changes domain.PostChanges) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	author, ok := s.identities[authorID]
	if !ok {
		return nil, domain.NewNotFoundError("identity", strconv.FormatInt(authorID, 10))
	}

	s.nextPostID++
	now := s.now()

	p := &domain.Post{
		ID:        s.nextPostID,
		Author:    *author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	changes.Apply(p)
	s.posts[p.ID] = p

	cp := *p

	return &cp, nil
}

// Update implements ports.PostRepository.
func (s *Store) Update(ctx context.Context, id int64, changes domain.PostChanges) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, postNotFound(id)
	}

	changes.Apply(p)
	p.UpdatedAt = s.now()

	cp := *p

	return &cp, nil
}

// Delete implements ports.PostRepository.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return postNotFound(id)
	}

	delete(s.posts, id)

	return nil
}

// FindByUsername implements ports.IdentityRepository.
func (s *Store) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ident := range s.identities {
		if ident.Username == username {
			cp := *ident
			return &cp, nil
		}
	}

	return nil, domain.NewNotFoundError("identity", username)
}

// CreateIdentity implements ports.IdentityRepository.
func (s *Store) CreateIdentity(ctx context.Context, username string) (*domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ident := range s.identities {
		if ident.Username == username {
			return nil, domain.NewConflictError("identity", "username "+username+" already exists")
		}
	}

	s.nextIdentityID++
	ident := &domain.Identity{ID: s.nextIdentityID, Username: username}
	s.identities[ident.ID] = ident

	cp := *ident

	return &cp, nil
}

// DeleteIdentity implements ports.IdentityRepository.
// Posts authored by the identity are removed with it.
func (s *Store) DeleteIdentity(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.identities[id]; !ok {
		return domain.NewNotFoundError("identity", strconv.FormatInt(id, 10))
	}

	delete(s.identities, id)

	for pid, p := range s.posts {
		if p.Author.ID == id {
			delete(s.posts, pid)
		}
	}

	return nil
}

func postNotFound(id int64) error {
	return domain.NewNotFoundError("post", strconv.FormatInt(id, 10))
}
