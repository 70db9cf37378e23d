// Package app contains application services that orchestrate use cases.
// This is the application layer: it validates input, coordinates the
// repository ports and records what happened.
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - SQL (that's repository adapters)
//   - Field rules (that's the domain layer)
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen/go-blog-service/internal/domain"
	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
	"github.com/jsamuelsen/go-blog-service/internal/platform/telemetry"
	"github.com/jsamuelsen/go-blog-service/internal/ports"
)

// Mutation operation labels for the mutation counter.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// PostService orchestrates the post use cases.
// It depends on port interfaces, not concrete implementations.
type PostService struct {
	posts      ports.PostRepository
	identities ports.IdentityRepository
	mutations  *prometheus.CounterVec
	logger     *slog.Logger
}

// PostServiceConfig contains the dependencies of the post service.
type PostServiceConfig struct {
	Posts      ports.PostRepository
	Identities ports.IdentityRepository

	// Registerer receives the mutation counter. Nil leaves it unregistered.
	Registerer prometheus.Registerer

	Logger *slog.Logger
}

// NewPostService creates a post service with the provided dependencies.
func NewPostService(cfg PostServiceConfig) (*PostService, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mutations, err := newMutationCounter(cfg.Registerer)
	if err != nil {
		return nil, err
	}

	return &PostService{
		posts:      cfg.Posts,
		identities: cfg.Identities,
		mutations:  mutations,
		logger:     logger.With(slog.String("component", "app.PostService")),
	}, nil
}

func newMutationCounter(reg prometheus.Registerer) (*prometheus.CounterVec, error) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "post_mutations_total",
		Help:      "Number of successful post mutations by operation.",
	}, []string{"operation"})

	if reg == nil {
		return counter, nil
	}

	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}

		return nil, fmt.Errorf("registering mutation counter: %w", err)
	}

	return counter, nil
}

// ListPosts returns every post in id order.
func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.list(ctx, ports.PostFilter{})
}

// SearchByTitle returns posts whose title contains q, ignoring case.
// An empty q returns every post. Whitespace in q is matched literally.
func (s *PostService) SearchByTitle(ctx context.Context, q string) ([]domain.Post, error) {
	return s.list(ctx, ports.PostFilter{TitleContains: q})
}

// SearchByAuthor returns posts whose author username contains q, ignoring
// case. An empty q returns every post. Whitespace in q is matched literally.
func (s *PostService) SearchByAuthor(ctx context.Context, q string) ([]domain.Post, error) {
	return s.list(ctx, ports.PostFilter{AuthorContains: q})
}

// FilterByTag returns posts tagged exactly tag. An empty tag returns every
// post. The tag is not trimmed or case-folded.
func (s *PostService) FilterByTag(ctx context.Context, tag string) ([]domain.Post, error) {
	return s.list(ctx, ports.PostFilter{Tag: tag})
}

func (s *PostService) list(ctx context.Context, filter ports.PostFilter) (_ []domain.Post, err error) {
	ctx, span := telemetry.StartSpan(ctx, "PostService.List",
		attribute.String("blog.filter.title", filter.TitleContains),
		attribute.String("blog.filter.author", filter.AuthorContains),
		attribute.String("blog.filter.tag", filter.Tag),
	)
	defer func() { telemetry.Finish(span, err) }()

	s.log(ctx).DebugContext(ctx, "listing posts",
		slog.String("title", filter.TitleContains),
		slog.String("author", filter.AuthorContains),
		slog.String("tag", filter.Tag),
	)

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	return posts, nil
}

// GetPost returns the post with id.
func (s *PostService) GetPost(ctx context.Context, id int64) (_ *domain.Post, err error) {
	ctx, span := telemetry.StartSpan(ctx, "PostService.GetPost", attribute.Int64("blog.post.id", id))
	defer func() { telemetry.Finish(span, err) }()

	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}

	return post, nil
}

// CreatePost validates the draft, resolves its author and persists it.
// Author, title and tag are stored trimmed. Nothing is written when
// validation fails.
func (s *PostService) CreatePost(ctx context.Context, draft domain.PostDraft) (_ *domain.Post, err error) {
	ctx, span := telemetry.StartSpan(ctx, "PostService.CreatePost")
	defer func() { telemetry.Finish(span, err) }()

	logger := s.log(ctx).With(slog.String("method", "CreatePost"))

	draft = draft.Normalized()
	if err = draft.Validate(); err != nil {
		return nil, err
	}

	author, err := s.identities.FindByUsername(ctx, draft.Author)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewValidationError("author", "unknown author")
		}

		return nil, fmt.Errorf("resolving author: %w", err)
	}

	post, err := s.posts.Create(ctx, author.ID, domain.PostChanges{
		Title: draft.Title,
		Body:  draft.Body,
		Tag:   draft.Tag,
	})
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.mutations.WithLabelValues(OpCreate).Inc()
	logger.InfoContext(ctx, "post created",
		slog.Int64("post_id", post.ID),
		slog.String("author", post.Author.Username),
	)

	return post, nil
}

// UpdatePost replaces title, body and tag of an existing post. Title and
// tag are stored trimmed. A missing post is reported before validation runs.
func (s *PostService) UpdatePost(ctx context.Context, id int64, changes domain.PostChanges) (_ *domain.Post, err error) {
	ctx, span := telemetry.StartSpan(ctx, "PostService.UpdatePost", attribute.Int64("blog.post.id", id))
	defer func() { telemetry.Finish(span, err) }()

	logger := s.log(ctx).With(slog.String("method", "UpdatePost"), slog.Int64("post_id", id))

	if _, err = s.posts.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("checking post exists: %w", err)
	}

	changes = changes.Normalized()
	if err = changes.Validate(); err != nil {
		return nil, err
	}

	post, err := s.posts.Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.mutations.WithLabelValues(OpUpdate).Inc()
	logger.InfoContext(ctx, "post updated")

	return post, nil
}

// DeletePost hard-deletes the post with id.
func (s *PostService) DeletePost(ctx context.Context, id int64) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "PostService.DeletePost", attribute.Int64("blog.post.id", id))
	defer func() { telemetry.Finish(span, err) }()

	if err = s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	s.mutations.WithLabelValues(OpDelete).Inc()
	s.log(ctx).InfoContext(ctx, "post deleted", slog.Int64("post_id", id))

	return nil
}

// DeleteIdentity removes an identity and every post it authored.
func (s *PostService) DeleteIdentity(ctx context.Context, username string) error {
	ident, err := s.identities.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("finding identity: %w", err)
	}

	if err := s.identities.DeleteIdentity(ctx, ident.ID); err != nil {
		return fmt.Errorf("deleting identity: %w", err)
	}

	s.log(ctx).InfoContext(ctx, "identity deleted",
		slog.String("username", username),
		slog.Int64("identity_id", ident.ID),
	)

	return nil
}

// EnsureIdentities registers each username that does not exist yet.
// Used to seed accounts at startup.
func (s *PostService) EnsureIdentities(ctx context.Context, usernames []string) error {
	for _, name := range usernames {
		_, err := s.identities.FindByUsername(ctx, name)
		if err == nil {
			continue
		}

		if !domain.IsNotFound(err) {
			return fmt.Errorf("finding identity %q: %w", name, err)
		}

		if _, err := s.identities.CreateIdentity(ctx, name); err != nil && !domain.IsConflict(err) {
			return fmt.Errorf("creating identity %q: %w", name, err)
		}
	}

	return nil
}

// log returns the request-scoped logger tagged with this component.
func (s *PostService) log(ctx context.Context) *slog.Logger {
	logger, ok := logging.Lookup(ctx)
	if !ok {
		return s.logger
	}

	return logger.With(slog.String("component", "app.PostService"))
}
