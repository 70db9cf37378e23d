// Package postgres implements the repository ports on PostgreSQL through
// database/sql and the lib/pq driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/jsamuelsen/go-blog-service/internal/domain"
	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
	"github.com/jsamuelsen/go-blog-service/internal/ports"
)

// PostgreSQL error codes the store translates into domain errors.
const (
	codeForeignKeyViolation pq.ErrorCode = "23503"
	codeUniqueViolation     pq.ErrorCode = "23505"
)

const schema = `
CREATE TABLE IF NOT EXISTS identities (
	id       BIGSERIAL PRIMARY KEY,
	username VARCHAR(150) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS posts (
	id         BIGSERIAL PRIMARY KEY,
	author_id  BIGINT NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
	title      VARCHAR(100) NOT NULL,
	body       TEXT NOT NULL,
	tag        VARCHAR(20) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS posts_author_id_idx ON posts (author_id);
CREATE INDEX IF NOT EXISTS posts_tag_idx ON posts (tag);
`

// postColumns is shared by every query returning posts; "p" is the post row
// and "i" its author.
const postColumns = `p.id, p.title, p.body, p.tag, p.created_at, p.updated_at, i.id, i.username`

// Config holds connection pool settings.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store is a PostgreSQL-backed ports.Store.
type Store struct {
	db *sql.DB
}

var _ ports.Store = (*Store)(nil)

// Open connects to the database described by cfg and verifies the
// connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an existing handle.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return domain.NewStoreError("migrate", err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "postgres"
}

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements ports.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

// List implements ports.PostRepository.
func (s *Store) List(ctx context.Context, filter ports.PostFilter) ([]domain.Post, error) {
	var (
		where []string
		args  []any
	)

	if filter.TitleContains != "" {
		args = append(args, filter.TitleContains)
		where = append(where, fmt.Sprintf("strpos(lower(p.title), lower($%d)) > 0", len(args)))
	}

	if filter.AuthorContains != "" {
		args = append(args, filter.AuthorContains)
		where = append(where, fmt.Sprintf("strpos(lower(i.username), lower($%d)) > 0", len(args)))
	}

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where = append(where, fmt.Sprintf("p.tag = $%d", len(args)))
	}

	query := `SELECT ` + postColumns + ` FROM posts p JOIN identities i ON i.id = p.author_id`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}

	query += ` ORDER BY p.id`
	traceQuery(ctx, "list posts", query, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("list posts", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, domain.NewStoreError("scan post", err)
		}

		posts = append(posts, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list posts", err)
	}

	return posts, nil
}

// Get implements ports.PostRepository.
func (s *Store) Get(ctx context.Context, id int64) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN identities i ON i.id = p.author_id WHERE p.id = $1`,
		id,
	)

	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, postNotFound(id)
	}

	if err != nil {
		return nil, domain.NewStoreError("get post", err)
	}

	return p, nil
}

// Create implements ports.PostRepository.
func (s *Store) Create(ctx context.Context, authorID int64, changes domain.PostChanges) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`WITH p AS (
			INSERT INTO posts (author_id, title, body, tag) VALUES ($1, $2, $3, $4)
			RETURNING id, author_id, title, body, tag, created_at, updated_at
		)
		SELECT `+postColumns+` FROM p JOIN identities i ON i.id = p.author_id`,
		authorID, changes.Title, changes.Body, changes.Tag,
	)

	p, err := scanPost(row)
	if err != nil {
		if hasCode(err, codeForeignKeyViolation) {
			return nil, domain.NewNotFoundError("identity", strconv.FormatInt(authorID, 10))
		}

		return nil, domain.NewStoreError("insert post", err)
	}

	return p, nil
}

// Update implements ports.PostRepository.
func (s *Store) Update(ctx context.Context, id int64, changes domain.PostChanges) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`WITH p AS (
			UPDATE posts SET title = $2, body = $3, tag = $4, updated_at = now() WHERE id = $1
			RETURNING id, author_id, title, body, tag, created_at, updated_at
		)
		SELECT `+postColumns+` FROM p JOIN identities i ON i.id = p.author_id`,
		id, changes.Title, changes.Body, changes.Tag,
	)

	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, postNotFound(id)
	}

	if err != nil {
		return nil, domain.NewStoreError("update post", err)
	}

	return p, nil
}

// Delete implements ports.PostRepository.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return domain.NewStoreError("delete post", err)
	}

	return requireRow(res, "delete post", postNotFound(id))
}

// FindByUsername implements ports.IdentityRepository.
func (s *Store) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	var ident domain.Identity

	err := s.db.QueryRowContext(ctx,
		`SELECT id, username FROM identities WHERE username = $1`,
		username,
	).Scan(&ident.ID, &ident.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("identity", username)
	}

	if err != nil {
		return nil, domain.NewStoreError("find identity", err)
	}

	return &ident, nil
}

// CreateIdentity implements ports.IdentityRepository.
func (s *Store) CreateIdentity(ctx context.Context, username string) (*domain.Identity, error) {
	ident := domain.Identity{Username: username}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO identities (username) VALUES ($1) RETURNING id`,
		username,
	).Scan(&ident.ID)
	if err != nil {
		if hasCode(err, codeUniqueViolation) {
			return nil, domain.NewConflictError("identity", "username "+username+" already exists")
		}

		return nil, domain.NewStoreError("insert identity", err)
	}

	return &ident, nil
}

// DeleteIdentity implements ports.IdentityRepository.
// The posts foreign key cascades the delete to the identity's posts.
func (s *Store) DeleteIdentity(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return domain.NewStoreError("delete identity", err)
	}

	return requireRow(res, "delete identity", domain.NewNotFoundError("identity", strconv.FormatInt(id, 10)))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*domain.Post, error) {
	var p domain.Post

	err := row.Scan(
		&p.ID, &p.Title, &p.Body, &p.Tag, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Username,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func requireRow(res sql.Result, op string, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreError(op, err)
	}

	if n == 0 {
		return notFound
	}

	return nil
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

// traceQuery logs a statement at trace level. Argument values are omitted
// since they carry user content.
func traceQuery(ctx context.Context, op, query string, nargs int) {
	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "sql query",
		slog.String("op", op),
		slog.String("query", query),
		slog.Int("args", nargs),
	)
}

func postNotFound(id int64) error {
	return domain.NewNotFoundError("post", strconv.FormatInt(id, 10))
}
