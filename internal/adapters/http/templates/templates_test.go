package templates

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-blog-service/internal/domain"
)

type layout struct {
	Title     string
	Subject   string
	RequestID string
}

type form struct {
	Author string
	Title  string
	Body   string
	Tag    string
}

func render(t *testing.T, name string, data any) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Must().ExecuteTemplate(&buf, name, data))

	return buf.String()
}

func samplePost() *domain.Post {
	return &domain.Post{
		ID:     3,
		Author: domain.Identity{ID: 1, Username: "alice smith"},
		Title:  "Hello",
		Body:   "Body text",
		Tag:    "go & more",
	}
}

func TestNew_ParsesEveryPage(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)

	for _, name := range []string{List, Detail, Form, ConfirmDelete, NotFound, Error} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestList(t *testing.T) {
	t.Run("with posts", func(t *testing.T) {
		out := render(t, List, struct {
			layout
			Heading string
			Query   string
			Posts   []domain.Post
		}{layout: layout{Title: "Posts", RequestID: "req-1"}, Heading: "Posts", Posts: []domain.Post{*samplePost()}})

		assert.Contains(t, out, `<a href="/post/3">Hello</a>`)
		assert.Contains(t, out, `href="/autor/?q=alice`)
		assert.Contains(t, out, `href="/tag/?tag=go`)
		assert.Contains(t, out, "request req-1")
		assert.NotContains(t, out, "No posts.")
		assert.NotContains(t, out, "Results for")
	})

	t.Run("empty with query", func(t *testing.T) {
		out := render(t, List, struct {
			layout
			Heading string
			Query   string
			Posts   []domain.Post
		}{Heading: "Title search", Query: "zzz"})

		assert.Contains(t, out, "No posts.")
		assert.Contains(t, out, "Results for “zzz”")
	})
}

func TestDetailAndConfirm(t *testing.T) {
	data := struct {
		layout
		Post *domain.Post
	}{layout: layout{Title: "Hello", Subject: "alice"}, Post: samplePost()}

	detail := render(t, Detail, data)
	assert.Contains(t, detail, "<h1>Hello</h1>")
	assert.Contains(t, detail, `href="/post/3/edit"`)
	assert.Contains(t, detail, `href="/post/3/delete"`)
	assert.Contains(t, detail, `<span class="subject">alice</span>`)

	confirm := render(t, ConfirmDelete, data)
	assert.Contains(t, confirm, `<form action="/post/3/delete" method="post">`)
	assert.Contains(t, confirm, `href="/post/3"`)
}

func TestForm(t *testing.T) {
	type page struct {
		layout
		Heading    string
		Action     string
		ShowAuthor bool
		Form       form
		Errors     map[string]string
	}

	t.Run("create shows author and errors", func(t *testing.T) {
		out := render(t, Form, page{
			Heading:    "New post",
			Action:     "/post/new",
			ShowAuthor: true,
			Form:       form{Author: "alice", Title: `"quoted"`},
			Errors:     map[string]string{"tag": "this field is required"},
		})

		assert.Contains(t, out, `name="author" value="alice"`)
		assert.Contains(t, out, `value="&#34;quoted&#34;"`)
		assert.Contains(t, out, `<span class="error">this field is required</span>`)
	})

	t.Run("edit hides author input", func(t *testing.T) {
		out := render(t, Form, page{
			Heading: "Edit post",
			Action:  "/post/3/edit",
			Form:    form{Author: "alice", Title: "Hello"},
		})

		assert.NotContains(t, out, `name="author"`)
		assert.Contains(t, out, "Author: alice")
		assert.NotContains(t, out, `class="error"`)
	})
}

func TestErrorPages(t *testing.T) {
	type page struct {
		layout
		Status     int
		StatusText string
		Message    string
	}

	notFound := render(t, NotFound, page{Status: 404, StatusText: "Not Found", Message: "post 9 not found"})
	assert.Contains(t, notFound, "post 9 not found")
	assert.Contains(t, notFound, `href="/"`)

	failed := render(t, Error, page{Status: 500, StatusText: "Internal Server Error", Message: "an internal error occurred"})
	assert.Contains(t, failed, "<h1>500 Internal Server Error</h1>")
}
