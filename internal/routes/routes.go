// Package routes holds the named route table of the blog.
//
// Every page has a stable name and a path pattern. Links are built with
// Reverse from a name and its parameters; nothing consults the router at
// runtime, so the table can be used from templates, handlers and tests alike.
package routes

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Route names.
const (
	Home         = "home"
	PostDetail   = "post_detail"
	PostNew      = "post_new"
	PostEdit     = "post_edit"
	PostDelete   = "post_delete"
	PostSearch   = "post_search"
	AuthorSearch = "autor_post_search"
	TagFilter    = "blog_tag"
)

const (
	idPlaceholder    = "{id}"
	ginIDPlaceholder = ":id"
)

// Errors returned by Reverse.
var (
	ErrUnknownRoute = errors.New("unknown route")
	ErrParamCount   = errors.New("wrong number of route parameters")
)

// Route is a single entry of the table.
type Route struct {
	Name    string
	Pattern string
}

// HasID reports whether the pattern embeds a post id.
func (r Route) HasID() bool {
	return strings.Contains(r.Pattern, idPlaceholder)
}

// table is ordered so that static patterns precede id patterns sharing a
// prefix ("/post/new" before "/post/{id}").
var table = []Route{
	{Name: Home, Pattern: "/"},
	{Name: PostNew, Pattern: "/post/new"},
	{Name: PostDetail, Pattern: "/post/{id}"},
	{Name: PostEdit, Pattern: "/post/{id}/edit"},
	{Name: PostDelete, Pattern: "/post/{id}/delete"},
	{Name: PostSearch, Pattern: "/busca/"},
	{Name: AuthorSearch, Pattern: "/autor/"},
	{Name: TagFilter, Pattern: "/tag/"},
}

// All returns a copy of the route table.
func All() []Route {
	out := make([]Route, len(table))
	copy(out, table)

	return out
}

func lookup(name string) (Route, bool) {
	for _, r := range table {
		if r.Name == name {
			return r, true
		}
	}

	return Route{}, false
}

// Reverse builds the path of the named route. Routes with an id segment take
// exactly one int64 parameter; the others take none.
func Reverse(name string, params ...int64) (string, error) {
	r, ok := lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	want := 0
	if r.HasID() {
		want = 1
	}

	if len(params) != want {
		return "", fmt.Errorf("%w: %q takes %d, got %d", ErrParamCount, name, want, len(params))
	}

	if want == 0 {
		return r.Pattern, nil
	}

	return strings.Replace(r.Pattern, idPlaceholder, strconv.FormatInt(params[0], 10), 1), nil
}

// MustReverse is like Reverse but panics on error. Intended for templates
// and static wiring where the name is a constant.
func MustReverse(name string, params ...int64) string {
	path, err := Reverse(name, params...)
	if err != nil {
		panic(err)
	}

	return path
}

// PostURL returns the canonical detail path of a post.
func PostURL(id int64) string {
	return MustReverse(PostDetail, id)
}

// Query returns the path of the named parameterless route with a single
// query parameter appended. An empty value yields the bare path.
func Query(name, key, value string) (string, error) {
	path, err := Reverse(name)
	if err != nil {
		return "", err
	}

	if value == "" {
		return path, nil
	}

	return path + "?" + url.Values{key: []string{value}}.Encode(), nil
}

// Resolve maps a request path back to its route name and, for id routes,
// the post id. It is the inverse of Reverse.
func Resolve(path string) (name string, id int64, ok bool) {
	for _, r := range table {
		if !r.HasID() {
			if path == r.Pattern {
				return r.Name, 0, true
			}

			continue
		}

		prefix, suffix, _ := strings.Cut(r.Pattern, idPlaceholder)
		if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
			continue
		}

		parsed, ok := ParseID(strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix))
		if !ok {
			continue
		}

		return r.Name, parsed, true
	}

	return "", 0, false
}

// ParseID parses a post id path segment. Only unsigned decimal digits are
// accepted.
func ParseID(raw string) (int64, bool) {
	if raw == "" || raw[0] < '0' || raw[0] > '9' {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

// GinPattern returns the pattern of the named route in gin syntax.
func GinPattern(name string) string {
	r, ok := lookup(name)
	if !ok {
		panic(fmt.Sprintf("%v: %q", ErrUnknownRoute, name))
	}

	return strings.Replace(r.Pattern, idPlaceholder, ginIDPlaceholder, 1)
}
