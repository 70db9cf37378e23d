package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverse(t *testing.T) {
	tests := []struct {
		name     string
		route    string
		params   []int64
		expected string
		err      error
	}{
		{"home", Home, nil, "/", nil},
		{"detail", PostDetail, []int64{7}, "/post/7", nil},
		{"new", PostNew, nil, "/post/new", nil},
		{"edit", PostEdit, []int64{7}, "/post/7/edit", nil},
		{"delete", PostDelete, []int64{7}, "/post/7/delete", nil},
		{"title search", PostSearch, nil, "/busca/", nil},
		{"author search", AuthorSearch, nil, "/autor/", nil},
		{"tag filter", TagFilter, nil, "/tag/", nil},
		{"unknown name", "nope", nil, "", ErrUnknownRoute},
		{"missing id", PostDetail, nil, "", ErrParamCount},
		{"unexpected id", Home, []int64{1}, "", ErrParamCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Reverse(tt.route, tt.params...)

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestMustReversePanicsOnUnknownRoute(t *testing.T) {
	assert.Panics(t, func() { MustReverse("nope") })
}

func TestPostURLResolvesToDetail(t *testing.T) {
	for _, id := range []int64{0, 1, 7, 42, 1 << 40} {
		name, got, ok := Resolve(PostURL(id))

		require.True(t, ok)
		assert.Equal(t, PostDetail, name)
		assert.Equal(t, id, got)
	}
}

func TestResolveRoundTripsEveryRoute(t *testing.T) {
	for _, r := range All() {
		var params []int64
		if r.HasID() {
			params = []int64{3}
		}

		path := MustReverse(r.Name, params...)
		name, id, ok := Resolve(path)

		require.True(t, ok, path)
		assert.Equal(t, r.Name, name)

		if r.HasID() {
			assert.Equal(t, int64(3), id)
		}
	}
}

func TestResolveRejects(t *testing.T) {
	for _, path := range []string{"/post/", "/post/abc", "/post/-1", "/post/1/edit/x", "/busca", "/unknown"} {
		_, _, ok := Resolve(path)
		assert.False(t, ok, path)
	}
}

func TestResolvePrefersStaticNewRoute(t *testing.T) {
	name, _, ok := Resolve("/post/new")

	require.True(t, ok)
	assert.Equal(t, PostNew, name)
}

func TestQuery(t *testing.T) {
	path, err := Query(PostSearch, "q", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "/busca/?q=hello+world", path)

	path, err = Query(TagFilter, "tag", "")
	require.NoError(t, err)
	assert.Equal(t, "/tag/", path)

	_, err = Query(PostDetail, "q", "x")
	assert.ErrorIs(t, err, ErrParamCount)
}

func TestGinPattern(t *testing.T) {
	assert.Equal(t, "/post/:id/edit", GinPattern(PostEdit))
	assert.Equal(t, "/busca/", GinPattern(PostSearch))
	assert.Panics(t, func() { GinPattern("nope") })
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"007", 7, true},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1a", 0, false},
		{"abc", 0, false},
		{"99999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseID(tt.raw)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
