package dto

import (
	"time"

	"github.com/jsamuelsen/go-blog-service/internal/domain"
	"github.com/jsamuelsen/go-blog-service/internal/routes"
)

// PostForm is the editable part of a post as submitted by the edit form.
// Struct tags check shape; Validate applies the domain field rules, which
// also reject whitespace-only values.
type PostForm struct {
	Title string `form:"title" json:"title" validate:"required,max=100"`
	Body  string `form:"body" json:"body" validate:"required"`
	Tag   string `form:"tag" json:"tag" validate:"required,max=20"`
}

// Changes converts the form into domain changes.
func (f *PostForm) Changes() domain.PostChanges {
	return domain.PostChanges{Title: f.Title, Body: f.Body, Tag: f.Tag}
}

// Validate implements Validatable.
func (f *PostForm) Validate() error {
	return f.Changes().Validate()
}

// Normalize trims the fields that are stored trimmed, so the length tags
// see what will be stored.
func (f *PostForm) Normalize() {
	c := f.Changes().Normalized()
	f.Title, f.Tag = c.Title, c.Tag
}

// NewPostForm is submitted by the create form. Author may be left empty
// when the request carries an authenticated subject.
type NewPostForm struct {
	Author string `form:"author" json:"author" validate:"omitempty,max=150"`
	PostForm
}

// Draft converts the form into a domain draft.
func (f *NewPostForm) Draft() domain.PostDraft {
	return domain.PostDraft{Author: f.Author, Title: f.Title, Body: f.Body, Tag: f.Tag}
}

// Validate implements Validatable.
func (f *NewPostForm) Validate() error {
	return f.Draft().Validate()
}

// Normalize trims the fields that are stored trimmed.
func (f *NewPostForm) Normalize() {
	d := f.Draft().Normalized()
	f.Author, f.Title, f.Tag = d.Author, d.Title, d.Tag
}

// PostFormFrom prefills an edit form from an existing post.
func PostFormFrom(p *domain.Post) PostForm {
	return PostForm{Title: p.Title, Body: p.Body, Tag: p.Tag}
}

// SearchQuery binds the q parameter of the title and author searches.
type SearchQuery struct {
	Q string `form:"q" json:"q"`
}

// TagQuery binds the tag parameter of the tag filter.
type TagQuery struct {
	Tag string `form:"tag" json:"tag"`
}

// PostResponse is the JSON representation of a post.
type PostResponse struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tag       string    `json:"tag"`
	URL       string    `json:"url"`
	EditURL   string    `json:"edit_url"`
	DeleteURL string    `json:"delete_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPostResponse converts a domain post to its JSON representation.
func NewPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Author:    p.Author.Username,
		Title:     p.Title,
		Body:      p.Body,
		Tag:       p.Tag,
		URL:       routes.PostURL(p.ID),
		EditURL:   routes.MustReverse(routes.PostEdit, p.ID),
		DeleteURL: routes.MustReverse(routes.PostDelete, p.ID),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PostListResponse is the JSON representation of a post listing.
type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
	Count int            `json:"count"`
}

// NewPostListResponse converts domain posts to a listing. An empty input
// yields an empty, non-nil slice.
func NewPostListResponse(posts []domain.Post) PostListResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i]))
	}

	return PostListResponse{Posts: out, Count: len(out)}
}
