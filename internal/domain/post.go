// Package domain contains core business entities and rules.
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits enforced at write time.
const (
	// MaxTitleLength is the maximum number of characters in a post title.
	MaxTitleLength = 100

	// MaxTagLength is the maximum number of characters in a post tag.
	MaxTagLength = 20
)

// Identity is an external user account that authors posts.
type Identity struct {
	ID       int64
	Username string
}

// Post is an authored blog entry.
// The author is fixed at creation; only Title, Body and Tag change afterwards.
type Post struct {
	// ID is assigned by the store and never reused.
	ID int64

	// Author is the identity that wrote the post.
	Author Identity

	// Title is bounded by MaxTitleLength characters.
	Title string

	// Body is unbounded text.
	Body string

	// Tag is an exact-match classification label bounded by MaxTagLength.
	Tag string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostDraft carries the fields supplied when creating a post.
type PostDraft struct {
	Author string
	Title  string
	Body   string
	Tag    string
}

// PostChanges carries the mutable fields of an existing post.
type PostChanges struct {
	Title string
	Body  string
	Tag   string
}

// Validate checks the draft against the field rules. The author is only
// checked for presence; whether it names a known identity is decided by the
// application layer.
func (d PostDraft) Validate() error {
	errs := &ValidationErrors{}
	if strings.TrimSpace(d.Author) == "" {
		errs.Add("author", "this field is required")
	}

	validateContent(errs, d.Title, d.Body, d.Tag)

	return errs.OrNil()
}

// Validate checks the changes against the field rules.
func (c PostChanges) Validate() error {
	errs := &ValidationErrors{}
	validateContent(errs, c.Title, c.Body, c.Tag)

	return errs.OrNil()
}

// Apply copies the changes onto the post. Author and ID are left untouched.
func (c PostChanges) Apply(p *Post) {
	p.Title = c.Title
	p.Body = c.Body
	p.Tag = c.Tag
}

// Normalized returns the draft with the author, title and tag trimmed of
// surrounding whitespace. The body is kept as typed.
func (d PostDraft) Normalized() PostDraft {
	d.Author = strings.TrimSpace(d.Author)
	d.Title = strings.TrimSpace(d.Title)
	d.Tag = strings.TrimSpace(d.Tag)

	return d
}

// Normalized returns the changes with the title and tag trimmed of
// surrounding whitespace. The body is kept as typed.
func (c PostChanges) Normalized() PostChanges {
	c.Title = strings.TrimSpace(c.Title)
	c.Tag = strings.TrimSpace(c.Tag)

	return c
}

func validateContent(errs *ValidationErrors, title, body, tag string) {
	switch {
	case strings.TrimSpace(title) == "":
		errs.Add("title", "this field is required")
	case !validText(title):
		errs.Add("title", msgInvalidText)
	case utf8.RuneCountInString(title) > MaxTitleLength:
		errs.Add("title", "must be at most 100 characters")
	}

	switch {
	case strings.TrimSpace(body) == "":
		errs.Add("body", "this field is required")
	case !validText(body):
		errs.Add("body", msgInvalidText)
	}

	switch {
	case strings.TrimSpace(tag) == "":
		errs.Add("tag", "this field is required")
	case !validText(tag):
		errs.Add("tag", msgInvalidText)
	case utf8.RuneCountInString(tag) > MaxTagLength:
		errs.Add("tag", "must be at most 20 characters")
	}
}

const msgInvalidText = "must be valid text"

// validText reports whether s is UTF-8 without NUL bytes, which the
// postgres text type cannot store.
func validText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}
