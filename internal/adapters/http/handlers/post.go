package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/templates"
	"github.com/jsamuelsen/go-blog-service/internal/app"
	"github.com/jsamuelsen/go-blog-service/internal/domain"
	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
	"github.com/jsamuelsen/go-blog-service/internal/routes"
)

// offered lists the representations every page supports, in preference
// order. Browsers sending */* get HTML.
var offered = []string{binding.MIMEHTML, binding.MIMEJSON}

// PostHandler serves the blog pages. Each route has its own method with an
// explicit input (path id, form or query struct) and an explicit page struct
// handed to the template; JSON clients get the dto representation instead.
type PostHandler struct {
	service *app.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(service *app.PostService) *PostHandler {
	return &PostHandler{
		service: service,
	}
}

// basePage carries what the layout needs on every page.
type basePage struct {
	Title     string
	Subject   string
	RequestID string
}

// listPage is rendered by the list and search handlers.
type listPage struct {
	basePage
	Heading string
	Query   string
	Posts   []domain.Post
}

// detailPage is rendered by the detail and delete confirmation handlers.
type detailPage struct {
	basePage
	Post *domain.Post
}

// formPage is rendered by the create and edit handlers.
type formPage struct {
	basePage
	Heading    string
	Action     string
	ShowAuthor bool
	Form       dto.NewPostForm
	Errors     map[string]string
}

// errorPage is rendered for not found and internal failures.
type errorPage struct {
	basePage
	Status     int
	StatusText string
	Message    string
}

// formResponse is the JSON representation of a form page.
type formResponse struct {
	Action string          `json:"action"`
	Form   dto.NewPostForm `json:"form"`
}

func (h *PostHandler) base(c *gin.Context, title string) basePage {
	return basePage{
		Title:     title,
		Subject:   middleware.Subject(c),
		RequestID: middleware.RequestIDFromContext(c.Request.Context()),
	}
}

// List handles GET /
// Renders every post in id order.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.renderList(c, "Posts", "", posts)
}

// Detail handles GET /post/:id
// Renders one post, or the not found page.
func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  offered,
		HTMLName: templates.Detail,
		HTMLData: detailPage{basePage: h.base(c, post.Title), Post: post},
		JSONData: dto.NewPostResponse(post),
	})
}

// NewForm handles GET /post/new
// Renders an empty create form. The author is prefilled with the
// authenticated subject, if any.
func (h *PostHandler) NewForm(c *gin.Context) {
	form := dto.NewPostForm{Author: middleware.Subject(c)}

	h.renderForm(c, http.StatusOK, h.newFormPage(c, form, nil))
}

// Create handles POST /post/new
// On success it redirects to the new post. Validation failures redisplay
// the form with 400 and nothing is stored.
func (h *PostHandler) Create(c *gin.Context) {
	var form dto.NewPostForm
	if err := dto.BindForm(c, &form); err != nil {
		h.badRequest(c, err)
		return
	}

	form.Normalize()
	if form.Author == "" {
		form.Author = middleware.Subject(c)
	}

	if err := dto.ValidateAll(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, h.newFormPage(c, form, dto.ValidationErrors(err)))
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), form.Draft())
	if err != nil {
		if domain.IsValidation(err) {
			h.renderForm(c, http.StatusBadRequest, h.newFormPage(c, form, dto.ValidationErrors(err)))
			return
		}

		h.fail(c, err)

		return
	}

	c.Redirect(http.StatusSeeOther, routes.PostURL(post.ID))
}

// EditForm handles GET /post/:id/edit
// Renders the edit form prefilled with the post.
func (h *PostHandler) EditForm(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	form := dto.NewPostForm{Author: post.Author.Username, PostForm: dto.PostFormFrom(post)}

	h.renderForm(c, http.StatusOK, h.editFormPage(c, post, form, nil))
}

// Update handles POST /post/:id/edit
// The author cannot be changed; an author field in the submission is
// ignored. A missing post is reported before the submission is validated.
func (h *PostHandler) Update(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	var form dto.PostForm
	if err := dto.BindForm(c, &form); err != nil {
		h.badRequest(c, err)
		return
	}

	form.Normalize()

	redisplay := func(err error) {
		page := h.editFormPage(c, post, dto.NewPostForm{Author: post.Author.Username, PostForm: form}, dto.ValidationErrors(err))
		h.renderForm(c, http.StatusBadRequest, page)
	}

	if err := dto.ValidateAll(&form); err != nil {
		redisplay(err)
		return
	}

	updated, err := h.service.UpdatePost(c.Request.Context(), post.ID, form.Changes())
	if err != nil {
		if domain.IsValidation(err) {
			redisplay(err)
			return
		}

		h.fail(c, err)

		return
	}

	c.Redirect(http.StatusSeeOther, routes.PostURL(updated.ID))
}

// DeleteConfirm handles GET /post/:id/delete
// Renders the confirmation page. Nothing is deleted.
func (h *PostHandler) DeleteConfirm(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  offered,
		HTMLName: templates.ConfirmDelete,
		HTMLData: detailPage{basePage: h.base(c, "Delete "+post.Title), Post: post},
		JSONData: dto.NewPostResponse(post),
	})
}

// Delete handles POST /post/:id/delete
// Hard-deletes the post and redirects to the list.
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, routes.MustReverse(routes.Home))
}

// SearchTitle handles GET /busca/?q=
// Case-insensitive substring match on the title. An empty q lists every post.
func (h *PostHandler) SearchTitle(c *gin.Context) {
	var q dto.SearchQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		h.badRequest(c, err)
		return
	}

	posts, err := h.service.SearchByTitle(c.Request.Context(), q.Q)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.renderList(c, "Title search", q.Q, posts)
}

// SearchAuthor handles GET /autor/?q=
// Case-insensitive substring match on the author's username.
func (h *PostHandler) SearchAuthor(c *gin.Context) {
	var q dto.SearchQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		h.badRequest(c, err)
		return
	}

	posts, err := h.service.SearchByAuthor(c.Request.Context(), q.Q)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.renderList(c, "Author search", q.Q, posts)
}

// FilterTag handles GET /tag/?tag=
// Exact, case-sensitive match on the tag.
func (h *PostHandler) FilterTag(c *gin.Context) {
	var q dto.TagQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		h.badRequest(c, err)
		return
	}

	posts, err := h.service.FilterByTag(c.Request.Context(), q.Tag)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.renderList(c, "Tag", q.Tag, posts)
}

// page binds a route of the table to its handlers. Protected pages run
// behind the protect handlers given to RegisterRoutes.
type page struct {
	get, post gin.HandlerFunc
	protected bool
}

func (h *PostHandler) pages() map[string]page {
	return map[string]page{
		routes.Home:         {get: h.List},
		routes.PostDetail:   {get: h.Detail},
		routes.PostSearch:   {get: h.SearchTitle},
		routes.AuthorSearch: {get: h.SearchAuthor},
		routes.TagFilter:    {get: h.FilterTag},
		routes.PostNew:      {get: h.NewForm, post: h.Create, protected: true},
		routes.PostEdit:     {get: h.EditForm, post: h.Update, protected: true},
		routes.PostDelete:   {get: h.DeleteConfirm, post: h.Delete, protected: true},
	}
}

// RegisterRoutes registers every route of the table on the router. The
// protect handlers guard the create, edit and delete routes, both phases
// included. It panics when a route has no handler.
func (h *PostHandler) RegisterRoutes(r gin.IRouter, protect ...gin.HandlerFunc) {
	pages := h.pages()
	write := r.Group("", protect...)

	for _, rt := range routes.All() {
		p, ok := pages[rt.Name]
		if !ok {
			panic(fmt.Sprintf("handlers: no handler for route %q", rt.Name))
		}

		var target gin.IRoutes = r
		if p.protected {
			target = write
		}

		pattern := routes.GinPattern(rt.Name)
		target.GET(pattern, p.get)

		if p.post != nil {
			target.POST(pattern, p.post)
		}
	}
}

// pathID parses the :id segment. A malformed id is answered as not found,
// since no post can have it.
func (h *PostHandler) pathID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")

	id, ok := routes.ParseID(raw)
	if !ok {
		h.fail(c, domain.NewNotFoundError("post", raw))
		return 0, false
	}

	return id, true
}

// loadPost resolves the :id segment to a post, answering the request
// itself when that fails.
func (h *PostHandler) loadPost(c *gin.Context) (*domain.Post, bool) {
	id, ok := h.pathID(c)
	if !ok {
		return nil, false
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}

	return post, true
}

func (h *PostHandler) newFormPage(c *gin.Context, form dto.NewPostForm, errs map[string]string) formPage {
	return formPage{
		basePage:   h.base(c, "New post"),
		Heading:    "New post",
		Action:     routes.MustReverse(routes.PostNew),
		ShowAuthor: true,
		Form:       form,
		Errors:     errs,
	}
}

func (h *PostHandler) editFormPage(c *gin.Context, post *domain.Post, form dto.NewPostForm, errs map[string]string) formPage {
	return formPage{
		basePage: h.base(c, "Edit "+post.Title),
		Heading:  "Edit post",
		Action:   routes.MustReverse(routes.PostEdit, post.ID),
		Form:     form,
		Errors:   errs,
	}
}

func (h *PostHandler) renderList(c *gin.Context, heading, query string, posts []domain.Post) {
	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  offered,
		HTMLName: templates.List,
		HTMLData: listPage{basePage: h.base(c, heading), Heading: heading, Query: query, Posts: posts},
		JSONData: dto.NewPostListResponse(posts),
	})
}

// renderForm renders a form page. A 400 page answers JSON clients with the
// validation error envelope.
func (h *PostHandler) renderForm(c *gin.Context, status int, page formPage) {
	if status == http.StatusBadRequest && c.NegotiateFormat(offered...) == binding.MIMEJSON {
		c.JSON(status, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"validation failed",
			page.Errors,
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	c.Negotiate(status, gin.Negotiate{
		Offered:  offered,
		HTMLName: templates.Form,
		HTMLData: page,
		JSONData: formResponse{Action: page.Action, Form: page.Form},
	})
}

// badRequest answers a submission that could not be decoded at all.
func (h *PostHandler) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)

	if c.NegotiateFormat(offered...) == binding.MIMEJSON {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"malformed request",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	h.renderError(c, http.StatusBadRequest, templates.Error, "The submitted data could not be read.")
}

// fail answers a request whose use case failed. Not found and validation
// errors are expected outcomes; anything else is logged and reported as a
// generic server error.
func (h *PostHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	if c.NegotiateFormat(offered...) == binding.MIMEJSON {
		dto.HandleError(c, err)
		return
	}

	status, resp := dto.MapDomainError(err)

	switch status {
	case http.StatusNotFound:
		h.renderError(c, status, templates.NotFound, resp.Error.Message)
	case http.StatusInternalServerError:
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "request failed", slog.String("error", err.Error()))
		h.renderError(c, status, templates.Error, resp.Error.Message)
	default:
		h.renderError(c, status, templates.Error, resp.Error.Message)
	}
}

func (h *PostHandler) renderError(c *gin.Context, status int, name, message string) {
	c.HTML(status, name, errorPage{
		basePage:   h.base(c, http.StatusText(status)),
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    message,
	})
}

// Forbidden answers a write attempted without a signed-in subject. It is
// the deny handler of middleware.RequireAuth.
func (h *PostHandler) Forbidden(c *gin.Context) {
	if c.NegotiateFormat(offered...) == binding.MIMEJSON {
		dto.AbortWithErrorCode(c, dto.ErrorCodeForbidden, middleware.ForbiddenMessage)
		return
	}

	h.renderError(c, http.StatusForbidden, templates.Error, "Sign in to create, edit or delete posts.")
	c.Abort()
}

// NoRoute answers paths outside the route table with the not found page.
func (h *PostHandler) NoRoute(c *gin.Context) {
	h.fail(c, domain.NewNotFoundError("page", ""))
}
