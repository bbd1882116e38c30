package handler

import (
	"bytes"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogdesk/admin-api/internal/api/metrics"
	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
	"github.com/blogdesk/admin-api/internal/core/service"
)

const (
	formPostCreate = "post_create"
	formPostUpdate = "post_update"

	postListURL = "/posts"
)

// PostHandler handles HTTP requests for post screens.
type PostHandler struct {
	posts     ports.PostService
	confirmer *service.Confirmer
	validator *forms.Validator
}

func NewPostHandler(posts ports.PostService, confirmer *service.Confirmer, validator *forms.Validator) *PostHandler {
	return &PostHandler{posts: posts, confirmer: confirmer, validator: validator}
}

// List returns a page of posts, optionally filtered by keyword.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        keyword  query  string  false  "Matches title or description"
// @Param        page     query  int     false  "1-based page"
// @Success      200  {object}  listResponse[postListItem]
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req forms.PostSearchForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.posts.ListPosts(c.Request().Context(), actor, ports.ListPostsInput{Keyword: req.Keyword, Page: req.Page})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostList(res))
}

// Detail returns one post with the names of its audit actors.
//
// @Summary      Post detail
// @Tags         posts
// @Produce      json
// @Param        post_id  query  int  true  "Post id"
// @Success      200  {object}  postDetailResponse
// @Failure      404  {object}  map[string]string
// @Router       /post/detail [get]
func (h *PostHandler) Detail(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.QueryParam("post_id"), "post_id")
	if err != nil {
		return err
	}

	detail, err := h.posts.GetPost(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostDetail(detail))
}

func (h *PostHandler) CreateForm(c echo.Context) error {
	return renderForm(c, formPostCreate, postValues{Status: true})
}

// Create runs the confirmation workflow of the post create screen.
//
// @Summary      Create post (preview, then confirm)
// @Tags         posts
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  formView  "preview"
// @Success      303  "committed or cancelled"
// @Failure      422  {object}  formView
// @Router       /post/create [post]
func (h *PostHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req forms.PostForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Status = true

	next, res, err := h.confirmer.Run(c.Request().Context(), ctxSession(c), service.Submission{
		Checkpoint: sessionSaver(c),
		RouteKey:   routeKey(c),
		Intent:     intentOf(c),
		Errors:     h.validator.Validate(&req),
	}, func(ctx context.Context, _ service.CommitInput) error {
		_, err := h.posts.CreatePost(ctx, actor, ports.PostInput{Title: req.Title, Description: req.Description})
		if err == nil {
			metrics.PostsCreatedTotal.WithLabelValues("form").Inc()
		}
		return err
	})
	setSession(c, next)
	if err != nil {
		return err
	}
	return respond(c, formPostCreate, res, postFormValues(req), postListURL)
}

func (h *PostHandler) UpdateForm(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	detail, err := h.posts.GetPost(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return renderForm(c, formPostUpdate, postValues{
		Title:       detail.Post.Title,
		Description: detail.Post.Description,
		Status:      detail.Post.Status == domain.PostPublished,
	})
}

// Update runs the confirmation workflow of the post update screen. The status
// checkbox is staged at preview time and applied at commit.
//
// @Summary      Update post (preview, then confirm)
// @Tags         posts
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        id   path  int  true  "Post id"
// @Success      200  {object}  formView  "preview"
// @Success      303  "committed or cancelled"
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  formView
// @Router       /post/{id}/update [post]
func (h *PostHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if _, err := h.posts.GetPost(c.Request().Context(), actor, id); err != nil {
		return err
	}

	var req forms.PostForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Status = checkbox(c, "status")
	submitted := req.Status

	next, res, err := h.confirmer.Run(c.Request().Context(), ctxSession(c), service.Submission{
		Checkpoint: sessionSaver(c),
		RouteKey:   routeKey(c),
		Intent:     intentOf(c),
		Errors:     h.validator.Validate(&req),
		Status:     &submitted,
	}, func(ctx context.Context, in service.CommitInput) error {
		status := req.Status
		if in.Status != nil {
			status = *in.Status
		}
		_, err := h.posts.UpdatePost(ctx, actor, id, ports.PostInput{Title: req.Title, Description: req.Description, Status: status})
		return err
	})
	setSession(c, next)
	if err != nil {
		return err
	}
	return respond(c, formPostUpdate, res, postFormValues(req), postListURL)
}

// Delete soft-deletes a post.
//
// @Summary      Delete post
// @Tags         posts
// @Param        post_id  query  int  true  "Post id"
// @Success      303
// @Failure      404  {object}  map[string]string
// @Router       /post/delete [post]
func (h *PostHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.QueryParam("post_id"), "post_id")
	if err != nil {
		return err
	}

	if err := h.posts.SoftDeletePost(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, postListURL)
}

// Download exports the visible posts as CSV.
//
// @Summary      Download posts as CSV
// @Tags         posts
// @Produce      text/csv
// @Success      200
// @Router       /post/list/download [get]
func (h *PostHandler) Download(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.posts.ExportCSV(c.Request().Context(), actor, &buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="post_list.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
