package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/flow"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
	"github.com/blogdesk/admin-api/internal/core/service"
)

const (
	formUserCreate     = "user_create"
	formUserUpdate     = "user_update"
	formPasswordChange = "password_change"

	userListURL = "/users"
)

// UserHandler handles HTTP requests for user screens.
type UserHandler struct {
	users     ports.UserService
	confirmer *service.Confirmer
	validator *forms.Validator
	maxUpload int64
}

// NewUserHandler builds a UserHandler; maxUpload caps profile uploads in bytes.
func NewUserHandler(users ports.UserService, confirmer *service.Confirmer, validator *forms.Validator, maxUpload int64) *UserHandler {
	return &UserHandler{users: users, confirmer: confirmer, validator: validator, maxUpload: maxUpload}
}

// List returns a page of users filtered by name, email and creation date.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        name       query  string  false  "Name contains"
// @Param        email      query  string  false  "Email contains"
// @Param        from_date  query  string  false  "Created on or after (YYYY-MM-DD)"
// @Param        to_date    query  string  false  "Created on or before (YYYY-MM-DD)"
// @Success      200  {object}  listResponse[userListItem]
// @Failure      422  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req forms.UserSearchForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.users.ListUsers(c.Request().Context(), actor, ports.ListUsersInput{
		Name:     req.Name,
		Email:    req.Email,
		FromDate: forms.ParseDate(req.FromDate),
		ToDate:   forms.ParseDate(req.ToDate),
		Page:     req.Page,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserList(res))
}

// Detail returns one user.
//
// @Summary      User detail
// @Tags         users
// @Produce      json
// @Param        user_id  query  int  true  "User id"
// @Success      200  {object}  userDetailResponse
// @Failure      404  {object}  map[string]string
// @Router       /user/detail [get]
func (h *UserHandler) Detail(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.QueryParam("user_id"), "user_id")
	if err != nil {
		return err
	}

	detail, err := h.users.GetUser(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDetail(detail))
}

// Profile returns the signed-in user.
func (h *UserHandler) Profile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	detail, err := h.users.GetUser(c.Request().Context(), actor, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDetail(detail))
}

func (h *UserHandler) CreateForm(c echo.Context) error {
	return renderForm(c, formUserCreate, userValues{Type: domain.RoleUser})
}

// Create runs the confirmation workflow of the user create screen. A profile
// image uploaded with the first submission is staged until confirmation.
//
// @Summary      Create user (preview, then confirm)
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Success      200  {object}  formView  "preview"
// @Success      303  "committed or cancelled"
// @Failure      422  {object}  formView
// @Router       /user/create [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req forms.UserCreateForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	errs := h.validator.Validate(&req)
	upload, closeUpload, err := formUpload(c, "profile", h.maxUpload, &errs)
	if err != nil {
		return err
	}
	defer closeUpload()

	input := ports.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Type:     req.Type,
		Phone:    req.Phone,
		Address:  req.Address,
		DOB:      forms.ParseDate(req.DOB),
	}
	next, res, err := h.confirmer.Run(c.Request().Context(), ctxSession(c), service.Submission{
		Checkpoint: sessionSaver(c),
		RouteKey:   routeKey(c),
		Intent:     intentOf(c),
		Errors:     errs,
		Upload:     upload,
		Precheck:   func(ctx context.Context) error {
			return h.users.CheckUser(ctx, actor, 0, input)
		},
	}, func(ctx context.Context, in service.CommitInput) error {
		input.Profile = in.ProfilePath
		_, err := h.users.CreateUser(ctx, actor, input)
		return err
	})
	setSession(c, next)
	if err != nil {
		return err
	}
	return respond(c, formUserCreate, res, userCreateValues(req), userListURL)
}

func (h *UserHandler) UpdateForm(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if !actor.CanUpdateUser(id) {
		return domain.ErrForbidden
	}

	detail, err := h.users.GetUser(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return renderForm(c, formUserUpdate, userDetailValues(detail))
}

// Update runs the confirmation workflow of the user update screen. The stored
// profile image is kept unless a new one was uploaded and confirmed.
//
// @Summary      Update user (preview, then confirm)
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        id   path  int  true  "User id"
// @Success      200  {object}  formView  "preview"
// @Success      303  "committed or cancelled"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  formView
// @Router       /user/{id}/update [post]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if !actor.CanUpdateUser(id) {
		return domain.ErrForbidden
	}
	current, err := h.users.GetUser(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	var req forms.UserEditForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	errs := h.validator.Validate(&req)
	upload, closeUpload, err := formUpload(c, "profile", h.maxUpload, &errs)
	if err != nil {
		return err
	}
	defer closeUpload()

	input := ports.UserInput{
		Name:    req.Name,
		Email:   req.Email,
		Type:    req.Type,
		Phone:   req.Phone,
		Address: req.Address,
		DOB:     forms.ParseDate(req.DOB),
	}
	next, res, err := h.confirmer.Run(c.Request().Context(), ctxSession(c), service.Submission{
		Checkpoint: sessionSaver(c),
		RouteKey:   routeKey(c),
		Intent:     intentOf(c),
		Errors:     errs,
		Upload:     upload,
		Precheck:   func(ctx context.Context) error {
			return h.users.CheckUser(ctx, actor, id, input)
		},
	}, func(ctx context.Context, in service.CommitInput) error {
		input.Profile = in.ProfilePath
		_, err := h.users.UpdateUser(ctx, actor, id, input)
		return err
	})
	setSession(c, next)
	if err != nil {
		return err
	}

	values := userEditValues(req)
	values.ProfileURL = current.ProfileURL
	return respond(c, formUserUpdate, res, values, userListURL)
}

// Delete soft-deletes a user.
//
// @Summary      Delete user
// @Tags         users
// @Param        user_id  query  int  true  "User id"
// @Success      303
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /user/delete [post]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.QueryParam("user_id"), "user_id")
	if err != nil {
		return err
	}

	if err := h.users.SoftDeleteUser(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, userListURL)
}

func (h *UserHandler) PasswordForm(c echo.Context) error {
	return c.JSON(http.StatusOK, formView{Form: formPasswordChange, State: flow.Editing.String()})
}

// ChangePassword replaces the signed-in user's password after checking the current one.
//
// @Summary      Change password
// @Tags         users
// @Accept       x-www-form-urlencoded
// @Success      303
// @Failure      422  {object}  formView
// @Router       /password/change [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if intentOf(c) == flow.IntentCancel {
		return c.Redirect(http.StatusSeeOther, userListURL)
	}

	var req forms.PasswordChangeForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if errs := h.validator.Validate(&req); !errs.OK() {
		return renderInvalid(c, formPasswordChange, nil, errs)
	}

	err = h.users.ChangePassword(c.Request().Context(), actor.ID, req.Password, req.NewPassword)
	if errors.Is(err, domain.ErrWrongPassword) {
		var errs forms.Errors
		errs.Add("password", domain.ErrWrongPassword.Error())
		return renderInvalid(c, formPasswordChange, nil, errs)
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, userListURL)
}
