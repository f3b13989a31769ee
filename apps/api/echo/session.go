package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/session"
	"github.com/trezcool/masomo-lms/core/user"
)

type (
	sessionApi struct {
		mgr *session.Manager
	}

	loginRequest struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
)

func registerSessionAPI(g *echo.Group, mgr *session.Manager) {
	api := sessionApi{mgr: mgr}

	sg := g.Group("/session")
	sg.GET("", api.retrieve)
	sg.POST("", api.login)
	sg.DELETE("", api.logout)
}

// Handlers

func (api *sessionApi) retrieve(ctx echo.Context) error {
	view := sessionView{State: api.mgr.State().String()}
	if usr, ok := api.mgr.Current(); ok {
		view.User = newUserView(usr)
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *sessionApi) login(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}

	usr, err := api.mgr.Login(ctx.Request().Context(), data.Name, user.Role(data.Role))
	view := sessionView{State: session.LoggedIn.String()}
	if err != nil {
		if !core.IsStorage(err) {
			return err
		}
		// logged in, but the new User only lives in memory
		view.Warning = err.Error()
	}
	view.User = newUserView(usr)
	return ctx.JSON(http.StatusCreated, view)
}

func (api *sessionApi) logout(ctx echo.Context) error {
	if err := api.mgr.End(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
