package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

type courseApi struct {
	svc    *course.Service
	usrSvc *user.Service
}

func registerCourseAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *course.Service, usrSvc *user.Service) {
	api := courseApi{
		svc:    svc,
		usrSvc: usrSvc,
	}

	cg := g.Group("/courses", authed)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/:id", api.retrieve)
	cg.POST("/:id/enroll", api.enroll)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	caller, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()

	courses, err := api.svc.QueryAll(rctx)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	users, err := api.usrSvc.QueryAll(rctx)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}

	names := userNames(users)
	views := make([]courseView, 0, len(courses))
	for _, crs := range courses {
		views = append(views, newCourseView(crs, caller, names))
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *courseApi) create(ctx echo.Context) error {
	caller, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data course.NewCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}

	crs, err := api.svc.Create(ctx.Request().Context(), caller, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newCourseView(crs, caller, userNames([]user.User{caller})))
}

// retrieve renders the management view of a course owned by the caller.
func (api *courseApi) retrieve(ctx echo.Context) error {
	caller, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()

	crs, err := api.svc.GetManaged(rctx, caller, ctx.Param("id"))
	if err != nil {
		return err
	}
	users, err := api.usrSvc.QueryAll(rctx)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, newCourseDetailView(crs, caller, userNames(users)))
}

func (api *courseApi) enroll(ctx echo.Context) error {
	caller, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Enroll(ctx.Request().Context(), caller, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: "Enrolled successfully!"})
}
