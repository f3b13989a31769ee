package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/assignment"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

type (
	assignmentApi struct {
		svc       *assignment.Service
		courseSvc *course.Service
		usrSvc    *user.Service
	}

	gradeRequest struct {
		Grade string `json:"grade"`
	}
)

func registerAssignmentAPI(
	g *echo.Group,
	authed echo.MiddlewareFunc,
	svc *assignment.Service,
	courseSvc *course.Service,
	usrSvc *user.Service,
) {
	api := assignmentApi{
		svc:       svc,
		courseSvc: courseSvc,
		usrSvc:    usrSvc,
	}

	ag := g.Group("/assignments", authed)
	ag.GET("", api.query)
	ag.POST("", api.create)

	// submissions
	sg := ag.Group("/:id/submissions")
	sg.GET("", api.querySubmissions)
	sg.POST("", api.submit)
	sg.GET("/check", api.checkSubmit)
	sg.PUT("/:index/grade", api.grade)
}

// Handlers

// query lists the assignments visible to the caller, optionally filtered by `course_id`.
func (api *assignmentApi) query(ctx echo.Context) error {
	caller, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()

	asgmts, err := api.svc.QueryVisible(rctx, caller, ctx.QueryParam("course_id"))
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	courses, err := api.courseSvc.QueryAll(rctx)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}

	titles := make(map[string]string, len(courses))
	for _, crs := range courses {
		titles[crs.ID] = crs.Title
	}
	views := make([]assignmentView, 0, len(asgmts))
	for _, asgmt := range asgmts {
		views = append(views, newAssignmentView(asgmt, caller, titles))
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	caller, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data assignment.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	rctx := ctx.Request().Context()

	asgmt, err := api.svc.Create(rctx, caller, data)
	if err != nil {
		return err
	}
	crs, err := api.courseSvc.GetByID(rctx, asgmt.CourseID)
	if err != nil {
		return errors.Wrap(err, "getting assignment course")
	}
	return ctx.JSON(http.StatusCreated, newAssignmentView(asgmt, caller, map[string]string{crs.ID: crs.Title}))
}

// querySubmissions renders the grading view of an assignment, for the instructor of its course.
func (api *assignmentApi) querySubmissions(ctx echo.Context) error {
	caller, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()

	asgmt, err := api.svc.GetManaged(rctx, caller, ctx.Param("id"))
	if err != nil {
		return err
	}
	crs, err := api.courseSvc.GetByID(rctx, asgmt.CourseID)
	if err != nil {
		return err
	}
	users, err := api.usrSvc.QueryAll(rctx)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, newGradingView(asgmt, crs, caller, userNames(users)))
}

// checkSubmit tells a student whether they may open the submission form.
func (api *assignmentApi) checkSubmit(ctx echo.Context) error {
	caller, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.CheckCanSubmit(ctx.Request().Context(), caller, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: "You can submit this assignment."})
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	caller, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data assignment.NewSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	if err = api.svc.Submit(ctx.Request().Context(), caller, ctx.Param("id"), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, successResponse{Success: "Assignment submitted successfully!"})
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	caller, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return assignment.ErrSubmissionNotFound
	}
	var data gradeRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to gradeRequest")
	}

	if core.SanitizeString(data.Grade) == "" {
		return ctx.NoContent(http.StatusNoContent) // nothing to save
	}
	if err = api.svc.Grade(ctx.Request().Context(), caller, ctx.Param("id"), index, data.Grade); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: "Grade saved successfully!"})
}
