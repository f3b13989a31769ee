package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-lms/core/assignment"
	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/tests"
)

func TestAssignmentAPI(t *testing.T) {
	now := time.Date(2030, 1, 10, 9, 30, 0, 0, time.UTC)
	oldNow := assignment.NowFunc
	assignment.NowFunc = func() time.Time { return now }
	defer func() { assignment.NowFunc = oldNow }()

	app, env := setup(t)

	alice := testutil.CreateUser(t, env.Store, "Alice", user.RoleInstructor)
	carol := testutil.CreateUser(t, env.Store, "Carol", user.RoleInstructor)
	bob := testutil.CreateUser(t, env.Store, "Bob", user.RoleStudent)
	dave := testutil.CreateUser(t, env.Store, "Dave", user.RoleStudent)
	cs101 := testutil.CreateCourse(t, env.Store, "CS101", alice, bob.ID)
	hw := testutil.CreateAssignment(t, env.Store, cs101.ID, "HW0")

	hwPath := "/v1/assignments/" + hw.ID + "/submissions"

	runHTTPTests(t, app, env, []httpTest{
		{
			name:     "create without course",
			method:   http.MethodPost,
			path:     "/v1/assignments",
			body:     marshallObj(t, assignment.NewAssignment{CourseID: cs101.ID, Title: "HW1"}),
			caller:   &carol,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"course_id":"you must create a course first"}`),
		},
		{
			name:     "create with impossible due date",
			method:   http.MethodPost,
			path:     "/v1/assignments",
			body:     marshallObj(t, assignment.NewAssignment{CourseID: cs101.ID, Title: "HW1", DueDate: "2030-13-01"}),
			caller:   &alice,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"due_date":"please enter a valid date (YYYY-MM-DD)"}`),
		},
		{
			name:     "create as student",
			method:   http.MethodPost,
			path:     "/v1/assignments",
			body:     marshallObj(t, assignment.NewAssignment{CourseID: cs101.ID, Title: "HW1"}),
			caller:   &bob,
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "only instructors can manage assignments"}),
		},
		{
			name:     "check while not enrolled",
			method:   http.MethodGet,
			path:     hwPath + "/check",
			caller:   &dave,
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "you must enroll in the course first"}),
		},
		{
			name:     "check unknown assignment",
			method:   http.MethodGet,
			path:     "/v1/assignments/a-nope/submissions/check",
			caller:   &bob,
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "assignment not found"}),
		},
		{
			name:     "check",
			method:   http.MethodGet,
			path:     hwPath + "/check",
			caller:   &bob,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, successResponse{Success: "You can submit this assignment."}),
		},
		{
			name:     "submit blank",
			method:   http.MethodPost,
			path:     hwPath,
			body:     []byte(`{"text":"   "}`),
			caller:   &bob,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"text":"please enter your submission"}`),
		},
		{
			name:     "submit too short",
			method:   http.MethodPost,
			path:     hwPath,
			body:     []byte(`{"text":"<b>abc</b>"}`),
			caller:   &bob,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"text":"submission must be at least 5 characters"}`),
		},
		{
			name:     "submit",
			method:   http.MethodPost,
			path:     hwPath,
			body:     []byte(`{"text":"my answer"}`),
			caller:   &bob,
			wantCode: http.StatusCreated,
			wantData: marshallObj(t, successResponse{Success: "Assignment submitted successfully!"}),
		},
		{
			name:     "submit again",
			method:   http.MethodPost,
			path:     hwPath,
			body:     []byte(`{"text":"my other answer"}`),
			caller:   &bob,
			wantCode: http.StatusConflict,
			wantData: marshallObj(t, httpInfo{Info: "you have already submitted this assignment"}),
		},
		{
			name:     "check after submitting",
			method:   http.MethodGet,
			path:     hwPath + "/check",
			caller:   &bob,
			wantCode: http.StatusConflict,
			wantData: marshallObj(t, httpInfo{Info: "you have already submitted this assignment"}),
		},
		{
			name:     "grading view of another instructor",
			method:   http.MethodGet,
			path:     hwPath,
			caller:   &carol,
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "you do not manage this course"}),
		},
		{
			name:     "grade",
			method:   http.MethodPut,
			path:     hwPath + "/0/grade",
			body:     []byte(`{"grade":"90/100"}`),
			caller:   &alice,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, successResponse{Success: "Grade saved successfully!"}),
		},
		{
			name:     "grade overwritten",
			method:   http.MethodPut,
			path:     hwPath + "/0/grade",
			body:     []byte(`{"grade":" 95/100 "}`),
			caller:   &alice,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, successResponse{Success: "Grade saved successfully!"}),
		},
		{
			name:     "blank grade ignored",
			method:   http.MethodPut,
			path:     hwPath + "/0/grade",
			body:     []byte(`{"grade":"  "}`),
			caller:   &alice,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "grade bad index",
			method:   http.MethodPut,
			path:     hwPath + "/x/grade",
			body:     []byte(`{"grade":"A"}`),
			caller:   &alice,
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "submission not found"}),
		},
		{
			name:     "grade out of range",
			method:   http.MethodPut,
			path:     hwPath + "/1/grade",
			body:     []byte(`{"grade":"A"}`),
			caller:   &alice,
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "submission not found"}),
		},
		{
			name:     "grading view",
			method:   http.MethodGet,
			path:     hwPath,
			caller:   &alice,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, gradingView{
				Assignment: assignmentView{
					ID:              hw.ID,
					CourseID:        cs101.ID,
					CourseTitle:     "CS101",
					Title:           "HW0",
					SubmissionCount: 1,
				},
				Submissions: []submissionView{{
					Index:       0,
					StudentID:   bob.ID,
					StudentName: "Bob",
					Text:        "my answer",
					Grade:       null.StringFrom("95/100"),
					SubmittedAt: now,
				}},
			}),
		},
		{
			name:     "student list",
			method:   http.MethodGet,
			path:     "/v1/assignments",
			caller:   &bob,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, []assignmentView{{
				ID:              hw.ID,
				CourseID:        cs101.ID,
				CourseTitle:     "CS101",
				Title:           "HW0",
				SubmissionCount: 1,
				Submitted:       true,
			}}),
		},
		{
			name:     "list of a student without courses",
			method:   http.MethodGet,
			path:     "/v1/assignments",
			caller:   &dave,
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
	})

	t.Run("create", func(t *testing.T) {
		body := marshallObj(t, assignment.NewAssignment{
			CourseID:    cs101.ID,
			Title:       "HW1",
			Description: "Read <i>chapter 1</i>",
			DueDate:     "2030-01-15",
		})
		rec := serve(t, app, env, httpTest{method: http.MethodPost, path: "/v1/assignments", body: body, caller: &alice})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var view assignmentView
		unmarshallObj(t, rec.Body.Bytes(), &view)
		assert.Equal(t, "HW1", view.Title)
		assert.Equal(t, "Read chapter 1", view.Description)
		assert.Equal(t, null.StringFrom("2030-01-15"), view.DueDate)
		assert.Equal(t, "CS101", view.CourseTitle)

		rec = serve(t, app, env, httpTest{method: http.MethodGet, path: "/v1/assignments?course_id=" + cs101.ID, caller: &alice})
		require.Equal(t, http.StatusOK, rec.Code)
		var views []assignmentView
		unmarshallObj(t, rec.Body.Bytes(), &views)
		assert.Len(t, views, 2)
	})

	t.Run("grade kept when storage is full", func(t *testing.T) {
		loginAs(t, env, &alice)
		env.Medium.SetQuota(1)
		defer env.Medium.SetQuota(0)

		req, rec := newRequest(http.MethodPut, hwPath+"/0/grade", []byte(`{"grade":"B"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusInsufficientStorage,
			wantData: marshallObj(t, httpErr{Error: "storage is full, please clear some data"}),
		}, rec)

		asgmt, err := env.AssignmentSvc.GetByID(context.Background(), hw.ID)
		require.NoError(t, err)
		assert.Equal(t, null.StringFrom("B"), asgmt.Submissions[0].Grade)
	})
}
