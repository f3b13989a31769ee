package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-lms/core/user"
)

func TestHome(t *testing.T) {
	app, _ := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Masomo LMS!", rec.Body.String())
}

func TestSessionAPI(t *testing.T) {
	app, env := setup(t)

	runHTTPTests(t, app, env, []httpTest{
		{
			name:     "logged out",
			method:   http.MethodGet,
			path:     "/v1/session",
			wantCode: http.StatusOK,
			wantData: []byte(`{"state":"logged_out"}`),
		},
		{
			name:     "empty name",
			method:   http.MethodPost,
			path:     "/v1/session",
			body:     []byte(`{"name":"  ","role":"student"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name":"please enter your name"}`),
		},
		{
			name:     "bad role",
			method:   http.MethodPost,
			path:     "/v1/session",
			body:     []byte(`{"name":"Alice","role":"admin"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"role":"please select a role"}`),
		},
		{
			name:     "authed endpoint while logged out",
			method:   http.MethodGet,
			path:     "/v1/courses",
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, httpErr{Error: "please log in first"}),
		},
		{
			name:     "logout while logged out",
			method:   http.MethodDelete,
			path:     "/v1/session",
			wantCode: http.StatusNoContent,
		},
	})

	t.Run("login, then logout", func(t *testing.T) {
		loginAs(t, env, nil)

		req, rec := newRequest(http.MethodPost, "/v1/session", []byte(`{"name":" <b>Alice</b> ","role":"Instructor"}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var view sessionView
		unmarshallObj(t, rec.Body.Bytes(), &view)
		require.NotNil(t, view.User)
		assert.Equal(t, "logged_in", view.State)
		assert.Equal(t, "Alice", view.User.Name)
		assert.Equal(t, "instructor", view.User.Role)
		assert.Empty(t, view.Warning)

		current, ok := env.Session.Current()
		require.True(t, ok)
		assert.Equal(t, view.User.ID, current.ID)

		req, rec = newRequest(http.MethodGet, "/v1/session")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marshallObj(t, sessionView{State: "logged_in", User: newUserView(current)}),
		}, rec)

		req, rec = newRequest(http.MethodDelete, "/v1/session")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		_, ok = env.Session.Current()
		assert.False(t, ok)
	})

	t.Run("login with storage full", func(t *testing.T) {
		loginAs(t, env, nil)
		env.Medium.SetQuota(1)
		defer env.Medium.SetQuota(0)

		req, rec := newRequest(http.MethodPost, "/v1/session", []byte(`{"name":"Bob","role":"student"}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var view sessionView
		unmarshallObj(t, rec.Body.Bytes(), &view)
		assert.NotEmpty(t, view.Warning)

		usr, ok := env.Session.Current()
		require.True(t, ok)
		_, err := env.UserSvc.GetByID(context.Background(), usr.ID)
		assert.NoError(t, err, "user kept in memory")
		assert.Equal(t, user.RoleStudent, usr.Role)
	})
}
