package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/tests"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpInfo struct {
	Info string `json:"info"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	caller   *user.User // nil: logged out
	wantCode int
	wantData []byte
}

func setup(t *testing.T) (Server, *testutil.Env) {
	env := testutil.NewEnv(t)
	app := NewServer(
		&Options{TestMode: true, DisableReqLogs: true},
		&Deps{
			Logger:        env.Logger,
			Session:       env.Session,
			UserSvc:       env.UserSvc,
			CourseSvc:     env.CourseSvc,
			AssignmentSvc: env.AssignmentSvc,
		},
	)
	return app, env
}

// loginAs makes usr the session user, or logs out if usr is nil.
func loginAs(t *testing.T, env *testutil.Env, usr *user.User) {
	var err error
	if usr == nil {
		err = env.Session.End(context.Background())
	} else {
		err = env.Session.Begin(context.Background(), *usr)
	}
	if err != nil {
		t.Fatalf("loginAs() failed: %v", err)
	}
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func serve(t *testing.T, app Server, env *testutil.Env, tt httpTest) *httptest.ResponseRecorder {
	loginAs(t, env, tt.caller)
	req, rec := newRequest(tt.method, tt.path, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func unmarshallObj(t *testing.T, data []byte, obj interface{}) {
	if err := json.Unmarshal(data, obj); err != nil {
		t.Fatalf("unmarshallObj(%s): %v", data, err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app Server, env *testutil.Env, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, app, env, tt)
			checkCodeAndData(t, tt, rec)
		})
	}
}
