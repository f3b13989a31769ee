package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/storage"
	"github.com/trezcool/masomo-lms/storage/sqldb"
	"github.com/trezcool/masomo-lms/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.Env, *bytes.Buffer) {
	env := testutil.NewEnv(t)
	out := new(bytes.Buffer)
	cli := &commandLine{
		medium: env.Medium,
		store:  env.Store,
		sess:   env.Session,
		usrSvc: env.UserSvc,
		out:    out,
	}
	return cli, env, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
	extra      interface{}
}

func runCLITests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			case err != nil:
				t.Errorf("cli.run() unexpected error = %v", err)
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("cli.run() out = %q, want it to contain %q", out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, _, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "migrate without command", args: []string{"migrate"}, wantErr: errHelp},
		{name: "migrate on a non sql medium", args: []string{"migrate", "up"}, wantErr: errNotSQL},
		{name: "logout", args: []string{"logout"}, wantOut: "logged out"},
	})
}

func Test_commandLine_addUser(t *testing.T) {
	cli, env, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "name but no role", args: []string{"adduser", "-name", "Alice"}, wantErr: errHelp},
		{name: "bad role", args: []string{"adduser", "-name", "Alice", "-role", "admin"}, wantErrStr: "role: please select a role"},
		{name: "valid", args: []string{"adduser", "-name", " Alice ", "-role", "instructor"}, wantOut: "Alice (instructor) registered with ID u"},
	})

	users, err := env.UserSvc.QueryAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, user.RoleInstructor, users[0].Role)

	_, ok := env.Session.Current()
	assert.False(t, ok, "adduser does not log in")
}

func Test_commandLine_export(t *testing.T) {
	cli, env, out := setup(t)
	testutil.CreateUser(t, env.Store, "Alice", user.RoleInstructor)

	runCLITests(t, cli, out, []cliTest{
		{name: "unknown format", args: []string{"export", "-format", "xml"}, wantErrStr: `unknown export format "xml"`},
	})

	t.Run("json", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "export"}))

		var state storage.State
		require.NoError(t, json.Unmarshal(out.Bytes(), &state))
		assert.Equal(t, env.Store.Snapshot(), state)
	})

	t.Run("yaml", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "export", "-format", "yaml"}))

		var doc struct {
			Users []struct {
				Name string `yaml:"name"`
				Role string `yaml:"role"`
			} `yaml:"users"`
			Courses []struct {
				ID           string  `yaml:"id"`
				InstructorID *string `yaml:"instructorId"`
			} `yaml:"courses"`
		}
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
		require.Len(t, doc.Users, 1)
		assert.Equal(t, "Alice", doc.Users[0].Name)
		assert.Equal(t, "instructor", doc.Users[0].Role)
		require.Len(t, doc.Courses, 2)
		assert.Equal(t, "c1", doc.Courses[0].ID)
		assert.Nil(t, doc.Courses[0].InstructorID)
	})
}

func Test_commandLine_reset(t *testing.T) {
	cli, env, out := setup(t)
	ctx := context.Background()

	oldIsTerminal, oldStdin := isTerminalFunc, stdin
	defer func() { isTerminalFunc, stdin = oldIsTerminal, oldStdin }()

	type extra struct {
		isTerm bool
		answer string
	}
	tests := []cliTest{
		{name: "not a terminal", args: []string{"reset"}, wantErr: errNotATerm},
		{name: "answer no", args: []string{"reset"}, extra: extra{isTerm: true, answer: "n\n"}, wantErr: errAborted},
		{name: "no answer", args: []string{"reset"}, extra: extra{isTerm: true}, wantErr: errAborted},
		{name: "answer yes", args: []string{"reset"}, extra: extra{isTerm: true, answer: " Y\n"}, wantOut: "data reset to the demo state"},
		{name: "force", args: []string{"reset", "-force"}, wantOut: "data reset to the demo state"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		ex, _ := tt.extra.(extra)
		isTerminalFunc = func(int) bool { return ex.isTerm }
		stdin = strings.NewReader(ex.answer)

		alice := testutil.CreateUser(t, env.Store, "Alice", user.RoleInstructor)
		require.NoError(t, env.Session.Begin(ctx, alice))

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			if err != tt.wantErr {
				t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}

			_, loggedIn := env.Session.Current()
			_, found := user.FindByID(env.Store.Snapshot().Users, alice.ID)
			if err != nil {
				assert.True(t, loggedIn, "session kept")
				assert.True(t, found, "data kept")
				return
			}
			assert.Contains(t, out.String(), tt.wantOut)
			assert.False(t, loggedIn, "logged out")
			assert.False(t, found, "data reset")
			assert.Equal(t, storage.SeedState(), env.Store.Snapshot())
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	medium, err := sqldb.Open(sqldb.DriverSQLite, filepath.Join(t.TempDir(), "masomo.sqlite"))
	require.NoError(t, err)
	defer medium.Close()

	env := testutil.NewEnv(t)
	out := new(bytes.Buffer)
	cli := &commandLine{medium: medium, store: env.Store, sess: env.Session, usrSvc: env.UserSvc, out: out}

	runCLITests(t, cli, out, []cliTest{
		{name: "version", args: []string{"migrate", "version"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "status", args: []string{"migrate", "status"}},
	})

	ctx := context.Background()
	require.NoError(t, medium.Put(ctx, "k", []byte("v")))
	got, err := medium.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	_, err = medium.Get(ctx, "missing")
	assert.Equal(t, core.ErrKeyNotFound, err)
}
