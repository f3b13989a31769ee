package testutil

import (
	"context"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/assignment"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/session"
	"github.com/trezcool/masomo-lms/core/user"
	logsvc "github.com/trezcool/masomo-lms/services/logger"
	"github.com/trezcool/masomo-lms/storage"
	"github.com/trezcool/masomo-lms/storage/memory"
)

const SessionKey = "lms_current_user"

// Env is a fully wired app over an in-memory medium.
type Env struct {
	Medium  *memory.Medium
	Store   *storage.Store
	Session *session.Manager
	Logger  core.Logger

	UserSvc       *user.Service
	CourseSvc     *course.Service
	AssignmentSvc *assignment.Service
}

// NewEnv opens a seeded Store. quota, if given, caps the medium size.
func NewEnv(t *testing.T, quota ...int) *Env {
	t.Helper()
	medium := memory.Open(quota...)
	return NewEnvWithMedium(t, medium)
}

// NewEnvWithMedium opens a Store over an existing medium, eg. one holding a prepared state.
func NewEnvWithMedium(t *testing.T, medium *memory.Medium) *Env {
	t.Helper()
	logger := logsvc.NewNop()

	store, err := storage.Open(context.Background(), medium, storage.Options{Logger: logger})
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator)
	locks := core.NewKeyedMutex()

	usrSvc := user.NewService(store, validate, translator, logger)
	return &Env{
		Medium:        medium,
		Store:         store,
		Session:       session.NewManager(medium, SessionKey, usrSvc, logger),
		Logger:        logger,
		UserSvc:       usrSvc,
		CourseSvc:     course.NewService(store, locks, validate, translator, logger),
		AssignmentSvc: assignment.NewService(store, store, locks, validate, translator, logger),
	}
}

func CreateUser(t *testing.T, repo user.Repository, name string, role user.Role) user.User {
	t.Helper()
	usr, err := repo.CreateUser(context.Background(), user.User{Name: name, Role: role})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, repo course.Repository, title string, instructor user.User, studentIDs ...string) course.Course {
	t.Helper()
	if studentIDs == nil {
		studentIDs = []string{}
	}
	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Title:        title,
		InstructorID: null.StringFrom(instructor.ID),
		Students:     studentIDs,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateAssignment(t *testing.T, repo assignment.Repository, courseID, title string, subs ...assignment.Submission) assignment.Assignment {
	t.Helper()
	if subs == nil {
		subs = []assignment.Submission{}
	}
	asgmt, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		CourseID:    courseID,
		Title:       title,
		Submissions: subs,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asgmt
}
