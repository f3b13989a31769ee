package course

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("course")
	ErrAlreadyEnrolled = core.NewConflictError("you are already enrolled in this course")
	ErrNotInstructor   = core.NewPermissionError("only instructors can manage courses")
	ErrNotStudent      = core.NewPermissionError("only students can enroll in courses")
	ErrNotOwner        = core.NewPermissionError("you do not manage this course")
)

type (
	Repository interface {
		// CreateCourse assigns a fresh unique ID to course before storing it.
		CreateCourse(ctx context.Context, course Course) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		// FilterCourses applies AND operation on available QueryFilter fields.
		FilterCourses(ctx context.Context, filter QueryFilter) ([]Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		// AddStudent appends studentID to the course students.
		// It returns ErrAlreadyEnrolled, checked under the store lock, if it is already there.
		AddStudent(ctx context.Context, courseID, studentID string) error
	}

	Service struct {
		repo       Repository
		locks      *core.KeyedMutex
		validate   *validator.Validate
		translator ut.Translator
		log        core.Logger
	}
)

func NewService(repo Repository, locks *core.KeyedMutex, validate *validator.Validate, translator ut.Translator, log core.Logger) *Service {
	return &Service{
		repo:       repo,
		locks:      locks,
		validate:   validate,
		translator: translator,
		log:        log,
	}
}

// LockKey is the core.KeyedMutex key guarding the course students.
func LockKey(courseID string) string {
	return "course:" + courseID
}

// Create appends a new Course managed by caller.
// A *core.StorageError means the Course exists in memory but was not persisted.
func (svc *Service) Create(ctx context.Context, caller user.User, nc NewCourse) (Course, error) {
	if !caller.IsInstructor() {
		return Course{}, ErrNotInstructor
	}
	if err := nc.Validate(svc.validate, svc.translator); err != nil {
		return Course{}, err
	}

	crs, err := svc.repo.CreateCourse(ctx, Course{
		Title:        nc.Title,
		Description:  nc.Description,
		InstructorID: null.StringFrom(caller.ID),
		Students:     []string{},
	})
	if err != nil {
		if core.IsStorage(err) {
			svc.log.Error("course not persisted", err, caller)
			return crs, err
		}
		return Course{}, errors.Wrap(err, "creating course")
	}
	svc.log.Info("course created", map[string]interface{}{"course": crs.ID}, caller)
	return crs, nil
}

// Enroll adds caller to the course students.
// ErrAlreadyEnrolled is informational: the course is left untouched.
func (svc *Service) Enroll(ctx context.Context, caller user.User, courseID string) error {
	if !caller.IsStudent() {
		return ErrNotStudent
	}
	courseID = core.CleanString(courseID)

	unlock := svc.locks.Lock(LockKey(courseID))
	defer unlock()

	crs, err := svc.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if IsEnrolled(crs, caller.ID) {
		return ErrAlreadyEnrolled
	}

	if err = svc.repo.AddStudent(ctx, courseID, caller.ID); err != nil {
		if core.IsStorage(err) {
			svc.log.Error("enrollment not persisted", err, caller)
		}
		return err
	}
	svc.log.Info("student enrolled", map[string]interface{}{"course": courseID}, caller)
	return nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Course, error) {
	if filter.IsEmpty() {
		return svc.repo.QueryAllCourses(ctx)
	}
	return svc.repo.FilterCourses(ctx, filter)
}

// QueryOwned returns the courses managed by the instructor.
func (svc *Service) QueryOwned(ctx context.Context, instructorID string) ([]Course, error) {
	return svc.repo.FilterCourses(ctx, QueryFilter{InstructorID: instructorID})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, core.CleanString(id))
}

// GetManaged returns the course if caller manages it.
func (svc *Service) GetManaged(ctx context.Context, caller user.User, id string) (Course, error) {
	crs, err := svc.GetByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if !IsOwnedBy(crs, caller.ID) {
		return Course{}, ErrNotOwner
	}
	return crs, nil
}
