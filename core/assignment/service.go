package assignment

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound           = core.NewNotFoundError("assignment")
	ErrSubmissionNotFound = core.NewNotFoundError("submission")
	ErrAlreadySubmitted   = core.NewConflictError("you have already submitted this assignment")
	ErrNotEnrolled        = core.NewPermissionError("you must enroll in the course first")
	ErrNotInstructor      = core.NewPermissionError("only instructors can manage assignments")
	ErrNotStudent         = core.NewPermissionError("only students can submit assignments")
	ErrNoCourse           = core.NewValidationError(
		errors.New("you must create a course first"),
		core.FieldError{Field: "course_id", Error: "you must create a course first"},
	)
	ErrTooShort = core.NewValidationError(
		errors.New("submission must be at least 5 characters"),
		core.FieldError{Field: "text", Error: "submission must be at least 5 characters"},
	)
)

type (
	Repository interface {
		// CreateAssignment assigns a fresh unique ID to assignment before storing it.
		CreateAssignment(ctx context.Context, assignment Assignment) (Assignment, error)
		QueryAllAssignments(ctx context.Context) ([]Assignment, error)
		// FilterAssignments applies AND operation on available QueryFilter fields.
		FilterAssignments(ctx context.Context, filter QueryFilter) ([]Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		// AddSubmission appends sub to the assignment submissions.
		// It returns ErrAlreadySubmitted, checked under the store lock, if the student already submitted.
		AddSubmission(ctx context.Context, assignmentID string, sub Submission) error
		// SetGrade overwrites the grade of the submission at index.
		SetGrade(ctx context.Context, assignmentID string, index int, grade string) error
	}

	Service struct {
		repo       Repository
		courseRepo course.Repository
		locks      *core.KeyedMutex
		validate   *validator.Validate
		translator ut.Translator
		log        core.Logger
	}
)

func NewService(
	repo Repository,
	courseRepo course.Repository,
	locks *core.KeyedMutex,
	validate *validator.Validate,
	translator ut.Translator,
	log core.Logger,
) *Service {
	return &Service{
		repo:       repo,
		courseRepo: courseRepo,
		locks:      locks,
		validate:   validate,
		translator: translator,
		log:        log,
	}
}

// LockKey is the core.KeyedMutex key guarding the assignment submissions.
func LockKey(assignmentID string) string {
	return "assignment:" + assignmentID
}

// CheckCanCreate fails with ErrNoCourse if caller does not manage any course yet.
func (svc *Service) CheckCanCreate(ctx context.Context, caller user.User) error {
	if !caller.IsInstructor() {
		return ErrNotInstructor
	}
	owned, err := svc.courseRepo.FilterCourses(ctx, course.QueryFilter{InstructorID: caller.ID})
	if err != nil {
		return errors.Wrap(err, "querying owned courses")
	}
	if len(owned) == 0 {
		return ErrNoCourse
	}
	return nil
}

// Create appends a new Assignment to a course managed by caller.
// A *core.StorageError means the Assignment exists in memory but was not persisted.
func (svc *Service) Create(ctx context.Context, caller user.User, na NewAssignment) (Assignment, error) {
	if err := svc.CheckCanCreate(ctx, caller); err != nil {
		return Assignment{}, err
	}
	if err := na.Validate(svc.validate, svc.translator); err != nil {
		return Assignment{}, err
	}

	crs, err := svc.courseRepo.GetCourseByID(ctx, na.CourseID)
	if err != nil {
		return Assignment{}, err
	}
	if !course.IsOwnedBy(crs, caller.ID) {
		return Assignment{}, course.ErrNotOwner
	}

	asgmt, err := svc.repo.CreateAssignment(ctx, Assignment{
		CourseID:    crs.ID,
		Title:       na.Title,
		Description: na.Description,
		DueDate:     null.NewString(na.DueDate, na.DueDate != ""),
		Submissions: []Submission{},
	})
	if err != nil {
		if core.IsStorage(err) {
			svc.log.Error("assignment not persisted", err, caller)
			return asgmt, err
		}
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	svc.log.Info("assignment created", map[string]interface{}{"assignment": asgmt.ID, "course": crs.ID}, caller)
	return asgmt, nil
}

// CheckCanSubmit runs the checks done before a student gets to type a submission.
func (svc *Service) CheckCanSubmit(ctx context.Context, caller user.User, assignmentID string) error {
	_, err := svc.checkCanSubmit(ctx, caller, core.CleanString(assignmentID))
	return err
}

func (svc *Service) checkCanSubmit(ctx context.Context, caller user.User, assignmentID string) (Assignment, error) {
	if !caller.IsStudent() {
		return Assignment{}, ErrNotStudent
	}
	asgmt, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Assignment{}, err
	}
	crs, err := svc.courseRepo.GetCourseByID(ctx, asgmt.CourseID)
	if err != nil {
		return Assignment{}, err
	}
	if !course.IsEnrolled(crs, caller.ID) {
		return Assignment{}, ErrNotEnrolled
	}
	if HasSubmitted(asgmt, caller.ID) {
		return Assignment{}, ErrAlreadySubmitted
	}
	return asgmt, nil
}

// Submit hands in caller's work. A student submits at most once per assignment.
func (svc *Service) Submit(ctx context.Context, caller user.User, assignmentID string, ns NewSubmission) error {
	assignmentID = core.CleanString(assignmentID)

	unlock := svc.locks.Lock(LockKey(assignmentID))
	defer unlock()

	if _, err := svc.checkCanSubmit(ctx, caller, assignmentID); err != nil {
		return err
	}
	if err := ns.Validate(svc.validate, svc.translator); err != nil {
		return err
	}

	// check again right before appending
	asgmt, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return err
	}
	if HasSubmitted(asgmt, caller.ID) {
		return ErrAlreadySubmitted
	}

	sub := Submission{
		StudentID:   caller.ID,
		Text:        ns.Text,
		Grade:       null.String{},
		SubmittedAt: NowFunc().UTC(),
	}
	if err = svc.repo.AddSubmission(ctx, assignmentID, sub); err != nil {
		if core.IsStorage(err) {
			svc.log.Error("submission not persisted", err, caller)
		}
		return err
	}
	svc.log.Info("assignment submitted", map[string]interface{}{"assignment": assignmentID}, caller)
	return nil
}

// Grade sets the grade of the submission at index. Blank grades are ignored.
// The last grade saved wins.
func (svc *Service) Grade(ctx context.Context, caller user.User, assignmentID string, index int, gradeText string) error {
	grade := core.SanitizeString(gradeText)
	if grade == "" {
		return nil
	}
	if !caller.IsInstructor() {
		return ErrNotInstructor
	}
	assignmentID = core.CleanString(assignmentID)

	unlock := svc.locks.Lock(LockKey(assignmentID))
	defer unlock()

	asgmt, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(asgmt.Submissions) {
		return ErrSubmissionNotFound
	}
	crs, err := svc.courseRepo.GetCourseByID(ctx, asgmt.CourseID)
	if err != nil {
		return err
	}
	if !course.IsOwnedBy(crs, caller.ID) {
		return course.ErrNotOwner
	}

	if err = svc.repo.SetGrade(ctx, assignmentID, index, grade); err != nil {
		if core.IsStorage(err) {
			svc.log.Error("grade not persisted", err, caller)
		}
		return err
	}
	svc.log.Info("submission graded", map[string]interface{}{"assignment": assignmentID, "index": index}, caller)
	return nil
}

// QueryVisible lists the assignments caller may see, optionally for a single course.
// Students only see assignments of the courses they are enrolled in.
func (svc *Service) QueryVisible(ctx context.Context, caller user.User, courseID string) ([]Assignment, error) {
	filter := QueryFilter{CourseID: core.CleanString(courseID)}
	if caller.IsStudent() {
		enrolled, err := svc.courseRepo.FilterCourses(ctx, course.QueryFilter{StudentID: caller.ID})
		if err != nil {
			return nil, errors.Wrap(err, "querying enrolled courses")
		}
		filter.CourseIDs = make([]string, 0, len(enrolled))
		for _, crs := range enrolled {
			filter.CourseIDs = append(filter.CourseIDs, crs.ID)
		}
	}
	if filter.CourseID == "" && filter.CourseIDs == nil {
		return svc.repo.QueryAllAssignments(ctx)
	}
	return svc.repo.FilterAssignments(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, core.CleanString(id))
}

// GetManaged returns the assignment if caller manages its course.
func (svc *Service) GetManaged(ctx context.Context, caller user.User, id string) (Assignment, error) {
	asgmt, err := svc.GetByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	crs, err := svc.courseRepo.GetCourseByID(ctx, asgmt.CourseID)
	if err != nil {
		return Assignment{}, err
	}
	if !course.IsOwnedBy(crs, caller.ID) {
		return Assignment{}, course.ErrNotOwner
	}
	return asgmt, nil
}
