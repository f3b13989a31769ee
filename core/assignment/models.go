package assignment

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-lms/core"
)

// IDPrefix starts every Assignment ID.
const IDPrefix = "a"

const (
	minSubmissionLen = 5
)

type Submission struct {
	StudentID   string      `json:"studentId"`
	Text        string      `json:"text"`
	Grade       null.String `json:"grade"`
	SubmittedAt time.Time   `json:"submittedAt"` // UTC
}

type Assignment struct {
	ID          string       `json:"id"`
	CourseID    string       `json:"courseId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     null.String  `json:"dueDate"` // YYYY-MM-DD
	Submissions []Submission `json:"submissions"`
}

// Copy returns a with its own Submissions slice.
func (a Assignment) Copy() Assignment {
	subs := make([]Submission, len(a.Submissions))
	copy(subs, a.Submissions)
	a.Submissions = subs
	return a
}

// SubmissionBy returns the student's Submission to a, if any.
func SubmissionBy(a Assignment, studentID string) (Submission, int, bool) {
	for idx, sub := range a.Submissions {
		if sub.StudentID == studentID {
			return sub, idx, true
		}
	}
	return Submission{}, -1, false
}

// HasSubmitted reports whether the student already submitted to a.
func HasSubmitted(a Assignment, studentID string) bool {
	_, _, ok := SubmissionBy(a, studentID)
	return ok
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	CourseID    string `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" validate:"omitempty,isodate"`
}

// Validate sanitizes na before validating it.
func (na *NewAssignment) Validate(validate *validator.Validate, translator ut.Translator) error {
	na.CourseID = core.CleanString(na.CourseID)
	na.Title = core.SanitizeString(na.Title)
	na.Description = core.SanitizeString(na.Description)
	na.DueDate = core.CleanString(na.DueDate)
	return core.ValidateStruct(validate, translator, na)
}

// NewSubmission contains the text a student hands in.
type NewSubmission struct {
	Text string `json:"text" validate:"required,min=5"`
}

// Validate sanitizes ns before validating it.
func (ns *NewSubmission) Validate(validate *validator.Validate, translator ut.Translator) error {
	text := core.CleanString(ns.Text)
	if text == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "text", Error: "please enter your submission"})
	}
	ns.Text = core.SanitizeString(text)
	if len([]rune(ns.Text)) < minSubmissionLen {
		return ErrTooShort
	}
	return core.ValidateStruct(validate, translator, ns)
}

type QueryFilter struct {
	CourseID  string
	CourseIDs []string // any of
}

// Match applies AND on the set fields of qf.
func (qf QueryFilter) Match(a Assignment) bool {
	if qf.CourseID != "" && a.CourseID != qf.CourseID {
		return false
	}
	if qf.CourseIDs != nil {
		for _, id := range qf.CourseIDs {
			if a.CourseID == id {
				return true
			}
		}
		return false
	}
	return true
}
