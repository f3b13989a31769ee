package course

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-lms/core"
)

// IDPrefix starts every Course ID.
const IDPrefix = "c"

type Course struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	InstructorID null.String `json:"instructorId"`
	Description  string      `json:"description"`
	Students     []string    `json:"students"` // User IDs, no duplicates
}

// Copy returns c with its own Students slice.
func (c Course) Copy() Course {
	students := make([]string, len(c.Students))
	copy(students, c.Students)
	c.Students = students
	return c
}

// IsEnrolled reports whether the student is in c.Students.
func IsEnrolled(c Course, studentID string) bool {
	for _, id := range c.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

// IsOwnedBy reports whether c is managed by the instructor.
func IsOwnedBy(c Course, instructorID string) bool {
	return c.InstructorID.Valid && c.InstructorID.String == instructorID
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
}

// Validate sanitizes nc before validating it.
func (nc *NewCourse) Validate(validate *validator.Validate, translator ut.Translator) error {
	nc.Title = core.SanitizeString(nc.Title)
	nc.Description = core.SanitizeString(nc.Description)
	return core.ValidateStruct(validate, translator, nc)
}

type QueryFilter struct {
	InstructorID string
	StudentID    string
}

func (qf QueryFilter) IsEmpty() bool {
	return qf.InstructorID == "" && qf.StudentID == ""
}

// Match applies AND on the set fields of qf.
func (qf QueryFilter) Match(c Course) bool {
	if qf.InstructorID != "" && !IsOwnedBy(c, qf.InstructorID) {
		return false
	}
	if qf.StudentID != "" && !IsEnrolled(c, qf.StudentID) {
		return false
	}
	return true
}
