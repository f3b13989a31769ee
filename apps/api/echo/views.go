package echoapi

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/assignment"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

// Views are what the API renders: every free text field is HTML-escaped.

const (
	unknownCourse     = "Unknown"
	unknownStudent    = "Unknown student"
	unknownUser       = "Unknown"
	unknownInstructor = "Instructor"
	noInstructor      = "TBD"
)

type (
	successResponse struct {
		Success string `json:"success"`
	}

	sessionView struct {
		State   string    `json:"state"`
		User    *userView `json:"user,omitempty"`
		Warning string    `json:"warning,omitempty"`
	}

	userView struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	}

	courseView struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Description  string `json:"description"`
		Instructor   string `json:"instructor"`
		StudentCount int    `json:"studentCount"`
		Enrolled     bool   `json:"enrolled"`
		Owned        bool   `json:"owned"`
	}

	// courseDetailView is the course management view.
	courseDetailView struct {
		courseView
		Students []string `json:"students"` // names
	}

	assignmentView struct {
		ID              string      `json:"id"`
		CourseID        string      `json:"courseId"`
		CourseTitle     string      `json:"courseTitle"`
		Title           string      `json:"title"`
		Description     string      `json:"description"`
		DueDate         null.String `json:"dueDate"`
		SubmissionCount int         `json:"submissionCount"`
		Submitted       bool        `json:"submitted"`
	}

	submissionView struct {
		Index       int         `json:"index"`
		StudentID   string      `json:"studentId"`
		StudentName string      `json:"studentName"`
		Text        string      `json:"text"`
		Grade       null.String `json:"grade"`
		SubmittedAt time.Time   `json:"submittedAt"`
	}

	// gradingView is the assignment grading view.
	gradingView struct {
		Assignment  assignmentView   `json:"assignment"`
		Submissions []submissionView `json:"submissions"`
	}
)

func escapeNull(s null.String) null.String {
	if !s.Valid {
		return s
	}
	return null.StringFrom(core.EscapeHTML(s.String))
}

func userNames(users []user.User) map[string]string {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}

func newUserView(u user.User) *userView {
	return &userView{
		ID:   core.EscapeHTML(u.ID),
		Name: core.EscapeHTML(u.Name),
		Role: u.Role.String(),
	}
}

func newCourseView(c course.Course, viewer user.User, names map[string]string) courseView {
	instructor := noInstructor
	if c.InstructorID.Valid {
		instructor = unknownInstructor
		if name, ok := names[c.InstructorID.String]; ok {
			instructor = name
		}
	}
	return courseView{
		ID:           core.EscapeHTML(c.ID),
		Title:        core.EscapeHTML(c.Title),
		Description:  core.EscapeHTML(c.Description),
		Instructor:   core.EscapeHTML(instructor),
		StudentCount: len(c.Students),
		Enrolled:     viewer.IsStudent() && course.IsEnrolled(c, viewer.ID),
		Owned:        viewer.IsInstructor() && course.IsOwnedBy(c, viewer.ID),
	}
}

func newCourseDetailView(c course.Course, viewer user.User, names map[string]string) courseDetailView {
	students := make([]string, 0, len(c.Students))
	for _, id := range c.Students {
		name, ok := names[id]
		if !ok {
			name = unknownStudent
		}
		students = append(students, core.EscapeHTML(name))
	}
	return courseDetailView{
		courseView: newCourseView(c, viewer, names),
		Students:   students,
	}
}

func newAssignmentView(a assignment.Assignment, viewer user.User, courseTitles map[string]string) assignmentView {
	title, ok := courseTitles[a.CourseID]
	if !ok {
		title = unknownCourse
	}
	return assignmentView{
		ID:              core.EscapeHTML(a.ID),
		CourseID:        core.EscapeHTML(a.CourseID),
		CourseTitle:     core.EscapeHTML(title),
		Title:           core.EscapeHTML(a.Title),
		Description:     core.EscapeHTML(a.Description),
		DueDate:         escapeNull(a.DueDate),
		SubmissionCount: len(a.Submissions),
		Submitted:       viewer.IsStudent() && assignment.HasSubmitted(a, viewer.ID),
	}
}

func newGradingView(a assignment.Assignment, crs course.Course, viewer user.User, names map[string]string) gradingView {
	subs := make([]submissionView, 0, len(a.Submissions))
	for idx, sub := range a.Submissions {
		name, ok := names[sub.StudentID]
		if !ok {
			name = unknownUser
		}
		subs = append(subs, submissionView{
			Index:       idx,
			StudentID:   core.EscapeHTML(sub.StudentID),
			StudentName: core.EscapeHTML(name),
			Text:        core.EscapeHTML(sub.Text),
			Grade:       escapeNull(sub.Grade),
			SubmittedAt: sub.SubmittedAt,
		})
	}
	return gradingView{
		Assignment:  newAssignmentView(a, viewer, map[string]string{crs.ID: crs.Title}),
		Submissions: subs,
	}
}
