package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-lms/core"
)

// IDPrefix starts every User ID.
const IDPrefix = "u"

type Role string

// Roles
const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

var AllRoles = []Role{RoleStudent, RoleInstructor}

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// User never changes once created.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u User) IsInstructor() bool {
	return u.Role == RoleInstructor
}

// FindByID looks up a User in users.
func FindByID(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name string `json:"name" validate:"required,min=2"`
	Role Role   `json:"role" validate:"required,role"`
}

// Validate cleans and sanitizes nu before validating it.
func (nu *NewUser) Validate(validate *validator.Validate, translator ut.Translator) error {
	name := core.CleanString(nu.Name)
	if name == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "name", Error: "please enter your name"})
	}
	nu.Name = core.SanitizeString(name)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))
	return core.ValidateStruct(validate, translator, nu)
}
