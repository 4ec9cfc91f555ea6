package roster

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core"
)

// Genders
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Student is the school-facing profile of a user with the student role.
// The backing user record carries the credentials; Student carries the rest.
type Student struct {
	ID        string      `json:"id"`
	SchoolID  string      `json:"school_id"`
	UserID    string      `json:"user_id"`
	FirstName string      `json:"firstname"`
	LastName  string      `json:"lastname"`
	Gender    string      `json:"gender"`
	Email     string      `json:"email"`
	Phone     null.String `json:"phone"`
	Address   null.String `json:"address"`
	Image     null.String `json:"image"`
	CreatedAt time.Time   `json:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at"` // UTC
}

func (s Student) TenantID() string { return s.SchoolID }

// Teacher is the school-facing profile of a user with the teacher role.
type Teacher struct {
	ID        string      `json:"id"`
	SchoolID  string      `json:"school_id"`
	UserID    string      `json:"user_id"`
	FirstName string      `json:"firstname"`
	LastName  string      `json:"lastname"`
	Gender    string      `json:"gender"`
	Email     string      `json:"email"`
	Phone     null.String `json:"phone"`
	Address   null.String `json:"address"`
	Image     null.String `json:"image"`
	CreatedAt time.Time   `json:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at"` // UTC
}

func (t Teacher) TenantID() string { return t.SchoolID }

// NewProfile contains the information needed to enroll a student or teacher;
// the backing user account is created alongside the profile.
type NewProfile struct {
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Image     string `json:"image"`
}

func (np *NewProfile) Clean() {
	np.FirstName = core.CleanString(np.FirstName)
	np.LastName = core.CleanString(np.LastName)
	np.Email = core.CleanString(np.Email, true /* lower */)
	np.Phone = core.CleanString(np.Phone)
	np.Address = core.CleanString(np.Address)
}

// UpdateProfile defines what may be modified on an existing profile.
type UpdateProfile struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Image     string `json:"image"`
}
