package activity

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core"
)

// Event is a calendar entry shown on a student's or teacher's timetable.
// Styling fields are passed through to the frontend calendar as-is.
type Event struct {
	ID              string      `json:"id"`
	SchoolID        string      `json:"school_id"`
	SubjectID       null.String `json:"subject_id"`
	TeacherID       null.String `json:"teacher_id"`
	StudentID       null.String `json:"student_id"`
	Title           string      `json:"title"`
	Start           time.Time   `json:"start"`
	End             time.Time   `json:"end"`
	AllDay          bool        `json:"all_day"`
	URL             null.String `json:"url"`
	ClassName       null.String `json:"class_name"`
	BackgroundColor null.String `json:"background_color"`
	BorderColor     null.String `json:"border_color"`
	TextColor       null.String `json:"text_color"`
	Image           null.String `json:"image"`
	Description     null.String `json:"description"`
	CreatedAt       time.Time   `json:"created_at"` // UTC
	UpdatedAt       time.Time   `json:"updated_at"` // UTC
}

func (e Event) TenantID() string { return e.SchoolID }

// Message is a contact-form submission tied to the user who sent it.
type Message struct {
	ID        string      `json:"id"`
	SchoolID  string      `json:"school_id"`
	UserID    string      `json:"user_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     null.String `json:"phone"`
	Content   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (m Message) TenantID() string { return m.SchoolID }

// OwnerID is the sender: only they may edit or delete the message.
func (m Message) OwnerID() string { return m.UserID }

type NewEvent struct {
	Title           string    `json:"title" validate:"required"`
	Start           time.Time `json:"start" validate:"required"`
	End             time.Time `json:"end" validate:"required"`
	AllDay          bool      `json:"all_day"`
	URL             string    `json:"url"`
	ClassName       string    `json:"class_name"`
	BackgroundColor string    `json:"background_color"`
	BorderColor     string    `json:"border_color"`
	TextColor       string    `json:"text_color"`
	Image           string    `json:"image"`
	Description     string    `json:"description"`
	SubjectID       string    `json:"subject_id"`
	TeacherID       string    `json:"teacher_id"`
	StudentID       string    `json:"student_id"`
}

func (ne *NewEvent) Clean() { ne.Title = core.CleanString(ne.Title) }

type NewMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Content string `json:"message" validate:"required"`
}

func (nm *NewMessage) Clean() {
	nm.Name = core.CleanString(nm.Name)
	nm.Email = core.CleanString(nm.Email, true /* lower */)
}
