package academics

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core"
)

// Attendance types
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLeave   = "leave"
)

type Class struct {
	ID          string      `json:"id"`
	SchoolID    string      `json:"school_id"`
	Name        string      `json:"name"`
	Description null.String `json:"description"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC
}

func (c Class) TenantID() string { return c.SchoolID }

type Subject struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	ClassID   string    `json:"class_id"`
	TeacherID string    `json:"teacher_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Subject) TenantID() string { return s.SchoolID }

type Exam struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	SubjectID string    `json:"subject_id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e Exam) TenantID() string { return e.SchoolID }

type Result struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	ExamID    string    `json:"exam_id"`
	StudentID string    `json:"student_id"`
	Mark      float64   `json:"mark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Result) TenantID() string { return r.SchoolID }

// Attendance records one student's presence for one subject on one day,
// authored by the teacher who took it.
type Attendance struct {
	ID             string      `json:"id"`
	SchoolID       string      `json:"school_id"`
	StudentID      string      `json:"student_id"`
	SubjectID      string      `json:"subject_id"`
	TeacherID      string      `json:"teacher_id"`
	Date           time.Time   `json:"date"`
	AttendanceType string      `json:"attendance_type"`
	Description    null.String `json:"description"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (a Attendance) TenantID() string { return a.SchoolID }

// OwnerID is the authoring teacher: only they may change the record.
func (a Attendance) OwnerID() string { return a.TeacherID }

// Input payloads

type NewClass struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (nc *NewClass) Clean() { nc.Name = core.CleanString(nc.Name) }

type NewSubject struct {
	Name      string `json:"name" validate:"required"`
	Code      string `json:"code"`
	TeacherID string `json:"teacher_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
}

func (ns *NewSubject) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = core.CleanString(ns.Code)
}

type NewExam struct {
	Name      string    `json:"name" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	SubjectID string    `json:"subject_id" validate:"required"`
}

type NewResult struct {
	ExamID    string  `json:"exam_id" validate:"required"`
	StudentID string  `json:"student_id" validate:"required"`
	Mark      float64 `json:"mark" validate:"gte=0,lte=100"`
}

type NewAttendance struct {
	Date           time.Time `json:"date" validate:"required"`
	AttendanceType string    `json:"attendance_type" validate:"required,oneof=present absent leave"`
	Description    string    `json:"description"`
	StudentID      string    `json:"student_id" validate:"required"`
	SubjectID      string    `json:"subject_id" validate:"required"`
	// TeacherID of the taker. Ignored for teachers, who are always
	// recorded as the taker themselves.
	TeacherID string `json:"teacher_id"`
}

// UpdateAttendance: teachers may only correct the type and description.
type UpdateAttendance struct {
	AttendanceType string `json:"attendance_type" validate:"required,oneof=present absent leave"`
	Description    string `json:"description"`
}
