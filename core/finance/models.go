package finance

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core"
)

// Payment is money received by the school, tied to either a student
// (fees) or a teacher (refunds, advances). At most one of the two is set.
type Payment struct {
	ID          string      `json:"id"`
	SchoolID    string      `json:"school_id"`
	StudentID   null.String `json:"student_id"`
	TeacherID   null.String `json:"teacher_id"`
	Amount      float64     `json:"amount"`
	Date        time.Time   `json:"date"`
	Description null.String `json:"description"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC
}

func (p Payment) TenantID() string { return p.SchoolID }

// Expense is money the school spends, optionally attributed to a
// student or teacher (salaries, event costs).
type Expense struct {
	ID          string      `json:"id"`
	SchoolID    string      `json:"school_id"`
	StudentID   null.String `json:"student_id"`
	TeacherID   null.String `json:"teacher_id"`
	Name        string      `json:"name"`
	Amount      float64     `json:"amount"`
	Date        time.Time   `json:"date"`
	Type        string      `json:"type"`
	Description null.String `json:"description"`
	Other       null.String `json:"other"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (e Expense) TenantID() string { return e.SchoolID }

type NewPayment struct {
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	Date        time.Time `json:"date" validate:"required"`
	StudentID   string    `json:"student_id"`
	TeacherID   string    `json:"teacher_id"`
	Description string    `json:"description"`
}

type NewExpense struct {
	Name        string    `json:"name" validate:"required"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	Date        time.Time `json:"date" validate:"required"`
	Type        string    `json:"type"`
	StudentID   string    `json:"student_id"`
	TeacherID   string    `json:"teacher_id"`
	Description string    `json:"description"`
	Other       string    `json:"other"`
}

func (ne *NewExpense) Clean() {
	ne.Name = core.CleanString(ne.Name)
	ne.Type = core.CleanString(ne.Type, true /* lower */)
}
