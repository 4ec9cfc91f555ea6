package school

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core"
)

// School is the tenant root: every other domain entity hangs off one.
type School struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Address     null.String `json:"address"`
	Phone       null.String `json:"phone"`
	Website     null.String `json:"website"`
	Logo        null.String `json:"logo"`
	Description null.String `json:"description"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC
}

// Setting is a per-school configuration entry.
type Setting struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Setting) TenantID() string { return s.SchoolID }

// Notice is a board-level announcement.
type Notice struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n Notice) TenantID() string { return n.SchoolID }

// NewSchool contains the registration payload: the school and its first
// admin account are created together.
type NewSchool struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
}

func (ns *NewSchool) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Address = core.CleanString(ns.Address)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Website = core.CleanString(ns.Website)
}

type UpdateSchool struct {
	Name        string `json:"name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
}

type NewSetting struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type NewNotice struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}
