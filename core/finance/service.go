package finance

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		CreatePayment(ctx context.Context, pmt Payment) (Payment, error)
		GetPaymentByID(ctx context.Context, id string) (Payment, error)
		QueryPaymentsBySchool(ctx context.Context, schoolID string) ([]Payment, error)
		UpdatePayment(ctx context.Context, pmt Payment) (Payment, error)
		DeletePayment(ctx context.Context, id string) error

		CreateExpense(ctx context.Context, exp Expense) (Expense, error)
		GetExpenseByID(ctx context.Context, id string) (Expense, error)
		QueryExpensesBySchool(ctx context.Context, schoolID string) ([]Expense, error)
		UpdateExpense(ctx context.Context, exp Expense) (Expense, error)
		DeleteExpense(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Payments

func (svc *Service) CreatePayment(ctx context.Context, schoolID string, np NewPayment) (Payment, error) {
	now := time.Now().UTC()
	return svc.repo.CreatePayment(ctx, Payment{
		SchoolID:    schoolID,
		StudentID:   null.NewString(np.StudentID, np.StudentID != ""),
		TeacherID:   null.NewString(np.TeacherID, np.TeacherID != ""),
		Amount:      np.Amount,
		Date:        np.Date,
		Description: null.NewString(np.Description, np.Description != ""),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) GetPaymentByID(ctx context.Context, id string) (Payment, error) {
	return svc.repo.GetPaymentByID(ctx, id)
}

func (svc *Service) QueryPaymentsBySchool(ctx context.Context, schoolID string) ([]Payment, error) {
	return svc.repo.QueryPaymentsBySchool(ctx, schoolID)
}

func (svc *Service) UpdatePayment(ctx context.Context, id string, np NewPayment) (Payment, error) {
	pmt, err := svc.repo.GetPaymentByID(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	pmt.Amount = np.Amount
	pmt.Date = np.Date
	pmt.StudentID = null.NewString(np.StudentID, np.StudentID != "")
	pmt.TeacherID = null.NewString(np.TeacherID, np.TeacherID != "")
	if np.Description != "" {
		pmt.Description = null.StringFrom(np.Description)
	}
	pmt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdatePayment(ctx, pmt)
}

func (svc *Service) DeletePayment(ctx context.Context, id string) error {
	return svc.repo.DeletePayment(ctx, id)
}

// Expenses

func (svc *Service) CreateExpense(ctx context.Context, schoolID string, ne NewExpense) (Expense, error) {
	ne.Clean()
	now := time.Now().UTC()
	return svc.repo.CreateExpense(ctx, Expense{
		SchoolID:    schoolID,
		StudentID:   null.NewString(ne.StudentID, ne.StudentID != ""),
		TeacherID:   null.NewString(ne.TeacherID, ne.TeacherID != ""),
		Name:        ne.Name,
		Amount:      ne.Amount,
		Date:        ne.Date,
		Type:        ne.Type,
		Description: null.NewString(ne.Description, ne.Description != ""),
		Other:       null.NewString(ne.Other, ne.Other != ""),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) GetExpenseByID(ctx context.Context, id string) (Expense, error) {
	return svc.repo.GetExpenseByID(ctx, id)
}

func (svc *Service) QueryExpensesBySchool(ctx context.Context, schoolID string) ([]Expense, error) {
	return svc.repo.QueryExpensesBySchool(ctx, schoolID)
}

func (svc *Service) UpdateExpense(ctx context.Context, id string, ne NewExpense) (Expense, error) {
	exp, err := svc.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	ne.Clean()
	exp.Name = ne.Name
	exp.Amount = ne.Amount
	exp.Date = ne.Date
	exp.Type = ne.Type
	exp.StudentID = null.NewString(ne.StudentID, ne.StudentID != "")
	exp.TeacherID = null.NewString(ne.TeacherID, ne.TeacherID != "")
	if ne.Description != "" {
		exp.Description = null.StringFrom(ne.Description)
	}
	if ne.Other != "" {
		exp.Other = null.StringFrom(ne.Other)
	}
	exp.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateExpense(ctx, exp)
}

func (svc *Service) DeleteExpense(ctx context.Context, id string) error {
	return svc.repo.DeleteExpense(ctx, id)
}
