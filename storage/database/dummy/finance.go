package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasadev/darasa/core/finance"
)

type financeRepository struct {
	payments *paymentTable
	expenses *expenseTable
}

var _ finance.Repository = (*financeRepository)(nil) // interface compliance check

func NewFinanceRepository(db *DB) *financeRepository {
	return &financeRepository{
		payments: db.payment,
		expenses: db.expense,
	}
}

// Payments

func (repo *financeRepository) CreatePayment(ctx context.Context, pmt finance.Payment) (finance.Payment, error) {
	repo.payments.Lock()
	defer repo.payments.Unlock()

	pmt.ID = uuid.New().String()
	repo.payments.table[pmt.ID] = &pmt
	return pmt, nil
}

func (repo *financeRepository) GetPaymentByID(ctx context.Context, id string) (finance.Payment, error) {
	repo.payments.RLock()
	defer repo.payments.RUnlock()

	if pmt, ok := repo.payments.table[id]; ok {
		return *pmt, nil
	}
	return finance.Payment{}, finance.ErrNotFound
}

func (repo *financeRepository) QueryPaymentsBySchool(ctx context.Context, schoolID string) ([]finance.Payment, error) {
	repo.payments.RLock()
	defer repo.payments.RUnlock()

	payments := make([]finance.Payment, 0)
	for _, pmt := range repo.payments.table {
		if pmt.SchoolID == schoolID {
			payments = append(payments, *pmt)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].Date.After(payments[j].Date) })
	return payments, nil
}

func (repo *financeRepository) UpdatePayment(ctx context.Context, pmt finance.Payment) (finance.Payment, error) {
	repo.payments.Lock()
	defer repo.payments.Unlock()

	if _, ok := repo.payments.table[pmt.ID]; !ok {
		return finance.Payment{}, finance.ErrNotFound
	}
	repo.payments.table[pmt.ID] = &pmt
	return pmt, nil
}

func (repo *financeRepository) DeletePayment(ctx context.Context, id string) error {
	repo.payments.Lock()
	defer repo.payments.Unlock()

	delete(repo.payments.table, id)
	return nil
}

// Expenses

func (repo *financeRepository) CreateExpense(ctx context.Context, exp finance.Expense) (finance.Expense, error) {
	repo.expenses.Lock()
	defer repo.expenses.Unlock()

	exp.ID = uuid.New().String()
	repo.expenses.table[exp.ID] = &exp
	return exp, nil
}

func (repo *financeRepository) GetExpenseByID(ctx context.Context, id string) (finance.Expense, error) {
	repo.expenses.RLock()
	defer repo.expenses.RUnlock()

	if exp, ok := repo.expenses.table[id]; ok {
		return *exp, nil
	}
	return finance.Expense{}, finance.ErrNotFound
}

func (repo *financeRepository) QueryExpensesBySchool(ctx context.Context, schoolID string) ([]finance.Expense, error) {
	repo.expenses.RLock()
	defer repo.expenses.RUnlock()

	expenses := make([]finance.Expense, 0)
	for _, exp := range repo.expenses.table {
		if exp.SchoolID == schoolID {
			expenses = append(expenses, *exp)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.After(expenses[j].Date) })
	return expenses, nil
}

func (repo *financeRepository) UpdateExpense(ctx context.Context, exp finance.Expense) (finance.Expense, error) {
	repo.expenses.Lock()
	defer repo.expenses.Unlock()

	if _, ok := repo.expenses.table[exp.ID]; !ok {
		return finance.Expense{}, finance.ErrNotFound
	}
	repo.expenses.table[exp.ID] = &exp
	return exp, nil
}

func (repo *financeRepository) DeleteExpense(ctx context.Context, id string) error {
	repo.expenses.Lock()
	defer repo.expenses.Unlock()

	delete(repo.expenses.table, id)
	return nil
}
