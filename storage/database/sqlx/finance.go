package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core/finance"
)

type paymentRow struct {
	ID          string      `db:"id"`
	SchoolID    string      `db:"school_id"`
	StudentID   null.String `db:"student_id"`
	TeacherID   null.String `db:"teacher_id"`
	Amount      float64     `db:"amount"`
	Date        time.Time   `db:"date"`
	Description null.String `db:"description"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r paymentRow) unpack() finance.Payment { return finance.Payment(r) }

type expenseRow struct {
	ID          string      `db:"id"`
	SchoolID    string      `db:"school_id"`
	StudentID   null.String `db:"student_id"`
	TeacherID   null.String `db:"teacher_id"`
	Name        string      `db:"name"`
	Amount      float64     `db:"amount"`
	Date        time.Time   `db:"date"`
	Type        string      `db:"type"`
	Description null.String `db:"description"`
	Other       null.String `db:"other"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r expenseRow) unpack() finance.Expense { return finance.Expense(r) }

type financeRepository struct {
	db *sqlx.DB
}

var _ finance.Repository = (*financeRepository)(nil) // interface compliance check

func NewFinanceRepository(db *sqlx.DB) *financeRepository {
	return &financeRepository{db: db}
}

func (repo financeRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return finance.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// Payments

func (repo financeRepository) CreatePayment(ctx context.Context, pmt finance.Payment) (finance.Payment, error) {
	pmt.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO payment (id, school_id, student_id, teacher_id, amount, date, description, created_at, updated_at)
		VALUES (:id, :school_id, :student_id, :teacher_id, :amount, :date, :description, :created_at, :updated_at)`,
		paymentRow(pmt))
	if err != nil {
		return finance.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return pmt, nil
}

func (repo financeRepository) GetPaymentByID(ctx context.Context, id string) (finance.Payment, error) {
	var row paymentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM payment WHERE id = $1`, id); err != nil {
		return finance.Payment{}, repo.trapNoRowsErr(err, "getting payment")
	}
	return row.unpack(), nil
}

func (repo financeRepository) QueryPaymentsBySchool(ctx context.Context, schoolID string) ([]finance.Payment, error) {
	var rows []paymentRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM payment WHERE school_id = $1 ORDER BY date DESC`, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	payments := make([]finance.Payment, 0, len(rows))
	for _, r := range rows {
		payments = append(payments, r.unpack())
	}
	return payments, nil
}

func (repo financeRepository) UpdatePayment(ctx context.Context, pmt finance.Payment) (finance.Payment, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE payment
		SET amount = :amount, date = :date, student_id = :student_id, teacher_id = :teacher_id,
		    description = :description, updated_at = :updated_at
		WHERE id = :id`, paymentRow(pmt))
	if err != nil {
		return finance.Payment{}, errors.Wrap(err, "updating payment")
	}
	return pmt, nil
}

func (repo financeRepository) DeletePayment(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM payment WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting payment")
	}
	return nil
}

// Expenses

func (repo financeRepository) CreateExpense(ctx context.Context, exp finance.Expense) (finance.Expense, error) {
	exp.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO expense (id, school_id, student_id, teacher_id, name, amount, date, type, description, other, created_at, updated_at)
		VALUES (:id, :school_id, :student_id, :teacher_id, :name, :amount, :date, :type, :description, :other, :created_at, :updated_at)`,
		expenseRow(exp))
	if err != nil {
		return finance.Expense{}, errors.Wrap(err, "inserting expense")
	}
	return exp, nil
}

func (repo financeRepository) GetExpenseByID(ctx context.Context, id string) (finance.Expense, error) {
	var row expenseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM expense WHERE id = $1`, id); err != nil {
		return finance.Expense{}, repo.trapNoRowsErr(err, "getting expense")
	}
	return row.unpack(), nil
}

func (repo financeRepository) QueryExpensesBySchool(ctx context.Context, schoolID string) ([]finance.Expense, error) {
	var rows []expenseRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM expense WHERE school_id = $1 ORDER BY date DESC`, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "querying expenses")
	}
	expenses := make([]finance.Expense, 0, len(rows))
	for _, r := range rows {
		expenses = append(expenses, r.unpack())
	}
	return expenses, nil
}

func (repo financeRepository) UpdateExpense(ctx context.Context, exp finance.Expense) (finance.Expense, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE expense
		SET name = :name, amount = :amount, date = :date, type = :type, student_id = :student_id,
		    teacher_id = :teacher_id, description = :description, other = :other, updated_at = :updated_at
		WHERE id = :id`, expenseRow(exp))
	if err != nil {
		return finance.Expense{}, errors.Wrap(err, "updating expense")
	}
	return exp, nil
}

func (repo financeRepository) DeleteExpense(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM expense WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting expense")
	}
	return nil
}
