package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core/roster"
)

// profileRow covers both students and teachers; the two tables share a shape.
type profileRow struct {
	ID        string      `db:"id"`
	SchoolID  string      `db:"school_id"`
	UserID    string      `db:"user_id"`
	FirstName string      `db:"first_name"`
	LastName  string      `db:"last_name"`
	Gender    string      `db:"gender"`
	Email     string      `db:"email"`
	Phone     null.String `db:"phone"`
	Address   null.String `db:"address"`
	Image     null.String `db:"image"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r profileRow) student() roster.Student { return roster.Student(r) }
func (r profileRow) teacher() roster.Teacher { return roster.Teacher(r) }

type rosterRepository struct {
	db *sqlx.DB
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *sqlx.DB) *rosterRepository {
	return &rosterRepository{db: db}
}

func (repo rosterRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return roster.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// Students

func (repo rosterRepository) CreateStudent(ctx context.Context, std roster.Student) (roster.Student, error) {
	std.ID = uuid.New().String()
	q := `INSERT INTO student (id, school_id, user_id, first_name, last_name, gender, email, phone, address, image, created_at, updated_at)
	VALUES (:id, :school_id, :user_id, :first_name, :last_name, :gender, :email, :phone, :address, :image, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, profileRow(std)); err != nil {
		return roster.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo rosterRepository) GetStudentByID(ctx context.Context, id string) (roster.Student, error) {
	var row profileRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return roster.Student{}, repo.trapNoRowsErr(err, "getting student")
	}
	return row.student(), nil
}

func (repo rosterRepository) GetStudentByUserID(ctx context.Context, userID string) (roster.Student, error) {
	var row profileRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE user_id = $1`, userID); err != nil {
		return roster.Student{}, repo.trapNoRowsErr(err, "getting student")
	}
	return row.student(), nil
}

func (repo rosterRepository) QueryStudentsBySchool(ctx context.Context, schoolID string) ([]roster.Student, error) {
	var rows []profileRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM student WHERE school_id = $1 ORDER BY first_name, last_name`, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]roster.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}

// QueryStudentsOfTeacher returns the distinct students appearing in the
// teacher's attendance records.
func (repo rosterRepository) QueryStudentsOfTeacher(ctx context.Context, teacherID, schoolID string) ([]roster.Student, error) {
	var rows []profileRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT DISTINCT s.*
		FROM student s
		JOIN attendance a ON a.student_id = s.id
		WHERE a.teacher_id = $1 AND s.school_id = $2
		ORDER BY s.first_name, s.last_name`, teacherID, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "querying teacher's students")
	}
	students := make([]roster.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}

func (repo rosterRepository) UpdateStudent(ctx context.Context, std roster.Student) (roster.Student, error) {
	q := `UPDATE student
	SET first_name = :first_name, last_name = :last_name, gender = :gender, email = :email,
	    phone = :phone, address = :address, image = :image, updated_at = :updated_at
	WHERE id = :id`
	if _, err := repo.db.NamedExecContext(ctx, q, profileRow(std)); err != nil {
		return roster.Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

func (repo rosterRepository) DeleteStudent(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}

// Teachers

func (repo rosterRepository) CreateTeacher(ctx context.Context, tch roster.Teacher) (roster.Teacher, error) {
	tch.ID = uuid.New().String()
	q := `INSERT INTO teacher (id, school_id, user_id, first_name, last_name, gender, email, phone, address, image, created_at, updated_at)
	VALUES (:id, :school_id, :user_id, :first_name, :last_name, :gender, :email, :phone, :address, :image, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, profileRow(tch)); err != nil {
		return roster.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

func (repo rosterRepository) GetTeacherByID(ctx context.Context, id string) (roster.Teacher, error) {
	var row profileRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM teacher WHERE id = $1`, id); err != nil {
		return roster.Teacher{}, repo.trapNoRowsErr(err, "getting teacher")
	}
	return row.teacher(), nil
}

func (repo rosterRepository) GetTeacherByUserID(ctx context.Context, userID string) (roster.Teacher, error) {
	var row profileRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM teacher WHERE user_id = $1`, userID); err != nil {
		return roster.Teacher{}, repo.trapNoRowsErr(err, "getting teacher")
	}
	return row.teacher(), nil
}

func (repo rosterRepository) QueryTeachersBySchool(ctx context.Context, schoolID string) ([]roster.Teacher, error) {
	var rows []profileRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM teacher WHERE school_id = $1 ORDER BY first_name, last_name`, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]roster.Teacher, 0, len(rows))
	for _, r := range rows {
		teachers = append(teachers, r.teacher())
	}
	return teachers, nil
}

func (repo rosterRepository) UpdateTeacher(ctx context.Context, tch roster.Teacher) (roster.Teacher, error) {
	q := `UPDATE teacher
	SET first_name = :first_name, last_name = :last_name, gender = :gender, email = :email,
	    phone = :phone, address = :address, image = :image, updated_at = :updated_at
	WHERE id = :id`
	if _, err := repo.db.NamedExecContext(ctx, q, profileRow(tch)); err != nil {
		return roster.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return tch, nil
}

func (repo rosterRepository) DeleteTeacher(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM teacher WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return nil
}
