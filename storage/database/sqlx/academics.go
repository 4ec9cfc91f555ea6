package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core/academics"
)

type classRow struct {
	ID          string      `db:"id"`
	SchoolID    string      `db:"school_id"`
	Name        string      `db:"name"`
	Description null.String `db:"description"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r classRow) unpack() academics.Class { return academics.Class(r) }

type subjectRow struct {
	ID        string    `db:"id"`
	SchoolID  string    `db:"school_id"`
	ClassID   string    `db:"class_id"`
	TeacherID string    `db:"teacher_id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r subjectRow) unpack() academics.Subject { return academics.Subject(r) }

type examRow struct {
	ID        string    `db:"id"`
	SchoolID  string    `db:"school_id"`
	SubjectID string    `db:"subject_id"`
	Name      string    `db:"name"`
	Date      time.Time `db:"date"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r examRow) unpack() academics.Exam { return academics.Exam(r) }

type resultRow struct {
	ID        string    `db:"id"`
	SchoolID  string    `db:"school_id"`
	ExamID    string    `db:"exam_id"`
	StudentID string    `db:"student_id"`
	Mark      float64   `db:"mark"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r resultRow) unpack() academics.Result { return academics.Result(r) }

type attendanceRow struct {
	ID             string      `db:"id"`
	SchoolID       string      `db:"school_id"`
	StudentID      string      `db:"student_id"`
	SubjectID      string      `db:"subject_id"`
	TeacherID      string      `db:"teacher_id"`
	Date           time.Time   `db:"date"`
	AttendanceType string      `db:"attendance_type"`
	Description    null.String `db:"description"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (r attendanceRow) unpack() academics.Attendance { return academics.Attendance(r) }

type academicsRepository struct {
	db *sqlx.DB
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *sqlx.DB) *academicsRepository {
	return &academicsRepository{db: db}
}

func (repo academicsRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return academics.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// Classes

func (repo academicsRepository) CreateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	cls.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO class (id, school_id, name, description, created_at, updated_at)
		VALUES (:id, :school_id, :name, :description, :created_at, :updated_at)`, classRow(cls))
	if err != nil {
		return academics.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo academicsRepository) GetClassByID(ctx context.Context, id string) (academics.Class, error) {
	var row classRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM class WHERE id = $1`, id); err != nil {
		return academics.Class{}, repo.trapNoRowsErr(err, "getting class")
	}
	return row.unpack(), nil
}

func (repo academicsRepository) QueryClassesBySchool(ctx context.Context, schoolID string) ([]academics.Class, error) {
	var rows []classRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM class WHERE school_id = $1 ORDER BY name`, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]academics.Class, 0, len(rows))
	for _, r := range rows {
		classes = append(classes, r.unpack())
	}
	return classes, nil
}

func (repo academicsRepository) UpdateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE class SET name = :name, description = :description, updated_at = :updated_at
		WHERE id = :id`, classRow(cls))
	if err != nil {
		return academics.Class{}, errors.Wrap(err, "updating class")
	}
	return cls, nil
}

func (repo academicsRepository) DeleteClass(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM class WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return nil
}

// Subjects

func (repo academicsRepository) CreateSubject(ctx context.Context, sub academics.Subject) (academics.Subject, error) {
	sub.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO subject (id, school_id, class_id, teacher_id, name, code, created_at, updated_at)
		VALUES (:id, :school_id, :class_id, :teacher_id, :name, :code, :created_at, :updated_at)`, subjectRow(sub))
	if err != nil {
		return academics.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return sub, nil
}

func (repo academicsRepository) GetSubjectByID(ctx context.Context, id string) (academics.Subject, error) {
	var row subjectRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM subject WHERE id = $1`, id); err != nil {
		return academics.Subject{}, repo.trapNoRowsErr(err, "getting subject")
	}
	return row.unpack(), nil
}

func (repo academicsRepository) QuerySubjectsBySchool(ctx context.Context, schoolID string) ([]academics.Subject, error) {
	var rows []subjectRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM subject WHERE school_id = $1 ORDER BY name`, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]academics.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.unpack())
	}
	return subjects, nil
}

func (repo academicsRepository) UpdateSubject(ctx context.Context, sub academics.Subject) (academics.Subject, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE subject
		SET name = :name, code = :code, class_id = :class_id, teacher_id = :teacher_id, updated_at = :updated_at
		WHERE id = :id`, subjectRow(sub))
	if err != nil {
		return academics.Subject{}, errors.Wrap(err, "updating subject")
	}
	return sub, nil
}

func (repo academicsRepository) DeleteSubject(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM subject WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return nil
}

// Exams

func (repo academicsRepository) CreateExam(ctx context.Context, exm academics.Exam) (academics.Exam, error) {
	exm.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO exam (id, school_id, subject_id, name, date, created_at, updated_at)
		VALUES (:id, :school_id, :subject_id, :name, :date, :created_at, :updated_at)`, examRow(exm))
	if err != nil {
		return academics.Exam{}, errors.Wrap(err, "inserting exam")
	}
	return exm, nil
}

func (repo academicsRepository) GetExamByID(ctx context.Context, id string) (academics.Exam, error) {
	var row examRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM exam WHERE id = $1`, id); err != nil {
		return academics.Exam{}, repo.trapNoRowsErr(err, "getting exam")
	}
	return row.unpack(), nil
}

func (repo academicsRepository) QueryExamsBySchool(ctx context.Context, schoolID string) ([]academics.Exam, error) {
	var rows []examRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM exam WHERE school_id = $1 ORDER BY date DESC`, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "querying exams")
	}
	exams := make([]academics.Exam, 0, len(rows))
	for _, r := range rows {
		exams = append(exams, r.unpack())
	}
	return exams, nil
}

func (repo academicsRepository) UpdateExam(ctx context.Context, exm academics.Exam) (academics.Exam, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE exam SET name = :name, date = :date, subject_id = :subject_id, updated_at = :updated_at
		WHERE id = :id`, examRow(exm))
	if err != nil {
		return academics.Exam{}, errors.Wrap(err, "updating exam")
	}
	return exm, nil
}

func (repo academicsRepository) DeleteExam(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM exam WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting exam")
	}
	return nil
}

// Results

func (repo academicsRepository) CreateResult(ctx context.Context, res academics.Result) (academics.Result, error) {
	res.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO result (id, school_id, exam_id, student_id, mark, created_at, updated_at)
		VALUES (:id, :school_id, :exam_id, :student_id, :mark, :created_at, :updated_at)`, resultRow(res))
	if err != nil {
		return academics.Result{}, errors.Wrap(err, "inserting result")
	}
	return res, nil
}

func (repo academicsRepository) GetResultByID(ctx context.Context, id string) (academics.Result, error) {
	var row resultRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM result WHERE id = $1`, id); err != nil {
		return academics.Result{}, repo.trapNoRowsErr(err, "getting result")
	}
	return row.unpack(), nil
}

func (repo academicsRepository) queryResults(ctx context.Context, query string, args ...interface{}) ([]academics.Result, error) {
	var rows []resultRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	results := make([]academics.Result, 0, len(rows))
	for _, r := range rows {
		results = append(results, r.unpack())
	}
	return results, nil
}

func (repo academicsRepository) QueryResultsBySchool(ctx context.Context, schoolID string) ([]academics.Result, error) {
	return repo.queryResults(ctx, `SELECT * FROM result WHERE school_id = $1 ORDER BY created_at DESC`, schoolID)
}

func (repo academicsRepository) QueryResultsOfStudent(ctx context.Context, studentID string) ([]academics.Result, error) {
	return repo.queryResults(ctx, `SELECT * FROM result WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
}

func (repo academicsRepository) QueryResultsOfTeacher(ctx context.Context, teacherID, schoolID string) ([]academics.Result, error) {
	return repo.queryResults(ctx, `
		SELECT r.*
		FROM result r
		JOIN exam e ON e.id = r.exam_id
		JOIN subject s ON s.id = e.subject_id
		WHERE s.teacher_id = $1 AND r.school_id = $2
		ORDER BY r.created_at DESC`, teacherID, schoolID)
}

func (repo academicsRepository) UpdateResult(ctx context.Context, res academics.Result) (academics.Result, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE result SET mark = :mark, exam_id = :exam_id, student_id = :student_id, updated_at = :updated_at
		WHERE id = :id`, resultRow(res))
	if err != nil {
		return academics.Result{}, errors.Wrap(err, "updating result")
	}
	return res, nil
}

func (repo academicsRepository) DeleteResult(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM result WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting result")
	}
	return nil
}

// Attendance

func (repo academicsRepository) CreateAttendance(ctx context.Context, att academics.Attendance) (academics.Attendance, error) {
	att.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO attendance (id, school_id, student_id, subject_id, teacher_id, date, attendance_type, description, created_at, updated_at)
		VALUES (:id, :school_id, :student_id, :subject_id, :teacher_id, :date, :attendance_type, :description, :created_at, :updated_at)`,
		attendanceRow(att))
	if err != nil {
		return academics.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return att, nil
}

func (repo academicsRepository) GetAttendanceByID(ctx context.Context, id string) (academics.Attendance, error) {
	var row attendanceRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM attendance WHERE id = $1`, id); err != nil {
		return academics.Attendance{}, repo.trapNoRowsErr(err, "getting attendance")
	}
	return row.unpack(), nil
}

func (repo academicsRepository) queryAttendance(ctx context.Context, query string, args ...interface{}) ([]academics.Attendance, error) {
	var rows []attendanceRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	records := make([]academics.Attendance, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.unpack())
	}
	return records, nil
}

func (repo academicsRepository) QueryAttendanceBySchool(ctx context.Context, schoolID string) ([]academics.Attendance, error) {
	return repo.queryAttendance(ctx, `SELECT * FROM attendance WHERE school_id = $1 ORDER BY date DESC`, schoolID)
}

func (repo academicsRepository) QueryAttendanceOfStudent(ctx context.Context, studentID string) ([]academics.Attendance, error) {
	return repo.queryAttendance(ctx, `SELECT * FROM attendance WHERE student_id = $1 ORDER BY date DESC`, studentID)
}

func (repo academicsRepository) UpdateAttendance(ctx context.Context, att academics.Attendance) (academics.Attendance, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE attendance SET attendance_type = :attendance_type, description = :description, updated_at = :updated_at
		WHERE id = :id`, attendanceRow(att))
	if err != nil {
		return academics.Attendance{}, errors.Wrap(err, "updating attendance")
	}
	return att, nil
}

func (repo academicsRepository) DeleteAttendance(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return nil
}
