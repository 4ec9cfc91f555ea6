package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core/school"
)

type schoolRow struct {
	ID          string      `db:"id"`
	Name        string      `db:"name"`
	Email       string      `db:"email"`
	Address     null.String `db:"address"`
	Phone       null.String `db:"phone"`
	Website     null.String `db:"website"`
	Logo        null.String `db:"logo"`
	Description null.String `db:"description"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r schoolRow) unpack() school.School { return school.School(r) }

func packSchool(sch school.School) schoolRow {
	sch.CreatedAt = sch.CreatedAt.UTC()
	sch.UpdatedAt = sch.UpdatedAt.UTC()
	return schoolRow(sch)
}

type settingRow struct {
	ID        string    `db:"id"`
	SchoolID  string    `db:"school_id"`
	Name      string    `db:"name"`
	Value     string    `db:"value"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r settingRow) unpack() school.Setting { return school.Setting(r) }

type noticeRow struct {
	ID        string    `db:"id"`
	SchoolID  string    `db:"school_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r noticeRow) unpack() school.Notice { return school.Notice(r) }

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo schoolRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return school.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// Schools

func (repo schoolRepository) CheckNameUniqueness(ctx context.Context, name string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM school WHERE name = $1)`, name)
	if err != nil {
		return errors.Wrap(err, "checking school uniqueness")
	}
	if exists {
		return school.ErrNameExists
	}
	return nil
}

func (repo schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	sch.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO school (id, name, email, address, phone, website, logo, description, created_at, updated_at)
		VALUES (:id, :name, :email, :address, :phone, :website, :logo, :description, :created_at, :updated_at)`,
		packSchool(sch))
	if err != nil {
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	return sch, nil
}

func (repo schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	var row schoolRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM school WHERE id = $1`, id); err != nil {
		return school.School{}, repo.trapNoRowsErr(err, "getting school")
	}
	return row.unpack(), nil
}

func (repo schoolRepository) QuerySchools(ctx context.Context) ([]school.School, error) {
	var rows []schoolRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM school ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	schools := make([]school.School, 0, len(rows))
	for _, r := range rows {
		schools = append(schools, r.unpack())
	}
	return schools, nil
}

func (repo schoolRepository) UpdateSchool(ctx context.Context, sch school.School) (school.School, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE school
		SET name = :name, email = :email, address = :address, phone = :phone, website = :website,
		    logo = :logo, description = :description, updated_at = :updated_at
		WHERE id = :id`, packSchool(sch))
	if err != nil {
		return school.School{}, errors.Wrap(err, "updating school")
	}
	return sch, nil
}

func (repo schoolRepository) DeleteSchool(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM school WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting school")
	}
	return nil
}

// Settings

func (repo schoolRepository) CreateSetting(ctx context.Context, set school.Setting) (school.Setting, error) {
	set.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO setting (id, school_id, name, value, created_at, updated_at)
		VALUES (:id, :school_id, :name, :value, :created_at, :updated_at)`, settingRow(set))
	if err != nil {
		return school.Setting{}, errors.Wrap(err, "inserting setting")
	}
	return set, nil
}

func (repo schoolRepository) GetSettingByID(ctx context.Context, id string) (school.Setting, error) {
	var row settingRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM setting WHERE id = $1`, id); err != nil {
		return school.Setting{}, repo.trapNoRowsErr(err, "getting setting")
	}
	return row.unpack(), nil
}

func (repo schoolRepository) QuerySettings(ctx context.Context) ([]school.Setting, error) {
	var rows []settingRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM setting ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying settings")
	}
	settings := make([]school.Setting, 0, len(rows))
	for _, r := range rows {
		settings = append(settings, r.unpack())
	}
	return settings, nil
}

func (repo schoolRepository) UpdateSetting(ctx context.Context, set school.Setting) (school.Setting, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE setting SET name = :name, value = :value, updated_at = :updated_at WHERE id = :id`,
		settingRow(set))
	if err != nil {
		return school.Setting{}, errors.Wrap(err, "updating setting")
	}
	return set, nil
}

func (repo schoolRepository) DeleteSetting(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM setting WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting setting")
	}
	return nil
}

// Notices

func (repo schoolRepository) CreateNotice(ctx context.Context, ntc school.Notice) (school.Notice, error) {
	ntc.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO notice (id, school_id, title, content, created_at, updated_at)
		VALUES (:id, :school_id, :title, :content, :created_at, :updated_at)`, noticeRow(ntc))
	if err != nil {
		return school.Notice{}, errors.Wrap(err, "inserting notice")
	}
	return ntc, nil
}

func (repo schoolRepository) GetNoticeByID(ctx context.Context, id string) (school.Notice, error) {
	var row noticeRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM notice WHERE id = $1`, id); err != nil {
		return school.Notice{}, repo.trapNoRowsErr(err, "getting notice")
	}
	return row.unpack(), nil
}

func (repo schoolRepository) QueryNotices(ctx context.Context) ([]school.Notice, error) {
	var rows []noticeRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM notice ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying notices")
	}
	notices := make([]school.Notice, 0, len(rows))
	for _, r := range rows {
		notices = append(notices, r.unpack())
	}
	return notices, nil
}

func (repo schoolRepository) UpdateNotice(ctx context.Context, ntc school.Notice) (school.Notice, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE notice SET title = :title, content = :content, updated_at = :updated_at WHERE id = :id`,
		noticeRow(ntc))
	if err != nil {
		return school.Notice{}, errors.Wrap(err, "updating notice")
	}
	return ntc, nil
}

func (repo schoolRepository) DeleteNotice(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM notice WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting notice")
	}
	return nil
}
