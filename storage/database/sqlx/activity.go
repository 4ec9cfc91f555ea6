package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core/activity"
)

type eventRow struct {
	ID              string      `db:"id"`
	SchoolID        string      `db:"school_id"`
	SubjectID       null.String `db:"subject_id"`
	TeacherID       null.String `db:"teacher_id"`
	StudentID       null.String `db:"student_id"`
	Title           string      `db:"title"`
	Start           time.Time   `db:"start_at"`
	End             time.Time   `db:"end_at"`
	AllDay          bool        `db:"all_day"`
	URL             null.String `db:"url"`
	ClassName       null.String `db:"class_name"`
	BackgroundColor null.String `db:"background_color"`
	BorderColor     null.String `db:"border_color"`
	TextColor       null.String `db:"text_color"`
	Image           null.String `db:"image"`
	Description     null.String `db:"description"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

func (r eventRow) unpack() activity.Event { return activity.Event(r) }

type messageRow struct {
	ID        string      `db:"id"`
	SchoolID  string      `db:"school_id"`
	UserID    string      `db:"user_id"`
	Name      string      `db:"name"`
	Email     string      `db:"email"`
	Phone     null.String `db:"phone"`
	Content   string      `db:"message"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r messageRow) unpack() activity.Message { return activity.Message(r) }

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *sqlx.DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo activityRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return activity.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// Events

func (repo activityRepository) CreateEvent(ctx context.Context, evt activity.Event) (activity.Event, error) {
	evt.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO event (id, school_id, subject_id, teacher_id, student_id, title, start_at, end_at, all_day,
		                   url, class_name, background_color, border_color, text_color, image, description,
		                   created_at, updated_at)
		VALUES (:id, :school_id, :subject_id, :teacher_id, :student_id, :title, :start_at, :end_at, :all_day,
		        :url, :class_name, :background_color, :border_color, :text_color, :image, :description,
		        :created_at, :updated_at)`, eventRow(evt))
	if err != nil {
		return activity.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo activityRepository) GetEventByID(ctx context.Context, id string) (activity.Event, error) {
	var row eventRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM event WHERE id = $1`, id); err != nil {
		return activity.Event{}, repo.trapNoRowsErr(err, "getting event")
	}
	return row.unpack(), nil
}

func (repo activityRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]activity.Event, error) {
	var rows []eventRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]activity.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.unpack())
	}
	return events, nil
}

func (repo activityRepository) QueryEventsBySchool(ctx context.Context, schoolID string) ([]activity.Event, error) {
	return repo.queryEvents(ctx, `SELECT * FROM event WHERE school_id = $1 ORDER BY start_at`, schoolID)
}

func (repo activityRepository) QueryEventsOfTeacher(ctx context.Context, teacherID string) ([]activity.Event, error) {
	return repo.queryEvents(ctx, `SELECT * FROM event WHERE teacher_id = $1 ORDER BY start_at`, teacherID)
}

func (repo activityRepository) QueryEventsOfStudent(ctx context.Context, studentID string) ([]activity.Event, error) {
	return repo.queryEvents(ctx, `SELECT * FROM event WHERE student_id = $1 ORDER BY start_at`, studentID)
}

func (repo activityRepository) UpdateEvent(ctx context.Context, evt activity.Event) (activity.Event, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE event
		SET title = :title, start_at = :start_at, end_at = :end_at, all_day = :all_day,
		    subject_id = :subject_id, teacher_id = :teacher_id, student_id = :student_id,
		    url = :url, class_name = :class_name, background_color = :background_color,
		    border_color = :border_color, text_color = :text_color, image = :image,
		    description = :description, updated_at = :updated_at
		WHERE id = :id`, eventRow(evt))
	if err != nil {
		return activity.Event{}, errors.Wrap(err, "updating event")
	}
	return evt, nil
}

func (repo activityRepository) DeleteEvent(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM event WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return nil
}

// Messages

func (repo activityRepository) CreateMessage(ctx context.Context, msg activity.Message) (activity.Message, error) {
	msg.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO message (id, school_id, user_id, name, email, phone, message, created_at, updated_at)
		VALUES (:id, :school_id, :user_id, :name, :email, :phone, :message, :created_at, :updated_at)`,
		messageRow(msg))
	if err != nil {
		return activity.Message{}, errors.Wrap(err, "inserting message")
	}
	return msg, nil
}

func (repo activityRepository) GetMessageByID(ctx context.Context, id string) (activity.Message, error) {
	var row messageRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM message WHERE id = $1`, id); err != nil {
		return activity.Message{}, repo.trapNoRowsErr(err, "getting message")
	}
	return row.unpack(), nil
}

func (repo activityRepository) queryMessages(ctx context.Context, query string, args ...interface{}) ([]activity.Message, error) {
	var rows []messageRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	messages := make([]activity.Message, 0, len(rows))
	for _, r := range rows {
		messages = append(messages, r.unpack())
	}
	return messages, nil
}

func (repo activityRepository) QueryMessages(ctx context.Context) ([]activity.Message, error) {
	return repo.queryMessages(ctx, `SELECT * FROM message ORDER BY created_at DESC`)
}

func (repo activityRepository) QueryMessagesOfUser(ctx context.Context, userID string) ([]activity.Message, error) {
	return repo.queryMessages(ctx, `SELECT * FROM message WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (repo activityRepository) UpdateMessage(ctx context.Context, msg activity.Message) (activity.Message, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE message
		SET name = :name, email = :email, phone = :phone, message = :message, updated_at = :updated_at
		WHERE id = :id`, messageRow(msg))
	if err != nil {
		return activity.Message{}, errors.Wrap(err, "updating message")
	}
	return msg, nil
}

func (repo activityRepository) DeleteMessage(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM message WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting message")
	}
	return nil
}
