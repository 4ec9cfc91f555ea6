package activity

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		GetEventByID(ctx context.Context, id string) (Event, error)
		QueryEventsBySchool(ctx context.Context, schoolID string) ([]Event, error)
		QueryEventsOfTeacher(ctx context.Context, teacherID string) ([]Event, error)
		QueryEventsOfStudent(ctx context.Context, studentID string) ([]Event, error)
		UpdateEvent(ctx context.Context, evt Event) (Event, error)
		DeleteEvent(ctx context.Context, id string) error

		CreateMessage(ctx context.Context, msg Message) (Message, error)
		GetMessageByID(ctx context.Context, id string) (Message, error)
		QueryMessages(ctx context.Context) ([]Message, error)
		QueryMessagesOfUser(ctx context.Context, userID string) ([]Message, error)
		UpdateMessage(ctx context.Context, msg Message) (Message, error)
		DeleteMessage(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Events

func (svc *Service) CreateEvent(ctx context.Context, schoolID string, ne NewEvent) (Event, error) {
	ne.Clean()
	now := time.Now().UTC()
	return svc.repo.CreateEvent(ctx, Event{
		SchoolID:        schoolID,
		SubjectID:       null.NewString(ne.SubjectID, ne.SubjectID != ""),
		TeacherID:       null.NewString(ne.TeacherID, ne.TeacherID != ""),
		StudentID:       null.NewString(ne.StudentID, ne.StudentID != ""),
		Title:           ne.Title,
		Start:           ne.Start,
		End:             ne.End,
		AllDay:          ne.AllDay,
		URL:             null.NewString(ne.URL, ne.URL != ""),
		ClassName:       null.NewString(ne.ClassName, ne.ClassName != ""),
		BackgroundColor: null.NewString(ne.BackgroundColor, ne.BackgroundColor != ""),
		BorderColor:     null.NewString(ne.BorderColor, ne.BorderColor != ""),
		TextColor:       null.NewString(ne.TextColor, ne.TextColor != ""),
		Image:           null.NewString(ne.Image, ne.Image != ""),
		Description:     null.NewString(ne.Description, ne.Description != ""),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

func (svc *Service) GetEventByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEventByID(ctx, id)
}

func (svc *Service) QueryEventsBySchool(ctx context.Context, schoolID string) ([]Event, error) {
	return svc.repo.QueryEventsBySchool(ctx, schoolID)
}

func (svc *Service) QueryEventsOfTeacher(ctx context.Context, teacherID string) ([]Event, error) {
	return svc.repo.QueryEventsOfTeacher(ctx, teacherID)
}

func (svc *Service) QueryEventsOfStudent(ctx context.Context, studentID string) ([]Event, error) {
	return svc.repo.QueryEventsOfStudent(ctx, studentID)
}

func (svc *Service) UpdateEvent(ctx context.Context, id string, ne NewEvent) (Event, error) {
	evt, err := svc.repo.GetEventByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	ne.Clean()
	evt.Title = ne.Title
	evt.Start = ne.Start
	evt.End = ne.End
	evt.AllDay = ne.AllDay
	evt.SubjectID = null.NewString(ne.SubjectID, ne.SubjectID != "")
	evt.TeacherID = null.NewString(ne.TeacherID, ne.TeacherID != "")
	evt.StudentID = null.NewString(ne.StudentID, ne.StudentID != "")
	if ne.URL != "" {
		evt.URL = null.StringFrom(ne.URL)
	}
	if ne.ClassName != "" {
		evt.ClassName = null.StringFrom(ne.ClassName)
	}
	if ne.BackgroundColor != "" {
		evt.BackgroundColor = null.StringFrom(ne.BackgroundColor)
	}
	if ne.BorderColor != "" {
		evt.BorderColor = null.StringFrom(ne.BorderColor)
	}
	if ne.TextColor != "" {
		evt.TextColor = null.StringFrom(ne.TextColor)
	}
	if ne.Image != "" {
		evt.Image = null.StringFrom(ne.Image)
	}
	if ne.Description != "" {
		evt.Description = null.StringFrom(ne.Description)
	}
	evt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEvent(ctx, evt)
}

func (svc *Service) DeleteEvent(ctx context.Context, id string) error {
	return svc.repo.DeleteEvent(ctx, id)
}

// Messages

func (svc *Service) CreateMessage(ctx context.Context, schoolID, userID string, nm NewMessage) (Message, error) {
	nm.Clean()
	now := time.Now().UTC()
	return svc.repo.CreateMessage(ctx, Message{
		SchoolID:  schoolID,
		UserID:    userID,
		Name:      nm.Name,
		Email:     nm.Email,
		Phone:     null.NewString(nm.Phone, nm.Phone != ""),
		Content:   nm.Content,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetMessageByID(ctx context.Context, id string) (Message, error) {
	return svc.repo.GetMessageByID(ctx, id)
}

func (svc *Service) QueryMessages(ctx context.Context) ([]Message, error) {
	return svc.repo.QueryMessages(ctx)
}

func (svc *Service) QueryMessagesOfUser(ctx context.Context, userID string) ([]Message, error) {
	return svc.repo.QueryMessagesOfUser(ctx, userID)
}

func (svc *Service) UpdateMessage(ctx context.Context, id string, nm NewMessage) (Message, error) {
	msg, err := svc.repo.GetMessageByID(ctx, id)
	if err != nil {
		return Message{}, err
	}
	nm.Clean()
	msg.Name = nm.Name
	msg.Email = nm.Email
	msg.Content = nm.Content
	if nm.Phone != "" {
		msg.Phone = null.StringFrom(nm.Phone)
	}
	msg.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMessage(ctx, msg)
}

func (svc *Service) DeleteMessage(ctx context.Context, id string) error {
	return svc.repo.DeleteMessage(ctx, id)
}
