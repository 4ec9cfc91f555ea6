package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasadev/darasa/core/activity"
)

type activityRepository struct {
	events   *eventTable
	messages *messageTable
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{
		events:   db.event,
		messages: db.message,
	}
}

// Events

func (repo *activityRepository) CreateEvent(ctx context.Context, evt activity.Event) (activity.Event, error) {
	repo.events.Lock()
	defer repo.events.Unlock()

	evt.ID = uuid.New().String()
	repo.events.table[evt.ID] = &evt
	return evt, nil
}

func (repo *activityRepository) GetEventByID(ctx context.Context, id string) (activity.Event, error) {
	repo.events.RLock()
	defer repo.events.RUnlock()

	if evt, ok := repo.events.table[id]; ok {
		return *evt, nil
	}
	return activity.Event{}, activity.ErrNotFound
}

func (repo *activityRepository) queryEvents(match func(activity.Event) bool) []activity.Event {
	events := make([]activity.Event, 0)
	for _, evt := range repo.events.table {
		if match(*evt) {
			events = append(events, *evt)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events
}

func (repo *activityRepository) QueryEventsBySchool(ctx context.Context, schoolID string) ([]activity.Event, error) {
	repo.events.RLock()
	defer repo.events.RUnlock()

	return repo.queryEvents(func(evt activity.Event) bool { return evt.SchoolID == schoolID }), nil
}

func (repo *activityRepository) QueryEventsOfTeacher(ctx context.Context, teacherID string) ([]activity.Event, error) {
	repo.events.RLock()
	defer repo.events.RUnlock()

	return repo.queryEvents(func(evt activity.Event) bool { return evt.TeacherID.String == teacherID }), nil
}

func (repo *activityRepository) QueryEventsOfStudent(ctx context.Context, studentID string) ([]activity.Event, error) {
	repo.events.RLock()
	defer repo.events.RUnlock()

	return repo.queryEvents(func(evt activity.Event) bool { return evt.StudentID.String == studentID }), nil
}

func (repo *activityRepository) UpdateEvent(ctx context.Context, evt activity.Event) (activity.Event, error) {
	repo.events.Lock()
	defer repo.events.Unlock()

	if _, ok := repo.events.table[evt.ID]; !ok {
		return activity.Event{}, activity.ErrNotFound
	}
	repo.events.table[evt.ID] = &evt
	return evt, nil
}

func (repo *activityRepository) DeleteEvent(ctx context.Context, id string) error {
	repo.events.Lock()
	defer repo.events.Unlock()

	delete(repo.events.table, id)
	return nil
}

// Messages

func (repo *activityRepository) CreateMessage(ctx context.Context, msg activity.Message) (activity.Message, error) {
	repo.messages.Lock()
	defer repo.messages.Unlock()

	msg.ID = uuid.New().String()
	repo.messages.table[msg.ID] = &msg
	return msg, nil
}

func (repo *activityRepository) GetMessageByID(ctx context.Context, id string) (activity.Message, error) {
	repo.messages.RLock()
	defer repo.messages.RUnlock()

	if msg, ok := repo.messages.table[id]; ok {
		return *msg, nil
	}
	return activity.Message{}, activity.ErrNotFound
}

func (repo *activityRepository) queryMessages(match func(activity.Message) bool) []activity.Message {
	messages := make([]activity.Message, 0)
	for _, msg := range repo.messages.table {
		if match(*msg) {
			messages = append(messages, *msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].CreatedAt.After(messages[j].CreatedAt) })
	return messages
}

func (repo *activityRepository) QueryMessages(ctx context.Context) ([]activity.Message, error) {
	repo.messages.RLock()
	defer repo.messages.RUnlock()

	return repo.queryMessages(func(activity.Message) bool { return true }), nil
}

func (repo *activityRepository) QueryMessagesOfUser(ctx context.Context, userID string) ([]activity.Message, error) {
	repo.messages.RLock()
	defer repo.messages.RUnlock()

	return repo.queryMessages(func(msg activity.Message) bool { return msg.UserID == userID }), nil
}

func (repo *activityRepository) UpdateMessage(ctx context.Context, msg activity.Message) (activity.Message, error) {
	repo.messages.Lock()
	defer repo.messages.Unlock()

	if _, ok := repo.messages.table[msg.ID]; !ok {
		return activity.Message{}, activity.ErrNotFound
	}
	repo.messages.table[msg.ID] = &msg
	return msg, nil
}

func (repo *activityRepository) DeleteMessage(ctx context.Context, id string) error {
	repo.messages.Lock()
	defer repo.messages.Unlock()

	delete(repo.messages.table, id)
	return nil
}
