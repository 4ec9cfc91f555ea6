package dummydb

import (
	"sync"

	"github.com/darasadev/darasa/core/academics"
	"github.com/darasadev/darasa/core/activity"
	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/finance"
	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/school"
	"github.com/darasadev/darasa/core/user"
)

type (
	DB struct {
		user         *userTable
		refreshToken *refreshTokenTable
		school       *schoolTable
		setting      *settingTable
		notice       *noticeTable
		student      *studentTable
		teacher      *teacherTable
		class        *classTable
		subject      *subjectTable
		exam         *examTable
		result       *resultTable
		attendance   *attendanceTable
		payment      *paymentTable
		expense      *expenseTable
		event        *eventTable
		message      *messageTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	refreshTokenTable struct {
		sync.RWMutex
		table map[string]*auth.RefreshToken
	}
	schoolTable struct {
		sync.RWMutex
		table map[string]*school.School
	}
	settingTable struct {
		sync.RWMutex
		table map[string]*school.Setting
	}
	noticeTable struct {
		sync.RWMutex
		table map[string]*school.Notice
	}
	studentTable struct {
		sync.RWMutex
		table map[string]*roster.Student
	}
	teacherTable struct {
		sync.RWMutex
		table map[string]*roster.Teacher
	}
	classTable struct {
		sync.RWMutex
		table map[string]*academics.Class
	}
	subjectTable struct {
		sync.RWMutex
		table map[string]*academics.Subject
	}
	examTable struct {
		sync.RWMutex
		table map[string]*academics.Exam
	}
	resultTable struct {
		sync.RWMutex
		table map[string]*academics.Result
	}
	attendanceTable struct {
		sync.RWMutex
		table map[string]*academics.Attendance
	}
	paymentTable struct {
		sync.RWMutex
		table map[string]*finance.Payment
	}
	expenseTable struct {
		sync.RWMutex
		table map[string]*finance.Expense
	}
	eventTable struct {
		sync.RWMutex
		table map[string]*activity.Event
	}
	messageTable struct {
		sync.RWMutex
		table map[string]*activity.Message
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:         &userTable{table: make(map[string]*user.User)},
		refreshToken: &refreshTokenTable{table: make(map[string]*auth.RefreshToken)},
		school:       &schoolTable{table: make(map[string]*school.School)},
		setting:      &settingTable{table: make(map[string]*school.Setting)},
		notice:       &noticeTable{table: make(map[string]*school.Notice)},
		student:      &studentTable{table: make(map[string]*roster.Student)},
		teacher:      &teacherTable{table: make(map[string]*roster.Teacher)},
		class:        &classTable{table: make(map[string]*academics.Class)},
		subject:      &subjectTable{table: make(map[string]*academics.Subject)},
		exam:         &examTable{table: make(map[string]*academics.Exam)},
		result:       &resultTable{table: make(map[string]*academics.Result)},
		attendance:   &attendanceTable{table: make(map[string]*academics.Attendance)},
		payment:      &paymentTable{table: make(map[string]*finance.Payment)},
		expense:      &expenseTable{table: make(map[string]*finance.Expense)},
		event:        &eventTable{table: make(map[string]*activity.Event)},
		message:      &messageTable{table: make(map[string]*activity.Message)},
	}
	return db, nil
}
