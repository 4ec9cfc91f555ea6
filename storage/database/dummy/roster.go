package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasadev/darasa/core/roster"
)

type rosterRepository struct {
	students    *studentTable
	teachers    *teacherTable
	attendances *attendanceTable
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *DB) *rosterRepository {
	return &rosterRepository{
		students:    db.student,
		teachers:    db.teacher,
		attendances: db.attendance,
	}
}

func sortStudents(students []roster.Student) {
	sort.Slice(students, func(i, j int) bool {
		if students[i].FirstName != students[j].FirstName {
			return students[i].FirstName < students[j].FirstName
		}
		return students[i].LastName < students[j].LastName
	})
}

// Students

func (repo *rosterRepository) CreateStudent(ctx context.Context, std roster.Student) (roster.Student, error) {
	repo.students.Lock()
	defer repo.students.Unlock()

	std.ID = uuid.New().String()
	repo.students.table[std.ID] = &std
	return std, nil
}

func (repo *rosterRepository) GetStudentByID(ctx context.Context, id string) (roster.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	if std, ok := repo.students.table[id]; ok {
		return *std, nil
	}
	return roster.Student{}, roster.ErrNotFound
}

func (repo *rosterRepository) GetStudentByUserID(ctx context.Context, userID string) (roster.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	for _, std := range repo.students.table {
		if std.UserID == userID {
			return *std, nil
		}
	}
	return roster.Student{}, roster.ErrNotFound
}

func (repo *rosterRepository) QueryStudentsBySchool(ctx context.Context, schoolID string) ([]roster.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	students := make([]roster.Student, 0)
	for _, std := range repo.students.table {
		if std.SchoolID == schoolID {
			students = append(students, *std)
		}
	}
	sortStudents(students)
	return students, nil
}

func (repo *rosterRepository) QueryStudentsOfTeacher(ctx context.Context, teacherID, schoolID string) ([]roster.Student, error) {
	repo.attendances.RLock()
	studentIDs := make(map[string]bool)
	for _, att := range repo.attendances.table {
		if att.TeacherID == teacherID {
			studentIDs[att.StudentID] = true
		}
	}
	repo.attendances.RUnlock()

	repo.students.RLock()
	defer repo.students.RUnlock()

	students := make([]roster.Student, 0, len(studentIDs))
	for id := range studentIDs {
		if std, ok := repo.students.table[id]; ok && std.SchoolID == schoolID {
			students = append(students, *std)
		}
	}
	sortStudents(students)
	return students, nil
}

func (repo *rosterRepository) UpdateStudent(ctx context.Context, std roster.Student) (roster.Student, error) {
	repo.students.Lock()
	defer repo.students.Unlock()

	if _, ok := repo.students.table[std.ID]; !ok {
		return roster.Student{}, roster.ErrNotFound
	}
	repo.students.table[std.ID] = &std
	return std, nil
}

func (repo *rosterRepository) DeleteStudent(ctx context.Context, id string) error {
	repo.students.Lock()
	defer repo.students.Unlock()

	delete(repo.students.table, id)
	return nil
}

// Teachers

func (repo *rosterRepository) CreateTeacher(ctx context.Context, tch roster.Teacher) (roster.Teacher, error) {
	repo.teachers.Lock()
	defer repo.teachers.Unlock()

	tch.ID = uuid.New().String()
	repo.teachers.table[tch.ID] = &tch
	return tch, nil
}

func (repo *rosterRepository) GetTeacherByID(ctx context.Context, id string) (roster.Teacher, error) {
	repo.teachers.RLock()
	defer repo.teachers.RUnlock()

	if tch, ok := repo.teachers.table[id]; ok {
		return *tch, nil
	}
	return roster.Teacher{}, roster.ErrNotFound
}

func (repo *rosterRepository) GetTeacherByUserID(ctx context.Context, userID string) (roster.Teacher, error) {
	repo.teachers.RLock()
	defer repo.teachers.RUnlock()

	for _, tch := range repo.teachers.table {
		if tch.UserID == userID {
			return *tch, nil
		}
	}
	return roster.Teacher{}, roster.ErrNotFound
}

func (repo *rosterRepository) QueryTeachersBySchool(ctx context.Context, schoolID string) ([]roster.Teacher, error) {
	repo.teachers.RLock()
	defer repo.teachers.RUnlock()

	teachers := make([]roster.Teacher, 0)
	for _, tch := range repo.teachers.table {
		if tch.SchoolID == schoolID {
			teachers = append(teachers, *tch)
		}
	}
	sort.Slice(teachers, func(i, j int) bool {
		if teachers[i].FirstName != teachers[j].FirstName {
			return teachers[i].FirstName < teachers[j].FirstName
		}
		return teachers[i].LastName < teachers[j].LastName
	})
	return teachers, nil
}

func (repo *rosterRepository) UpdateTeacher(ctx context.Context, tch roster.Teacher) (roster.Teacher, error) {
	repo.teachers.Lock()
	defer repo.teachers.Unlock()

	if _, ok := repo.teachers.table[tch.ID]; !ok {
		return roster.Teacher{}, roster.ErrNotFound
	}
	repo.teachers.table[tch.ID] = &tch
	return tch, nil
}

func (repo *rosterRepository) DeleteTeacher(ctx context.Context, id string) error {
	repo.teachers.Lock()
	defer repo.teachers.Unlock()

	delete(repo.teachers.table, id)
	return nil
}
