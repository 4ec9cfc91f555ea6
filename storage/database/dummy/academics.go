package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasadev/darasa/core/academics"
)

type academicsRepository struct {
	classes     *classTable
	subjects    *subjectTable
	exams       *examTable
	results     *resultTable
	attendances *attendanceTable
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *DB) *academicsRepository {
	return &academicsRepository{
		classes:     db.class,
		subjects:    db.subject,
		exams:       db.exam,
		results:     db.result,
		attendances: db.attendance,
	}
}

// Classes

func (repo *academicsRepository) CreateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	cls.ID = uuid.New().String()
	repo.classes.table[cls.ID] = &cls
	return cls, nil
}

func (repo *academicsRepository) GetClassByID(ctx context.Context, id string) (academics.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	if cls, ok := repo.classes.table[id]; ok {
		return *cls, nil
	}
	return academics.Class{}, academics.ErrNotFound
}

func (repo *academicsRepository) QueryClassesBySchool(ctx context.Context, schoolID string) ([]academics.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	classes := make([]academics.Class, 0)
	for _, cls := range repo.classes.table {
		if cls.SchoolID == schoolID {
			classes = append(classes, *cls)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *academicsRepository) UpdateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	if _, ok := repo.classes.table[cls.ID]; !ok {
		return academics.Class{}, academics.ErrNotFound
	}
	repo.classes.table[cls.ID] = &cls
	return cls, nil
}

func (repo *academicsRepository) DeleteClass(ctx context.Context, id string) error {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	delete(repo.classes.table, id)
	return nil
}

// Subjects

func (repo *academicsRepository) CreateSubject(ctx context.Context, sub academics.Subject) (academics.Subject, error) {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()

	sub.ID = uuid.New().String()
	repo.subjects.table[sub.ID] = &sub
	return sub, nil
}

func (repo *academicsRepository) GetSubjectByID(ctx context.Context, id string) (academics.Subject, error) {
	repo.subjects.RLock()
	defer repo.subjects.RUnlock()

	if sub, ok := repo.subjects.table[id]; ok {
		return *sub, nil
	}
	return academics.Subject{}, academics.ErrNotFound
}

func (repo *academicsRepository) QuerySubjectsBySchool(ctx context.Context, schoolID string) ([]academics.Subject, error) {
	repo.subjects.RLock()
	defer repo.subjects.RUnlock()

	subjects := make([]academics.Subject, 0)
	for _, sub := range repo.subjects.table {
		if sub.SchoolID == schoolID {
			subjects = append(subjects, *sub)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (repo *academicsRepository) UpdateSubject(ctx context.Context, sub academics.Subject) (academics.Subject, error) {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()

	if _, ok := repo.subjects.table[sub.ID]; !ok {
		return academics.Subject{}, academics.ErrNotFound
	}
	repo.subjects.table[sub.ID] = &sub
	return sub, nil
}

func (repo *academicsRepository) DeleteSubject(ctx context.Context, id string) error {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()

	delete(repo.subjects.table, id)
	return nil
}

// Exams

func (repo *academicsRepository) CreateExam(ctx context.Context, exm academics.Exam) (academics.Exam, error) {
	repo.exams.Lock()
	defer repo.exams.Unlock()

	exm.ID = uuid.New().String()
	repo.exams.table[exm.ID] = &exm
	return exm, nil
}

func (repo *academicsRepository) GetExamByID(ctx context.Context, id string) (academics.Exam, error) {
	repo.exams.RLock()
	defer repo.exams.RUnlock()

	if exm, ok := repo.exams.table[id]; ok {
		return *exm, nil
	}
	return academics.Exam{}, academics.ErrNotFound
}

func (repo *academicsRepository) QueryExamsBySchool(ctx context.Context, schoolID string) ([]academics.Exam, error) {
	repo.exams.RLock()
	defer repo.exams.RUnlock()

	exams := make([]academics.Exam, 0)
	for _, exm := range repo.exams.table {
		if exm.SchoolID == schoolID {
			exams = append(exams, *exm)
		}
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].Date.After(exams[j].Date) })
	return exams, nil
}

func (repo *academicsRepository) UpdateExam(ctx context.Context, exm academics.Exam) (academics.Exam, error) {
	repo.exams.Lock()
	defer repo.exams.Unlock()

	if _, ok := repo.exams.table[exm.ID]; !ok {
		return academics.Exam{}, academics.ErrNotFound
	}
	repo.exams.table[exm.ID] = &exm
	return exm, nil
}

func (repo *academicsRepository) DeleteExam(ctx context.Context, id string) error {
	repo.exams.Lock()
	defer repo.exams.Unlock()

	delete(repo.exams.table, id)
	return nil
}

// Results

func (repo *academicsRepository) CreateResult(ctx context.Context, res academics.Result) (academics.Result, error) {
	repo.results.Lock()
	defer repo.results.Unlock()

	res.ID = uuid.New().String()
	repo.results.table[res.ID] = &res
	return res, nil
}

func (repo *academicsRepository) GetResultByID(ctx context.Context, id string) (academics.Result, error) {
	repo.results.RLock()
	defer repo.results.RUnlock()

	if res, ok := repo.results.table[id]; ok {
		return *res, nil
	}
	return academics.Result{}, academics.ErrNotFound
}

func (repo *academicsRepository) queryResults(match func(academics.Result) bool) []academics.Result {
	results := make([]academics.Result, 0)
	for _, res := range repo.results.table {
		if match(*res) {
			results = append(results, *res)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.After(results[j].CreatedAt) })
	return results
}

func (repo *academicsRepository) QueryResultsBySchool(ctx context.Context, schoolID string) ([]academics.Result, error) {
	repo.results.RLock()
	defer repo.results.RUnlock()

	return repo.queryResults(func(res academics.Result) bool { return res.SchoolID == schoolID }), nil
}

func (repo *academicsRepository) QueryResultsOfStudent(ctx context.Context, studentID string) ([]academics.Result, error) {
	repo.results.RLock()
	defer repo.results.RUnlock()

	return repo.queryResults(func(res academics.Result) bool { return res.StudentID == studentID }), nil
}

func (repo *academicsRepository) QueryResultsOfTeacher(ctx context.Context, teacherID, schoolID string) ([]academics.Result, error) {
	repo.subjects.RLock()
	subjectIDs := make(map[string]bool)
	for _, sub := range repo.subjects.table {
		if sub.TeacherID == teacherID {
			subjectIDs[sub.ID] = true
		}
	}
	repo.subjects.RUnlock()

	repo.exams.RLock()
	examIDs := make(map[string]bool)
	for _, exm := range repo.exams.table {
		if subjectIDs[exm.SubjectID] {
			examIDs[exm.ID] = true
		}
	}
	repo.exams.RUnlock()

	repo.results.RLock()
	defer repo.results.RUnlock()

	return repo.queryResults(func(res academics.Result) bool {
		return examIDs[res.ExamID] && res.SchoolID == schoolID
	}), nil
}

func (repo *academicsRepository) UpdateResult(ctx context.Context, res academics.Result) (academics.Result, error) {
	repo.results.Lock()
	defer repo.results.Unlock()

	if _, ok := repo.results.table[res.ID]; !ok {
		return academics.Result{}, academics.ErrNotFound
	}
	repo.results.table[res.ID] = &res
	return res, nil
}

func (repo *academicsRepository) DeleteResult(ctx context.Context, id string) error {
	repo.results.Lock()
	defer repo.results.Unlock()

	delete(repo.results.table, id)
	return nil
}

// Attendance

func (repo *academicsRepository) CreateAttendance(ctx context.Context, att academics.Attendance) (academics.Attendance, error) {
	repo.attendances.Lock()
	defer repo.attendances.Unlock()

	att.ID = uuid.New().String()
	repo.attendances.table[att.ID] = &att
	return att, nil
}

func (repo *academicsRepository) GetAttendanceByID(ctx context.Context, id string) (academics.Attendance, error) {
	repo.attendances.RLock()
	defer repo.attendances.RUnlock()

	if att, ok := repo.attendances.table[id]; ok {
		return *att, nil
	}
	return academics.Attendance{}, academics.ErrNotFound
}

func (repo *academicsRepository) queryAttendance(match func(academics.Attendance) bool) []academics.Attendance {
	records := make([]academics.Attendance, 0)
	for _, att := range repo.attendances.table {
		if match(*att) {
			records = append(records, *att)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	return records
}

func (repo *academicsRepository) QueryAttendanceBySchool(ctx context.Context, schoolID string) ([]academics.Attendance, error) {
	repo.attendances.RLock()
	defer repo.attendances.RUnlock()

	return repo.queryAttendance(func(att academics.Attendance) bool { return att.SchoolID == schoolID }), nil
}

func (repo *academicsRepository) QueryAttendanceOfStudent(ctx context.Context, studentID string) ([]academics.Attendance, error) {
	repo.attendances.RLock()
	defer repo.attendances.RUnlock()

	return repo.queryAttendance(func(att academics.Attendance) bool { return att.StudentID == studentID }), nil
}

func (repo *academicsRepository) UpdateAttendance(ctx context.Context, att academics.Attendance) (academics.Attendance, error) {
	repo.attendances.Lock()
	defer repo.attendances.Unlock()

	if _, ok := repo.attendances.table[att.ID]; !ok {
		return academics.Attendance{}, academics.ErrNotFound
	}
	repo.attendances.table[att.ID] = &att
	return att, nil
}

func (repo *academicsRepository) DeleteAttendance(ctx context.Context, id string) error {
	repo.attendances.Lock()
	defer repo.attendances.Unlock()

	delete(repo.attendances.table, id)
	return nil
}
