package academics

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		CreateClass(ctx context.Context, cls Class) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		QueryClassesBySchool(ctx context.Context, schoolID string) ([]Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)
		DeleteClass(ctx context.Context, id string) error

		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		QuerySubjectsBySchool(ctx context.Context, schoolID string) ([]Subject, error)
		UpdateSubject(ctx context.Context, sub Subject) (Subject, error)
		DeleteSubject(ctx context.Context, id string) error

		CreateExam(ctx context.Context, exm Exam) (Exam, error)
		GetExamByID(ctx context.Context, id string) (Exam, error)
		QueryExamsBySchool(ctx context.Context, schoolID string) ([]Exam, error)
		UpdateExam(ctx context.Context, exm Exam) (Exam, error)
		DeleteExam(ctx context.Context, id string) error

		CreateResult(ctx context.Context, res Result) (Result, error)
		GetResultByID(ctx context.Context, id string) (Result, error)
		QueryResultsBySchool(ctx context.Context, schoolID string) ([]Result, error)
		QueryResultsOfStudent(ctx context.Context, studentID string) ([]Result, error)
		// QueryResultsOfTeacher returns results for exams of the teacher's subjects.
		QueryResultsOfTeacher(ctx context.Context, teacherID, schoolID string) ([]Result, error)
		UpdateResult(ctx context.Context, res Result) (Result, error)
		DeleteResult(ctx context.Context, id string) error

		CreateAttendance(ctx context.Context, att Attendance) (Attendance, error)
		GetAttendanceByID(ctx context.Context, id string) (Attendance, error)
		QueryAttendanceBySchool(ctx context.Context, schoolID string) ([]Attendance, error)
		QueryAttendanceOfStudent(ctx context.Context, studentID string) ([]Attendance, error)
		UpdateAttendance(ctx context.Context, att Attendance) (Attendance, error)
		DeleteAttendance(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Classes

func (svc *Service) CreateClass(ctx context.Context, schoolID string, nc NewClass) (Class, error) {
	nc.Clean()
	now := time.Now().UTC()
	return svc.repo.CreateClass(ctx, Class{
		SchoolID:    schoolID,
		Name:        nc.Name,
		Description: null.NewString(nc.Description, nc.Description != ""),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) GetClassByID(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) QueryClassesBySchool(ctx context.Context, schoolID string) ([]Class, error) {
	return svc.repo.QueryClassesBySchool(ctx, schoolID)
}

func (svc *Service) UpdateClass(ctx context.Context, id string, nc NewClass) (Class, error) {
	cls, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		return Class{}, err
	}
	nc.Clean()
	cls.Name = nc.Name
	if nc.Description != "" {
		cls.Description = null.StringFrom(nc.Description)
	}
	cls.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClass(ctx, cls)
}

func (svc *Service) DeleteClass(ctx context.Context, id string) error {
	return svc.repo.DeleteClass(ctx, id)
}

// Subjects

func (svc *Service) CreateSubject(ctx context.Context, schoolID string, ns NewSubject) (Subject, error) {
	ns.Clean()
	now := time.Now().UTC()
	return svc.repo.CreateSubject(ctx, Subject{
		SchoolID:  schoolID,
		ClassID:   ns.ClassID,
		TeacherID: ns.TeacherID,
		Name:      ns.Name,
		Code:      ns.Code,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetSubjectByID(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *Service) QuerySubjectsBySchool(ctx context.Context, schoolID string) ([]Subject, error) {
	return svc.repo.QuerySubjectsBySchool(ctx, schoolID)
}

func (svc *Service) UpdateSubject(ctx context.Context, id string, ns NewSubject) (Subject, error) {
	sub, err := svc.repo.GetSubjectByID(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	ns.Clean()
	sub.Name = ns.Name
	sub.Code = ns.Code
	sub.TeacherID = ns.TeacherID
	sub.ClassID = ns.ClassID
	sub.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSubject(ctx, sub)
}

func (svc *Service) DeleteSubject(ctx context.Context, id string) error {
	return svc.repo.DeleteSubject(ctx, id)
}

// Exams

func (svc *Service) CreateExam(ctx context.Context, schoolID string, ne NewExam) (Exam, error) {
	now := time.Now().UTC()
	return svc.repo.CreateExam(ctx, Exam{
		SchoolID:  schoolID,
		SubjectID: ne.SubjectID,
		Name:      core.CleanString(ne.Name),
		Date:      ne.Date,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetExamByID(ctx context.Context, id string) (Exam, error) {
	return svc.repo.GetExamByID(ctx, id)
}

func (svc *Service) QueryExamsBySchool(ctx context.Context, schoolID string) ([]Exam, error) {
	return svc.repo.QueryExamsBySchool(ctx, schoolID)
}

func (svc *Service) UpdateExam(ctx context.Context, id string, ne NewExam) (Exam, error) {
	exm, err := svc.repo.GetExamByID(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	exm.Name = core.CleanString(ne.Name)
	exm.Date = ne.Date
	exm.SubjectID = ne.SubjectID
	exm.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateExam(ctx, exm)
}

func (svc *Service) DeleteExam(ctx context.Context, id string) error {
	return svc.repo.DeleteExam(ctx, id)
}

// Results

func (svc *Service) CreateResult(ctx context.Context, schoolID string, nr NewResult) (Result, error) {
	now := time.Now().UTC()
	return svc.repo.CreateResult(ctx, Result{
		SchoolID:  schoolID,
		ExamID:    nr.ExamID,
		StudentID: nr.StudentID,
		Mark:      nr.Mark,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetResultByID(ctx context.Context, id string) (Result, error) {
	return svc.repo.GetResultByID(ctx, id)
}

func (svc *Service) QueryResultsBySchool(ctx context.Context, schoolID string) ([]Result, error) {
	return svc.repo.QueryResultsBySchool(ctx, schoolID)
}

func (svc *Service) QueryResultsOfStudent(ctx context.Context, studentID string) ([]Result, error) {
	return svc.repo.QueryResultsOfStudent(ctx, studentID)
}

func (svc *Service) QueryResultsOfTeacher(ctx context.Context, teacherID, schoolID string) ([]Result, error) {
	return svc.repo.QueryResultsOfTeacher(ctx, teacherID, schoolID)
}

func (svc *Service) UpdateResult(ctx context.Context, id string, nr NewResult) (Result, error) {
	res, err := svc.repo.GetResultByID(ctx, id)
	if err != nil {
		return Result{}, err
	}
	res.Mark = nr.Mark
	res.ExamID = nr.ExamID
	res.StudentID = nr.StudentID
	res.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateResult(ctx, res)
}

func (svc *Service) DeleteResult(ctx context.Context, id string) error {
	return svc.repo.DeleteResult(ctx, id)
}

// Attendance

func (svc *Service) CreateAttendance(ctx context.Context, schoolID, teacherID string, na NewAttendance) (Attendance, error) {
	now := time.Now().UTC()
	return svc.repo.CreateAttendance(ctx, Attendance{
		SchoolID:       schoolID,
		StudentID:      na.StudentID,
		SubjectID:      na.SubjectID,
		TeacherID:      teacherID,
		Date:           na.Date,
		AttendanceType: na.AttendanceType,
		Description:    null.NewString(na.Description, na.Description != ""),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (svc *Service) GetAttendanceByID(ctx context.Context, id string) (Attendance, error) {
	return svc.repo.GetAttendanceByID(ctx, id)
}

func (svc *Service) QueryAttendanceBySchool(ctx context.Context, schoolID string) ([]Attendance, error) {
	return svc.repo.QueryAttendanceBySchool(ctx, schoolID)
}

func (svc *Service) QueryAttendanceOfStudent(ctx context.Context, studentID string) ([]Attendance, error) {
	return svc.repo.QueryAttendanceOfStudent(ctx, studentID)
}

func (svc *Service) UpdateAttendance(ctx context.Context, id string, ua UpdateAttendance) (Attendance, error) {
	att, err := svc.repo.GetAttendanceByID(ctx, id)
	if err != nil {
		return Attendance{}, err
	}
	att.AttendanceType = ua.AttendanceType
	if ua.Description != "" {
		att.Description = null.StringFrom(ua.Description)
	}
	att.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAttendance(ctx, att)
}

func (svc *Service) DeleteAttendance(ctx context.Context, id string) error {
	return svc.repo.DeleteAttendance(ctx, id)
}
