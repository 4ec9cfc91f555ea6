package roster

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/user"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByUserID(ctx context.Context, userID string) (Student, error)
		QueryStudentsBySchool(ctx context.Context, schoolID string) ([]Student, error)
		// QueryStudentsOfTeacher returns the distinct students appearing in
		// the teacher's attendance records, ordered by first name.
		QueryStudentsOfTeacher(ctx context.Context, teacherID, schoolID string) ([]Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error

		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		GetTeacherByUserID(ctx context.Context, userID string) (Teacher, error)
		QueryTeachersBySchool(ctx context.Context, schoolID string) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id string) error
	}

	// Service manages student and teacher aggregates: profile + backing user
	// account created together, deleted together.
	Service struct {
		repo   Repository
		usrSvc *user.Service
	}
)

func NewService(repo Repository, usrSvc *user.Service) *Service {
	return &Service{repo: repo, usrSvc: usrSvc}
}

// CreateStudent enrolls a student: a user account with the student role and
// the profile record referencing it.
func (svc *Service) CreateStudent(ctx context.Context, schoolID string, np NewProfile) (Student, error) {
	usr, err := svc.createUser(ctx, schoolID, user.RoleStudent, np)
	if err != nil {
		return Student{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateStudent(ctx, Student{
		SchoolID:  schoolID,
		UserID:    usr.ID,
		FirstName: np.FirstName,
		LastName:  np.LastName,
		Gender:    np.Gender,
		Email:     usr.Email,
		Phone:     null.NewString(np.Phone, np.Phone != ""),
		Address:   null.NewString(np.Address, np.Address != ""),
		Image:     null.NewString(np.Image, np.Image != ""),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// CreateTeacher enrolls a teacher the same way.
func (svc *Service) CreateTeacher(ctx context.Context, schoolID string, np NewProfile) (Teacher, error) {
	usr, err := svc.createUser(ctx, schoolID, user.RoleTeacher, np)
	if err != nil {
		return Teacher{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateTeacher(ctx, Teacher{
		SchoolID:  schoolID,
		UserID:    usr.ID,
		FirstName: np.FirstName,
		LastName:  np.LastName,
		Gender:    np.Gender,
		Email:     usr.Email,
		Phone:     null.NewString(np.Phone, np.Phone != ""),
		Address:   null.NewString(np.Address, np.Address != ""),
		Image:     null.NewString(np.Image, np.Image != ""),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) createUser(ctx context.Context, schoolID, role string, np NewProfile) (user.User, error) {
	if err := svc.usrSvc.CheckEmailUniqueness(ctx, np.Email); err != nil {
		return user.User{}, err
	}
	return svc.usrSvc.Create(ctx, user.NewUser{
		Email:    np.Email,
		Password: np.Password,
		Role:     role,
		SchoolID: schoolID,
	})
}

func (svc *Service) GetStudentByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetStudentByUserID(ctx context.Context, userID string) (Student, error) {
	return svc.repo.GetStudentByUserID(ctx, userID)
}

func (svc *Service) QueryStudentsBySchool(ctx context.Context, schoolID string) ([]Student, error) {
	return svc.repo.QueryStudentsBySchool(ctx, schoolID)
}

func (svc *Service) QueryStudentsOfTeacher(ctx context.Context, teacherID, schoolID string) ([]Student, error) {
	return svc.repo.QueryStudentsOfTeacher(ctx, teacherID, schoolID)
}

func (svc *Service) UpdateStudent(ctx context.Context, id string, up UpdateProfile) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	applyProfileUpdate(&std.FirstName, &std.LastName, &std.Gender, &std.Phone, &std.Address, &std.Image, up)
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

// DeleteStudent removes the profile and its backing user account. The
// cascade is explicit: callers get both or neither.
func (svc *Service) DeleteStudent(ctx context.Context, id string) error {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.repo.DeleteStudent(ctx, std.ID); err != nil {
		return err
	}
	return svc.usrSvc.Delete(ctx, std.UserID)
}

func (svc *Service) GetTeacherByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) GetTeacherByUserID(ctx context.Context, userID string) (Teacher, error) {
	return svc.repo.GetTeacherByUserID(ctx, userID)
}

func (svc *Service) QueryTeachersBySchool(ctx context.Context, schoolID string) ([]Teacher, error) {
	return svc.repo.QueryTeachersBySchool(ctx, schoolID)
}

func (svc *Service) UpdateTeacher(ctx context.Context, id string, up UpdateProfile) (Teacher, error) {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	applyProfileUpdate(&tch.FirstName, &tch.LastName, &tch.Gender, &tch.Phone, &tch.Address, &tch.Image, up)
	tch.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeacher(ctx, tch)
}

// DeleteTeacher removes the profile and its backing user account.
func (svc *Service) DeleteTeacher(ctx context.Context, id string) error {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.repo.DeleteTeacher(ctx, tch.ID); err != nil {
		return err
	}
	return svc.usrSvc.Delete(ctx, tch.UserID)
}

func applyProfileUpdate(first, last, gender *string, phone, address, image *null.String, up UpdateProfile) {
	if v := core.CleanString(up.FirstName); v != "" {
		*first = v
	}
	if v := core.CleanString(up.LastName); v != "" {
		*last = v
	}
	if up.Gender != "" {
		*gender = up.Gender
	}
	if v := core.CleanString(up.Phone); v != "" {
		*phone = null.StringFrom(v)
	}
	if v := core.CleanString(up.Address); v != "" {
		*address = null.StringFrom(v)
	}
	if up.Image != "" {
		*image = null.StringFrom(up.Image)
	}
}
