package school

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/user"
)

var (
	// errors
	ErrNotFound   = core.ErrNotFound
	ErrNameExists = errors.New("a school with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string) error
		CreateSchool(ctx context.Context, sch School) (School, error)
		GetSchoolByID(ctx context.Context, id string) (School, error)
		QuerySchools(ctx context.Context) ([]School, error)
		UpdateSchool(ctx context.Context, sch School) (School, error)
		DeleteSchool(ctx context.Context, id string) error

		CreateSetting(ctx context.Context, set Setting) (Setting, error)
		GetSettingByID(ctx context.Context, id string) (Setting, error)
		QuerySettings(ctx context.Context) ([]Setting, error)
		UpdateSetting(ctx context.Context, set Setting) (Setting, error)
		DeleteSetting(ctx context.Context, id string) error

		CreateNotice(ctx context.Context, ntc Notice) (Notice, error)
		GetNoticeByID(ctx context.Context, id string) (Notice, error)
		QueryNotices(ctx context.Context) ([]Notice, error)
		UpdateNotice(ctx context.Context, ntc Notice) (Notice, error)
		DeleteNotice(ctx context.Context, id string) error
	}

	Service struct {
		repo   Repository
		usrSvc *user.Service
		email  core.EmailService
		conf   *core.Config
	}
)

func NewService(conf *core.Config, repo Repository, usrSvc *user.Service, emailSvc core.EmailService) *Service {
	return &Service{
		repo:   repo,
		usrSvc: usrSvc,
		email:  emailSvc,
		conf:   conf,
	}
}

// Register creates a school and its first admin user. The admin logs in with
// the school's email.
func (svc *Service) Register(ctx context.Context, ns NewSchool) (School, user.User, error) {
	if err := svc.checkNameUniqueness(ctx, ns.Name); err != nil {
		return School{}, user.User{}, err
	}
	if err := svc.usrSvc.CheckEmailUniqueness(ctx, ns.Email); err != nil {
		return School{}, user.User{}, err
	}

	now := time.Now().UTC()
	sch, err := svc.repo.CreateSchool(ctx, School{
		Name:      ns.Name,
		Email:     ns.Email,
		Address:   null.NewString(ns.Address, ns.Address != ""),
		Phone:     null.NewString(ns.Phone, ns.Phone != ""),
		Website:   null.NewString(ns.Website, ns.Website != ""),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return School{}, user.User{}, err
	}

	usr, err := svc.usrSvc.Create(ctx, user.NewUser{
		Email:    ns.Email,
		Password: ns.Password,
		Role:     user.RoleAdmin,
		SchoolID: sch.ID,
	})
	if err != nil {
		return School{}, user.User{}, err
	}

	svc.sendWelcomeEmail(sch)
	return sch, usr, nil
}

func (svc *Service) checkNameUniqueness(ctx context.Context, name string) error {
	if err := svc.repo.CheckNameUniqueness(ctx, name); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) sendWelcomeEmail(sch School) {
	svc.email.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: sch.Name, Address: sch.Email}},
		Subject:      "Welcome to " + svc.conf.AppName,
		TemplateName: "welcome",
		TemplateData: struct{ Name string }{Name: sch.Name},
	})
}

func (svc *Service) Create(ctx context.Context, ns NewSchool) (School, error) {
	if err := svc.checkNameUniqueness(ctx, ns.Name); err != nil {
		return School{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateSchool(ctx, School{
		Name:      ns.Name,
		Email:     ns.Email,
		Address:   null.NewString(ns.Address, ns.Address != ""),
		Phone:     null.NewString(ns.Phone, ns.Phone != ""),
		Website:   null.NewString(ns.Website, ns.Website != ""),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (School, error) {
	return svc.repo.GetSchoolByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context) ([]School, error) {
	return svc.repo.QuerySchools(ctx)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSchool) (School, error) {
	sch, err := svc.repo.GetSchoolByID(ctx, id)
	if err != nil {
		return School{}, err
	}
	if name := core.CleanString(us.Name); name != "" && name != sch.Name {
		if err := svc.checkNameUniqueness(ctx, name); err != nil {
			return School{}, err
		}
		sch.Name = name
	}
	if email := core.CleanString(us.Email, true /* lower */); email != "" {
		sch.Email = email
	}
	if us.Address != "" {
		sch.Address = null.StringFrom(us.Address)
	}
	if us.Phone != "" {
		sch.Phone = null.StringFrom(us.Phone)
	}
	if us.Website != "" {
		sch.Website = null.StringFrom(us.Website)
	}
	if us.Logo != "" {
		sch.Logo = null.StringFrom(us.Logo)
	}
	if us.Description != "" {
		sch.Description = null.StringFrom(us.Description)
	}
	sch.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSchool(ctx, sch)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteSchool(ctx, id)
}

// Settings

func (svc *Service) CreateSetting(ctx context.Context, schoolID string, ns NewSetting) (Setting, error) {
	now := time.Now().UTC()
	return svc.repo.CreateSetting(ctx, Setting{
		SchoolID:  schoolID,
		Name:      core.CleanString(ns.Name),
		Value:     ns.Value,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetSettingByID(ctx context.Context, id string) (Setting, error) {
	return svc.repo.GetSettingByID(ctx, id)
}

func (svc *Service) QuerySettings(ctx context.Context) ([]Setting, error) {
	return svc.repo.QuerySettings(ctx)
}

func (svc *Service) UpdateSetting(ctx context.Context, id string, ns NewSetting) (Setting, error) {
	set, err := svc.repo.GetSettingByID(ctx, id)
	if err != nil {
		return Setting{}, err
	}
	set.Name = core.CleanString(ns.Name)
	set.Value = ns.Value
	set.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSetting(ctx, set)
}

func (svc *Service) DeleteSetting(ctx context.Context, id string) error {
	return svc.repo.DeleteSetting(ctx, id)
}

// Notices

func (svc *Service) CreateNotice(ctx context.Context, schoolID string, nn NewNotice) (Notice, error) {
	now := time.Now().UTC()
	return svc.repo.CreateNotice(ctx, Notice{
		SchoolID:  schoolID,
		Title:     core.CleanString(nn.Title),
		Content:   nn.Content,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetNoticeByID(ctx context.Context, id string) (Notice, error) {
	return svc.repo.GetNoticeByID(ctx, id)
}

func (svc *Service) QueryNotices(ctx context.Context) ([]Notice, error) {
	return svc.repo.QueryNotices(ctx)
}

func (svc *Service) UpdateNotice(ctx context.Context, id string, nn NewNotice) (Notice, error) {
	ntc, err := svc.repo.GetNoticeByID(ctx, id)
	if err != nil {
		return Notice{}, err
	}
	ntc.Title = core.CleanString(nn.Title)
	ntc.Content = nn.Content
	ntc.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateNotice(ctx, ntc)
}

func (svc *Service) DeleteNotice(ctx context.Context, id string) error {
	return svc.repo.DeleteNotice(ctx, id)
}
