package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasadev/darasa/core/school"
)

type schoolRepository struct {
	schools  *schoolTable
	settings *settingTable
	notices  *noticeTable
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{
		schools:  db.school,
		settings: db.setting,
		notices:  db.notice,
	}
}

// Schools

func (repo *schoolRepository) CheckNameUniqueness(ctx context.Context, name string) error {
	repo.schools.RLock()
	defer repo.schools.RUnlock()

	for _, sch := range repo.schools.table {
		if sch.Name == name {
			return school.ErrNameExists
		}
	}
	return nil
}

func (repo *schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	repo.schools.Lock()
	defer repo.schools.Unlock()

	sch.ID = uuid.New().String()
	repo.schools.table[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	repo.schools.RLock()
	defer repo.schools.RUnlock()

	if sch, ok := repo.schools.table[id]; ok {
		return *sch, nil
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) QuerySchools(ctx context.Context) ([]school.School, error) {
	repo.schools.RLock()
	defer repo.schools.RUnlock()

	schools := make([]school.School, 0, len(repo.schools.table))
	for _, sch := range repo.schools.table {
		schools = append(schools, *sch)
	}
	sort.Slice(schools, func(i, j int) bool { return schools[i].Name < schools[j].Name })
	return schools, nil
}

func (repo *schoolRepository) UpdateSchool(ctx context.Context, sch school.School) (school.School, error) {
	repo.schools.Lock()
	defer repo.schools.Unlock()

	if _, ok := repo.schools.table[sch.ID]; !ok {
		return school.School{}, school.ErrNotFound
	}
	repo.schools.table[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) DeleteSchool(ctx context.Context, id string) error {
	repo.schools.Lock()
	defer repo.schools.Unlock()

	delete(repo.schools.table, id)
	return nil
}

// Settings

func (repo *schoolRepository) CreateSetting(ctx context.Context, set school.Setting) (school.Setting, error) {
	repo.settings.Lock()
	defer repo.settings.Unlock()

	set.ID = uuid.New().String()
	repo.settings.table[set.ID] = &set
	return set, nil
}

func (repo *schoolRepository) GetSettingByID(ctx context.Context, id string) (school.Setting, error) {
	repo.settings.RLock()
	defer repo.settings.RUnlock()

	if set, ok := repo.settings.table[id]; ok {
		return *set, nil
	}
	return school.Setting{}, school.ErrNotFound
}

func (repo *schoolRepository) QuerySettings(ctx context.Context) ([]school.Setting, error) {
	repo.settings.RLock()
	defer repo.settings.RUnlock()

	settings := make([]school.Setting, 0, len(repo.settings.table))
	for _, set := range repo.settings.table {
		settings = append(settings, *set)
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Name < settings[j].Name })
	return settings, nil
}

func (repo *schoolRepository) UpdateSetting(ctx context.Context, set school.Setting) (school.Setting, error) {
	repo.settings.Lock()
	defer repo.settings.Unlock()

	if _, ok := repo.settings.table[set.ID]; !ok {
		return school.Setting{}, school.ErrNotFound
	}
	repo.settings.table[set.ID] = &set
	return set, nil
}

func (repo *schoolRepository) DeleteSetting(ctx context.Context, id string) error {
	repo.settings.Lock()
	defer repo.settings.Unlock()

	delete(repo.settings.table, id)
	return nil
}

// Notices

func (repo *schoolRepository) CreateNotice(ctx context.Context, ntc school.Notice) (school.Notice, error) {
	repo.notices.Lock()
	defer repo.notices.Unlock()

	ntc.ID = uuid.New().String()
	repo.notices.table[ntc.ID] = &ntc
	return ntc, nil
}

func (repo *schoolRepository) GetNoticeByID(ctx context.Context, id string) (school.Notice, error) {
	repo.notices.RLock()
	defer repo.notices.RUnlock()

	if ntc, ok := repo.notices.table[id]; ok {
		return *ntc, nil
	}
	return school.Notice{}, school.ErrNotFound
}

func (repo *schoolRepository) QueryNotices(ctx context.Context) ([]school.Notice, error) {
	repo.notices.RLock()
	defer repo.notices.RUnlock()

	notices := make([]school.Notice, 0, len(repo.notices.table))
	for _, ntc := range repo.notices.table {
		notices = append(notices, *ntc)
	}
	sort.Slice(notices, func(i, j int) bool { return notices[i].CreatedAt.After(notices[j].CreatedAt) })
	return notices, nil
}

func (repo *schoolRepository) UpdateNotice(ctx context.Context, ntc school.Notice) (school.Notice, error) {
	repo.notices.Lock()
	defer repo.notices.Unlock()

	if _, ok := repo.notices.table[ntc.ID]; !ok {
		return school.Notice{}, school.ErrNotFound
	}
	repo.notices.table[ntc.ID] = &ntc
	return ntc, nil
}

func (repo *schoolRepository) DeleteNotice(ctx context.Context, id string) error {
	repo.notices.Lock()
	defer repo.notices.Unlock()

	delete(repo.notices.table, id)
	return nil
}
