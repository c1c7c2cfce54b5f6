package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/oops"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/db"
)

// SchemeFilter narrows ListSchemes. Empty fields match everything.
type SchemeFilter struct {
	Category string
	Status   string
}

// VacancyFilter narrows ListVacancies. Location matches as a
// case-insensitive substring.
type VacancyFilter struct {
	Status   string
	Location string
	PostedBy string
}

// Store persists the catalog. Lookups of unknown ids return
// apperr.ErrNotFound; uniqueness conflicts return *apperr.DuplicateError.
type Store interface {
	ListSchemes(ctx context.Context, f SchemeFilter) ([]Scheme, error)
	GetScheme(ctx context.Context, id string) (*Scheme, error)
	CreateScheme(ctx context.Context, s *Scheme) error
	UpdateScheme(ctx context.Context, s *Scheme) error
	DeleteScheme(ctx context.Context, id string) error

	ListCourses(ctx context.Context) ([]Course, error)
	GetCourse(ctx context.Context, id string) (*Course, error)
	CreateCourse(ctx context.Context, c *Course) error
	UpdateCourse(ctx context.Context, c *Course) error
	// DeleteCourse removes the course and its enrollments.
	DeleteCourse(ctx context.Context, id string) error
	Enroll(ctx context.Context, e *Enrollment) error

	ListVacancies(ctx context.Context, f VacancyFilter) ([]Vacancy, error)
	GetVacancy(ctx context.Context, id string) (*Vacancy, error)
	CreateVacancy(ctx context.Context, v *Vacancy) error
	UpdateVacancy(ctx context.Context, v *Vacancy) error
	// DeleteVacancy removes the vacancy and its applications.
	DeleteVacancy(ctx context.Context, id string) error
	Apply(ctx context.Context, a *Application) error
	ListApplications(ctx context.Context, vacancyID string) ([]Application, error)
	SetApplicationStatus(ctx context.Context, vacancyID, accountID, status string) (*Application, error)
}

// unique index name -> field reported to the client
var constraintFields = map[string]string{
	"idx_schemes_name":                 "name",
	"idx_enrollments_course_account":   "enrollment",
	"idx_applications_vacancy_account": "application",
}

// GormStore implements Store on PostgreSQL.
type GormStore struct {
	gdb *gorm.DB
}

// NewGormStore creates a GormStore.
func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{gdb: gdb}
}

// Migrate creates the catalog schema and its tables.
func Migrate(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, "catalog"); err != nil {
		return oops.Code("CATALOG_MIGRATE_FAILED").With("schema", "catalog").Wrap(err)
	}
	if err := gdb.AutoMigrate(&Scheme{}, &Course{}, &Enrollment{}, &Vacancy{}, &Application{}); err != nil {
		return oops.Code("CATALOG_MIGRATE_FAILED").Wrap(err)
	}
	return nil
}

// writeErr classifies a failed write.
func writeErr(code string, err error) error {
	if constraint, ok := db.UniqueViolation(err); ok {
		if field, known := constraintFields[constraint]; known {
			return apperr.Duplicate(field)
		}
	}
	return oops.Code(code).Wrap(err)
}

// readErr classifies a failed single-row read.
func readErr(code, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return oops.Code(code).With("id", id).Wrap(err)
}

func (s *GormStore) ListSchemes(ctx context.Context, f SchemeFilter) ([]Scheme, error) {
	q := s.gdb.WithContext(ctx).Order("name")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []Scheme
	if err := q.Find(&out).Error; err != nil {
		return nil, oops.Code("SCHEME_LIST_FAILED").Wrap(err)
	}
	return out, nil
}

func (s *GormStore) GetScheme(ctx context.Context, id string) (*Scheme, error) {
	var sc Scheme
	if err := s.gdb.WithContext(ctx).First(&sc, "id = ?", id).Error; err != nil {
		return nil, readErr("SCHEME_LOOKUP_FAILED", id, err)
	}
	return &sc, nil
}

func (s *GormStore) CreateScheme(ctx context.Context, sc *Scheme) error {
	if err := s.gdb.WithContext(ctx).Create(sc).Error; err != nil {
		return writeErr("SCHEME_CREATE_FAILED", err)
	}
	return nil
}

func (s *GormStore) UpdateScheme(ctx context.Context, sc *Scheme) error {
	return s.save(ctx, "SCHEME_UPDATE_FAILED", sc)
}

func (s *GormStore) DeleteScheme(ctx context.Context, id string) error {
	return s.delete(ctx, "SCHEME_DELETE_FAILED", &Scheme{}, id)
}

func (s *GormStore) ListCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := s.gdb.WithContext(ctx).Order("start_date").Find(&out).Error; err != nil {
		return nil, oops.Code("COURSE_LIST_FAILED").Wrap(err)
	}
	return out, nil
}

func (s *GormStore) GetCourse(ctx context.Context, id string) (*Course, error) {
	var c Course
	if err := s.gdb.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, readErr("COURSE_LOOKUP_FAILED", id, err)
	}
	return &c, nil
}

func (s *GormStore) CreateCourse(ctx context.Context, c *Course) error {
	if err := s.gdb.WithContext(ctx).Create(c).Error; err != nil {
		return writeErr("COURSE_CREATE_FAILED", err)
	}
	return nil
}

func (s *GormStore) UpdateCourse(ctx context.Context, c *Course) error {
	return s.save(ctx, "COURSE_UPDATE_FAILED", c)
}

func (s *GormStore) DeleteCourse(ctx context.Context, id string) error {
	return s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&Enrollment{}).Error; err != nil {
			return oops.Code("COURSE_DELETE_FAILED").With("id", id).Wrap(err)
		}
		return (&GormStore{gdb: tx}).delete(ctx, "COURSE_DELETE_FAILED", &Course{}, id)
	})
}

func (s *GormStore) Enroll(ctx context.Context, e *Enrollment) error {
	if err := s.gdb.WithContext(ctx).Create(e).Error; err != nil {
		return writeErr("ENROLL_FAILED", err)
	}
	return nil
}

func (s *GormStore) ListVacancies(ctx context.Context, f VacancyFilter) ([]Vacancy, error) {
	q := s.gdb.WithContext(ctx).Order("created_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Location != "" {
		q = q.Where("location ILIKE ?", "%"+escapeLike(f.Location)+"%")
	}
	if f.PostedBy != "" {
		q = q.Where("posted_by = ?", f.PostedBy)
	}
	var out []Vacancy
	if err := q.Find(&out).Error; err != nil {
		return nil, oops.Code("VACANCY_LIST_FAILED").Wrap(err)
	}
	return out, nil
}

func (s *GormStore) GetVacancy(ctx context.Context, id string) (*Vacancy, error) {
	var v Vacancy
	if err := s.gdb.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, readErr("VACANCY_LOOKUP_FAILED", id, err)
	}
	return &v, nil
}

func (s *GormStore) CreateVacancy(ctx context.Context, v *Vacancy) error {
	if err := s.gdb.WithContext(ctx).Create(v).Error; err != nil {
		return writeErr("VACANCY_CREATE_FAILED", err)
	}
	return nil
}

func (s *GormStore) UpdateVacancy(ctx context.Context, v *Vacancy) error {
	return s.save(ctx, "VACANCY_UPDATE_FAILED", v)
}

func (s *GormStore) DeleteVacancy(ctx context.Context, id string) error {
	return s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vacancy_id = ?", id).Delete(&Application{}).Error; err != nil {
			return oops.Code("VACANCY_DELETE_FAILED").With("id", id).Wrap(err)
		}
		return (&GormStore{gdb: tx}).delete(ctx, "VACANCY_DELETE_FAILED", &Vacancy{}, id)
	})
}

func (s *GormStore) Apply(ctx context.Context, a *Application) error {
	if err := s.gdb.WithContext(ctx).Create(a).Error; err != nil {
		return writeErr("APPLY_FAILED", err)
	}
	return nil
}

func (s *GormStore) ListApplications(ctx context.Context, vacancyID string) ([]Application, error) {
	var out []Application
	err := s.gdb.WithContext(ctx).Where("vacancy_id = ?", vacancyID).Order("applied_at").Find(&out).Error
	if err != nil {
		return nil, oops.Code("APPLICATION_LIST_FAILED").With("vacancy_id", vacancyID).Wrap(err)
	}
	return out, nil
}

func (s *GormStore) SetApplicationStatus(ctx context.Context, vacancyID, accountID, status string) (*Application, error) {
	var a Application
	res := s.gdb.WithContext(ctx).Model(&a).
		Clauses(clause.Returning{}).
		Where("vacancy_id = ? AND account_id = ?", vacancyID, accountID).
		Update("status", status)
	if res.Error != nil {
		return nil, oops.Code("APPLICATION_UPDATE_FAILED").With("vacancy_id", vacancyID).Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.ErrNotFound
	}
	return &a, nil
}

// save updates every column of an existing row.
func (s *GormStore) save(ctx context.Context, code string, model any) error {
	res := s.gdb.WithContext(ctx).Select("*").Omit("created_at").Updates(model)
	if res.Error != nil {
		return writeErr(code, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *GormStore) delete(ctx context.Context, code string, model any, id string) error {
	res := s.gdb.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return oops.Code(code).With("id", id).Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
