// Package catalogtest provides an in-memory catalog.Store for tests.
package catalogtest

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/catalog"
)

// MemoryStore keeps the catalog in maps and enforces the same uniqueness
// rules as the PostgreSQL indexes.
type MemoryStore struct {
	mu           sync.Mutex
	schemes      map[string]catalog.Scheme
	courses      map[string]catalog.Course
	enrollments  []catalog.Enrollment
	vacancies    map[string]catalog.Vacancy
	applications []catalog.Application
	now          func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		schemes:   make(map[string]catalog.Scheme),
		courses:   make(map[string]catalog.Course),
		vacancies: make(map[string]catalog.Vacancy),
		now:       time.Now,
	}
}

func clone(a pq.StringArray) pq.StringArray {
	if a == nil {
		return nil
	}
	return append(pq.StringArray(nil), a...)
}

func (m *MemoryStore) ListSchemes(_ context.Context, f catalog.SchemeFilter) ([]catalog.Scheme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []catalog.Scheme
	for _, s := range m.schemes {
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, copyScheme(s))
	}
	slices.SortFunc(out, func(a, b catalog.Scheme) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *MemoryStore) GetScheme(_ context.Context, id string) (*catalog.Scheme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.schemes[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	s = copyScheme(s)
	return &s, nil
}

func (m *MemoryStore) CreateScheme(_ context.Context, s *catalog.Scheme) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.schemeNameTaken(s.Name, s.ID) {
		return apperr.Duplicate("name")
	}
	now := m.now()
	s.CreatedAt, s.UpdatedAt = now, now
	m.schemes[s.ID] = copyScheme(*s)
	return nil
}

func (m *MemoryStore) UpdateScheme(_ context.Context, s *catalog.Scheme) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.schemes[s.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	if m.schemeNameTaken(s.Name, s.ID) {
		return apperr.Duplicate("name")
	}
	s.CreatedAt, s.UpdatedAt = old.CreatedAt, m.now()
	m.schemes[s.ID] = copyScheme(*s)
	return nil
}

func (m *MemoryStore) DeleteScheme(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.schemes[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.schemes, id)
	return nil
}

func (m *MemoryStore) schemeNameTaken(name, exceptID string) bool {
	for id, s := range m.schemes {
		if id != exceptID && s.Name == name {
			return true
		}
	}
	return false
}

func copyScheme(s catalog.Scheme) catalog.Scheme {
	s.Benefits = clone(s.Benefits)
	s.Eligibility = clone(s.Eligibility)
	s.DocumentsRequired = clone(s.DocumentsRequired)
	return s
}

func (m *MemoryStore) ListCourses(_ context.Context) ([]catalog.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]catalog.Course, 0, len(m.courses))
	for _, c := range m.courses {
		c.RequiredSkills = clone(c.RequiredSkills)
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b catalog.Course) int { return a.StartDate.Compare(b.StartDate) })
	return out, nil
}

func (m *MemoryStore) GetCourse(_ context.Context, id string) (*catalog.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.courses[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	c.RequiredSkills = clone(c.RequiredSkills)
	return &c, nil
}

func (m *MemoryStore) CreateCourse(_ context.Context, c *catalog.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	c.CreatedAt, c.UpdatedAt = now, now
	stored := *c
	stored.RequiredSkills = clone(c.RequiredSkills)
	m.courses[c.ID] = stored
	return nil
}

func (m *MemoryStore) UpdateCourse(_ context.Context, c *catalog.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.courses[c.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	c.CreatedAt, c.UpdatedAt = old.CreatedAt, m.now()
	stored := *c
	stored.RequiredSkills = clone(c.RequiredSkills)
	m.courses[c.ID] = stored
	return nil
}

func (m *MemoryStore) DeleteCourse(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.courses[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.courses, id)
	m.enrollments = slices.DeleteFunc(m.enrollments, func(e catalog.Enrollment) bool { return e.CourseID == id })
	return nil
}

func (m *MemoryStore) Enroll(_ context.Context, e *catalog.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.enrollments {
		if existing.CourseID == e.CourseID && existing.AccountID == e.AccountID {
			return apperr.Duplicate("enrollment")
		}
	}
	m.enrollments = append(m.enrollments, *e)
	return nil
}

// Enrollments returns the enrollments of a course.
func (m *MemoryStore) Enrollments(courseID string) []catalog.Enrollment {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []catalog.Enrollment
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out
}

func (m *MemoryStore) ListVacancies(_ context.Context, f catalog.VacancyFilter) ([]catalog.Vacancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []catalog.Vacancy
	for _, v := range m.vacancies {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(v.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.PostedBy != "" && v.PostedBy != f.PostedBy {
			continue
		}
		v.RequiredSkills = clone(v.RequiredSkills)
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b catalog.Vacancy) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *MemoryStore) GetVacancy(_ context.Context, id string) (*catalog.Vacancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vacancies[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	v.RequiredSkills = clone(v.RequiredSkills)
	return &v, nil
}

func (m *MemoryStore) CreateVacancy(_ context.Context, v *catalog.Vacancy) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	v.CreatedAt, v.UpdatedAt = now, now
	stored := *v
	stored.RequiredSkills = clone(v.RequiredSkills)
	m.vacancies[v.ID] = stored
	return nil
}

func (m *MemoryStore) UpdateVacancy(_ context.Context, v *catalog.Vacancy) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.vacancies[v.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	v.CreatedAt, v.UpdatedAt = old.CreatedAt, m.now()
	stored := *v
	stored.RequiredSkills = clone(v.RequiredSkills)
	m.vacancies[v.ID] = stored
	return nil
}

func (m *MemoryStore) DeleteVacancy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.vacancies[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.vacancies, id)
	m.applications = slices.DeleteFunc(m.applications, func(a catalog.Application) bool { return a.VacancyID == id })
	return nil
}

func (m *MemoryStore) Apply(_ context.Context, a *catalog.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.applications {
		if existing.VacancyID == a.VacancyID && existing.AccountID == a.AccountID {
			return apperr.Duplicate("application")
		}
	}
	a.UpdatedAt = a.AppliedAt
	m.applications = append(m.applications, *a)
	return nil
}

func (m *MemoryStore) ListApplications(_ context.Context, vacancyID string) ([]catalog.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []catalog.Application
	for _, a := range m.applications {
		if a.VacancyID == vacancyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemoryStore) SetApplicationStatus(_ context.Context, vacancyID, accountID, status string) (*catalog.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, a := range m.applications {
		if a.VacancyID == vacancyID && a.AccountID == accountID {
			a.Status = status
			a.UpdatedAt = m.now()
			m.applications[i] = a
			return &a, nil
		}
	}
	return nil, apperr.ErrNotFound
}
