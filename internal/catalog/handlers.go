package catalog

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/token"
	"github.com/adityakumar60853/nirmaan/internal/utils"
	"github.com/adityakumar60853/nirmaan/internal/validation"
)

// Handlers serves the scheme, course and vacancy endpoints.
type Handlers struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// NewHandlers creates Handlers.
func NewHandlers(store Store, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, log: logger, now: time.Now}
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	utils.WriteError(w, r, h.log, err)
}

// pathID reads a uuid URL parameter. Anything else cannot name a row.
func pathID(r *http.Request, name string) (string, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return "", apperr.ErrNotFound
	}
	return id.String(), nil
}

func caller(r *http.Request) (*token.Claims, error) {
	c, ok := utils.ClaimsFromContext(r.Context())
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	return c, nil
}

// canManage: admins manage everything, everyone else only what they own.
func canManage(c *token.Claims, ownerID string) bool {
	return c.Role == account.RoleAdmin || c.AccountID() == ownerID
}

// Schemes

func (h *Handlers) ListSchemesHandler(w http.ResponseWriter, r *http.Request) {
	f := SchemeFilter{Category: r.URL.Query().Get("category"), Status: SchemeActive}
	if f.Category != "" && !slices.Contains(SchemeCategories, f.Category) {
		h.fail(w, r, apperr.Validation("category", "is not a known scheme category"))
		return
	}
	schemes, err := h.store.ListSchemes(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, nonNil(schemes))
}

func (h *Handlers) GetSchemeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := h.store.GetScheme(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

func (h *Handlers) CreateSchemeHandler(w http.ResponseWriter, r *http.Request) {
	var in SchemeInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	s := &Scheme{ID: uuid.NewString()}
	in.Apply(s)
	if err := h.store.CreateScheme(r.Context(), s); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, s)
}

func (h *Handlers) UpdateSchemeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := h.store.GetScheme(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var in SchemeInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	in.Apply(s)
	if err := h.store.UpdateScheme(r.Context(), s); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

func (h *Handlers) DeleteSchemeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.DeleteScheme(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Scheme deleted successfully"})
}

// Courses

func (h *Handlers) ListCoursesHandler(w http.ResponseWriter, r *http.Request) {
	courses, err := h.store.ListCourses(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, nonNil(courses))
}

func (h *Handlers) GetCourseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.store.GetCourse(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handlers) CreateCourseHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in CourseInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	c := &Course{ID: uuid.NewString(), InstructorID: claims.AccountID()}
	in.Apply(c)
	if err := h.store.CreateCourse(r.Context(), c); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// ownedCourse loads the course named in the URL and checks that the caller
// may change it.
func (h *Handlers) ownedCourse(r *http.Request) (*Course, error) {
	claims, err := caller(r)
	if err != nil {
		return nil, err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	c, err := h.store.GetCourse(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !canManage(claims, c.InstructorID) {
		return nil, apperr.ErrForbidden
	}
	return c, nil
}

func (h *Handlers) UpdateCourseHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownedCourse(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in CourseInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	in.Apply(c)
	if err := h.store.UpdateCourse(r.Context(), c); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handlers) DeleteCourseHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownedCourse(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.DeleteCourse(r.Context(), c.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Course deleted successfully"})
}

func (h *Handlers) EnrollHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.store.GetCourse(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if c.Status == CourseCompleted {
		h.fail(w, r, apperr.Validation("status", "course has already completed"))
		return
	}

	e := &Enrollment{ID: uuid.NewString(), CourseID: c.ID, AccountID: claims.AccountID(), EnrolledAt: h.now().UTC()}
	if err := h.store.Enroll(r.Context(), e); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, e)
}

// Vacancies

func (h *Handlers) ListVacanciesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := VacancyFilter{Status: q.Get("status"), Location: q.Get("location")}
	switch f.Status {
	case "", VacancyOpen, VacancyClosed, VacancyOnHold:
	default:
		h.fail(w, r, apperr.Validation("status", "must be one of open closed on-hold"))
		return
	}
	vacancies, err := h.store.ListVacancies(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, nonNil(vacancies))
}

func (h *Handlers) GetVacancyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.store.GetVacancy(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, v)
}

func (h *Handlers) CreateVacancyHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in VacancyInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	v := &Vacancy{ID: uuid.NewString(), PostedBy: claims.AccountID()}
	in.Apply(v)
	if err := h.store.CreateVacancy(r.Context(), v); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, v)
}

// ownedVacancy loads the vacancy named in the URL and checks that the caller
// may manage it. adminToo controls whether administrators qualify.
func (h *Handlers) ownedVacancy(r *http.Request, adminToo bool) (*Vacancy, error) {
	claims, err := caller(r)
	if err != nil {
		return nil, err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	v, err := h.store.GetVacancy(r.Context(), id)
	if err != nil {
		return nil, err
	}
	owner := claims.AccountID() == v.PostedBy
	if !owner && !(adminToo && canManage(claims, v.PostedBy)) {
		return nil, apperr.ErrForbidden
	}
	return v, nil
}

func (h *Handlers) UpdateVacancyHandler(w http.ResponseWriter, r *http.Request) {
	v, err := h.ownedVacancy(r, true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in VacancyInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	in.Apply(v)
	if err := h.store.UpdateVacancy(r.Context(), v); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, v)
}

func (h *Handlers) DeleteVacancyHandler(w http.ResponseWriter, r *http.Request) {
	v, err := h.ownedVacancy(r, true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.DeleteVacancy(r.Context(), v.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Vacancy deleted successfully"})
}

func (h *Handlers) ApplyHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.store.GetVacancy(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if v.Status != VacancyOpen {
		h.fail(w, r, apperr.Validation("status", "vacancy is not open for applications"))
		return
	}

	a := &Application{
		ID:        uuid.NewString(),
		VacancyID: v.ID,
		AccountID: claims.AccountID(),
		Status:    ApplicationPending,
		AppliedAt: h.now().UTC(),
	}
	if err := h.store.Apply(r.Context(), a); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handlers) ListApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	v, err := h.ownedVacancy(r, true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apps, err := h.store.ListApplications(r.Context(), v.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, nonNil(apps))
}

func (h *Handlers) ReviewApplicationHandler(w http.ResponseWriter, r *http.Request) {
	v, err := h.ownedVacancy(r, false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	accountID, err := pathID(r, "accountID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in ApplicationStatusInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := validation.Struct(in); err != nil {
		h.fail(w, r, err)
		return
	}

	a, err := h.store.SetApplicationStatus(r.Context(), v.ID, accountID, in.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, a)
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
