package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/middleware"
	"github.com/adityakumar60853/nirmaan/internal/token"
)

// SchemeRoutes serves /api/schemes. Reads are public; changes are admin only.
func SchemeRoutes(h *Handlers, verifier token.Verifier) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListSchemesHandler)
	r.Get("/{id}", h.GetSchemeHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(verifier))
		r.Use(middleware.RequireRole(account.RoleAdmin))
		r.Post("/", h.CreateSchemeHandler)
		r.Put("/{id}", h.UpdateSchemeHandler)
		r.Delete("/{id}", h.DeleteSchemeHandler)
	})

	return r
}

// CourseRoutes serves /api/courses.
func CourseRoutes(h *Handlers, verifier token.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(verifier))

	r.Get("/", h.ListCoursesHandler)
	r.Get("/{id}", h.GetCourseHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(account.RoleAdmin, account.RoleCSCOperator))
		r.Post("/", h.CreateCourseHandler)
		r.Put("/{id}", h.UpdateCourseHandler)
		r.Delete("/{id}", h.DeleteCourseHandler)
	})

	r.With(middleware.RequireRole(account.RoleRegular)).Post("/{id}/enroll", h.EnrollHandler)

	return r
}

// VacancyRoutes serves /api/vacancies.
func VacancyRoutes(h *Handlers, verifier token.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(verifier))

	r.Get("/", h.ListVacanciesHandler)
	r.Get("/{id}", h.GetVacancyHandler)

	r.With(middleware.RequireRole(account.RoleJobProvider)).Post("/", h.CreateVacancyHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(account.RoleJobProvider, account.RoleAdmin))
		r.Put("/{id}", h.UpdateVacancyHandler)
		r.Delete("/{id}", h.DeleteVacancyHandler)
		r.Get("/{id}/applications", h.ListApplicationsHandler)
	})

	r.With(middleware.RequireRole(account.RoleRegular)).Post("/{id}/apply", h.ApplyHandler)
	r.With(middleware.RequireRole(account.RoleJobProvider)).Patch("/{id}/applications/{accountID}", h.ReviewApplicationHandler)

	return r
}
