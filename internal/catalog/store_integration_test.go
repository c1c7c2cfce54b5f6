package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/catalog"
	"github.com/adityakumar60853/nirmaan/internal/db/dbtest"
)

func newGormStore(t *testing.T) *catalog.GormStore {
	t.Helper()
	gdb := dbtest.Open(t)
	require.NoError(t, catalog.Migrate(gdb))
	t.Cleanup(func() {
		gdb.Exec(`TRUNCATE catalog.schemes, catalog.courses, catalog.enrollments, catalog.vacancies, catalog.applications`)
	})
	return catalog.NewGormStore(gdb)
}

func TestGormStore_Schemes(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	s := &catalog.Scheme{
		ID:                 uuid.NewString(),
		Name:               "PM-KISAN",
		Description:        "Income support for farmer families",
		Benefits:           pq.StringArray{"Rs. 6,000 per year"},
		Eligibility:        pq.StringArray{"Landholding farmers"},
		DocumentsRequired:  pq.StringArray{"Aadhaar card", "Land records"},
		ApplicationProcess: "Register on the portal",
		Website:            "https://pmkisan.gov.in/",
		Category:           "Agriculture",
		Status:             catalog.SchemeActive,
	}
	require.NoError(t, store.CreateScheme(ctx, s))

	dup := *s
	dup.ID = uuid.NewString()
	err := store.CreateScheme(ctx, &dup)
	assert.Equal(t, "name", apperr.Field(err))

	got, err := store.GetScheme(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aadhaar card", "Land records"}, []string(got.DocumentsRequired))

	got.Status = catalog.SchemeInactive
	require.NoError(t, store.UpdateScheme(ctx, got))

	active, err := store.ListSchemes(ctx, catalog.SchemeFilter{Status: catalog.SchemeActive})
	require.NoError(t, err)
	assert.Empty(t, active)

	missing := *got
	missing.ID = uuid.NewString()
	assert.ErrorIs(t, store.UpdateScheme(ctx, &missing), apperr.ErrNotFound)
	assert.ErrorIs(t, store.DeleteScheme(ctx, missing.ID), apperr.ErrNotFound)
	require.NoError(t, store.DeleteScheme(ctx, s.ID))
}

func TestGormStore_Applications(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	v := &catalog.Vacancy{
		ID:                 uuid.NewString(),
		Title:              "Mason",
		Description:        "Housing site work",
		RequiredExperience: "entry",
		Location:           "Gaya_100%",
		EmploymentType:     "contract",
		PostedBy:           uuid.NewString(),
		Status:             catalog.VacancyOpen,
	}
	require.NoError(t, store.CreateVacancy(ctx, v))

	seeker := uuid.NewString()
	app := &catalog.Application{
		ID:        uuid.NewString(),
		VacancyID: v.ID,
		AccountID: seeker,
		Status:    catalog.ApplicationPending,
		AppliedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Apply(ctx, app))

	again := *app
	again.ID = uuid.NewString()
	assert.Equal(t, "application", apperr.Field(store.Apply(ctx, &again)))

	updated, err := store.SetApplicationStatus(ctx, v.ID, seeker, catalog.ApplicationAccepted)
	require.NoError(t, err)
	assert.Equal(t, catalog.ApplicationAccepted, updated.Status)
	assert.Equal(t, app.ID, updated.ID)

	_, err = store.SetApplicationStatus(ctx, v.ID, uuid.NewString(), catalog.ApplicationRejected)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	found, err := store.ListVacancies(ctx, catalog.VacancyFilter{Location: "_100%"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	none, err := store.ListVacancies(ctx, catalog.VacancyFilter{Location: "y%1"})
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, store.DeleteVacancy(ctx, v.ID))
	apps, err := store.ListApplications(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, apps)
}
