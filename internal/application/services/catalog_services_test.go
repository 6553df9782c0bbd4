package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jsimpson73/test-med-app/internal/application/services"
	"github.com/jsimpson73/test-med-app/internal/catalog"
	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDoctorSearch struct {
	mock.Mock
}

func (m *MockDoctorSearch) Index(ctx context.Context, doctors []entities.Doctor) error {
	args := m.Called(ctx, doctors)
	return args.Error(0)
}

func (m *MockDoctorSearch) Search(ctx context.Context, filter entities.DoctorFilter) ([]int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func names(ds []entities.Doctor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name
	}
	return out
}

func TestDirectoryService_InMemoryFilter(t *testing.T) {
	ctx := context.Background()
	svc := services.NewDirectoryService(nil, nil)

	all, err := svc.Doctors(ctx, entities.DoctorFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 8)

	cardio, err := svc.Doctors(ctx, entities.DoctorFilter{Specialty: "cardiologist"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Michael Chen"}, names(cardio))

	partial, err := svc.Doctors(ctx, entities.DoctorFilter{Specialty: "Cardio"})
	require.NoError(t, err)
	assert.Empty(t, partial)

	byName, err := svc.Doctors(ctx, entities.DoctorFilter{Search: "wil"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Emily Williams"}, names(byName))

	bySpecialty, err := svc.Doctors(ctx, entities.DoctorFilter{Search: "LOG"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Michael Chen", "Dr. Emily Williams", "Dr. Lisa Thompson", "Dr. Robert Anderson"}, names(bySpecialty))

	both, err := svc.Doctors(ctx, entities.DoctorFilter{Specialty: "Neurologist", Search: "chen"})
	require.NoError(t, err)
	assert.Empty(t, both)
}

func TestDirectoryService_UsesSearchIndex(t *testing.T) {
	ctx := context.Background()
	search := new(MockDoctorSearch)
	search.On("Search", mock.Anything, entities.DoctorFilter{Search: "heart"}).Return([]int{2, 99, 6}, nil)

	svc := services.NewDirectoryService(search, nil)
	got, err := svc.Doctors(ctx, entities.DoctorFilter{Search: " heart "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Michael Chen", "Dr. Robert Anderson"}, names(got))
	search.AssertExpectations(t)
}

func TestDirectoryService_FallsBackWhenIndexFails(t *testing.T) {
	ctx := context.Background()
	search := new(MockDoctorSearch)
	search.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("typesense unavailable"))

	svc := services.NewDirectoryService(search, nil)
	got, err := svc.Doctors(ctx, entities.DoctorFilter{Specialty: "Pediatrician"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. James Rodriguez"}, names(got))
}

func TestDirectoryService_IndexCatalog(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, services.NewDirectoryService(nil, nil).IndexCatalog(ctx))

	search := new(MockDoctorSearch)
	search.On("Index", mock.Anything, catalog.Doctors()).Return(nil).Once()
	require.NoError(t, services.NewDirectoryService(search, nil).IndexCatalog(ctx))
	search.AssertExpectations(t)
}

func TestDirectoryService_Lookups(t *testing.T) {
	ctx := context.Background()
	svc := services.NewDirectoryService(nil, nil)

	d, err := svc.Doctor(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, "Dr. David Kim", d.Name)

	_, err = svc.Doctor(ctx, 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	assert.Len(t, svc.Specialties(), 10)
	assert.Equal(t, "Stay Hydrated", svc.HealthTips()[0].Title)
	assert.Equal(t, "BMI Calculator", svc.CheckupTopics()[1].Title)
}

func TestReportService(t *testing.T) {
	svc := services.NewReportService()
	require.Len(t, svc.List(), 5)

	r, err := svc.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "Lipid Panel Test", r.Title)
	assert.Equal(t, "Lipid_Panel_Test.pdf", services.DownloadName(*r))
	assert.Equal(t, "#ffc107", services.StatusColor(r.Status))

	_, err = svc.Get(6)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	assert.Equal(t, "Complete_Blood_Count_(CBC).pdf", services.DownloadName(entities.MedicalReport{Title: "Complete  Blood\tCount (CBC)"}))
	assert.Equal(t, "#28a745", services.StatusColor("Good"))
	assert.Equal(t, "#dc3545", services.StatusColor("Critical"))
	assert.Equal(t, "#6c757d", services.StatusColor("Pending"))
}

func TestSimulateLatency(t *testing.T) {
	assert.NoError(t, services.SimulateLatency(context.Background(), 0))
	assert.NoError(t, services.SimulateLatency(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := services.SimulateLatency(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
