package search

import (
	"context"
	"testing"

	"github.com/jsimpson73/test-med-app/internal/catalog"
	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typesense/typesense-go/v2/typesense/api"
)

func TestDoctorDocument(t *testing.T) {
	d, ok := catalog.DoctorByID(2)
	require.True(t, ok)

	doc := doctorDocument(d)
	assert.Equal(t, "2", doc["id"])
	assert.Equal(t, 2, doc["doctor_id"])
	assert.Equal(t, "Cardiologist", doc["specialty"])
	assert.Equal(t, d.Availability, doc["availability"])
}

func TestBuildSearchParams(t *testing.T) {
	t.Run("match all", func(t *testing.T) {
		params, ok := buildSearchParams(entities.DoctorFilter{})
		require.True(t, ok)
		assert.Equal(t, "*", *params.Q)
		assert.Nil(t, params.FilterBy)
		assert.Nil(t, params.Infix)
	})

	t.Run("specialty is canonicalized", func(t *testing.T) {
		params, ok := buildSearchParams(entities.DoctorFilter{Specialty: "ent specialist"})
		require.True(t, ok)
		require.NotNil(t, params.FilterBy)
		assert.Equal(t, "specialty:=`ENT Specialist`", *params.FilterBy)
	})

	t.Run("unknown specialty never matches", func(t *testing.T) {
		_, ok := buildSearchParams(entities.DoctorFilter{Specialty: "Dentist"})
		assert.False(t, ok)
	})

	t.Run("free text uses infix search", func(t *testing.T) {
		params, ok := buildSearchParams(entities.DoctorFilter{Search: "  chen "})
		require.True(t, ok)
		assert.Equal(t, "chen", *params.Q)
		require.NotNil(t, params.Infix)
		assert.Equal(t, "always,always", *params.Infix)
	})
}

func TestDoctorIDsFromHits(t *testing.T) {
	doc := func(m map[string]interface{}) *map[string]interface{} { return &m }

	ids, err := doctorIDsFromHits([]api.SearchResultHit{
		{Document: doc(map[string]interface{}{"id": "2", "doctor_id": float64(2)})},
		{Document: nil},
		{Document: doc(map[string]interface{}{"id": "7"})},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 7}, ids)

	_, err = doctorIDsFromHits([]api.SearchResultHit{{Document: doc(map[string]interface{}{"id": "x"})}})
	assert.Error(t, err)
}

func TestMemoryAdapter(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryAdapter()

	ids, err := idx.Search(ctx, entities.DoctorFilter{Search: "dr"})
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, idx.Index(ctx, catalog.Doctors()))
	require.NoError(t, idx.Index(ctx, []entities.Doctor{{ID: 3, Name: "Dr. Emily Williams-Park", Specialty: "Dermatologist"}}))

	ids, err = idx.Search(ctx, entities.DoctorFilter{Search: "park"})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ids)

	ids, err = idx.Search(ctx, entities.DoctorFilter{Specialty: "orthopedic"})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, ids)

	ids, err = idx.Search(ctx, entities.DoctorFilter{})
	require.NoError(t, err)
	assert.Len(t, ids, 8)
}
