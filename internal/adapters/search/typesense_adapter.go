package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jsimpson73/test-med-app/internal/catalog"
	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	tsclient "github.com/jsimpson73/test-med-app/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const searchPageSize = 100

// TypesenseAdapter implements doctor search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements DoctorSearchProvider
var _ providers.DoctorSearchProvider = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts the doctors, creating the collection first if needed
func (a *TypesenseAdapter) Index(ctx context.Context, doctors []entities.Doctor) error {
	if err := a.client.InitSchema(ctx); err != nil {
		return err
	}

	docs := a.client.Client().Collection(tsclient.DoctorsCollection).Documents()
	for _, d := range doctors {
		if _, err := docs.Upsert(ctx, doctorDocument(d)); err != nil {
			return fmt.Errorf("failed to index doctor %d: %w", d.ID, err)
		}
	}
	return nil
}

// Search returns matching doctor ids
func (a *TypesenseAdapter) Search(ctx context.Context, filter entities.DoctorFilter) ([]int, error) {
	params, ok := buildSearchParams(filter)
	if !ok {
		return []int{}, nil
	}

	result, err := a.client.Client().Collection(tsclient.DoctorsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search doctors: %w", err)
	}
	if result.Hits == nil {
		return []int{}, nil
	}
	return doctorIDsFromHits(*result.Hits)
}

func doctorDocument(d entities.Doctor) map[string]interface{} {
	return map[string]interface{}{
		"id":           strconv.Itoa(d.ID),
		"doctor_id":    d.ID,
		"name":         d.Name,
		"specialty":    d.Specialty,
		"experience":   d.Experience,
		"rating":       d.Rating,
		"education":    d.Education,
		"availability": d.Availability,
	}
}

// buildSearchParams translates a filter into a Typesense query. It returns
// false when the specialty is unknown, which can never match.
func buildSearchParams(filter entities.DoctorFilter) (*api.SearchCollectionParams, bool) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String("*"),
		QueryBy: pointer.String("name,specialty"),
		SortBy:  pointer.String("doctor_id:asc"),
		Page:    pointer.Int(1),
		PerPage: pointer.Int(searchPageSize),
	}

	if q := strings.TrimSpace(filter.Search); q != "" {
		params.Q = pointer.String(q)
		params.Infix = pointer.String("always,always")
	}

	if s := strings.TrimSpace(filter.Specialty); s != "" {
		canonical, ok := canonicalSpecialty(s)
		if !ok {
			return nil, false
		}
		params.FilterBy = pointer.String(fmt.Sprintf("specialty:=`%s`", canonical))
	}

	return params, true
}

func canonicalSpecialty(s string) (string, bool) {
	for _, known := range catalog.Specialties() {
		if strings.EqualFold(known, s) {
			return known, true
		}
	}
	return "", false
}

func doctorIDsFromHits(hits []api.SearchResultHit) ([]int, error) {
	ids := make([]int, 0, len(hits))
	for _, hit := range hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		switch v := doc["doctor_id"].(type) {
		case float64:
			ids = append(ids, int(v))
		case int:
			ids = append(ids, v)
		default:
			raw, _ := doc["id"].(string)
			id, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("unexpected doctor document id %v", doc["id"])
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
