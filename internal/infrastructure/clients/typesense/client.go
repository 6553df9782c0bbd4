package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/jsimpson73/test-med-app/pkg/config"
	"github.com/jsimpson73/test-med-app/pkg/retry"
	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const (
	DoctorsCollection = "doctors"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.DoWithLog(
		ctx,
		retry.DefaultConfig(),
		"Typesense",
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			healthy, err := client.Health(pingCtx, 2*time.Second)
			if err != nil {
				return err
			}
			if !healthy {
				return fmt.Errorf("typesense reports unhealthy")
			}
			return nil
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).
				Int("attempt", attempt).
				Dur("retry_in", nextDelay).
				Msg("Typesense connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("Successfully connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// DoctorsSchema is the collection layout for the doctor directory.
func DoctorsSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: DoctorsCollection,
		Fields: []api.Field{
			{
				Name: "id",
				Type: "string",
			},
			{
				Name: "doctor_id",
				Type: "int32",
			},
			{
				Name:  "name",
				Type:  "string",
				Infix: pointer.True(),
			},
			{
				Name:  "specialty",
				Type:  "string",
				Facet: pointer.True(),
				Infix: pointer.True(),
			},
			{
				Name: "experience",
				Type: "int32",
			},
			{
				Name:  "rating",
				Type:  "float",
				Facet: pointer.True(),
			},
			{
				Name:     "education",
				Type:     "string",
				Optional: pointer.True(),
			},
			{
				Name:     "availability",
				Type:     "string[]",
				Optional: pointer.True(),
			},
		},
		DefaultSortingField: pointer.String("doctor_id"),
	}
}

// InitSchema ensures the doctors collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == DoctorsCollection {
			log.Debug().Str("collection", DoctorsCollection).Msg("Typesense collection already exists")
			return nil
		}
	}

	if _, err := c.client.Collections().Create(ctx, DoctorsSchema()); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", DoctorsCollection).Msg("Created Typesense collection")
	return nil
}
