//go:build integration

// Integration tests for PostgresRepository against a disposable PostgreSQL
// container. Run with: go test -tags=integration -v ./internal/place/...
package place_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/onnwee/places/internal/db"
	"github.com/onnwee/places/internal/place"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *place.PostgresRepository {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("places"),
		postgres.WithUsername("places"),
		postgres.WithPassword("places"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	conn, err := db.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := db.Migrate(ctx, conn, db.Up, 0); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return place.NewPostgresRepository(conn)
}

func TestPostgresRepository_Lifecycle(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()

	p, err := place.New(place.Props{
		Name:        "Parque Ibirapuera",
		Description: "Maior parque urbano de São Paulo",
		Latitude:    -23.5874,
		Longitude:   -46.6576,
		Image:       "https://example.com/ibirapuera.jpg",
	}).Unwrap()
	if err != nil {
		t.Fatalf("place.New: %v", err)
	}

	if _, err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := repo.Save(ctx, p); !errors.Is(err, place.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists on duplicate, got %v", err)
	}

	found, err := repo.FindByID(ctx, p.ID().String())
	if err != nil || found == nil {
		t.Fatalf("FindByID: %v %v", found, err)
	}
	if found.Name() != p.Name() || !found.Coordinates().Equals(p.Coordinates()) {
		t.Errorf("round trip mismatch: %q (%v, %v)", found.Name(), found.Latitude(), found.Longitude())
	}

	if missing, err := repo.FindByID(ctx, "not-a-uuid"); err != nil || missing != nil {
		t.Errorf("expected (nil, nil) for malformed id, got %v %v", missing, err)
	}

	found.ChangeName("Ibirapuera")
	updated, err := repo.Update(ctx, p.ID().String(), found)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name() != "Ibirapuera" {
		t.Errorf("updated name = %q", updated.Name())
	}

	all, err := repo.FindAll(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("FindAll: %d places, err %v", len(all), err)
	}

	if err := repo.Delete(ctx, p.ID().String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, p.ID().String()); !errors.Is(err, place.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
