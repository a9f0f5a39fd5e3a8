package repository

import (
	"context"
	"os"
	"reflect"
	"testing"
)

func setupPostgres(t *testing.T) *PostgresRecentsRepository {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	repo, err := NewPostgresRecentsRepository(databaseURL)
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}
	return repo
}

func TestPostgresRecentsRoundTrip(t *testing.T) {
	repo := setupPostgres(t)
	defer repo.Close()

	ctx := context.Background()
	defer repo.Clear(ctx)

	want := []string{"Suối Tiên", "Bến Thành"}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %v, want %v", got, want)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load after Clear failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty recents after Clear, got %v", got)
	}
}
