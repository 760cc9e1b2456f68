//go:build integration || !unit

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"review_prep/internal/domain"
	"review_prep/internal/storage/postgres"
)

func TestWriter_Postgres_WriteAndReadSnapshot(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=prep",
			"POSTGRES_PASSWORD=prep",
			"POSTGRES_DB=reviews",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("run postgres: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("host=127.0.0.1 port=%s user=prep password=prep dbname=reviews sslmode=disable",
		resource.GetPort("5432/tcp"))

	var w *postgres.Writer
	if err := pool.Retry(func() error {
		var e error
		w, e = postgres.NewWriter(dsn)
		return e
	}); err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	ctx := context.Background()
	runID := uuid.NewString()
	in := make([]domain.Review, 450) // spans several insert batches
	for i := range in {
		in[i] = domain.Review{Text: fmt.Sprintf("review %d", i), Rating: float64(i%5 + 1), Sentiment: domain.Unknown}
	}
	if err := w.WriteSnapshot(ctx, domain.Snapshot{RunID: runID, Seq: 2, Stage: "clean", Reviews: in}); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	got, err := w.ReadSnapshot(ctx, runID, "clean")
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(got) != len(in) || got[0] != in[0] || got[449] != in[449] {
		t.Fatalf("unexpected snapshot: %d rows", len(got))
	}

	if _, err := w.ReadSnapshot(ctx, runID, "label"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
