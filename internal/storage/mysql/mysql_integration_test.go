//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"review_prep/internal/domain"
	mysqlrepo "review_prep/internal/storage/mysql"
)

// migrationsDir defaults to the repo's migrations/mysql when MIGRATIONS_DIR is unset.
func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations", "mysql")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("migrations dir %s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=reviews",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/reviews?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_WriteAndReadSnapshot(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()
	runID := uuid.NewString()

	in := []domain.Review{
		{Text: "i can not believe it is so good", Rating: 1, Sentiment: domain.Unknown},
		{Text: "café", Rating: 4.5, Sentiment: domain.Positive},
	}
	if err := repo.WriteSnapshot(ctx, domain.Snapshot{RunID: runID, Seq: 3, Stage: "expand", Reviews: in}); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	// rewriting the same stage replaces rows
	if err := repo.WriteSnapshot(ctx, domain.Snapshot{RunID: runID, Seq: 3, Stage: "expand", Reviews: in[:1]}); err != nil {
		t.Fatalf("WriteSnapshot (rewrite): %v", err)
	}

	got, err := repo.ReadSnapshot(ctx, runID, "expand")
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(got) != 1 || got[0] != in[0] {
		t.Fatalf("unexpected snapshot: %+v", got)
	}

	if err := repo.WriteSnapshot(ctx, domain.Snapshot{RunID: runID, Seq: 4, Stage: "spelling"}); err != nil {
		t.Fatalf("WriteSnapshot (empty): %v", err)
	}
	empty, err := repo.ReadSnapshot(ctx, runID, "spelling")
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty stage: %v %+v", err, empty)
	}

	if _, err := repo.ReadSnapshot(ctx, runID, "label"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
