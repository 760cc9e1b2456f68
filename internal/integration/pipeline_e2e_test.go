//go:build integration || !unit

package integration

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"review_prep/internal/adapters/hunspell"
	"review_prep/internal/adapters/observability"
	"review_prep/internal/app"
	"review_prep/internal/domain"
	"review_prep/internal/storage/csvfile"
)

// ---------- fixtures ----------

const aff = `SET UTF-8
TRY esianrtolcdugmphbyfvkwz
`

const dic = `17
I
can
not
believe
it
is
so
good
terrible
wouldn't
come
back
the
food
was
great
service
`

const input = `ReviewText,Rating,Sentiment
"I can't believe it's so good!!",1.0,
"I can't believe it's so good!!",1.0,
"Terrible, wouldn't come back.",0.5,
The fod was gret,4.5,
,3,
Service was good,5,
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// ---------- tests ----------

func TestPipeline_CSVEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "reviews.csv", input)
	affPath := writeFile(t, dir, "en_US.aff", aff)
	dicPath := writeFile(t, dir, "en_US.dic", dic)
	outDir := filepath.Join(dir, "out")

	records, err := csvfile.ReadFile(in)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	if rep := app.Inspect(records); len(rep.Duplicates) != 1 || len(rep.EmptyText) != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	reg := observability.InitRegistry()
	snaps := csvfile.NewSnapshotDir(filepath.Join(outDir, "checkpoints"))
	p := app.NewPipeline(app.Options{
		PartCount:    2,
		Rand:         rand.New(rand.NewPCG(1, 1)),
		SpellWorkers: 2,
		Dictionary:   hunspell.Opener(affPath, dicPath),
	}, snaps)

	res, err := p.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []domain.Review{
		{Text: "i can not believe it is so good", Rating: 1, Sentiment: domain.Negative},
		{Text: "terrible wouldnt come back", Rating: 0.5, Sentiment: domain.Negative},
		{Text: "the food was great", Rating: 4.5, Sentiment: domain.Positive},
		{Text: "service was good", Rating: 5, Sentiment: domain.Positive},
	}
	if !reflect.DeepEqual(res.Reviews, want) {
		t.Fatalf("pipeline output:\n got %+v\nwant %+v", res.Reviews, want)
	}

	final := filepath.Join(outDir, "reviews_prepared.csv")
	if err := csvfile.WriteFile(final, res.Reviews); err != nil {
		t.Fatalf("write output: %v", err)
	}
	back, err := csvfile.ReadFile(final)
	if err != nil || !reflect.DeepEqual(back, want) {
		t.Fatalf("read back: %+v %v", back, err)
	}

	for i, stage := range app.Stages {
		if _, err := os.Stat(snaps.Path(i+2, stage)); err != nil {
			t.Fatalf("missing checkpoint for %s: %v", stage, err)
		}
	}
	expanded, err := csvfile.ReadFile(snaps.Path(4, app.StageExpand))
	if err != nil {
		t.Fatal(err)
	}
	if expanded[0].Text != "I can not believe it is so good!!" || expanded[1].Text != "Terrible, wouldn't come back." {
		t.Fatalf("unexpected expand checkpoint: %+v", expanded)
	}

	srv := httptest.NewServer(observability.Router(reg))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, s := range []string{
		`reviewprep_stage_records_total{direction="out",stage="label"}`,
		`reviewprep_spell_words_total{outcome="corrected"}`,
		`reviewprep_snapshot_writes_total{sink="csv",status="ok"}`,
	} {
		if !strings.Contains(string(body), s) {
			t.Fatalf("metrics missing %s", s)
		}
	}
}
