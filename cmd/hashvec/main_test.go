package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/hashvec/pkg/hashvec/analytics"
	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
	"github.com/cognicore/hashvec/pkg/hashvec/source"
	"github.com/cognicore/hashvec/pkg/hashvec/store/memstore"
	"github.com/cognicore/hashvec/pkg/hashvec/vectorizer"
)

func TestBuildSourcesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	content := `{"id":"a","title":"First","text":"<p>hello world</p>"}
{"id":"b","text":"second doc"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r, sources, err := buildSources(nil, path, true, nil)
	if err != nil {
		t.Fatalf("buildSources: %v", err)
	}
	if len(sources) != 2 || sources[0] != "a" || sources[1] != "b" {
		t.Fatalf("sources = %v, want [a b]", sources)
	}
	text, err := r.Read(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(strings.Fields(text), " "); got != "First hello world" {
		t.Errorf("text = %q, want %q", got, "First hello world")
	}
}

func TestBuildSourcesFiles(t *testing.T) {
	files := source.Static{"x.html": "<b>bold</b>"}

	r, sources, err := buildSources(files, "", false, []string{"x.html"})
	if err != nil || len(sources) != 1 {
		t.Fatalf("buildSources: %v %v", sources, err)
	}
	if text, _ := r.Read(context.Background(), "x.html"); text != "<b>bold</b>" {
		t.Errorf("plain reader changed text: %q", text)
	}

	r, _, _ = buildSources(files, "", true, []string{"x.html"})
	if text, _ := r.Read(context.Background(), "x.html"); text != "bold" {
		t.Errorf("html reader text = %q, want bold", text)
	}
}

func TestSparseRows(t *testing.T) {
	m := mat.NewDense(3, 4, []float64{
		1, 0, 0, 0,
		0, 0.5, 0, -0.5,
		0, 0, 0, 0,
	})

	got := sparseRows(m, []string{"b", "c"}, 1)
	if len(got) != 2 {
		t.Fatalf("got %d vectors, want 2", len(got))
	}
	if got[0].Source != "b" || got[0].Row != 1 || len(got[0].Buckets) != 2 || got[0].Buckets[3] != -0.5 {
		t.Errorf("first vector = %+v", got[0])
	}
	if got[1].Source != "c" || len(got[1].Buckets) != 0 {
		t.Errorf("second vector = %+v", got[1])
	}
	if sparseRows(nil, nil, 0) != nil {
		t.Error("nil matrix should give nil vectors")
	}
}

func TestResumeRestoresLatestSnapshot(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	opts := vectorizer.Options{Dim: 32, Probes: 2, UseIDF: true}
	prev, _ := vectorizer.New(opts)
	prev.SampleDocument("earlier run")
	if _, err := st.SaveSnapshot(ctx, "corpus", prev.State()); err != nil {
		t.Fatal(err)
	}

	vec, _ := vectorizer.New(opts)
	if err := resume(ctx, st, "corpus", vec); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if vec.Rows() != 1 || vec.Sampled() != 1 {
		t.Errorf("rows %d sampled %d, want 1/1", vec.Rows(), vec.Sampled())
	}

	fresh, _ := vectorizer.New(opts)
	if err := resume(ctx, st, "unknown", fresh); err != nil || fresh.Rows() != 0 {
		t.Errorf("unknown label: rows %d err %v", fresh.Rows(), err)
	}

	other, _ := vectorizer.New(vectorizer.Options{Dim: 16, Probes: 2, UseIDF: true})
	if err := resume(ctx, st, "corpus", other); err == nil {
		t.Error("resume into a different dim should fail")
	}

	// Switching use_idf between runs under one label is refused.
	unweighted, _ := vectorizer.New(vectorizer.Options{Dim: 32, Probes: 2, UseIDF: false})
	if err := resume(ctx, st, "corpus", unweighted); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("resume with use_idf changed: err = %v, want ErrInvalidInput", err)
	}
}

func TestToSummaryJSON(t *testing.T) {
	s := analytics.Stats{Documents: 2, ActiveBuckets: 1, TopBuckets: []analytics.BucketStat{{Bucket: 7, DF: 3, IDF: -0.4}}}
	out := toSummaryJSON(s)
	if out.Documents != 2 || len(out.TopBuckets) != 1 || out.TopBuckets[0].Bucket != 7 {
		t.Errorf("toSummaryJSON = %+v", out)
	}
}
