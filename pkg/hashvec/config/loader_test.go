package config

import (
	"context"
	"path/filepath"
	"testing"
)

func TestLoaderAllEmpty(t *testing.T) {
	loader := Loader{}

	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}
	if comp.Analyzer == nil || comp.Reader == nil || comp.Vectorizer == nil {
		t.Fatal("Should build every component")
	}
	if comp.Vectorizer.Dim() != 5000 || comp.Vectorizer.Probes() != 3 || !comp.Vectorizer.UseIDF() {
		t.Errorf("unexpected default vectorizer: dim %d probes %d idf %v",
			comp.Vectorizer.Dim(), comp.Vectorizer.Probes(), comp.Vectorizer.UseIDF())
	}
	if comp.Analyzer.Stopwords() != 0 {
		t.Errorf("Stopwords() = %d, want 0", comp.Analyzer.Stopwords())
	}
}

func TestLoaderNonExistentStoplist(t *testing.T) {
	loader := Loader{StoplistPath: "/nonexistent/stoplist.yaml"}

	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent stoplist")
	}
}

func TestLoaderNonExistentConfig(t *testing.T) {
	loader := Loader{ConfigPath: "/nonexistent/hashvec.yaml"}

	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent config")
	}
}

func TestLoaderValidFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stop.yaml", "terms:\n  - the\n  - and\n")
	cfgPath := writeFile(t, dir, "hashvec.yaml", `vectorizer:
  dim: 64
  probes: 1
analyzer:
  stoplist: stop.yaml
  stopwords: [cat]
`)

	comp, err := (&Loader{ConfigPath: cfgPath}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Vectorizer.Dim() != 64 || comp.Vectorizer.Probes() != 1 {
		t.Errorf("dim/probes = %d/%d, want 64/1", comp.Vectorizer.Dim(), comp.Vectorizer.Probes())
	}
	if comp.Analyzer.Stopwords() != 3 {
		t.Errorf("Stopwords() = %d, want 3", comp.Analyzer.Stopwords())
	}

	got := comp.Analyzer.Analyze("The cat and the dog")
	if len(got) != 1 || got[0] != "dog" {
		t.Errorf("Analyze = %v, want [dog]", got)
	}

	// The vectorizer is wired to the configured analyzer.
	tf := comp.Vectorizer.SampleDocument("the and cat")
	for i, x := range tf {
		if x != 0 {
			t.Fatalf("bucket %d = %v, want all-zero vector for stopwords only", i, x)
		}
	}

	// The reader works against real files.
	docPath := writeFile(t, dir, "doc.txt", "hello world")
	text, err := comp.Reader.Read(context.Background(), docPath)
	if err != nil || text != "hello world" {
		t.Errorf("Read = %q, %v", text, err)
	}
}

func TestLoaderStoplistOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "terms: [alpha]\n")
	override := writeFile(t, dir, "b.yaml", "terms: [beta, gamma]\n")
	cfgPath := writeFile(t, dir, "hashvec.yaml", "analyzer:\n  stoplist: a.yaml\n")

	comp, err := (&Loader{ConfigPath: cfgPath, StoplistPath: override}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := comp.Analyzer.Analyze("alpha beta gamma")
	if len(got) != 1 || got[0] != "alpha" {
		t.Errorf("Analyze = %v, want [alpha]", got)
	}
	if filepath.Base(comp.Config.Analyzer.Stoplist) != "a.yaml" {
		t.Errorf("config stoplist = %q", comp.Config.Analyzer.Stoplist)
	}
}
