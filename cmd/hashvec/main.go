package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/hashvec/pkg/hashvec/analytics"
	"github.com/cognicore/hashvec/pkg/hashvec/config"
	"github.com/cognicore/hashvec/pkg/hashvec/source"
	"github.com/cognicore/hashvec/pkg/hashvec/store"
	"github.com/cognicore/hashvec/pkg/hashvec/store/sqlite"
	"github.com/cognicore/hashvec/pkg/hashvec/vectorizer"
)

type vectorJSON struct {
	Source  string          `json:"source"`
	Row     int             `json:"row"`
	Buckets map[int]float64 `json:"buckets"`
}

type output struct {
	Dim      int          `json:"dim"`
	Probes   int          `json:"probes"`
	UseIDF   bool         `json:"use_idf"`
	Snapshot string       `json:"snapshot,omitempty"`
	Vectors  []vectorJSON `json:"vectors"`
}

type summaryJSON struct {
	Documents     int          `json:"documents"`
	Sampled       int64        `json:"sampled"`
	Dim           int          `json:"dim"`
	ActiveBuckets int          `json:"active_buckets"`
	FillRatio     float64      `json:"fill_ratio"`
	MeanNonZero   float64      `json:"mean_nonzero"`
	ZeroRows      int          `json:"zero_rows"`
	TopBuckets    []bucketJSON `json:"top_buckets"`
}

type bucketJSON struct {
	Bucket int     `json:"bucket"`
	DF     int64   `json:"df"`
	IDF    float64 `json:"idf"`
}

func main() {
	var (
		configPath   = flag.String("config", "", "Optional: YAML configuration file")
		stoplistPath = flag.String("stoplist", "", "Optional: stoplist file (overrides config)")
		jsonlPath    = flag.String("jsonl", "", "Read documents from a JSONL file instead of file arguments")
		htmlInput    = flag.Bool("html", false, "Strip HTML markup from file arguments")
		dbPath       = flag.String("db", "", "Optional: SQLite snapshot database (overrides config)")
		label        = flag.String("label", "default", "Snapshot label to resume from and save to")
		outPath      = flag.String("out", "-", "Write vectors as JSON to this path (- for stdout, empty to skip)")
		summary      = flag.Bool("summary", false, "Print corpus statistics to stderr")
		topK         = flag.Int("top", analytics.DefaultTopBuckets, "Number of buckets listed in the summary")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.Loader{
		ConfigPath:   *configPath,
		StoplistPath: *stoplistPath,
	}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}
	vec := components.Vectorizer

	reader, sources, err := buildSources(components.Reader, *jsonlPath, *htmlInput, flag.Args())
	if err != nil {
		log.Fatalf("load sources: %v", err)
	}
	if len(sources) == 0 {
		log.Fatal("no documents: pass file arguments or --jsonl")
	}

	if *dbPath == "" {
		*dbPath = components.Config.Store.Path
	}
	var st store.Store
	if *dbPath != "" {
		st, err = sqlite.OpenSQLite(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer st.Close()

		if err := resume(ctx, st, *label, vec); err != nil {
			log.Fatalf("resume: %v", err)
		}
	}

	first := vec.Rows()
	if err := vec.Vectorize(ctx, reader, sources); err != nil {
		log.Fatalf("vectorize: %v", err)
	}
	log.Printf("vectorized %d documents (%d rows total)", len(sources), vec.Rows())

	out := output{
		Dim:    vec.Dim(),
		Probes: vec.Probes(),
		UseIDF: vec.UseIDF(),
	}

	if st != nil {
		info, err := st.SaveSnapshot(ctx, *label, vec.State())
		if err != nil {
			log.Fatalf("save snapshot: %v", err)
		}
		out.Snapshot = info.ID
		log.Printf("saved snapshot %s (label %q, %d rows)", info.ID, info.Label, info.Rows)
	}

	if *outPath != "" {
		out.Vectors = sparseRows(vec.Vectors(), sources, first)
		if err := writeJSON(*outPath, out); err != nil {
			log.Fatalf("write vectors: %v", err)
		}
	}

	if *summary {
		stats := analytics.Summarize(vec.State(), *topK)
		data, err := json.MarshalIndent(toSummaryJSON(stats), "", "  ")
		if err != nil {
			log.Fatalf("marshal summary: %v", err)
		}
		fmt.Fprintln(os.Stderr, string(data))
	}
}

func buildSources(files source.Reader, jsonlPath string, html bool, args []string) (source.Reader, []string, error) {
	if jsonlPath != "" {
		items, err := source.LoadJSONL(jsonlPath)
		if err != nil {
			return nil, nil, err
		}
		var r source.Reader = items.Reader()
		if html {
			r = source.HTMLReader{Next: r}
		}
		return r, items.Sources(), nil
	}
	if html {
		return source.HTMLReader{Next: files}, args, nil
	}
	return files, args, nil
}

// resume restores the latest snapshot for label, if one exists.
func resume(ctx context.Context, st store.Store, label string, vec *vectorizer.HashingVectorizer) error {
	snap, ok, err := st.LatestSnapshot(ctx, label)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := vec.Restore(snap.State); err != nil {
		return fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	log.Printf("resumed from snapshot %s (%d rows, %d sampled)", snap.ID, snap.Rows, snap.Sampled)
	return nil
}

// sparseRows returns the non-zero entries of rows first.. of m, paired with
// their source names.
func sparseRows(m *mat.Dense, sources []string, first int) []vectorJSON {
	if m == nil {
		return nil
	}
	rows, cols := m.Dims()
	out := make([]vectorJSON, 0, rows-first)
	for i := first; i < rows; i++ {
		v := vectorJSON{
			Source:  sources[i-first],
			Row:     i,
			Buckets: make(map[int]float64),
		}
		for j := 0; j < cols; j++ {
			if x := m.At(i, j); x != 0 {
				v.Buckets[j] = x
			}
		}
		out = append(out, v)
	}
	return out
}

func writeJSON(path string, v any) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toSummaryJSON(s analytics.Stats) summaryJSON {
	out := summaryJSON{
		Documents:     s.Documents,
		Sampled:       s.Sampled,
		Dim:           s.Dim,
		ActiveBuckets: s.ActiveBuckets,
		FillRatio:     s.FillRatio,
		MeanNonZero:   s.MeanNonZero,
		ZeroRows:      s.ZeroRows,
	}
	for _, b := range s.TopBuckets {
		out.TopBuckets = append(out.TopBuckets, bucketJSON{Bucket: b.Bucket, DF: b.DF, IDF: b.IDF})
	}
	return out
}
