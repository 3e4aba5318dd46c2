package vectorizer

import (
	"context"
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
	"github.com/cognicore/hashvec/pkg/hashvec/source"
)

var batchDocs = source.Static{
	"a.txt": "the cat sat on the mat",
	"b.txt": "the dog ran in the park",
	"c.txt": "",
	"d.txt": "cats and dogs living together",
}

func TestVectorizeMatchesSingleSampling(t *testing.T) {
	order := []string{"a.txt", "b.txt", "c.txt", "d.txt"}

	batch := newTestVectorizer(t, 200, 3, true)
	if err := batch.Vectorize(context.Background(), batchDocs, order); err != nil {
		t.Fatalf("Vectorize: %v", err)
	}

	single := newTestVectorizer(t, 200, 3, true)
	for _, name := range order {
		single.SampleDocument(batchDocs[name])
	}

	if batch.Rows() != 4 || batch.Sampled() != 4 {
		t.Fatalf("batch rows %d sampled %d, want 4/4", batch.Rows(), batch.Sampled())
	}
	if !mat.Equal(batch.Matrix(), single.Matrix()) {
		t.Error("batch matrix differs from one-by-one sampling")
	}
	bdf, sdf := batch.DFCounts(), single.DFCounts()
	for i := range bdf {
		if bdf[i] != sdf[i] {
			t.Errorf("df[%d] = %d, want %d", i, bdf[i], sdf[i])
		}
	}
	if !mat.Equal(batch.TFIDF(), single.TFIDF()) {
		t.Error("batch TFIDF differs from one-by-one sampling")
	}
}

func TestVectorizeAppendsToExistingCorpus(t *testing.T) {
	v := newTestVectorizer(t, 50, 2, true)
	v.SampleDocument("first document")

	if err := v.Vectorize(context.Background(), batchDocs, []string{"a.txt", "b.txt"}); err != nil {
		t.Fatalf("Vectorize: %v", err)
	}
	if err := v.Vectorize(context.Background(), batchDocs, []string{"d.txt"}); err != nil {
		t.Fatalf("Vectorize: %v", err)
	}

	if v.Rows() != 4 {
		t.Errorf("Rows() = %d, want 4", v.Rows())
	}
	if v.Sampled() != 4 {
		t.Errorf("Sampled() = %d, want 4", v.Sampled())
	}

	// Batch rows keep input order.
	want := newTestVectorizer(t, 50, 2, true)
	tf := want.SampleDocument(batchDocs["d.txt"])
	got := v.Row(3)
	for j := range tf {
		if got[j] != tf[j] {
			t.Fatalf("row 3 bucket %d = %v, want %v", j, got[j], tf[j])
		}
	}
}

func TestVectorizeReadFailureLeavesStateUntouched(t *testing.T) {
	v := newTestVectorizer(t, 50, 2, true)

	err := v.Vectorize(context.Background(), batchDocs, []string{"a.txt", "missing.txt", "b.txt"})
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if v.Rows() != 0 || v.Sampled() != 0 {
		t.Errorf("rows %d sampled %d after failed batch, want 0/0", v.Rows(), v.Sampled())
	}
}

func TestVectorizeCancelledContext(t *testing.T) {
	v := newTestVectorizer(t, 50, 2, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := v.Vectorize(ctx, batchDocs, []string{"a.txt"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if v.Rows() != 0 {
		t.Errorf("Rows() = %d, want 0", v.Rows())
	}
}

func TestVectorizeEmptyAndNilReader(t *testing.T) {
	v := newTestVectorizer(t, 10, 1, true)

	if err := v.Vectorize(context.Background(), batchDocs, nil); err != nil {
		t.Errorf("empty batch: %v", err)
	}
	if v.Matrix() != nil {
		t.Error("empty batch should not create the corpus matrix")
	}
	if err := v.Vectorize(context.Background(), nil, []string{"a.txt"}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("nil reader err = %v, want ErrInvalidInput", err)
	}
}
