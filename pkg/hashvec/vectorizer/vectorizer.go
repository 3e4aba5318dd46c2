package vectorizer

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/hashvec/pkg/hashvec/analysis"
	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
)

// Defaults used by DefaultOptions.
const (
	DefaultDim             = 5000
	DefaultProbes          = 3
	DefaultReadConcurrency = 4

	// maxDim keeps buckets addressable by the upper 32 bits of the hash.
	maxDim uint64 = 1 << 32
)

// Options configures a HashingVectorizer. They are fixed for the
// vectorizer's lifetime.
type Options struct {
	// Dim is the number of hash buckets. Higher values lower the collision
	// rate at the cost of memory and time.
	Dim int
	// Probes is the number of salted hashes per token.
	Probes int
	// Analyzer tokenizes documents. Nil means analysis.Default().
	Analyzer analysis.Analyzer
	// UseIDF makes Vectors return IDF-weighted frequencies and enables the
	// running document-frequency estimates.
	UseIDF bool
	// ReadConcurrency bounds concurrent source reads in Vectorize.
	// Values below one mean DefaultReadConcurrency.
	ReadConcurrency int
}

// DefaultOptions returns 5000 buckets, 3 probes, the simple analyzer and IDF
// weighting.
func DefaultOptions() Options {
	return Options{
		Dim:             DefaultDim,
		Probes:          DefaultProbes,
		Analyzer:        analysis.Default(),
		UseIDF:          true,
		ReadConcurrency: DefaultReadConcurrency,
	}
}

// HashingVectorizer computes term frequency vectors in a hashed term space
// and keeps running document frequencies for IDF weighting.
type HashingVectorizer struct {
	dim             int
	probes          int
	analyzer        analysis.Analyzer
	useIDF          bool
	readConcurrency int

	mu       sync.Mutex
	dfCounts []int64     // starts at one per bucket
	rows     [][]float64 // corpus matrix, one row per sampled document
	sampled  int64
}

// New creates a vectorizer. Dim and Probes must be positive.
func New(opts Options) (*HashingVectorizer, error) {
	if opts.Dim <= 0 || uint64(opts.Dim) > maxDim {
		return nil, fmt.Errorf("%w: dim must be in [1, %d], got %d", internalerr.ErrInvalidConfig, maxDim, opts.Dim)
	}
	if opts.Probes <= 0 {
		return nil, fmt.Errorf("%w: probes must be positive, got %d", internalerr.ErrInvalidConfig, opts.Probes)
	}
	if opts.Analyzer == nil {
		opts.Analyzer = analysis.Default()
	}
	if opts.ReadConcurrency < 1 {
		opts.ReadConcurrency = DefaultReadConcurrency
	}

	return &HashingVectorizer{
		dim:             opts.Dim,
		probes:          opts.Probes,
		analyzer:        opts.Analyzer,
		useIDF:          opts.UseIDF,
		readConcurrency: opts.ReadConcurrency,
		dfCounts:        onesInt64(opts.Dim),
	}, nil
}

func onesInt64(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// Dim returns the number of buckets.
func (v *HashingVectorizer) Dim() int { return v.dim }

// Probes returns the number of hashes per token.
func (v *HashingVectorizer) Probes() int { return v.probes }

// UseIDF reports whether IDF weighting is enabled.
func (v *HashingVectorizer) UseIDF() bool { return v.useIDF }

// Analyzer returns the tokenizer in use.
func (v *HashingVectorizer) Analyzer() analysis.Analyzer { return v.analyzer }

// SampleDocument vectorizes text into a new corpus row and updates the
// running frequency estimates. The returned slice is the stored row.
func (v *HashingVectorizer) SampleDocument(text string) []float64 {
	tf, _ := v.Sample(text, nil, true)
	return tf
}

// Sample vectorizes text.
//
// With a nil into, a zeroed row is allocated and appended to the corpus
// matrix. Otherwise into receives the result in place and the corpus matrix
// is left alone; into must have Dim entries and its current contents are
// accumulated onto and scaled with the new counts.
//
// When updateEstimates is set and IDF is enabled, every bucket left non-zero
// increments its document frequency and the sampled count grows by one.
func (v *HashingVectorizer) Sample(text string, into []float64, updateEstimates bool) ([]float64, error) {
	if into != nil && len(into) != v.dim {
		return nil, fmt.Errorf("%w: vector has %d entries, want %d", internalerr.ErrDimMismatch, len(into), v.dim)
	}
	tokens := v.analyzer.Analyze(text)

	v.mu.Lock()
	defer v.mu.Unlock()

	if into == nil {
		into = make([]float64, v.dim)
		v.rows = append(v.rows, into)
	}
	v.sampleTokens(into, tokens, updateEstimates)
	return into, nil
}

// sampleTokens fills tf from tokens and updates estimates. Callers hold v.mu.
func (v *HashingVectorizer) sampleTokens(tf []float64, tokens []string, updateEstimates bool) {
	// A document without tokens keeps its vector instead of dividing by zero.
	if n := v.Accumulate(tf, tokens); n > 0 {
		norm := float64(n)
		for i := range tf {
			tf[i] /= norm
		}
	}

	if updateEstimates && v.useIDF {
		for i, x := range tf {
			if x != 0 {
				v.dfCounts[i]++
			}
		}
		v.sampled++
	}
}

// IDF returns log(sampled/df) per bucket. Before any document is sampled
// every entry is -Inf.
func (v *HashingVectorizer) IDF() []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.idfLocked()
}

func (v *HashingVectorizer) idfLocked() []float64 {
	n := float64(v.sampled)
	out := make([]float64, v.dim)
	for i, df := range v.dfCounts {
		out[i] = math.Log(n / float64(df))
	}
	return out
}

// TFIDF returns the corpus matrix with every column scaled by its IDF, or
// nil when no document has been sampled.
func (v *HashingVectorizer) TFIDF() *mat.Dense {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := v.matrixLocked()
	if m == nil {
		return nil
	}
	idf := v.idfLocked()
	m.Apply(func(_, j int, x float64) float64 {
		return x * idf[j]
	}, m)
	return m
}

// Matrix returns a copy of the raw corpus matrix, or nil when it is empty.
func (v *HashingVectorizer) Matrix() *mat.Dense {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.matrixLocked()
}

func (v *HashingVectorizer) matrixLocked() *mat.Dense {
	if len(v.rows) == 0 {
		return nil
	}
	data := make([]float64, 0, len(v.rows)*v.dim)
	for _, row := range v.rows {
		data = append(data, row...)
	}
	return mat.NewDense(len(v.rows), v.dim, data)
}

// Vectors returns TFIDF when IDF weighting is enabled and Matrix otherwise.
// The result is nil when no document has been sampled.
func (v *HashingVectorizer) Vectors() *mat.Dense {
	if v.useIDF {
		return v.TFIDF()
	}
	return v.Matrix()
}

// Rows returns the number of rows in the corpus matrix.
func (v *HashingVectorizer) Rows() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.rows)
}

// Row returns a copy of row i, or nil if i is out of range.
func (v *HashingVectorizer) Row(i int) []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i < 0 || i >= len(v.rows) {
		return nil
	}
	return append([]float64(nil), v.rows[i]...)
}

// Sampled returns how many documents contributed to the DF estimates.
func (v *HashingVectorizer) Sampled() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sampled
}

// DFCounts returns a copy of the per-bucket document frequencies.
func (v *HashingVectorizer) DFCounts() []int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]int64(nil), v.dfCounts...)
}
