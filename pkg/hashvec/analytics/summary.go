// Package analytics summarizes the statistics of a hashed corpus.
package analytics

import (
	"math"
	"sort"

	"github.com/cognicore/hashvec/pkg/hashvec/vectorizer"
)

// DefaultTopBuckets is the number of buckets listed when topK is not positive.
const DefaultTopBuckets = 10

// Stats describes a vectorizer state.
type Stats struct {
	Documents int   // rows in the corpus matrix
	Sampled   int64 // documents that updated the DF estimates
	Dim       int
	Probes    int

	// ActiveBuckets counts buckets seen in at least one document: DF > 1,
	// or a non-zero row entry when no document updated the DF counts
	// (corpora built without IDF).
	ActiveBuckets int
	// FillRatio is ActiveBuckets / Dim.
	FillRatio float64
	// MeanNonZero is the average number of non-zero buckets per row.
	MeanNonZero float64
	// ZeroRows counts rows without any token.
	ZeroRows int

	// TopBuckets is empty when no document updated the DF counts.
	TopBuckets []BucketStat
}

// BucketStat is the document frequency and IDF of one bucket.
type BucketStat struct {
	Bucket int
	DF     int64
	IDF    float64
}

// Summarize computes corpus statistics and the topK buckets by document
// frequency. Ties are broken by bucket index.
func Summarize(st vectorizer.State, topK int) Stats {
	if topK <= 0 {
		topK = DefaultTopBuckets
	}

	s := Stats{
		Documents: len(st.Rows),
		Sampled:   st.Sampled,
		Dim:       st.Dim,
		Probes:    st.Probes,
	}

	var active []BucketStat
	for i, df := range st.DF {
		if df <= 1 {
			continue
		}
		active = append(active, BucketStat{
			Bucket: i,
			DF:     df,
			IDF:    math.Log(float64(st.Sampled) / float64(df)),
		})
	}
	s.ActiveBuckets = len(active)
	if st.Sampled == 0 {
		s.ActiveBuckets = occupiedBuckets(st.Rows, st.Dim)
	}
	if st.Dim > 0 {
		s.FillRatio = float64(s.ActiveBuckets) / float64(st.Dim)
	}

	var nonZero int
	for _, row := range st.Rows {
		n := 0
		for _, x := range row {
			if x != 0 {
				n++
			}
		}
		if n == 0 {
			s.ZeroRows++
		}
		nonZero += n
	}
	if len(st.Rows) > 0 {
		s.MeanNonZero = float64(nonZero) / float64(len(st.Rows))
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].DF != active[j].DF {
			return active[i].DF > active[j].DF
		}
		return active[i].Bucket < active[j].Bucket
	})
	if len(active) > topK {
		active = active[:topK]
	}
	s.TopBuckets = active

	return s
}

// occupiedBuckets counts buckets that are non-zero in at least one row.
func occupiedBuckets(rows [][]float64, dim int) int {
	seen := make([]bool, dim)
	n := 0
	for _, row := range rows {
		for j, x := range row {
			if x != 0 && j < dim && !seen[j] {
				seen[j] = true
				n++
			}
		}
	}
	return n
}
