package vectorizer

import (
	"fmt"

	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
)

// State is a self-contained copy of a vectorizer's running statistics and
// corpus matrix.
type State struct {
	Dim     int         `json:"dim"`
	Probes  int         `json:"probes"`
	UseIDF  bool        `json:"use_idf"`
	Sampled int64       `json:"sampled"`
	DF      []int64     `json:"df"`
	Rows    [][]float64 `json:"rows"`
}

// Validate checks the state's internal consistency.
func (s State) Validate() error {
	if s.Dim <= 0 || s.Probes <= 0 {
		return fmt.Errorf("%w: dim %d, probes %d", internalerr.ErrInvalidInput, s.Dim, s.Probes)
	}
	if s.Sampled < 0 {
		return fmt.Errorf("%w: negative sampled count %d", internalerr.ErrInvalidInput, s.Sampled)
	}
	if len(s.DF) != s.Dim {
		return fmt.Errorf("%w: %d df counts for dim %d", internalerr.ErrInvalidInput, len(s.DF), s.Dim)
	}
	for i, df := range s.DF {
		if df < 1 {
			return fmt.Errorf("%w: df[%d] = %d is below 1", internalerr.ErrInvalidInput, i, df)
		}
	}
	for i, row := range s.Rows {
		if len(row) != s.Dim {
			return fmt.Errorf("%w: row %d has %d entries, want %d", internalerr.ErrInvalidInput, i, len(row), s.Dim)
		}
	}
	return nil
}

// State returns a deep copy of the current state.
func (v *HashingVectorizer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := make([][]float64, len(v.rows))
	for i, row := range v.rows {
		rows[i] = append([]float64(nil), row...)
	}
	return State{
		Dim:     v.dim,
		Probes:  v.probes,
		UseIDF:  v.useIDF,
		Sampled: v.sampled,
		DF:      append([]int64(nil), v.dfCounts...),
		Rows:    rows,
	}
}

// Restore replaces the running statistics and corpus matrix with st.
// The state must come from a vectorizer with the same Dim and Probes
// (ErrDimMismatch) and the same UseIDF setting (ErrInvalidInput): rows
// sampled without IDF never fed the DF counts.
func (v *HashingVectorizer) Restore(st State) error {
	if st.Dim != v.dim || st.Probes != v.probes {
		return fmt.Errorf("%w: state is dim %d probes %d, vectorizer is dim %d probes %d",
			internalerr.ErrDimMismatch, st.Dim, st.Probes, v.dim, v.probes)
	}
	if st.UseIDF != v.useIDF {
		return fmt.Errorf("%w: state has use_idf %v, vectorizer has use_idf %v",
			internalerr.ErrInvalidInput, st.UseIDF, v.useIDF)
	}
	if err := st.Validate(); err != nil {
		return err
	}

	block := make([]float64, len(st.Rows)*v.dim)
	rows := make([][]float64, len(st.Rows))
	for i, row := range st.Rows {
		rows[i] = block[i*v.dim : (i+1)*v.dim : (i+1)*v.dim]
		copy(rows[i], row)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.dfCounts = append([]int64(nil), st.DF...)
	v.rows = rows
	v.sampled = st.Sampled
	return nil
}
