package vectorizer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
	"github.com/cognicore/hashvec/pkg/hashvec/source"
)

// Vectorize reads and samples a batch of document sources, appending one
// corpus row per source in input order.
//
// Sources are read and tokenized concurrently (at most ReadConcurrency at a
// time), so the analyzer must tolerate concurrent Analyze calls. If any read
// fails, nothing is sampled and the error names the failing source.
func (v *HashingVectorizer) Vectorize(ctx context.Context, r source.Reader, sources []string) error {
	if r == nil {
		return fmt.Errorf("%w: nil source reader", internalerr.ErrInvalidInput)
	}
	if len(sources) == 0 {
		return nil
	}

	tokens := make([][]string, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.readConcurrency)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			text, err := r.Read(gctx, src)
			if err != nil {
				return fmt.Errorf("read %s: %w", src, err)
			}
			tokens[i] = v.analyzer.Analyze(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// One contiguous block for the whole batch; rows are views into it.
	block := make([]float64, len(sources)*v.dim)
	batch := make([][]float64, len(sources))
	for i := range sources {
		row := block[i*v.dim : (i+1)*v.dim : (i+1)*v.dim]
		v.sampleTokens(row, tokens[i], true)
		batch[i] = row
	}
	v.rows = append(v.rows, batch...)
	return nil
}
