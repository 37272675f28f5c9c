package writer

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
)

// Writer persists the final score row of one query. It is called once per
// example, before metrics accumulate, and its errors abort the evaluation.
type Writer interface {
	Write(ctx context.Context, scores []float64, ex *domain.RelevanceExample) error
}

type Flusher interface {
	Flush() error
}

// Flush flushes w when it buffers output.
func Flush(w Writer) error {
	if f, ok := w.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Multi fans a row out to every writer in order and stops at the first error.
type Multi []Writer

func (m Multi) Write(ctx context.Context, scores []float64, ex *domain.RelevanceExample) error {
	for _, w := range m {
		if err := w.Write(ctx, scores, ex); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Flush() error {
	var errs []error
	for _, w := range m {
		if err := Flush(w); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
