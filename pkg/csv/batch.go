package csv

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/panjf2000/ants/v2"

	"github.com/shapestone/shape-csvtok/internal/logging"
)

// poolReleaseTimeout bounds how long TokenizeAll waits for pool workers
// to exit before returning.
const poolReleaseTimeout = 5 * time.Second

// Source is one input of a batch.
type Source struct {
	// Name identifies the source in results and log output.
	Name string
	// Open returns a fresh reader over the source. It is called once, on
	// the worker that tokenizes the source.
	Open func() (io.ReadCloser, error)
}

// StringSource returns a Source over an in-memory string.
func StringSource(name, input string) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(input)), nil
		},
	}
}

// Result is the outcome of tokenizing one Source.
type Result struct {
	Name   string
	Header *Header
	Rows   []*Row
	// Err is the session error, if any. Rows is empty when Err is set.
	Err error
}

// antsLogger routes pool diagnostics to a charmbracelet logger.
type antsLogger struct {
	logger *log.Logger
}

func (l antsLogger) Printf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

// TokenizeAll tokenizes every source in its own session on a pool of
// workers goroutines. Sessions share nothing but the dialect value.
// Results are in source order; a failing source does not affect the
// others. Once ctx is done, sources that have not started report ctx.Err()
// and running sessions stop between rows.
//
// The returned error is non-nil only when the dialect is invalid or the
// pool cannot be created.
//
// Example:
//
//	results, err := csv.TokenizeAll(ctx, []csv.Source{
//	    csv.StringSource("a", "x,y\n"),
//	    csv.StringSource("b", "1,2\n"),
//	}, csv.DefaultDialect(), 4)
func TokenizeAll(ctx context.Context, sources []Source, d Dialect, workers int, opts ...ReaderOption) ([]Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := logging.FromContext(ctx)
	pool, err := ants.NewPool(workers, ants.WithLogger(antsLogger{logger: logger}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer func() {
		if err := pool.ReleaseTimeout(poolReleaseTimeout); err != nil {
			logger.Warn("worker pool did not release", logging.FieldError, err)
		}
	}()

	results := make([]Result, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		results[i].Name = src.Name
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = tokenizeSource(ctx, src, d, opts)
		})
		if err != nil {
			wg.Done()
			results[i].Err = fmt.Errorf("failed to schedule %s: %w", src.Name, err)
		}
	}
	wg.Wait()

	logger.Debug("batch finished", logging.FieldFiles, len(sources), logging.FieldJobs, workers)
	return results, nil
}

func tokenizeSource(ctx context.Context, src Source, d Dialect, opts []ReaderOption) (res Result) {
	res.Name = src.Name
	defer func() {
		if p := recover(); p != nil {
			res = Result{Name: src.Name, Err: fmt.Errorf("tokenizing %s panicked: %v", src.Name, p)}
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	rc, err := src.Open()
	if err != nil {
		res.Err = fmt.Errorf("failed to open %s: %w", src.Name, err)
		return res
	}
	defer rc.Close()

	r, err := NewReader(rc, d, opts...)
	if err != nil {
		res.Err = err
		return res
	}
	for row, err := range r.Rows() {
		if err != nil {
			res.Err = err
			res.Rows = nil
			return res
		}
		if err := ctx.Err(); err != nil {
			res.Err = err
			res.Rows = nil
			return res
		}
		res.Rows = append(res.Rows, row)
	}
	res.Header = r.header
	return res
}
