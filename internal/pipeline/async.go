package pipeline

import (
	"context"

	"github.com/msojocs/pigment/internal/pool"
)

// CompileAsync submits the whole batch compilation, engine construction
// included, to the pool as one unit of work. The future resolves to the
// same value Compile would have produced for the same request; the mode
// changes where the pipeline runs, never what it computes.
//
// Submitted work cannot be cancelled. A caller that stops waiting still
// pays for the completed task and may discard its result.
func CompileAsync(p *pool.Pool, req BatchRequest) *pool.Future[*BatchResult] {
	return pool.Submit(p, func() (*BatchResult, error) {
		return Compile(context.Background(), req)
	})
}

// CompileSingleAsync is the offloaded form of CompileSingle.
func CompileSingleAsync(p *pool.Pool, req SingleRequest) *pool.Future[*FileResult] {
	return pool.Submit(p, func() (*FileResult, error) {
		return CompileSingle(context.Background(), req)
	})
}
