package shadergen

import (
	"context"
	"log/slog"
	"time"

	"github.com/gogpu/shadergen/internal/parallel"
)

// Request names one program for a Batch to compile.
type Request struct {
	Kind ProgramKind

	// Selection is used by ProgramPixel requests.
	Selection Selection

	Stage Stage

	// VertexFormat is used by ProgramSharedVertex requests.
	VertexFormat VertexFormat

	// Method and Ordinal are used by ProgramSharedPixel requests. A
	// negative Method selects a shared program that branches on no method.
	Method  int
	Ordinal int
}

// Result pairs a request with its program. Program is nil when the family
// has no program for the request.
type Result struct {
	Request Request
	Program *Program
}

// Batch compiles many permutations of one family on a worker pool. Every
// job gets its own Generator, so include resolution is never shared between
// jobs.
type Batch struct {
	family *Family
	opts   []GeneratorOption
	pool   *parallel.WorkerPool
}

// NewBatch creates a batch compiler for f with the given number of workers
// (GOMAXPROCS when workers <= 0). opts apply to every job; a request's
// Selection overrides any WithSelection among them.
func NewBatch(f *Family, workers int, opts ...GeneratorOption) *Batch {
	return &Batch{
		family: f,
		opts:   opts,
		pool:   parallel.NewWorkerPool(workers),
	}
}

// Workers returns the number of workers.
func (b *Batch) Workers() int { return b.pool.Workers() }

// Run compiles every request. Results are in request order. The first
// failure cancels the requests still pending and is returned.
func (b *Batch) Run(ctx context.Context, reqs []Request) ([]Result, error) {
	start := time.Now()
	results := make([]Result, len(reqs))
	jobs := make([]parallel.Job, len(reqs))
	for i, req := range reqs {
		results[i].Request = req
		jobs[i] = func(ctx context.Context) error {
			p, err := b.run(ctx, req)
			results[i].Program = p
			return err
		}
	}

	err := b.pool.ExecuteAll(ctx, jobs)
	Logger().Info("shadergen: batch finished",
		slog.String("family", b.family.Name()),
		slog.Int("requests", len(reqs)),
		slog.Int("workers", b.pool.Workers()),
		slog.Duration("elapsed", time.Since(start)),
		slog.Any("error", err))
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (b *Batch) run(ctx context.Context, req Request) (*Program, error) {
	opts := b.opts
	if req.Kind == ProgramPixel {
		opts = append(opts[:len(opts):len(opts)], WithSelection(req.Selection))
	}
	gen := NewGenerator(b.family, opts...)
	switch req.Kind {
	case ProgramSharedPixel:
		return gen.GenerateSharedPixel(ctx, req.Stage, req.Method, req.Ordinal)
	case ProgramSharedVertex:
		return gen.GenerateSharedVertex(ctx, req.VertexFormat, req.Stage)
	default:
		return gen.GeneratePixel(ctx, req.Stage)
	}
}

// Close stops the batch's workers.
func (b *Batch) Close() { b.pool.Close() }

// PixelRequests expands every selection across every supported stage
// whose pixel program is not shared.
func PixelRequests(f *Family, sels ...Selection) []Request {
	var reqs []Request
	for _, sel := range sels {
		for _, stage := range f.Matrix.Stages() {
			if f.Matrix.PixelShared(stage) {
				continue
			}
			reqs = append(reqs, Request{Kind: ProgramPixel, Selection: sel, Stage: stage})
		}
	}
	return reqs
}

// SharedRequests lists every shared program of f: each shared pixel stage
// for every option of its method, and each supported vertex format at each
// supported stage.
func SharedRequests(f *Family) []Request {
	var reqs []Request
	for _, stage := range f.Matrix.Stages() {
		if !f.Matrix.PixelShared(stage) {
			continue
		}
		i, ok := f.SharedMethodIndex(stage)
		if !ok {
			reqs = append(reqs, Request{Kind: ProgramSharedPixel, Stage: stage, Method: -1})
			continue
		}
		for o := range f.Schema.OptionCount(i) {
			reqs = append(reqs, Request{Kind: ProgramSharedPixel, Stage: stage, Method: i, Ordinal: o})
		}
	}
	for _, vf := range f.Matrix.VertexFormats() {
		for _, stage := range f.Matrix.Stages() {
			reqs = append(reqs, Request{Kind: ProgramSharedVertex, Stage: stage, VertexFormat: vf})
		}
	}
	return reqs
}
