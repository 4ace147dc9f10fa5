package engine

import (
	"context"
	"fmt"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/fractalview/internal/colour"
	"github.com/san-kum/fractalview/internal/fractal"
	"github.com/san-kum/fractalview/internal/palette"
	"github.com/san-kum/fractalview/internal/raster"
	"github.com/san-kum/fractalview/internal/sched"
)

// Result is a completed render. The raster is owned by the caller.
type Result struct {
	ID            string
	Raster        *raster.Raster
	Elapsed       time.Duration
	MaxIterations int
	Settings      Settings
}

// Engine renders fractals on a pool of workers, one render at a time.
type Engine struct {
	pool *sched.Pool
	log  *zap.Logger
	busy atomic.Bool
}

type Option func(*Engine)

// WithLogger sets the logger. Engines are silent by default.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithWorkers bounds the number of goroutines computing chunks. Zero or
// less means one per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.pool = sched.NewPool(n) }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		pool: sched.NewPool(0),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Workers() int { return e.pool.Workers() }

// Busy reports whether a render is in flight.
func (e *Engine) Busy() bool { return e.busy.Load() }

// Render draws a width x height image and blocks until it is complete. It
// returns ErrBusy without rendering if another render is in flight.
func (e *Engine) Render(ctx context.Context, width, height int, s Settings) (*Result, error) {
	if !e.busy.CompareAndSwap(false, true) {
		e.log.Debug("render dropped", zap.Int("width", width), zap.Int("height", height))
		return nil, ErrBusy
	}
	defer e.busy.Store(false)
	return e.render(ctx, width, height, s)
}

// RenderAsync starts a render in the background and calls done with its
// outcome. It returns false, and never calls done, if another render is in
// flight. The gate is reopened before done runs, so done may start the next
// render. done is called on the render goroutine.
func (e *Engine) RenderAsync(ctx context.Context, width, height int, s Settings, done func(*Result, error)) bool {
	if !e.busy.CompareAndSwap(false, true) {
		e.log.Debug("render dropped", zap.Int("width", width), zap.Int("height", height))
		return false
	}
	go func() {
		res, err := e.render(ctx, width, height, s)
		e.busy.Store(false)
		if done != nil {
			done(res, err)
		}
	}()
	return true
}

func (e *Engine) render(ctx context.Context, width, height int, s Settings) (*Result, error) {
	id := uuid.NewString()
	log := e.log.With(zap.String("render_id", id))

	fail := func(stage Stage, err error) (*Result, error) {
		log.Error("render failed", zap.String("stage", string(stage)), zap.Error(err))
		return nil, &RenderError{ID: id, Stage: stage, Wrapped: err}
	}

	if width <= 0 || height <= 0 {
		return fail(StageValidate, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height))
	}
	if err := s.Validate(); err != nil {
		return fail(StageValidate, err)
	}
	vp, err := fractal.NewViewport(width, height, s.Bounds)
	if err != nil {
		return fail(StageValidate, err)
	}

	rst, err := raster.New(width, height)
	if err != nil {
		return fail(StageValidate, err)
	}

	maxIter := s.MaxIterations()
	log.Info("render started",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float64("zoom", s.Zoom),
		zap.Stringer("algorithm", s.Algorithm),
		zap.Bool("alternate", s.Alternate),
		zap.Int("max_iterations", maxIter),
		zap.Int("workers", e.pool.Workers()),
	)

	start := time.Now()
	stage, err := e.fill(ctx, rst, vp, s, maxIter)
	if err != nil {
		return fail(stage, err)
	}
	elapsed := time.Since(start)

	log.Info("render finished", zap.Duration("elapsed", elapsed))
	return &Result{
		ID:            id,
		Raster:        rst,
		Elapsed:       elapsed,
		MaxIterations: maxIter,
		Settings:      s,
	}, nil
}

// fill holds the raster's writer for the whole pass and releases it on
// every return path.
func (e *Engine) fill(ctx context.Context, rst *raster.Raster, vp fractal.Viewport, s Settings, maxIter int) (stage Stage, err error) {
	w, err := rst.Acquire()
	if err != nil {
		return StageAcquire, err
	}
	defer func() {
		if rerr := w.Release(); rerr != nil && err == nil {
			stage, err = StageRelease, rerr
		}
	}()

	width := rst.Width()
	p := s.palette()
	chunks := sched.Partition(rst.Len(), width)

	err = e.pool.Run(ctx, chunks, func(c sched.Chunk) error {
		for i := c.Start; i < c.End; i++ {
			cr, ci := vp.Map(i%width, i/width)
			w.Set(i, shade(fractal.Evaluate(cr, ci, maxIter, s.Alternate), maxIter, p))
		}
		return nil
	})
	if err != nil {
		return StageCompute, err
	}
	return "", nil
}

func shade(smp fractal.Sample, maxIter int, p palette.Params) color.RGBA {
	if !smp.Escaped(maxIter) {
		return colour.Black
	}
	return palette.Colour(float64(smp.Iteration), smp.RealSq, smp.ImagSq, p)
}
