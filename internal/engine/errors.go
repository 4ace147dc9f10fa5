package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize indicates a non-positive raster dimension.
	ErrInvalidSize = errors.New("engine: raster dimensions must be positive")

	// ErrInvalidSettings indicates a settings value outside its valid range.
	ErrInvalidSettings = errors.New("engine: invalid settings")

	// ErrBusy indicates another render was in flight and the request was dropped.
	ErrBusy = errors.New("engine: render already in progress")
)

// Stage names the phase of a render that failed.
type Stage string

const (
	StageValidate Stage = "validate"
	StageAcquire  Stage = "acquire"
	StageCompute  Stage = "compute"
	StageRelease  Stage = "release"
)

// RenderError wraps a failure with the render it belongs to.
type RenderError struct {
	ID      string
	Stage   Stage
	Wrapped error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %s: %v", e.ID, e.Stage, e.Wrapped)
}

func (e *RenderError) Unwrap() error {
	return e.Wrapped
}
