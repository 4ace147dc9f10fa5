// Package raster holds the RGBA pixel buffer a render writes into.
//
// Writes go through a [Writer] obtained once per render with [Raster.Acquire].
// The writer indexes the backing slice directly, so workers writing disjoint
// pixels need no locking. Only one writer may exist at a time.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"
)

var (
	ErrInvalidSize = errors.New("raster: width and height must be positive")
	ErrLocked      = errors.New("raster: already acquired for writing")
	ErrReleased    = errors.New("raster: writer already released")
)

// Raster is a width x height RGBA buffer indexed by y*width+x.
type Raster struct {
	img    *image.RGBA
	locked atomic.Bool
}

func New(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	return &Raster{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

func (r *Raster) Width() int  { return r.img.Rect.Dx() }
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Len is the pixel count.
func (r *Raster) Len() int { return r.Width() * r.Height() }

// Image exposes the buffer as a standard image. It must not be read while a
// writer is held.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) At(x, y int) color.RGBA { return r.img.RGBAAt(x, y) }

// Pixel returns the colour at flat index i.
func (r *Raster) Pixel(i int) color.RGBA {
	p := r.img.Pix[i*4 : i*4+4 : i*4+4]
	return color.RGBA{p[0], p[1], p[2], p[3]}
}

// Equal reports whether two rasters have the same size and pixels.
func (r *Raster) Equal(o *Raster) bool {
	if r.Width() != o.Width() || r.Height() != o.Height() {
		return false
	}
	return bytes.Equal(r.img.Pix, o.img.Pix)
}

// Acquire grants exclusive write access until the writer is released.
func (r *Raster) Acquire() (*Writer, error) {
	if !r.locked.CompareAndSwap(false, true) {
		return nil, ErrLocked
	}
	return &Writer{raster: r, pix: r.img.Pix}, nil
}

// Locked reports whether a writer is currently held.
func (r *Raster) Locked() bool { return r.locked.Load() }

// Writer is the raw write handle. Set may be called from many goroutines as
// long as their indices are disjoint.
type Writer struct {
	raster   *Raster
	pix      []uint8
	released atomic.Bool
}

// Set stores c at flat index i. Calling Set after Release panics.
func (w *Writer) Set(i int, c color.RGBA) {
	p := w.pix[i*4 : i*4+4 : i*4+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Release gives up write access. It is safe to defer; a second call
// returns ErrReleased.
func (w *Writer) Release() error {
	if !w.released.CompareAndSwap(false, true) {
		return ErrReleased
	}
	w.pix = nil
	w.raster.locked.Store(false)
	return nil
}
