package engine

import (
	"context"
	"testing"

	"github.com/san-kum/fractalview/internal/colour"
	"github.com/san-kum/fractalview/internal/fractal"
	"github.com/san-kum/fractalview/internal/palette"
)

func TestShade(t *testing.T) {
	p := DefaultSettings().palette()

	if got := shade(fractal.Sample{Iteration: 200}, 200, p); got != colour.Black {
		t.Errorf("bounded sample = %v, want black", got)
	}

	smp := fractal.Sample{Iteration: 7, RealSq: 3, ImagSq: 2}
	want := palette.Colour(7, 3, 2, p)
	if got := shade(smp, 200, p); got != want {
		t.Errorf("escaped sample = %v, want %v", got, want)
	}
}

func TestSettingsPalette(t *testing.T) {
	s := DefaultSettings()
	s.Zoom = 3
	p := s.palette()
	if p.Algorithm != palette.HSV || p.Zoom != 3 || !p.Smooth || p.Step != 1 || p.Saturation != 0.8 || p.Value != 1 {
		t.Errorf("palette params = %+v", p)
	}
}

func TestRenderError(t *testing.T) {
	err := &RenderError{ID: "abc", Stage: StageCompute, Wrapped: ErrBusy}
	if err.Error() != "render abc: compute: engine: render already in progress" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != ErrBusy {
		t.Error("Unwrap should return the wrapped error")
	}
}

func BenchmarkRender(b *testing.B) {
	e := New()
	s := DefaultSettings()
	for i := 0; i < b.N; i++ {
		if _, err := e.render(context.Background(), 256, 256, s); err != nil {
			b.Fatal(err)
		}
	}
}
