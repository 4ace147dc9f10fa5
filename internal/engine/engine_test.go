package engine_test

import (
	"context"
	"errors"
	"image/color"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fractalview/internal/engine"
	"github.com/san-kum/fractalview/internal/fractal"
	"github.com/san-kum/fractalview/internal/palette"
)

// period2Bulb lies entirely inside the period-2 bulb, so every pixel runs to
// the iteration cap.
var period2Bulb = fractal.Bounds{MinReal: -1.2, MaxReal: -0.8, MinImaginary: -0.1, MaxImaginary: 0.1}

func plainSettings() engine.Settings {
	s := engine.DefaultSettings()
	s.Algorithm = palette.Grayscale
	s.Smooth = false
	return s
}

var _ = Describe("Engine", func() {
	var (
		eng *engine.Engine
		ctx context.Context
	)

	BeforeEach(func() {
		eng = engine.New(engine.WithWorkers(4))
		ctx = context.Background()
	})

	Describe("Render", func() {
		It("fills a 4x4 raster with opaque pixels", func() {
			res, err := eng.Render(ctx, 4, 4, plainSettings())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Raster.Len()).To(Equal(16))
			Expect(res.MaxIterations).To(Equal(200))
			Expect(res.ID).NotTo(BeEmpty())

			for i := 0; i < res.Raster.Len(); i++ {
				Expect(res.Raster.Pixel(i).A).To(Equal(uint8(255)), "pixel %d", i)
			}
		})

		It("shades escaped and bounded pixels", func() {
			res, err := eng.Render(ctx, 4, 4, plainSettings())
			Expect(err).NotTo(HaveOccurred())

			// (0, 0) maps to -2-i and escapes on the first step.
			Expect(res.Raster.At(0, 0)).To(Equal(color.RGBA{1, 1, 1, 255}))
			// (3, 2) maps to -0.125+0i, inside the cardioid.
			Expect(res.Raster.At(3, 2)).To(Equal(color.RGBA{0, 0, 0, 255}))
		})

		It("is deterministic", func() {
			s := engine.DefaultSettings()
			a, err := eng.Render(ctx, 97, 61, s)
			Expect(err).NotTo(HaveOccurred())
			b, err := eng.Render(ctx, 97, 61, s)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Raster.Equal(b.Raster)).To(BeTrue())
		})

		It("does not depend on the worker count", func() {
			s := engine.DefaultSettings()
			a, err := engine.New(engine.WithWorkers(1)).Render(ctx, 50, 40, s)
			Expect(err).NotTo(HaveOccurred())
			b, err := engine.New(engine.WithWorkers(7)).Render(ctx, 50, 40, s)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Raster.Equal(b.Raster)).To(BeTrue())
		})

		It("renders the Burning Ship differently", func() {
			s := plainSettings()
			a, err := eng.Render(ctx, 32, 32, s)
			Expect(err).NotTo(HaveOccurred())

			s.Alternate = true
			b, err := eng.Render(ctx, 32, 32, s)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Raster.Equal(b.Raster)).To(BeFalse())
		})

		It("renders every palette with smoothing", func() {
			for _, alg := range palette.All() {
				s := engine.DefaultSettings()
				s.Algorithm = alg
				s.SmoothStep = 0.5
				res, err := eng.Render(ctx, 16, 16, s)
				Expect(err).NotTo(HaveOccurred(), "algorithm %s", alg)
				Expect(res.Raster.Locked()).To(BeFalse())
			}
		})

		DescribeTable("rejects invalid input",
			func(w, h int, mutate func(*engine.Settings), want error) {
				s := engine.DefaultSettings()
				mutate(&s)
				res, err := eng.Render(ctx, w, h, s)
				Expect(res).To(BeNil())
				Expect(err).To(MatchError(want))

				var rerr *engine.RenderError
				Expect(errors.As(err, &rerr)).To(BeTrue())
				Expect(rerr.Stage).To(Equal(engine.StageValidate))
				Expect(eng.Busy()).To(BeFalse())
			},
			Entry("zero width", 0, 4, func(*engine.Settings) {}, engine.ErrInvalidSize),
			Entry("negative height", 4, -1, func(*engine.Settings) {}, engine.ErrInvalidSize),
			Entry("flat real axis", 4, 4, func(s *engine.Settings) { s.Bounds.MaxReal = s.Bounds.MinReal }, fractal.ErrDegenerateBounds),
			Entry("inverted imaginary axis", 4, 4, func(s *engine.Settings) {
				s.Bounds.MinImaginary, s.Bounds.MaxImaginary = 1, -1
			}, fractal.ErrDegenerateBounds),
			Entry("zero zoom", 4, 4, func(s *engine.Settings) { s.Zoom = 0 }, engine.ErrInvalidSettings),
			Entry("zero smooth step", 4, 4, func(s *engine.Settings) { s.SmoothStep = 0 }, engine.ErrInvalidSettings),
			Entry("saturation above one", 4, 4, func(s *engine.Settings) { s.Saturation = 1.5 }, engine.ErrInvalidSettings),
			Entry("negative value", 4, 4, func(s *engine.Settings) { s.Value = -0.1 }, engine.ErrInvalidSettings),
		)

		It("returns no raster when the context is already canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			res, err := eng.Render(cctx, 64, 64, engine.DefaultSettings())
			Expect(res).To(BeNil())
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("RenderAsync", func() {
		It("delivers the result through the callback", func() {
			done := make(chan *engine.Result, 1)
			ok := eng.RenderAsync(ctx, 20, 10, engine.DefaultSettings(), func(r *engine.Result, err error) {
				Expect(err).NotTo(HaveOccurred())
				done <- r
			})
			Expect(ok).To(BeTrue())

			var res *engine.Result
			Eventually(done, 5*time.Second).Should(Receive(&res))
			Expect(res.Raster.Width()).To(Equal(20))
			Expect(res.Raster.Height()).To(Equal(10))
			Expect(res.Elapsed).To(BeNumerically(">", 0))
			Eventually(eng.Busy).Should(BeFalse())
		})

		It("renders the snapshot it was given", func() {
			s := engine.DefaultSettings()
			done := make(chan *engine.Result, 1)
			eng.RenderAsync(ctx, 8, 8, s, func(r *engine.Result, _ error) { done <- r })
			s.Zoom = 40

			var res *engine.Result
			Eventually(done, 5*time.Second).Should(Receive(&res))
			Expect(res.Settings.Zoom).To(Equal(1.0))
			Expect(res.MaxIterations).To(Equal(200))
		})

		It("drops requests while a render is in flight", func() {
			heavy := engine.DefaultSettings()
			heavy.Bounds = period2Bulb
			heavy.Zoom = 100

			hctx, cancel := context.WithCancel(ctx)
			defer cancel()

			first := make(chan error, 1)
			Expect(eng.RenderAsync(hctx, 256, 256, heavy, func(_ *engine.Result, err error) {
				first <- err
			})).To(BeTrue())
			Expect(eng.Busy()).To(BeTrue())

			called := false
			Expect(eng.RenderAsync(ctx, 4, 4, engine.DefaultSettings(), func(*engine.Result, error) {
				called = true
			})).To(BeFalse())

			_, err := eng.Render(ctx, 4, 4, engine.DefaultSettings())
			Expect(err).To(MatchError(engine.ErrBusy))

			By("leaving other engines unaffected")
			other, err := engine.New().Render(ctx, 4, 4, engine.DefaultSettings())
			Expect(err).NotTo(HaveOccurred())
			Expect(other.Raster.Len()).To(Equal(16))

			cancel()
			var ferr error
			Eventually(first, 30*time.Second).Should(Receive(&ferr))
			if ferr != nil {
				Expect(ferr).To(MatchError(context.Canceled))
			}
			Expect(called).To(BeFalse())
			Eventually(eng.Busy).Should(BeFalse())

			By("admitting the next request once idle")
			_, err = eng.Render(ctx, 4, 4, engine.DefaultSettings())
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
