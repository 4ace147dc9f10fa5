// Package engine renders escape-time fractals into a raster.
//
// The package composes the building blocks of the renderer:
//
//   - [Settings]: immutable snapshot of view and colour parameters
//   - [Engine]: owns the worker pool and the one-render-at-a-time gate
//   - [Result]: the finished raster with timing information
//
// # Example
//
//	eng := engine.New(engine.WithLogger(log))
//	res, err := eng.Render(ctx, 800, 800, engine.DefaultSettings())
//
// # Thread Safety
//
// An Engine admits one render at a time. Requests made while a render is
// in flight are dropped: [Engine.RenderAsync] returns false and
// [Engine.Render] returns [ErrBusy]. Independent Engine values do not
// share this gate.
package engine
