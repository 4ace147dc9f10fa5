// Package sched splits a flat index range into contiguous chunks and runs
// them on a bounded pool of goroutines.
//
//	chunks := sched.Partition(width*height, width)
//	err := sched.NewPool(0).Run(ctx, chunks, func(c sched.Chunk) error { ... })
//
// Chunks are disjoint, so workers writing to separate indices of a shared
// buffer need no further synchronisation.
package sched
