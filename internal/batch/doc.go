// Package batch dispatches a list of roster images across a worker pool.
//
// Each worker pops a path from a sealed Queue, extracts its text, parses it
// and merges the record into a shared attendance.Store. A bad image is
// recorded as a Failure and the worker moves on. Run returns only after
// every path has been handled, then tallies the store into a Report.
//
//	d := batch.New(extractor, batch.WithWorkers(5), batch.WithAdmissionLimit(3))
//	report, err := d.Run(ctx, paths)
package batch
