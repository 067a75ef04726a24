// Package attendance aggregates parsed roster sheets and tallies presence.
//
// Store is the shared aggregate for one batch. Workers call Merge
// concurrently; each call first passes a Gate (a counting limiter that
// bounds how many workers may even queue on the lock) and then a mutex that
// makes the whole sheet's update atomic. The gate only throttles; the mutex
// alone serialises mutation.
//
// Once a batch is drained, Tally turns a Snapshot of the store into
// per-student Counts.
package attendance
