// Package publisher runs the scheduled-publishing loop over the catalog.
//
// The Manager wakes on a fixed tick, selects every scheduled episode whose
// publish time has passed, and publishes each one inside its own database
// transaction. A failure on one episode never blocks the rest of the pass.
// Publishing an episode may promote its parent series as a side effect; the
// episode update and the series promotion commit atomically.
//
// Passes never overlap: a single goroutine owns the loop and a manual pass
// request waits for any in-flight pass to finish. Stopping the manager lets
// the current pass run to completion before returning.
package publisher
