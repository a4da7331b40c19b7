// Package reveal drives the time-stepped "typing" presentation of a
// completed assistant response: a periodic task that advances owned
// state one step per tick and self-terminates, plus the lifecycle state
// machine the rest of the system observes.
package reveal

import (
	"context"
	"time"
)

// Cadence is the process-wide interval between single-character
// reveal increments.
const Cadence = 20 * time.Millisecond

// Run invokes step once per interval tick on its own goroutine until
// step returns false or ctx is canceled. step owns all synchronization:
// Run never touches shared state itself.
func Run(ctx context.Context, interval time.Duration, step func() bool) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !step() {
					return
				}
			}
		}
	}()
}
