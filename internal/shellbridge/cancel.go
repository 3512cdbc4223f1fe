package shellbridge

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// cancelFlag is the single cooperative cancellation flag shared by every
// streaming call in the process. It is installed once: the first streaming
// call registers the SIGINT handler; every later call reads the same flag.
var (
	cancelFlag     atomic.Bool
	registerOnce   sync.Once
	sigCh          chan os.Signal
)

// ensureSIGINTRegistered installs the process-wide SIGINT handler exactly
// once. Subsequent calls are no-ops.
func ensureSIGINTRegistered() {
	registerOnce.Do(func() {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT)
		go func() {
			for range sigCh {
				cancelFlag.Store(true)
			}
		}()
	})
}

// Cancelled reports whether SIGINT has been observed since process start.
func Cancelled() bool {
	return cancelFlag.Load()
}

// ResetCancellation clears the flag. Exposed for tests; production code
// never needs to call this since the flag is meant to persist for the life
// of the process once tripped.
func ResetCancellation() {
	cancelFlag.Store(false)
}
