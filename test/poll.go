package test

import (
	"testing"
	"time"
)

// Poll repeatedly evaluates condition until we either timeout, or it succeeds.
// Views recompute asynchronously after fetches and clock ticks, so tests
// observe them through Poll rather than sleeping.
func Poll(t *testing.T, d time.Duration, condition func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(d)
	for {
		if condition() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(d / 20)
	}
}
