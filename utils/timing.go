package utils

import (
	"log"
	"sync/atomic"
	"time"
)

var debug atomic.Bool

// SetDebug toggles duration logging for Timed
func SetDebug(on bool) {
	debug.Store(on)
}

// Timed runs fn and, with debug enabled, logs how long it took under name
func Timed(name string, fn func()) {
	if !debug.Load() {
		fn()
		return
	}

	start := time.Now()
	fn()
	log.Printf("%s duration: %s", name, time.Since(start))
}
