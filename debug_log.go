// debug_log.go - the tiny internal debug/warn shim used throughout the
// core for transient, non-fatal conditions (unmapped access, reserved-
// register writes, unknown 3D commands - spec 4.3, 4.10, 7). Grounded
// on the teacher's own fmt.Printf-to-sink idiom in debug_monitor.go
// and the plain log.Printf warning in audio_chip.go's register
// decoder; the teacher never pulls in a structured-logging library,
// so neither do we.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import "log"

// debugVerbose gates debugLogf; off by default so a normal run is
// quiet, matching the teacher's debug-build-tag split without needing
// a separate build tag here.
var debugVerbose = false

// debugWarnf reports a condition the spec treats as "transient, logged,
// and otherwise ignored" (spec 7) - it never returns an error and never
// panics.
func debugWarnf(format string, args ...any) {
	log.Printf("warn: "+format, args...)
}

// debugLogf is the lower-priority counterpart, suppressed unless
// debugVerbose is set; no code path in this module sets it.
func debugLogf(format string, args ...any) {
	if !debugVerbose {
		return
	}
	log.Printf("debug: "+format, args...)
}
