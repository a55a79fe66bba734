// Package logging sets up the daemon's stdlib logger: time-only stamps when
// stderr is an interactive terminal, date and time when it is redirected,
// following aidanlsb-raven's isatty-gated formatting.
package logging

import (
	"log"
	"os"

	"github.com/mattn/go-isatty"
)

// Init configures the default logger for daemon use. verbose enables
// Lshortfile so panics/asserts can be traced back to a call site.
func Init(verbose bool) {
	flags := log.Ldate | log.Ltime
	if isatty.IsTerminal(os.Stderr.Fd()) {
		flags = log.Ltime
	}
	if verbose {
		flags |= log.Lshortfile
	}
	log.SetFlags(flags)
	log.SetOutput(os.Stderr)
}

// Fatalf logs a formatted message and exits 1, mirroring google-navc's
// log.Panic-on-unrecoverable-setup-error convention but without the stack
// dump, since these are expected operator-facing failures (bad flags, a
// socket already bound), not invariant violations.
func Fatalf(format string, args ...interface{}) {
	log.Printf(format, args...)
	os.Exit(1)
}
