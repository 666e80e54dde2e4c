// Package monitoring provides the shared diagnostic logger for the tracking
// pipeline.
package monitoring

import "log"

// Logf is the package-level diagnostic logger used across the pipeline. It
// defaults to log.Printf; tests and embedding applications may redirect or
// mute it with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
