// Package log provides the shared logrus configuration used across the
// cartridge loader, the driver, and the program-fault degrade path.
package log

import "github.com/sirupsen/logrus"

// New returns a logrus logger configured for plain, unsorted, undecorated
// output, matching the formatting this codebase has always used for its
// own diagnostic output rather than general-purpose service logs.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}

// NewDebug is New with debug-level verbosity, for --strict/dev-build runs
// that want program faults logged in full rather than only degraded.
func NewDebug() *logrus.Logger {
	l := New()
	l.SetLevel(logrus.DebugLevel)
	return l
}
