package utils

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger creates a [log.Logger] writing to w (default [os.Stderr]) with
// timestamps and caller reporting, at the named level.
func NewLogger(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{ReportTimestamp: true, ReportCaller: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
