// Package logging provides the colored, leveled output sink used for every
// status line the CLI prints.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Logger wraps a charm logger with colored helpers for the four kinds of
// status line: success, notice, warning and error.
type Logger struct {
	*log.Logger
}

// New returns a Logger writing to w at the named level. Unknown levels fall
// back to info.
func New(w io.Writer, level string) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	return &Logger{Logger: l}
}

// Successf logs a green info line.
func (l *Logger) Successf(format string, args ...any) {
	l.Info(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Noticef logs a cyan info line.
func (l *Logger) Noticef(format string, args ...any) {
	l.Info(noticeStyle.Render(fmt.Sprintf(format, args...)))
}

// Warnf logs a yellow warning line.
func (l *Logger) Warnf(format string, args ...any) {
	l.Warn(warnStyle.Render(fmt.Sprintf(format, args...)))
}

// Errorf logs a red error line.
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(errorStyle.Render(fmt.Sprintf(format, args...)))
}
