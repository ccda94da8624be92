// Package cli renders netherd's terminal output: lazy column-aligned
// tables for the collect, sync and history reports, and ANSI status
// coloring keyed to run outcomes.
package cli

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// colorEnabled honors NO_COLOR (per no-color.org) and drops ANSI codes
// when stdout is not a terminal, so piped reports stay clean.
var colorEnabled = os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))

type ansi string

const (
	ansiRed    ansi = "31"
	ansiGreen  ansi = "32"
	ansiYellow ansi = "33"
	ansiBold   ansi = "1"
	ansiDim    ansi = "2"
)

func paint(code ansi, s string) string {
	if !colorEnabled {
		return s
	}
	return "\033[" + string(code) + "m" + s + "\033[0m"
}

func Green(s string) string  { return paint(ansiGreen, s) }
func Yellow(s string) string { return paint(ansiYellow, s) }
func Red(s string) string    { return paint(ansiRed, s) }
func Bold(s string) string   { return paint(ansiBold, s) }
func Dim(s string) string    { return paint(ansiDim, s) }

// StatusCell colors an outcome word for a table cell: clean outcomes
// green, degraded ones yellow, failures red, anything unrecognized dim.
func StatusCell(status string) string {
	switch strings.ToLower(status) {
	case "ok", "up", "active", "connected":
		return Green(status)
	case "partial", "planned", "skipped":
		return Yellow(status)
	case "failed", "down", "error":
		return Red(status)
	}
	return Dim(status)
}
