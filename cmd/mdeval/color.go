package main

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// DER bands for the highlighted summary line.
const (
	derGood = 0.10
	derFair = 0.25
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func derColor(der float64) string {
	switch {
	case der < derGood:
		return ansiGreen
	case der < derFair:
		return ansiYellow
	default:
		return ansiRed
	}
}

// highlightLine wraps every occurrence of line in report with color.
func highlightLine(report, line, color string) string {
	return strings.ReplaceAll(report, line, color+line+ansiReset)
}
