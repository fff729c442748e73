package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Pre-configured color instances for consistent CLI output.
var (
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

// initColors configures global color output, called once from main() after
// flags are parsed. fatih/color already honors NO_COLOR; this adds explicit
// control via --no-color.
func initColors(noColor bool) {
	color.NoColor = color.NoColor || noColor
}

func successf(format string, args ...any) { _, _ = green.Printf("✓ "+format+"\n", args...) }
func warningf(format string, args ...any)  { _, _ = yellow.Printf("⚠ "+format+"\n", args...) }
func errorf(format string, args ...any)    { _, _ = red.Printf("✗ "+format+"\n", args...) }
func infof(format string, args ...any)     { _, _ = cyan.Printf("ℹ "+format+"\n", args...) }

func header(text string) {
	_, _ = bold.Println(text)
	fmt.Println(strings.Repeat("=", len(text)))
}

func dimText(text string) string { return dim.Sprint(text) }
