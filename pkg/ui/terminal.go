package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"igoauth/pkg/instagram"
)

var (
	out     io.Writer = os.Stdout
	noColor           = !term.IsTerminal(int(os.Stdout.Fd()))
)

// SetOutput redirects all printing, mainly for tests
func SetOutput(w io.Writer) { out = w }

// SetNoColor disables ANSI colors
func SetNoColor(disabled bool) { noColor = disabled }

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if noColor {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(out, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(out, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(out, Green(msg))
}

// PrintInfo prints a label and value pair
func PrintInfo(label string, value string) {
	fmt.Fprintf(out, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(out, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(out, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Fprintln(out, Magenta(msg))
}

// PrintRaw prints text unchanged
func PrintRaw(text string) {
	fmt.Fprintln(out, text)
}

// PrintMediaTable prints one row per media item. Captions are cut to a single short line.
func PrintMediaTable(media []instagram.Media) {
	if len(media) == 0 {
		fmt.Fprintln(out, Dim("no media"))
		return
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Type", "Timestamp", "Permalink", "Caption"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for _, m := range media {
		table.Append([]string{m.ID, m.MediaType, m.Timestamp, m.Permalink, shorten(m.Caption, 40)})
	}
	table.Render()
}

func shorten(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// Output returns the writer used for printing
func Output() io.Writer { return out }
