package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"investment-digest/internal/pipeline"
)

// Color codes for terminal output
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	colorEnabled bool
	verbose      bool
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return &Output{
		writer:       cmd.OutOrStdout(),
		colorEnabled: cmd.OutOrStdout() == os.Stdout && isTerminal(),
		verbose:      verbose,
	}
}

// NewPlainOutput creates an uncolored Output writing to w.
func NewPlainOutput(w io.Writer, verbose bool) *Output {
	return &Output{writer: w, verbose: verbose}
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message with a green check.
func (o *Output) Success(format string, args ...interface{}) {
	o.prefixed(ColorGreen, "✓", format, args...)
}

// Error prints an error message with a red cross.
func (o *Output) Error(format string, args ...interface{}) {
	o.prefixed(ColorRed, "✗", format, args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.prefixed(ColorYellow, "⚠", format, args...)
}

// Info prints an info message.
func (o *Output) Info(format string, args ...interface{}) {
	o.prefixed(ColorBlue, "ℹ", format, args...)
}

// Debug prints a message only in verbose mode.
func (o *Output) Debug(format string, args ...interface{}) {
	if !o.verbose {
		return
	}
	o.prefixed(ColorMagenta, "●", format, args...)
}

// toneColors maps bullet tones to terminal colors.
var toneColors = map[pipeline.Tone]string{
	pipeline.ToneRed:    ColorRed,
	pipeline.ToneYellow: ColorYellow,
	pipeline.ToneBlue:   ColorBlue,
	pipeline.ToneCyan:   ColorCyan,
}

// Bullet prints an indented line behind a colored dot.
func (o *Output) Bullet(tone pipeline.Tone, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	marker := "●"
	if color, ok := toneColors[tone]; ok {
		marker = o.ColoredString(color, marker)
	}
	fmt.Fprintf(o.writer, "   %s %s\n", marker, msg)
}

func (o *Output) prefixed(color, symbol, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(o.writer, "%s %s\n", o.ColoredString(color, symbol), msg)
}

// ColoredString returns a colored string without newline.
func (o *Output) ColoredString(color, text string) string {
	if o.colorEnabled {
		return color + text + ColorReset
	}
	return text
}

// Table represents a simple table for output.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a new table.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		output:  output,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleLen(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	t.printRow(t.headers, widths, true)
	t.printSeparator(widths)
	for _, row := range t.rows {
		t.printRow(row, widths, false)
	}
}

func (t *Table) printRow(cells []string, widths []int, isHeader bool) {
	var parts []string
	for i, cell := range cells {
		if i < len(widths) {
			padding := widths[i] - visibleLen(cell)
			if padding < 0 {
				padding = 0
			}
			padded := cell + strings.Repeat(" ", padding)
			if isHeader {
				padded = t.output.ColoredString(ColorBold, padded)
			}
			parts = append(parts, padded)
		}
	}
	t.output.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
}

func (t *Table) printSeparator(widths []int) {
	var parts []string
	for _, w := range widths {
		parts = append(parts, strings.Repeat("─", w))
	}
	t.output.Println(t.output.ColoredString(ColorDim, strings.Join(parts, "──")))
}

// visibleLen counts runes after removing ANSI escape codes.
func visibleLen(s string) int {
	for _, esc := range []string{
		ColorReset, ColorRed, ColorGreen, ColorYellow,
		ColorBlue, ColorMagenta, ColorCyan, ColorBold, ColorDim,
	} {
		s = strings.ReplaceAll(s, esc, "")
	}
	return len([]rune(s))
}
