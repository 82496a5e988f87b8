package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/moasq/pbxpatch/internal/pbxpatch"
	"golang.org/x/term"
)

// Colors for terminal output.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
)

var (
	out   io.Writer = os.Stdout
	color           = term.IsTerminal(int(os.Stdout.Fd()))
)

// SetOutput redirects all UI output. Colors are enabled only when w is a terminal.
func SetOutput(w io.Writer) {
	out = w
	f, ok := w.(*os.File)
	color = ok && term.IsTerminal(int(f.Fd()))
}

func paint(codes, s string) string {
	if !color {
		return s
	}
	return codes + s + Reset
}

// UI helper functions.

// Success prints a green success message.
func Success(msg string) {
	fmt.Fprintf(out, "%s %s\n", paint(Bold+Green, "✓"), msg)
}

// Error prints a red error message.
func Error(msg string) {
	fmt.Fprintf(out, "%s %s\n", paint(Bold+Red, "✗"), msg)
}

// Info prints a blue info message.
func Info(msg string) {
	fmt.Fprintf(out, "%s %s\n", paint(Bold+Blue, "i"), msg)
}

// Warning prints a yellow warning message.
func Warning(msg string) {
	fmt.Fprintf(out, "%s %s\n", paint(Bold+Yellow, "!"), msg)
}

// Detail prints a dimmed indented line.
func Detail(msg string) {
	fmt.Fprintf(out, "  %s\n", paint(Dim, msg))
}

// Report prints one line per section result. Missing anchors are warnings.
func Report(r *pbxpatch.Report) {
	for _, res := range r.Results {
		where := string(res.Section)
		if res.Section == pbxpatch.SectionGroup {
			where += " " + res.Anchor
		}
		line := fmt.Sprintf("%s → %s", res.File, where)
		switch res.Outcome {
		case pbxpatch.OutcomeInserted:
			Info(line)
		case pbxpatch.OutcomeAlreadyPresent:
			Detail(line + " (already present)")
		case pbxpatch.OutcomeAnchorNotFound:
			Warning(line + ": anchor not found, skipped")
		}
	}
}
