// Package ui renders check and parse results for the terminal.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhamidi/cside/cal/parser"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	posStyle  = lipgloss.NewStyle().Faint(true)
	codeStyle = lipgloss.NewStyle().Faint(true)
)

func OkLine(w io.Writer, path string) {
	fmt.Fprintln(w, okStyle.Render("ok")+"    "+path)
}

func FailLine(w io.Writer, path string, count int) {
	fmt.Fprintf(w, "%s  %s (%d error(s))\n", errStyle.Render("fail"), path, count)
}

func ErrorLine(w io.Writer, err parser.ParseError) {
	pos := fmt.Sprintf("%d:%d", err.Token.Span.Start.Line, err.Token.Span.Start.Column)
	fmt.Fprintf(w, "  %s %s %s\n", posStyle.Render(pos), err.Message, codeStyle.Render("["+err.Code+"]"))
}

func SummaryLine(w io.Writer, files, failed int) {
	if failed == 0 {
		fmt.Fprintf(w, "checked %d file(s)\n", files)
		return
	}
	fmt.Fprintf(w, "checked %d file(s), %d with errors\n", files, failed)
}
