// Package display renders the console output of the uploader: an ASCII-art
// heading, colored status lines and key/value tables.
package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	Yellow  = lipgloss.Color("#FFC107")
	Green   = lipgloss.Color("#8BC34A")
	Magenta = lipgloss.Color("#D81B60")
	Blue    = lipgloss.Color("#2196F3")
	Red     = lipgloss.Color("#E53935")
	Muted   = lipgloss.Color("#6B7280")
)

// Styles holds the styles used by a Printer.
type Styles struct {
	Heading     lipgloss.Style
	Success     lipgloss.Style
	Info        lipgloss.Style
	Progress    lipgloss.Style
	Error       lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	Border      lipgloss.Style
}

// NewStyles builds the palette on renderer r, so color output follows the
// capabilities of r's writer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Heading:     r.NewStyle().Foreground(Yellow),
		Success:     r.NewStyle().Foreground(Green),
		Info:        r.NewStyle().Foreground(Magenta),
		Progress:    r.NewStyle().Foreground(Blue),
		Error:       r.NewStyle().Foreground(Red).Bold(true),
		TableHeader: r.NewStyle().Foreground(Blue).Bold(true).Padding(0, 1),
		TableCell:   r.NewStyle().Padding(0, 1),
		Border:      r.NewStyle().Foreground(Muted),
	}
}

// Printer writes formatted output to a single writer.
type Printer struct {
	out    io.Writer
	styles Styles
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		out:    w,
		styles: NewStyles(lipgloss.NewRenderer(w)),
	}
}

// Heading prints text as ASCII art.
func (p *Printer) Heading(text string) {
	art := figure.NewFigure(text, "", false).String()
	fmt.Fprintln(p.out, p.styles.Heading.Render(art))
}

// Success prints a green status line.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.styles.Success.Render(msg))
}

// Info prints a magenta status line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.out, p.styles.Info.Render(msg))
}

// Link prints a magenta label followed by an uncolored URL.
func (p *Printer) Link(label, url string) {
	fmt.Fprintln(p.out, p.styles.Info.Render(label), url)
}

// Progress prints a blue status line.
func (p *Printer) Progress(msg string) {
	fmt.Fprintln(p.out, p.styles.Progress.Render(msg))
}

// Error prints a red label followed by err.
func (p *Printer) Error(label string, err error) {
	fmt.Fprintln(p.out, p.styles.Error.Render(label), err)
}

// ChunkProgress prints an upload progress line.
func (p *Printer) ChunkProgress(uploadedSize, totalSize int64) {
	p.Progress(FormatChunkProgress(uploadedSize, totalSize))
}

// FormatChunkProgress formats "📦 Uploaded chunk: u/t" followed by
// human-readable sizes and the completed percentage.
func FormatChunkProgress(uploadedSize, totalSize int64) string {
	line := fmt.Sprintf("📦 Uploaded chunk: %d/%d", uploadedSize, totalSize)
	if uploadedSize < 0 || totalSize <= 0 {
		return line
	}
	percent := decimal.NewFromInt(uploadedSize).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(totalSize)).
		StringFixed(1)
	return fmt.Sprintf("%s (%s of %s, %s%%)", line,
		humanize.Bytes(uint64(uploadedSize)), humanize.Bytes(uint64(totalSize)), percent)
}
