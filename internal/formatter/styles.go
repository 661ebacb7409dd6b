package formatter

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	headingColor = "#1DB954"
	labelColor   = "#FFFFFF"
)

// plainStyles never emits escape sequences. Exports written to files use it.
var plainStyles = newPalette(asciiRenderer())

// palette holds the [lipgloss.Style] values used by the text exporters.
type palette struct {
	heading lipgloss.Style
	label   lipgloss.Style
}

// stylesFor returns a palette whose colour support is detected from w rather than os.Stdout.
func stylesFor(w io.Writer) *palette {
	return newPalette(lipgloss.NewRenderer(w))
}

func newPalette(r *lipgloss.Renderer) *palette {
	return &palette{
		heading: newBold(r, headingColor).Underline(true),
		label:   newBold(r, labelColor),
	}
}

func asciiRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return r
}

func newStyle(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return newStyle(r, fg).Bold(true)
}
