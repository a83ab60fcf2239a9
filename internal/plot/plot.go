// Package plot renders an importance distribution as a horizontal bar
// chart. It sits outside the engine: the engine returns scores, this
// package only draws them.
package plot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"featimp/internal/importance"
)

// ErrRendererUnavailable reports that no rendering backend was supplied.
var ErrRendererUnavailable = errors.New("plot: no rendering backend available")

// ErrDisplayUnavailable reports that rendering targeted a terminal but
// none is attached. Distinct from ErrRendererUnavailable so callers can
// tell a headless environment from a missing backend.
var ErrDisplayUnavailable = errors.New("plot: unable to open terminal display")

const defaultWidth = 50

// BarChart draws importance scores as horizontal bars.
type BarChart struct {
	// Width is the bar length, in cells, of the largest score. Values
	// below 1 use the default.
	Width int
}

// Render writes the chart to w. The bars are drawn in the order the
// scores are given, preserving the engine's requested sort.
func (c BarChart) Render(w io.Writer, scores []importance.Score) error {
	if w == nil {
		return ErrRendererUnavailable
	}
	if len(scores) == 0 {
		return fmt.Errorf("plot: nothing to render")
	}

	width := c.Width
	if width < 1 {
		width = defaultWidth
	}

	labelWidth := 0
	maxScore := 0.0
	for _, s := range scores {
		if len(s.Feature) > labelWidth {
			labelWidth = len(s.Feature)
		}
		if s.Value > maxScore {
			maxScore = s.Value
		}
	}

	for _, s := range scores {
		cells := 0
		if maxScore > 0 {
			cells = int(s.Value / maxScore * float64(width))
		}
		if _, err := fmt.Fprintf(w, "%-*s  %s %.4f\n",
			labelWidth, s.Feature, strings.Repeat("█", cells), s.Value); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
	}
	return nil
}

// RenderTerminal draws the chart on stdout, failing with
// ErrDisplayUnavailable when stdout is not a terminal.
func (c BarChart) RenderTerminal(scores []importance.Score) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrDisplayUnavailable
	}
	return c.Render(os.Stdout, scores)
}
