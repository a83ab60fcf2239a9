package plot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"featimp/internal/importance"
)

func testScores() []importance.Score {
	return []importance.Score{
		{Feature: "income", Value: 0.6},
		{Feature: "age", Value: 0.3},
		{Feature: "segment", Value: 0.1},
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	chart := BarChart{Width: 10}
	if err := chart.Render(&buf, testScores()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}

	// Input order is preserved and the largest score fills the width.
	if !strings.HasPrefix(lines[0], "income") {
		t.Errorf("First line should be income: %q", lines[0])
	}
	if got := strings.Count(lines[0], "█"); got != 10 {
		t.Errorf("Largest bar should span 10 cells, got %d", got)
	}
	if got := strings.Count(lines[1], "█"); got != 5 {
		t.Errorf("0.3 of 0.6 over width 10 should be 5 cells, got %d", got)
	}
	if !strings.Contains(lines[0], "0.6000") {
		t.Errorf("Line should carry the value: %q", lines[0])
	}
}

func TestRender_DefaultWidth(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := (BarChart{}).Render(&buf, testScores()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := strings.Count(buf.String(), "█"); got < 50 {
		t.Errorf("Default width should draw at least 50 cells for the max score, got %d", got)
	}
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	chart := BarChart{}
	if err := chart.Render(nil, testScores()); !errors.Is(err, ErrRendererUnavailable) {
		t.Errorf("Expected ErrRendererUnavailable, got %v", err)
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, nil); err == nil {
		t.Error("Expected error for empty scores")
	}
}

func TestRenderTerminal_NoDisplay(t *testing.T) {
	// Test processes never have a tty on stdout, so the display error is
	// the expected outcome, and it must stay distinct from the renderer
	// error.
	err := BarChart{}.RenderTerminal(testScores())
	if err != nil && !errors.Is(err, ErrDisplayUnavailable) {
		t.Fatalf("Expected ErrDisplayUnavailable, got %v", err)
	}
	if errors.Is(err, ErrRendererUnavailable) {
		t.Error("Display and renderer errors must be distinguishable")
	}
}
