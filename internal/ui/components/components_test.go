package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/x/ansi"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading")
	if s.label != "Loading" {
		t.Error("Spinner label mismatch")
	}
}

func TestSpinner_Methods(t *testing.T) {
	s := NewSpinner("Init")

	s.SetLabel("Loading")
	if s.Label() != "Loading" {
		t.Errorf("Label = %s, want Loading", s.Label())
	}

	if view := s.ViewWithLabel(); !strings.Contains(view, "Loading") {
		t.Errorf("ViewWithLabel = %q, want label", view)
	}

	if s.Tick() == nil {
		t.Error("Tick should return command")
	}

	_, cmd := s.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Update should return command for tick")
	}
}

func TestRenderHourlyChart(t *testing.T) {
	var counts [24]int
	if s := RenderHourlyChart(counts, 40, 5); !strings.Contains(s, "No data available") {
		t.Errorf("empty chart = %q", s)
	}

	counts[8] = 10
	counts[17] = 4
	s := RenderHourlyChart(counts, 40, 5)
	if !strings.Contains(s, "Trips by start hour") {
		t.Errorf("chart is missing its caption: %q", s)
	}
}

func TestRenderBarChart(t *testing.T) {
	if s := RenderBarChart(nil, nil, 20); s != "" {
		t.Errorf("RenderBarChart(nil) = %q", s)
	}

	s := RenderBarChart([]int{1500, 20}, []string{"Subscriber", "Customer"}, 40)
	lines := strings.Split(s, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], "1,500") {
		t.Errorf("first bar = %q, want a thousands separator", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  Customer") {
		t.Errorf("labels should be right-aligned, got %q", lines[1])
	}
}

func TestRenderTable(t *testing.T) {
	headers := []string{"User Type", "Gender", "Count"}
	rows := [][]string{
		{"Subscriber", "Male", "2"},
		{"Customer", "Undisclosed", "1"},
	}

	s := RenderTable(headers, rows, 0)
	for _, want := range []string{"User Type", "Subscriber", "Undisclosed"} {
		if !strings.Contains(s, want) {
			t.Errorf("table is missing %q:\n%s", want, s)
		}
	}

	narrow := RenderTable(headers, rows, 20)
	for _, line := range strings.Split(narrow, "\n") {
		if w := ansi.StringWidth(line); w > 20 {
			t.Errorf("line %q is %d cells wide, want <= 20", line, w)
		}
	}
}
