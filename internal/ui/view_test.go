package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/adpena/heartscope/internal/config"
)

func TestViewBeforeFirstTick(t *testing.T) {
	model := NewModel(config.DefaultConfig())
	if model.View() != "loading..." {
		t.Fatalf("expected loading view before window size")
	}
	model = newTestModel(t, config.DefaultConfig())
	view := model.View()
	for _, want := range []string{"WAITING", "Waiting for first sample", "tick 0/1000", "none yet"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view: %s", want, view)
		}
	}
}

func TestViewAxes(t *testing.T) {
	model := newTestModel(t, config.DefaultConfig())
	tick(t, model, 3)
	view := model.View()
	for _, want := range []string{"    2┤", "    0┤", "   -2┤", "window 4pi", "dt 0.05", "every 50ms", "ARMED"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view: %s", want, view)
		}
	}
}

func TestNarrowViewDropsSidePane(t *testing.T) {
	model := newTestModel(t, config.DefaultConfig())
	model.width = 50
	tick(t, model, 2)
	if strings.Contains(model.View(), "Recent peaks") {
		t.Fatalf("expected side pane to be hidden on narrow terminals")
	}
}

func TestFormatters(t *testing.T) {
	if formatAxis(2) != "2" || formatAxis(-12.566) != "-12.57" || formatAxis(0.001) != "0" {
		t.Fatalf("unexpected axis labels")
	}
	if formatSigned(0.94251) != "+0.943" || formatSeconds(0.8) != "0.80s" {
		t.Fatalf("unexpected value formatting")
	}
	if formatRate(1) != "60 bpm" || formatRate(0) != "-" {
		t.Fatalf("unexpected rate formatting")
	}
	if formatDuration(50*time.Millisecond) != "50ms" || formatCount(1500) != "1.5k" {
		t.Fatalf("unexpected duration/count formatting")
	}
	if parseSafeTop("yes") != 1 || parseSafeTop("-3") != 0 || parseSafeTop("2") != 2 {
		t.Fatalf("unexpected safe top parsing")
	}
}
