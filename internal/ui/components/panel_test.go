package components

import (
	"strings"
	"testing"
)

func TestPanel_InnerSize(t *testing.T) {
	p := &Panel{Width: 40, Height: 10}
	if w, h := p.InnerSize(); w != 38 || h != 8 {
		t.Errorf("Expected 38x8, got %dx%d", w, h)
	}

	p.Title = "doc.plist"
	if _, h := p.InnerSize(); h != 7 {
		t.Errorf("Expected height 7 with a title line, got %d", h)
	}
}

func TestPanel_View(t *testing.T) {
	p := &Panel{Title: "doc.plist", Status: "3/9", Content: "body", Width: 40, Height: 6}
	view := p.View()

	for _, want := range []string{"doc.plist", "3/9", "body"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}

	if (&Panel{}).View() != "" {
		t.Error("Expected empty view for a zero-size panel")
	}
}
