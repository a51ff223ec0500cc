package window

import "testing"

func TestWindowOptions(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720}
	for _, opt := range []WindowBuilderOption{
		WithTitle("Movies"),
		WithSize(0, 600),
		WithMinSize(-5, 200),
	} {
		opt(w)
	}
	if w.title != "Movies" {
		t.Errorf("title = %q", w.title)
	}
	if w.width != 1280 || w.height != 720 {
		t.Errorf("size = %dx%d, want the default kept", w.width, w.height)
	}
	if w.minWidth != 1 || w.minHeight != 200 {
		t.Errorf("min size = %dx%d, want 1x200", w.minWidth, w.minHeight)
	}

	WithSize(800, 600)(w)
	if w.width != 800 || w.height != 600 {
		t.Errorf("size = %dx%d, want 800x600", w.width, w.height)
	}
}
