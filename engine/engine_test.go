package engine

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/Carmen-Shannon/coverflow/engine/coverflow"
	"github.com/Carmen-Shannon/coverflow/engine/interaction"
	"github.com/Carmen-Shannon/coverflow/engine/renderer"
)

type fakeController struct {
	interaction.Controller
	events []string
}

func (c *fakeController) PointerDown(button int, x, y float64, now time.Time) {
	c.events = append(c.events, fmt.Sprintf("down %d %.0f", button, x))
}

func (c *fakeController) PointerMove(button int, x, y float64, now time.Time) {
	c.events = append(c.events, fmt.Sprintf("move %d %.0f", button, x))
}

func (c *fakeController) PointerUp(button int, x, y float64, now time.Time) {
	c.events = append(c.events, fmt.Sprintf("up %d %.0f", button, x))
}

func (c *fakeController) Wheel(delta float64, mods common.ModifierKey, now time.Time) {
	c.events = append(c.events, fmt.Sprintf("wheel %.0f %d", delta, mods))
}

func (c *fakeController) DoubleClick(button int, now time.Time) {
	c.events = append(c.events, fmt.Sprintf("double %d", button))
}

func (c *fakeController) Key(key int, now time.Time) {
	c.events = append(c.events, fmt.Sprintf("key %d", key))
}

type fakeView struct {
	coverflow.View
	ctrl          *fakeController
	width, height int
	frames        int
	renders       int
}

func (v *fakeView) Controller() interaction.Controller { return v.ctrl }
func (v *fakeView) SetViewportSize(w, h int)           { v.width, v.height = w, h }
func (v *fakeView) Frame(now time.Time)                { v.frames++ }

func (v *fakeView) Render(r renderer.Renderer) (bool, error) {
	v.renders++
	return true, nil
}

type fakeRenderer struct {
	renderer.Renderer
	resized [][2]int
}

func (r *fakeRenderer) Resize(width, height int) error {
	r.resized = append(r.resized, [2]int{width, height})
	return nil
}

func newTestEngine() (*engine, *fakeView, *fakeRenderer) {
	v := &fakeView{ctrl: &fakeController{}}
	r := &fakeRenderer{}
	e := NewEngine(WithView(v)).(*engine)
	e.renderer = r
	e.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return e, v, r
}

func TestPointerRouting(t *testing.T) {
	e, v, _ := newTestEngine()

	e.handleMouseMove(5, 0)
	e.handleMouseButton(common.MouseButtonRight, true, 1, 0)
	e.handleMouseButton(common.MouseButtonLeft, true, 10, 0)
	e.handleMouseMove(20, 0)
	e.handleMouseButton(common.MouseButtonMiddle, true, 21, 0)
	e.handleMouseMove(30, 0)
	e.handleMouseButton(common.MouseButtonMiddle, false, 31, 0)
	e.handleMouseButton(common.MouseButtonLeft, false, 40, 0)
	e.handleMouseMove(50, 0)
	e.handleMouseButton(common.MouseButtonMiddle, true, 60, 0)
	e.handleMouseMove(70, 0)

	want := []string{
		"down 0 10",
		"move 0 20",
		"move 0 30",
		"up 0 40",
		"down 2 60",
		"move 2 70",
	}
	if !reflect.DeepEqual(v.ctrl.events, want) {
		t.Errorf("events = %q, want %q", v.ctrl.events, want)
	}
}

func TestWheelKeyAndDoubleClickRouting(t *testing.T) {
	e, v, _ := newTestEngine()
	var hostKeys []int
	e.SetKeyCallback(func(key int, mods common.ModifierKey) { hostKeys = append(hostKeys, key) })

	e.handleScroll(-1, common.ModControl)
	e.handleDoubleClick(common.MouseButtonMiddle)
	e.handleKeyDown(common.KeyRight, 0)

	want := []string{"wheel -1 2", "double 2", "key 262"}
	if !reflect.DeepEqual(v.ctrl.events, want) {
		t.Errorf("events = %q, want %q", v.ctrl.events, want)
	}
	if !reflect.DeepEqual(hostKeys, []int{common.KeyRight}) {
		t.Errorf("host keys = %v", hostKeys)
	}
}

func TestResize(t *testing.T) {
	e, v, r := newTestEngine()

	e.handleResize(0, 0)
	if len(r.resized) != 0 || v.width != 0 {
		t.Fatal("minimized window resized the surface")
	}
	e.handleResize(800, 600)
	if !reflect.DeepEqual(r.resized, [][2]int{{800, 600}}) {
		t.Errorf("resized = %v", r.resized)
	}
	if v.width != 800 || v.height != 600 {
		t.Errorf("viewport = %dx%d, want 800x600", v.width, v.height)
	}
}

func TestFrameAdvancesAndRenders(t *testing.T) {
	e, v, _ := newTestEngine()
	e.frameInterval = 0
	e.EnableProfiler()

	e.frame()
	e.frame()
	if v.frames != 2 || v.renders != 2 {
		t.Errorf("frames = %d, renders = %d, want 2 each", v.frames, v.renders)
	}
}

func TestRunWithoutView(t *testing.T) {
	if err := NewEngine().Run(); err != ErrNoView {
		t.Errorf("Run = %v, want ErrNoView", err)
	}
}

func TestSetFrameRate(t *testing.T) {
	e, _, _ := newTestEngine()
	e.SetFrameRate(30)
	if e.frameInterval != time.Second/30 {
		t.Errorf("interval = %v", e.frameInterval)
	}
	e.SetFrameRate(0)
	if e.frameInterval != time.Second/60 {
		t.Errorf("default interval = %v", e.frameInterval)
	}
}
