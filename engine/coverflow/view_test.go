package coverflow

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/Carmen-Shannon/coverflow/engine/renderer"
	"github.com/Carmen-Shannon/coverflow/engine/texture_cache"
)

type fakeHost struct {
	view    View
	count   int
	hidden  map[int]bool
	noImage map[int]bool
	sel     int
	id      string

	navigated      []int
	completed      []int
	itemCountCalls int
}

func newFakeHost(count int) *fakeHost {
	return &fakeHost{count: count, hidden: map[int]bool{}, noImage: map[int]bool{}, id: "a"}
}

func (h *fakeHost) ItemCount() int {
	h.itemCountCalls++
	return h.count
}
func (h *fakeHost) IsRowHidden(row int) bool { return h.hidden[row] }
func (h *fakeHost) Title(row int) string     { return fmt.Sprintf("Movie %d", row) }
func (h *fakeHost) Year(row int) string      { return "2000" }
func (h *fakeHost) ModelIdentity() string    { return h.id }
func (h *fakeHost) SynopsisSource(row int) (string, string) {
	return "", ""
}

func (h *fakeHost) ImagePath(row int) string {
	if h.noImage[row] {
		return ""
	}
	return fmt.Sprintf("/covers/%d.jpg", row)
}

func (h *fakeHost) OnNavigate(direction int) {
	h.navigated = append(h.navigated, direction)
	for row := h.sel + direction; row >= 0 && row < h.count; row += direction {
		if !h.hidden[row] {
			h.sel = row
			break
		}
	}
	h.view.SetModelAndIndex(h, h.sel, h)
}

func (h *fakeHost) OnScrollAnimationComplete(row int) {
	h.completed = append(h.completed, row)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// drive advances the clock in 16 ms frames for d.
func (c *testClock) drive(v View, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += 16 * time.Millisecond {
		c.now = c.now.Add(16 * time.Millisecond)
		v.Frame(c.now)
	}
}

func newTestView(t *testing.T, h *fakeHost, row int) (View, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	v, err := NewView(
		WithClock(clock.Now),
		WithTextureCacheOptions(
			texture_cache.WithImageLoader(squareLoader),
			texture_cache.WithBackFaceRenderer(plainBackFaces{}),
		),
	)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	t.Cleanup(v.TextureCache().WaitIdle)
	v.SetViewportSize(1280, 720)
	h.view = v
	h.sel = row
	v.SetModelAndIndex(h, row, nil)
	return v, clock
}

func TestSimpleScroll(t *testing.T) {
	h := newFakeHost(21)
	v, clock := newTestView(t, h, 5)
	impl := v.(*viewImpl)

	h.OnNavigate(1)
	s := impl.anims.Scroll()
	if !s.Active || s.Start != 5 || s.Target != 6 || s.Row != 6 {
		t.Fatalf("scroll = %+v, want 5 -> 6", s)
	}

	clock.drive(v, 100*time.Millisecond)
	if row, _ := v.FocusRow(); row != 5 {
		t.Errorf("focus committed to %d mid-scroll", row)
	}

	clock.drive(v, 300*time.Millisecond)
	if row, ok := v.FocusRow(); row != 6 || !ok {
		t.Errorf("FocusRow = %d, %v, want 6", row, ok)
	}
	if !reflect.DeepEqual(h.completed, []int{6}) {
		t.Errorf("completed = %v, want [6]", h.completed)
	}
}

func TestDeferredSelectionEffectRunsOnceAtCommit(t *testing.T) {
	h := newFakeHost(21)
	v, clock := newTestView(t, h, 5)

	ran := 0
	v.DeferSelectionEffect(func() { ran++ })
	if ran != 1 {
		t.Fatalf("effect with no scroll ran %d times, want 1", ran)
	}

	h.OnNavigate(1)
	first, second := 0, 0
	v.DeferSelectionEffect(func() { first++ })
	v.DeferSelectionEffect(func() { second++ })
	if first+second != 0 {
		t.Fatal("effect ran during the scroll")
	}

	clock.drive(v, 400*time.Millisecond)
	if first != 0 || second != 1 {
		t.Errorf("first ran %d, second ran %d; want 0 and 1", first, second)
	}
	clock.drive(v, 100*time.Millisecond)
	if second != 1 {
		t.Errorf("effect replayed %d times", second)
	}
}

func TestFilterShrinkSkipsFrames(t *testing.T) {
	h := newFakeHost(21)
	v, clock := newTestView(t, h, 10)
	r := newRecordingRenderer()

	h.hidden[10] = true
	clock.drive(v, 16*time.Millisecond)
	drawn, err := v.Render(r)
	if err != nil || drawn {
		t.Fatalf("Render = %v, %v, want skipped", drawn, err)
	}
	if r.frames != 0 || len(r.draws) != 0 {
		t.Errorf("renderer used while focus hidden: %d frames, %d draws", r.frames, len(r.draws))
	}
	if _, ok := v.FocusRow(); ok {
		t.Error("hidden focus reported visible")
	}

	h.sel = 11
	v.SetModelAndIndex(h, 11, h)
	clock.drive(v, 16*time.Millisecond)
	drawn, err = v.Render(r)
	if err != nil || !drawn {
		t.Fatalf("Render after new focus = %v, %v", drawn, err)
	}
	if r.frames != 1 {
		t.Errorf("frames = %d, want 1", r.frames)
	}
}

func TestModelChangeInvalidatesCache(t *testing.T) {
	h := newFakeHost(21)
	v, clock := newTestView(t, h, 5)
	r := newRecordingRenderer()
	cache := v.TextureCache()

	clock.drive(v, 16*time.Millisecond)
	if _, err := v.Render(r); err != nil {
		t.Fatal(err)
	}
	old, ok := cache.Lookup(5)
	if !ok || old.Front == renderer.NoTexture {
		t.Fatal("focused cover not materialized")
	}
	gen := cache.Generation()

	h.id = "b"
	v.SetModelAndIndex(h, 5, h)
	if cache.Generation() <= gen {
		t.Error("generation not bumped")
	}
	if e := cache.Ensure(5); e == old {
		t.Error("Ensure returned the entry from the old model")
	}

	clock.drive(v, 16*time.Millisecond)
	if _, err := v.Render(r); err != nil {
		t.Fatal(err)
	}
	released := false
	for _, th := range r.released {
		if th == old.Front {
			released = true
		}
	}
	if !released {
		t.Error("old front texture not released")
	}
}

func TestRenderDrawsWindowAroundFocus(t *testing.T) {
	h := newFakeHost(40)
	v, clock := newTestView(t, h, 20)
	r := newRecordingRenderer()

	clock.drive(v, 16*time.Millisecond)
	drawn, err := v.Render(r)
	if err != nil || !drawn {
		t.Fatalf("Render = %v, %v", drawn, err)
	}
	if r.ended != 1 {
		t.Errorf("EndFrame calls = %d, want 1", r.ended)
	}
	if r.meshes[r.draws[0].mesh] != "Ground" {
		t.Errorf("first draw is %q, want the ground", r.meshes[r.draws[0].mesh])
	}

	boxes := r.boxDraws()
	if len(boxes) == 0 || len(boxes) > 2*DefaultWindowRadius+1 {
		t.Fatalf("drew %d boxes", len(boxes))
	}
	focused := boxes[len(boxes)-1]
	if math.Abs(float64(focused.params.Model[12])) > 1e-5 {
		t.Errorf("focused box at x = %v, want 0", focused.params.Model[12])
	}
	if focused.front == renderer.NoTexture {
		t.Error("focused box has no front texture")
	}
	if focused.params.Tint[3] != 1 {
		t.Errorf("focused alpha = %v, want 1", focused.params.Tint[3])
	}
	if focused.back != renderer.NoTexture {
		t.Error("back texture built for an unflipped box")
	}
	if v.NeedsFrame() {
		t.Error("idle view still wants frames")
	}
}

func TestMissingCoverDrawsPlaceholder(t *testing.T) {
	h := newFakeHost(5)
	h.noImage[2] = true
	v, clock := newTestView(t, h, 2)
	r := newRecordingRenderer()

	clock.drive(v, 16*time.Millisecond)
	if _, err := v.Render(r); err != nil {
		t.Fatal(err)
	}
	boxes := r.boxDraws()
	focused := boxes[len(boxes)-1]
	if focused.front != renderer.NoTexture {
		t.Error("missing cover drawn with a texture")
	}
	impl := v.(*viewImpl)
	for i := 0; i < 3; i++ {
		if focused.params.Tint[i] != impl.placeholderColor[i] {
			t.Fatalf("tint = %v, want placeholder %v", focused.params.Tint, impl.placeholderColor)
		}
	}
}

func TestDragNavigationCommitsLocally(t *testing.T) {
	h := newFakeHost(21)
	v, clock := newTestView(t, h, 5)
	impl := v.(*viewImpl)
	clock.drive(v, 16*time.Millisecond)

	px := 1.2 * float64(impl.params.Spacing/impl.WorldPerPixel())
	c := v.Controller()
	c.PointerDown(common.MouseButtonLeft, 0, 0, clock.now)
	c.PointerMove(common.MouseButtonLeft, px, 0, clock.now.Add(16*time.Millisecond))

	if !reflect.DeepEqual(h.navigated, []int{1}) {
		t.Fatalf("navigated = %v, want [1]", h.navigated)
	}
	if row, _ := v.FocusRow(); row != 6 {
		t.Errorf("FocusRow = %d, want 6", row)
	}
	if impl.anims.Scroll().Active {
		t.Error("drag crossing started a scroll")
	}
	if off := c.Offset(); math.Abs(float64(off)-0.2) > 1e-3 {
		t.Errorf("offset = %v, want 0.2", off)
	}
	if len(h.completed) != 0 {
		t.Errorf("completed = %v, want none", h.completed)
	}
}

func TestKeyboardSteps(t *testing.T) {
	h := newFakeHost(21)
	h.hidden[3] = true
	v, _ := newTestView(t, h, 5)
	impl := v.(*viewImpl)
	c := v.Controller()

	c.Key(common.KeyRight, time.Time{})
	if s := impl.anims.Scroll(); !s.Active || s.Row != 6 {
		t.Fatalf("scroll = %+v, want toward row 6", s)
	}

	c.Key(common.KeyEnd, time.Time{})
	if h.sel != 20 {
		t.Errorf("host selection = %d, want 20", h.sel)
	}
	if s := impl.anims.Scroll(); s.Row != 20 || s.Target != 19 {
		t.Errorf("scroll = %+v, want row 20 at rank 19", s)
	}

	c.Key(common.KeyHome, time.Time{})
	if h.sel != 0 {
		t.Errorf("host selection = %d, want 0", h.sel)
	}
}

func TestEndAppliesOneEcho(t *testing.T) {
	h := newFakeHost(500)
	v, _ := newTestView(t, h, 5)
	impl := v.(*viewImpl)

	h.itemCountCalls = 0
	v.Controller().Key(common.KeyEnd, time.Time{})
	if len(h.navigated) != 494 || h.sel != 499 {
		t.Fatalf("navigated %d times to %d, want 494 to 499", len(h.navigated), h.sel)
	}
	if h.itemCountCalls > 2 {
		t.Errorf("visible rows listed %d times, want at most 2", h.itemCountCalls)
	}
	if s := impl.anims.Scroll(); !s.Active || s.Row != 499 || s.Start != 5 {
		t.Errorf("scroll = %+v, want one scroll from 5 to row 499", s)
	}
}

type jumpingHost struct {
	*fakeHost
	jumps []int
}

func (h *jumpingHost) OnNavigateTo(row int) {
	h.jumps = append(h.jumps, row)
	h.sel = row
	h.view.SetModelAndIndex(h, row, h)
}

func TestHomeJumpsWhenHostSupportsIt(t *testing.T) {
	base := newFakeHost(21)
	base.hidden[0] = true
	v, _ := newTestView(t, base, 5)
	h := &jumpingHost{fakeHost: base}
	v.SetModelAndIndex(h, 5, nil)

	v.Controller().Key(common.KeyHome, time.Time{})
	if !reflect.DeepEqual(h.jumps, []int{1}) {
		t.Errorf("jumps = %v, want [1]", h.jumps)
	}
	if len(h.navigated) != 0 {
		t.Errorf("navigated = %v, want none", h.navigated)
	}
	if row, ok := v.FocusRow(); !ok || row != 5 {
		t.Errorf("focus = %d %v, want 5 until the scroll commits", row, ok)
	}
	if s := v.(*viewImpl).anims.Scroll(); s.Row != 1 || s.Target != 0 {
		t.Errorf("scroll = %+v, want row 1 at rank 0", s)
	}
}

func TestIsAtBoundaryUsesVisibleRows(t *testing.T) {
	h := newFakeHost(6)
	h.hidden[0], h.hidden[5] = true, true
	v, clock := newTestView(t, h, 1)
	impl := v.(*viewImpl)

	if !impl.IsAtBoundary(-1) {
		t.Error("first visible row not a boundary")
	}
	if impl.IsAtBoundary(1) {
		t.Error("row 1 reported as last")
	}
	h.sel = 4
	v.SetModelAndIndex(h, 4, nil)
	clock.drive(v, 400*time.Millisecond)
	if !impl.IsAtBoundary(1) {
		t.Error("last visible row not a boundary")
	}
}
