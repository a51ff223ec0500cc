package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/coverflow/engine/layout"
	"github.com/Carmen-Shannon/coverflow/engine/renderer/shader"
)

func readF32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestFrameParamsMarshalLayout(t *testing.T) {
	var f FrameParams
	f.Camera.View[0] = 2
	f.Light.Intensity = 1.5
	f.ClearColor = [4]float32{0.1, 0.2, 0.3, 1}
	f.GroundColor = [4]float32{0.4, 0.5, 0.6, 1}

	buf := f.Marshal()
	if len(buf) != shader.FrameUniformSize {
		t.Fatalf("size = %d, want %d", len(buf), shader.FrameUniformSize)
	}
	checks := []struct {
		name string
		off  int
		want float32
	}{
		{"view[0]", 64, 2},
		{"light intensity", 144 + 28, 1.5},
		{"clear.g", 208 + 4, 0.2},
		{"ground.b", 224 + 8, 0.6},
	}
	for _, c := range checks {
		if got := readF32(buf, c.off); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDrawParamsMarshalFlags(t *testing.T) {
	d := DrawParams{
		Tint:      [4]float32{1, 1, 1, 0.5},
		FrontUV:   layout.UVRect{OffsetU: 0.1, ScaleU: 0.8, ScaleV: 1},
		BackUV:    layout.FullUV,
		SideColor: [4]float32{0.05, 0.05, 0.05, 1},
	}
	d.Model[15] = 1

	buf := d.marshal(true, false)
	if len(buf) != shader.ObjectUniformSize {
		t.Fatalf("size = %d, want %d", len(buf), shader.ObjectUniformSize)
	}
	if got := readF32(buf, 60); got != 1 {
		t.Errorf("model[15] = %v", got)
	}
	if got := readF32(buf, 76); got != 0.5 {
		t.Errorf("fade = %v", got)
	}
	if got := readF32(buf, 80); got != 0.1 {
		t.Errorf("front offset u = %v", got)
	}
	if got := readF32(buf, 112); got != 1 {
		t.Errorf("has front = %v", got)
	}
	if got := readF32(buf, 116); got != 0 {
		t.Errorf("has back = %v", got)
	}
	if got := readF32(buf, 128); got != 0.05 {
		t.Errorf("side.r = %v", got)
	}
}

func TestMergeBindGroupLayoutsOrsVisibility(t *testing.T) {
	vs, fs, err := shader.NewCoverflowShaders()
	if err != nil {
		t.Fatal(err)
	}
	merged := mergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	if len(merged) != 4 {
		t.Fatalf("merged %d groups, want 4", len(merged))
	}
	for g, desc := range merged {
		for i := 1; i < len(desc.Entries); i++ {
			if desc.Entries[i-1].Binding >= desc.Entries[i].Binding {
				t.Errorf("group %d entries not sorted", g)
			}
		}
	}
}
