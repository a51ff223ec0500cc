package common

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestEasing(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float32) float32
		t    float32
		want float32
	}{
		{"smoothstep start", Smoothstep, 0, 0},
		{"smoothstep mid", Smoothstep, 0.5, 0.5},
		{"smoothstep end", Smoothstep, 1, 1},
		{"smoothstep clamps", Smoothstep, 2, 1},
		{"ease out start", EaseOutCubic, 0, 0},
		{"ease out mid", EaseOutCubic, 0.5, 0.875},
		{"ease out end", EaseOutCubic, 1, 1},
		{"ease out clamps", EaseOutCubic, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.t); !near(got, tt.want) {
				t.Errorf("f(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestWrapAngle(t *testing.T) {
	pi := float32(math.Pi)
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{pi, pi},
		{-pi, pi},
		{1.5 * pi, -0.5 * pi},
		{4*pi + 0.25, 0.25},
		{-3*pi + 0.5, -pi + 0.5},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.in); !near(got, tt.want) {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 3, 4); got != 3 {
		t.Errorf("Coalesce = %d, want 3", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("Coalesce of zeros = %q", got)
	}
}

func TestStagingFromImageRebasesSubImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(2, 1, color.RGBA{R: 255, A: 255})
	sub := src.SubImage(image.Rect(2, 1, 4, 3))

	data := StagingFromImage(sub)
	if data == nil || data.Width != 2 || data.Height != 2 || len(data.Pixels) != 16 {
		t.Fatalf("staging = %+v", data)
	}
	if data.Pixels[0] != 255 || data.Pixels[3] != 255 {
		t.Errorf("first pixel = %v, want opaque red", data.Pixels[:4])
	}
	if StagingFromImage(image.NewRGBA(image.Rectangle{})) != nil {
		t.Error("empty image staged")
	}
}

func TestFrustumContainsSphere(t *testing.T) {
	var proj, view, vp [16]float32
	Perspective(proj[:], float32(math.Pi/3), 16.0/9.0, 0.1, 100)
	LookAt(view[:], 0, 0, 5, 0, 0, 0, 0, 1, 0)
	Mul4(vp[:], proj[:], view[:])
	f := ExtractFrustumFromMatrix(vp[:])

	tests := []struct {
		name   string
		center [3]float32
		radius float32
		want   bool
	}{
		{"origin", [3]float32{0, 0, 0}, 0.5, true},
		{"far right", [3]float32{50, 0, 0}, 0.5, false},
		{"straddling the right edge", [3]float32{5.5, 0, 0}, 1, true},
		{"behind the camera", [3]float32{0, 0, 20}, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsSphere(tt.center, tt.radius); got != tt.want {
				t.Errorf("ContainsSphere(%v, %v) = %v, want %v", tt.center, tt.radius, got, tt.want)
			}
		})
	}
}
