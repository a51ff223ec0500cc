package camera

import (
	"math"
	"testing"
)

func TestBaseDistanceFollowsFov(t *testing.T) {
	ctrl := NewCameraController(WithFraming(1, 2))
	cam := NewCamera(WithController(ctrl), WithFov(float32(math.Pi/2)))

	// tan(45°) = 1, so one subject height per unit of distance: 2 heights need distance 1.
	if got := ctrl.BaseDistance(); math.Abs(float64(got-1)) > 1e-5 {
		t.Fatalf("base distance at 90° = %v, want 1", got)
	}

	cam.SetFov(float32(math.Pi / 3))
	want := float32(1 / math.Tan(math.Pi/6))
	if got := ctrl.BaseDistance(); math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("base distance at 60° = %v, want %v", got, want)
	}
}

func TestSetFovClamps(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()))
	cam.SetFov(5)
	if cam.Fov() != MaxFov {
		t.Errorf("fov = %v, want clamp to %v", cam.Fov(), MaxFov)
	}
	cam.SetFov(0)
	if cam.Fov() != MinFov {
		t.Errorf("fov = %v, want clamp to %v", cam.Fov(), MinFov)
	}
}

func TestSetFovUpdatesProjectionImmediately(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()))
	before := cam.ProjectionMatrix()
	cam.SetFov(60 * math.Pi / 180)
	after := cam.ProjectionMatrix()
	if before[5] == after[5] {
		t.Fatal("projection did not change with fov")
	}
	want := float32(1 / math.Tan(math.Pi/6))
	if math.Abs(float64(after[5]-want)) > 1e-5 {
		t.Errorf("projection[5] = %v, want %v", after[5], want)
	}
}

func TestWorldPerPixel(t *testing.T) {
	ctrl := NewCameraController(WithFraming(1, 2))
	cam := NewCamera(WithController(ctrl), WithFov(float32(math.Pi/2)))

	// At distance 1 and 90°, the view spans 2 world units vertically.
	if got := cam.WorldPerPixel(200); math.Abs(float64(got-0.01)) > 1e-6 {
		t.Errorf("world per pixel = %v, want 0.01", got)
	}

	ctrl.SetCameraZ(1)
	if got := cam.WorldPerPixel(200); math.Abs(float64(got-0.02)) > 1e-6 {
		t.Errorf("world per pixel after zooming out = %v, want 0.02", got)
	}

	if got := cam.WorldPerPixel(0); got != 0 {
		t.Errorf("world per pixel with empty viewport = %v, want 0", got)
	}
}

func TestCameraZClampAndPan(t *testing.T) {
	ctrl := NewCameraController(WithZoomRange(-1, 2))
	ctrl.SetCameraZ(10)
	if ctrl.CameraZ() != 2 {
		t.Errorf("camera z = %v, want 2", ctrl.CameraZ())
	}
	ctrl.SetCameraZ(-10)
	if ctrl.CameraZ() != -1 {
		t.Errorf("camera z = %v, want -1", ctrl.CameraZ())
	}

	ctrl.PanBy(100, -50)
	x, y := ctrl.Pan()
	if x != 100 || y != -50 {
		t.Errorf("pan = (%v, %v), want unclamped (100, -50)", x, y)
	}
	px, _, _ := ctrl.Position()
	tx, _, _ := ctrl.Target()
	if px != 100 || tx != 100 {
		t.Errorf("pan should move eye and target together: eye x %v, target x %v", px, tx)
	}
}
