package camera

// CameraController owns the positional state of the cover-flow camera: pan, zoom distance and the
// field-of-view-derived base distance. Camera reads from the controller and computes view/projection matrices.
//
// The eye sits in front of the carousel on +Z looking at the focused slot. Pan shifts eye and target together;
// camera z moves the eye along Z on top of the base distance.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// Pan returns the current pan offset.
	//
	// Returns:
	//   - x, y: pan in world units
	Pan() (x, y float32)

	// SetPan sets the pan offset directly. Pan is unclamped.
	//
	// Parameters:
	//   - x, y: pan in world units
	SetPan(x, y float32)

	// PanBy adds to the pan offset.
	//
	// Parameters:
	//   - dx, dy: pan delta in world units
	PanBy(dx, dy float32)

	// CameraZ returns the zoom offset added to the base distance.
	CameraZ() float32

	// SetCameraZ sets the zoom offset, clamped to [MinCameraZ, MaxCameraZ].
	//
	// Parameters:
	//   - z: the zoom offset in world units (positive is further away)
	SetCameraZ(z float32)

	// MinCameraZ returns the closest allowed zoom offset.
	MinCameraZ() float32

	// MaxCameraZ returns the furthest allowed zoom offset.
	MaxCameraZ() float32

	// DefaultCameraZ returns the resting zoom offset that pan-reset returns to.
	DefaultCameraZ() float32

	// SetFov informs the controller of the camera's field of view so the base distance can follow it.
	//
	// Parameters:
	//   - fov: vertical field of view in radians
	SetFov(fov float32)

	// BaseDistance returns the distance at which the subject fills the configured share of the view.
	BaseDistance() float32

	// Distance returns the eye's distance from the carousel plane, base distance plus camera z,
	// never less than the configured minimum.
	Distance() float32
}
