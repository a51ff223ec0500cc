package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*coverflowControllerImpl)

// WithZoomRange sets the allowed camera z range.
//
// Parameters:
//   - minZ: closest zoom offset (negative moves the eye toward the carousel)
//   - maxZ: furthest zoom offset
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom range
func WithZoomRange(minZ, maxZ float32) CameraControllerOption {
	return func(cc *coverflowControllerImpl) {
		if minZ <= maxZ {
			cc.minCameraZ = minZ
			cc.maxCameraZ = maxZ
		}
	}
}

// WithDefaultCameraZ sets the resting zoom offset used at start-up and by pan-reset.
//
// Parameters:
//   - z: the resting zoom offset
//
// Returns:
//   - CameraControllerOption: functional option to set the resting zoom
func WithDefaultCameraZ(z float32) CameraControllerOption {
	return func(cc *coverflowControllerImpl) {
		cc.defaultCameraZ = z
	}
}

// WithFraming sets the subject the base distance is computed for.
//
// Parameters:
//   - subjectHeight: height of the focused box in world units
//   - framing: how many subject heights the vertical view spans
//
// Returns:
//   - CameraControllerOption: functional option to set the framing
func WithFraming(subjectHeight, framing float32) CameraControllerOption {
	return func(cc *coverflowControllerImpl) {
		if subjectHeight > 0 && framing > 0 {
			cc.subjectHeight = subjectHeight
			cc.framing = framing
		}
	}
}

// WithTargetHeight sets the look-at height and how far above it the eye sits.
//
// Parameters:
//   - target: look-at height in world units
//   - lift: eye height above the target
//
// Returns:
//   - CameraControllerOption: functional option to set the heights
func WithTargetHeight(target, lift float32) CameraControllerOption {
	return func(cc *coverflowControllerImpl) {
		cc.targetHeight = target
		cc.eyeLift = lift
	}
}
