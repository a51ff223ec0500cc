package interaction

import (
	"time"

	"go.uber.org/zap"
)

// ControllerBuilderOption is a function that configures a controllerImpl.
type ControllerBuilderOption func(*controllerImpl)

// WithSpacing sets the slot spacing used to turn world distance into cover widths.
//
// Parameters:
//   - spacing: the layout spacing, ignored when not positive
//
// Returns:
//   - ControllerBuilderOption: a function that sets the spacing
func WithSpacing(spacing float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if spacing > 0 {
			c.spacing = spacing
		}
	}
}

// WithMomentumThreshold sets the release speed above which momentum starts.
func WithMomentumThreshold(threshold float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.momentumThreshold = threshold
	}
}

// WithVelocityWindow sets how far back release velocity looks.
func WithVelocityWindow(window time.Duration) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if window > 0 {
			c.velocityWindow = window
		}
	}
}

// WithRotationDebounce sets the shortest time between two wheel-driven flips.
func WithRotationDebounce(d time.Duration) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.rotationDebounce = d
	}
}

// WithZoomStep sets the camera z change per wheel notch.
func WithZoomStep(step float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.zoomStep = step
	}
}

// WithFovStep sets the field-of-view change per wheel notch, in radians.
func WithFovStep(step float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.fovStep = step
	}
}

// WithLogger sets the logger; the controller logs under the "input" name.
func WithLogger(logger *zap.Logger) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if logger != nil {
			c.logger = logger.Named("input")
		}
	}
}
