package animation

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// Default timings and physics constants.
const (
	DefaultScrollDuration   = 250 * time.Millisecond
	DefaultZoomDuration     = 200 * time.Millisecond
	DefaultPanResetDuration = 400 * time.Millisecond
	DefaultSettleDuration   = 180 * time.Millisecond
	// DefaultRotationSpeed is in radians per second; a half turn takes 0.5 s.
	DefaultRotationSpeed float32 = 2 * math.Pi
	// DefaultFriction is the per-frame velocity decay at 60 Hz.
	DefaultFriction float32 = 0.92
	// DefaultVelocityEpsilon is the speed, in cover widths per second, below which momentum hands off to settle.
	DefaultVelocityEpsilon float32 = 0.3
	// DefaultMaxStep caps the frame delta used by velocity-based animations.
	DefaultMaxStep = 100 * time.Millisecond
)

type AnimationSetBuilderOption func(*animationSetImpl)

// WithScrollDuration sets the duration of index-scroll animations.
//
// Parameters:
//   - d: the duration
//
// Returns:
//   - AnimationSetBuilderOption: a function that sets the scroll duration
func WithScrollDuration(d time.Duration) AnimationSetBuilderOption {
	return func(a *animationSetImpl) {
		a.scrollDuration = d
	}
}

// WithZoomDuration sets the duration of zoom animations.
//
// Parameters:
//   - d: the duration
//
// Returns:
//   - AnimationSetBuilderOption: a function that sets the zoom duration
func WithZoomDuration(d time.Duration) AnimationSetBuilderOption {
	return func(a *animationSetImpl) {
		a.zoomDuration = d
	}
}

// WithPanResetDuration sets the duration of the pan-reset animation.
func WithPanResetDuration(d time.Duration) AnimationSetBuilderOption {
	return func(a *animationSetImpl) {
		a.panResetDuration = d
	}
}

// WithSettleDuration sets the duration of the settle animation.
func WithSettleDuration(d time.Duration) AnimationSetBuilderOption {
	return func(a *animationSetImpl) {
		a.settleDuration = d
	}
}

// WithRotationSpeed sets the flip speed in radians per second.
func WithRotationSpeed(speed float32) AnimationSetBuilderOption {
	return func(a *animationSetImpl) {
		if speed > 0 {
			a.rotationSpeed = speed
		}
	}
}

// WithFriction sets the per-frame (60 Hz) momentum decay factor.
//
// Parameters:
//   - friction: a factor in (0, 1)
//
// Returns:
//   - AnimationSetBuilderOption: a function that sets the friction
func WithFriction(friction float32) AnimationSetBuilderOption {
	return func(a *animationSetImpl) {
		if friction > 0 && friction < 1 {
			a.friction = friction
		}
	}
}

// WithVelocityEpsilon sets the momentum-to-settle handoff speed.
func WithVelocityEpsilon(eps float32) AnimationSetBuilderOption {
	return func(a *animationSetImpl) {
		a.velocityEpsilon = eps
	}
}

// WithLogger sets the logger that records animation starts and finishes at debug level.
//
// Parameters:
//   - logger: the parent logger, nil keeps the no-op default
//
// Returns:
//   - AnimationSetBuilderOption: a function that sets the logger
func WithLogger(logger *zap.Logger) AnimationSetBuilderOption {
	return func(a *animationSetImpl) {
		if logger != nil {
			a.logger = logger.Named("animation")
		}
	}
}
