package light

import (
	"sync"

	"github.com/Carmen-Shannon/coverflow/common"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	position   [3]float32
	direction  [3]float32
	color      [3]float32
	intensity  float32
	lightRange float32
	innerCone  float32 // stored as cos(angle in radians)
	outerCone  float32 // stored as cos(angle in radians)
	ambient    float32
}

// Light is the single spotlight that lights the carousel.
//
// The light is placed in world space. Shading happens in view space, so every frame the renderer asks
// for the light transformed by the current view matrix; panning and zooming therefore move the highlight
// across the covers the way a fixed stage light would.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Direction returns the normalized cone axis.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	Intensity() float32

	// Range returns the distance beyond which the light contributes nothing.
	Range() float32

	// InnerCone returns the cosine of the inner cone half-angle. Fragments within it receive full intensity.
	InnerCone() float32

	// OuterCone returns the cosine of the outer cone half-angle. Fragments outside it receive only ambient.
	OuterCone() float32

	// Ambient returns the ambient floor applied to every fragment.
	Ambient() float32

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetIntensity sets the scalar intensity multiplier.
	SetIntensity(intensity float32)

	// SetSpotCone sets the inner and outer cone half-angles.
	// Angles are specified in degrees and stored internally as cosines.
	//
	// Parameters:
	//   - innerDeg: inner cone half-angle in degrees
	//   - outerDeg: outer cone half-angle in degrees
	SetSpotCone(innerDeg, outerDeg float32)

	// ViewSpace returns the light's GPU block with position and direction moved into view space.
	//
	// Parameters:
	//   - view: the camera's column-major view matrix
	//
	// Returns:
	//   - GPULight: the uniform block for this frame
	ViewSpace(view [16]float32) GPULight
}

var _ Light = &lightImpl{}

// NewSpotLight creates the carousel spotlight with sensible defaults and any provided options applied.
// By default it hangs above and in front of the focused slot, aimed at the middle of the box.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewSpotLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:         &sync.Mutex{},
		position:   [3]float32{0, 2.4, 1.8},
		color:      [3]float32{1, 0.97, 0.92},
		intensity:  1.6,
		lightRange: 12.0,
		innerCone:  cosDeg(18),
		outerCone:  cosDeg(38),
		ambient:    0.22,
	}
	l.direction = normalize3(0-l.position[0], 0.45-l.position[1], 0-l.position[2])
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Position() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lightRange
}

func (l *lightImpl) InnerCone() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.innerCone
}

func (l *lightImpl) OuterCone() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outerCone
}

func (l *lightImpl) Ambient() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ambient
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetSpotCone(innerDeg, outerDeg float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.innerCone = cosDeg(innerDeg)
	l.outerCone = cosDeg(outerDeg)
}

func (l *lightImpl) ViewSpace(view [16]float32) GPULight {
	l.mu.Lock()
	defer l.mu.Unlock()
	return GPULight{
		Position:   common.TransformPoint(view[:], l.position[0], l.position[1], l.position[2]),
		Direction:  common.TransformDirection(view[:], l.direction[0], l.direction[1], l.direction[2]),
		Color:      l.color,
		Intensity:  l.intensity,
		LightRange: l.lightRange,
		InnerCone:  l.innerCone,
		OuterCone:  l.outerCone,
		Ambient:    l.ambient,
	}
}
