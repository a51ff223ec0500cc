// Package layout maps an item's effective offset from the focused slot to its 3D pose in the carousel,
// and builds the box geometry every item is drawn with.
package layout

import (
	"math"

	"github.com/Carmen-Shannon/coverflow/common"
)

// Default carousel constants, in world units unless noted.
const (
	DefaultSpacing          float32 = 0.65
	DefaultParabolaRange    float32 = 3.0
	DefaultDepthCurve       float32 = 0.09
	DefaultFacingCorrection float32 = 0.55
	DefaultFadeRate         float32 = 0.12
	DefaultMinAlpha         float32 = 0.25

	DefaultBoxWidth   float32 = 0.52
	DefaultBoxHeight  float32 = 0.94
	DefaultBoxDepth   float32 = 0.14
	DefaultBoxChamfer float32 = 0.012
)

// Pose is the placement of one box in world space.
type Pose struct {
	X, Y, Z float32
	// RotationY is the yaw in radians. Zero faces the camera.
	RotationY float32
	// Alpha is the perceptual weight in [MinAlpha, 1]. The renderer fades toward the background by it.
	Alpha float32
}

// Params holds the tunable constants of the carousel layout.
type Params struct {
	// Spacing is the horizontal distance between neighboring slots.
	Spacing float32
	// ParabolaRange is the |offset| at which the parabolic depth curve hands over to its tangent line.
	ParabolaRange float32
	// DepthCurve is k in z = -k·offset².
	DepthCurve float32
	// FacingCorrection scales the curvature-implied yaw.
	FacingCorrection float32
	// FadeRate and MinAlpha shape the alpha falloff with distance.
	FadeRate float32
	MinAlpha float32

	BoxWidth, BoxHeight, BoxDepth, BoxChamfer float32
}

// DefaultParams returns the stock carousel layout.
func DefaultParams() Params {
	return Params{
		Spacing:          DefaultSpacing,
		ParabolaRange:    DefaultParabolaRange,
		DepthCurve:       DefaultDepthCurve,
		FacingCorrection: DefaultFacingCorrection,
		FadeRate:         DefaultFadeRate,
		MinAlpha:         DefaultMinAlpha,
		BoxWidth:         DefaultBoxWidth,
		BoxHeight:        DefaultBoxHeight,
		BoxDepth:         DefaultBoxDepth,
		BoxChamfer:       DefaultBoxChamfer,
	}
}

// BoxAspect returns the width-to-height ratio of a box face.
func (p Params) BoxAspect() float32 {
	if p.BoxHeight == 0 {
		return 1
	}
	return p.BoxWidth / p.BoxHeight
}

// Depth returns z for the given offset. The parabola is continued by its tangent beyond ParabolaRange,
// so both the value and the first derivative are continuous at the boundary.
//
// Parameters:
//   - offset: effective offset in cover widths
//
// Returns:
//   - float32: the z coordinate (negative is away from the camera)
func (p Params) Depth(offset float32) float32 {
	d := common.Abs(offset)
	if d <= p.ParabolaRange {
		return -p.DepthCurve * d * d
	}
	r := p.ParabolaRange
	return -p.DepthCurve*r*r - 2*p.DepthCurve*r*(d-r)
}

// DepthSlope returns dz/d(offset).
func (p Params) DepthSlope(offset float32) float32 {
	if common.Abs(offset) <= p.ParabolaRange {
		return -2 * p.DepthCurve * offset
	}
	if offset < 0 {
		return 2 * p.DepthCurve * p.ParabolaRange
	}
	return -2 * p.DepthCurve * p.ParabolaRange
}

// Pose computes the placement of an item at the given effective offset.
//
// Parameters:
//   - offset: effective offset from the focused slot, in cover widths
//   - flip: the item's current flip angle in radians (0 front, π back)
//
// Returns:
//   - Pose: position, yaw and alpha of the box
func (p Params) Pose(offset, flip float32) Pose {
	slope := float32(0)
	if p.Spacing != 0 {
		slope = p.DepthSlope(offset) / p.Spacing
	}
	yaw := float32(math.Atan(float64(slope))) * p.FacingCorrection

	d := common.Abs(offset)
	if attenuation := 1 - d; attenuation > 0 {
		yaw += flip * attenuation
	}

	alpha := 1 - d*p.FadeRate
	if alpha < p.MinAlpha {
		alpha = p.MinAlpha
	}

	return Pose{
		X:         offset * p.Spacing,
		Y:         p.BoxHeight / 2,
		Z:         p.Depth(offset),
		RotationY: yaw,
		Alpha:     alpha,
	}
}

// ModelMatrix writes the column-major model matrix for the pose into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
func (ps Pose) ModelMatrix(out []float32) {
	common.BuildModelMatrix(out, ps.X, ps.Y, ps.Z, 0, ps.RotationY, 0, 1, 1, 1)
}
