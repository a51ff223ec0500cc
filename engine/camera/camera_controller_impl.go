package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/coverflow/common"
)

// coverflowControllerImpl is the single implementation of CameraController.
type coverflowControllerImpl struct {
	mu *sync.Mutex

	panX, panY float32
	cameraZ    float32

	minCameraZ     float32
	maxCameraZ     float32
	defaultCameraZ float32
	minDistance    float32

	// subjectHeight is the height the base distance frames; framing is how many subject heights fit in the view.
	subjectHeight float32
	framing       float32
	targetHeight  float32
	eyeLift       float32

	fov          float32
	baseDistance float32
}

var _ CameraController = &coverflowControllerImpl{}

// NewCameraController creates a new cover-flow camera controller with sensible defaults.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &coverflowControllerImpl{
		mu:            &sync.Mutex{},
		minCameraZ:    -1.2,
		maxCameraZ:    4.0,
		minDistance:   0.3,
		subjectHeight: 0.94,
		framing:       1.7,
		targetHeight:  0.47,
		eyeLift:       0.12,
		fov:           40.0 * (math.Pi / 180.0),
	}

	for _, option := range options {
		option(cc)
	}

	cc.cameraZ = common.Clamp(cc.defaultCameraZ, cc.minCameraZ, cc.maxCameraZ)
	cc.updateBaseDistance()
	return cc
}

// updateBaseDistance recomputes the base distance from the field of view.
// Caller must hold the mutex (or be the constructor).
func (cc *coverflowControllerImpl) updateBaseDistance() {
	half := math.Tan(float64(cc.fov) / 2)
	if half <= 0 {
		cc.baseDistance = cc.minDistance
		return
	}
	cc.baseDistance = float32(float64(cc.subjectHeight*cc.framing/2) / half)
}

// distance returns base distance plus camera z, floored at minDistance. Caller must hold the mutex.
func (cc *coverflowControllerImpl) distance() float32 {
	d := cc.baseDistance + cc.cameraZ
	if d < cc.minDistance {
		return cc.minDistance
	}
	return d
}

func (cc *coverflowControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panX, cc.targetHeight + cc.eyeLift + cc.panY, cc.distance()
}

func (cc *coverflowControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panX, cc.targetHeight + cc.panY, 0
}

func (cc *coverflowControllerImpl) Pan() (x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panX, cc.panY
}

func (cc *coverflowControllerImpl) SetPan(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.panX, cc.panY = x, y
}

func (cc *coverflowControllerImpl) PanBy(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.panX += dx
	cc.panY += dy
}

func (cc *coverflowControllerImpl) CameraZ() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.cameraZ
}

func (cc *coverflowControllerImpl) SetCameraZ(z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cameraZ = common.Clamp(z, cc.minCameraZ, cc.maxCameraZ)
}

func (cc *coverflowControllerImpl) MinCameraZ() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minCameraZ
}

func (cc *coverflowControllerImpl) MaxCameraZ() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxCameraZ
}

func (cc *coverflowControllerImpl) DefaultCameraZ() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.defaultCameraZ
}

func (cc *coverflowControllerImpl) SetFov(fov float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.fov = fov
	cc.updateBaseDistance()
}

func (cc *coverflowControllerImpl) BaseDistance() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.baseDistance
}

func (cc *coverflowControllerImpl) Distance() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.distance()
}
