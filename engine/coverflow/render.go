package coverflow

import (
	"fmt"
	"math"
	"sort"

	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/Carmen-Shannon/coverflow/engine/animation"
	"github.com/Carmen-Shannon/coverflow/engine/camera"
	"github.com/Carmen-Shannon/coverflow/engine/layout"
	"github.com/Carmen-Shannon/coverflow/engine/renderer"
	"go.uber.org/zap"
)

const groundSize float32 = 40

// slot is one box scheduled for drawing.
type slot struct {
	row    int
	offset float32
}

// uploadMeshes creates the box and ground meshes on first use.
func (v *viewImpl) uploadMeshes(r renderer.Renderer) error {
	if v.boxMesh != 0 && v.groundMesh != 0 {
		return nil
	}
	p := v.params
	box, err := r.UploadMesh("Cover Box", layout.BoxMesh(p.BoxWidth, p.BoxHeight, p.BoxDepth, p.BoxChamfer))
	if err != nil {
		return fmt.Errorf("failed to upload box mesh: %w", err)
	}
	ground, err := r.UploadMesh("Ground", layout.GroundMesh(groundSize))
	if err != nil {
		return fmt.Errorf("failed to upload ground mesh: %w", err)
	}
	v.boxMesh, v.groundMesh = box, ground
	return nil
}

// slots returns the boxes within the draw window, farthest from the focus first.
func (v *viewImpl) slots(snap snapshot, focusRank int, position float32) []slot {
	lo := max(focusRank-v.windowRadius, 0)
	hi := min(focusRank+v.windowRadius, snap.len()-1)
	drag := v.controller.Offset()

	out := make([]slot, 0, hi-lo+1)
	for rank := lo; rank <= hi; rank++ {
		out = append(out, slot{row: snap.rows[rank], offset: float32(rank) - position - drag})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return common.Abs(out[i].offset) > common.Abs(out[j].offset)
	})
	return out
}

func (v *viewImpl) Render(r renderer.Renderer) (bool, error) {
	v.cache.ReleasePending(r)
	v.dirty = false

	snap := v.visible()
	focusRank, ok := snap.rank(v.focusRow)
	if !v.hasModel || !ok {
		v.logger.Debug("frame skipped, focus not visible", zap.Int("row", v.focusRow))
		return false, nil
	}
	if err := v.uploadMeshes(r); err != nil {
		return false, err
	}

	position := float32(focusRank)
	if v.anims.IsActive(animation.KindScroll) {
		position = v.focusPosition
	}

	view := v.camera.ViewMatrix()
	viewProj := v.camera.ViewProjectionMatrix()
	frame := renderer.FrameParams{
		Camera:      camera.NewGPUCameraUniform(v.camera),
		Light:       v.light.ViewSpace(view),
		ClearColor:  v.clearColor,
		GroundColor: v.groundColor,
	}
	if err := r.BeginFrame(frame); err != nil {
		return false, fmt.Errorf("failed to begin frame: %w", err)
	}

	var ground renderer.DrawParams
	common.Identity(ground.Model[:])
	ground.Tint = v.groundColor
	ground.FrontUV, ground.BackUV = layout.FullUV, layout.FullUV
	if err := r.Draw(v.groundMesh, ground, renderer.NoTexture, renderer.NoTexture); err != nil {
		v.logger.Warn("ground draw failed", zap.Error(err))
	}

	frustum := common.ExtractFrustumFromMatrix(viewProj[:])
	p := v.params
	radius := float32(math.Sqrt(float64(p.BoxWidth*p.BoxWidth+p.BoxHeight*p.BoxHeight+p.BoxDepth*p.BoxDepth))) / 2
	boxAspect := p.BoxAspect()

	for _, s := range v.slots(snap, focusRank, position) {
		flip := v.anims.RotationAngle(s.row)
		pose := p.Pose(s.offset, flip)
		if !frustum.ContainsSphere([3]float32{pose.X, pose.Y, pose.Z}, radius) {
			continue
		}

		entry := v.cache.MaterializeTextures(s.row, flip != 0, r)

		var dp renderer.DrawParams
		pose.ModelMatrix(dp.Model[:])
		dp.Tint = [4]float32{v.placeholderColor[0], v.placeholderColor[1], v.placeholderColor[2], pose.Alpha}
		dp.SideColor = v.sideColor
		dp.FrontUV, dp.BackUV = layout.FullUV, layout.FullUV

		front := renderer.NoTexture
		if !entry.Missing {
			front = entry.Front
			dp.FrontUV = layout.FitUV(entry.Geometry.Aspect, boxAspect)
		}

		if err := r.Draw(v.boxMesh, dp, front, entry.Back); err != nil {
			v.logger.Warn("box draw failed", zap.Int("row", s.row), zap.Error(err))
		}
	}

	r.EndFrame()
	r.Present()
	return true, nil
}
