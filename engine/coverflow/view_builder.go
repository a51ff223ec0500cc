package coverflow

import (
	"time"

	"github.com/Carmen-Shannon/coverflow/engine/animation"
	"github.com/Carmen-Shannon/coverflow/engine/camera"
	"github.com/Carmen-Shannon/coverflow/engine/interaction"
	"github.com/Carmen-Shannon/coverflow/engine/layout"
	"github.com/Carmen-Shannon/coverflow/engine/light"
	"github.com/Carmen-Shannon/coverflow/engine/texture_cache"
	"go.uber.org/zap"
)

// ViewBuilderOption is a function that configures a viewImpl.
type ViewBuilderOption func(*viewImpl)

// WithLayoutParams replaces the carousel layout constants.
//
// Parameters:
//   - params: the layout parameters
//
// Returns:
//   - ViewBuilderOption: a function that sets the layout
func WithLayoutParams(params layout.Params) ViewBuilderOption {
	return func(v *viewImpl) {
		v.params = params
	}
}

// WithWindowRadius sets how many visible items on each side of the focus are drawn.
//
// Parameters:
//   - radius: items per side, ignored when negative
//
// Returns:
//   - ViewBuilderOption: a function that sets the radius
func WithWindowRadius(radius int) ViewBuilderOption {
	return func(v *viewImpl) {
		if radius >= 0 {
			v.windowRadius = radius
		}
	}
}

// WithPrefetchRadius sets how many visible items on each side of the focus are decoded ahead.
func WithPrefetchRadius(radius int) ViewBuilderOption {
	return func(v *viewImpl) {
		if radius > 0 {
			v.prefetchRadius = radius
		}
	}
}

// WithCamera supplies the camera. It must have a controller attached.
func WithCamera(c camera.Camera) ViewBuilderOption {
	return func(v *viewImpl) {
		v.camera = c
	}
}

// WithLight supplies the spotlight.
func WithLight(l light.Light) ViewBuilderOption {
	return func(v *viewImpl) {
		v.light = l
	}
}

// WithAnimationSet supplies the animation set.
func WithAnimationSet(a animation.AnimationSet) ViewBuilderOption {
	return func(v *viewImpl) {
		v.anims = a
	}
}

// WithTextureCache supplies the texture cache. WithTextureCacheOptions is ignored when it is set.
func WithTextureCache(c texture_cache.TextureCache) ViewBuilderOption {
	return func(v *viewImpl) {
		v.cache = c
	}
}

// WithTextureCacheOptions adds options for the texture cache the view creates.
func WithTextureCacheOptions(options ...texture_cache.TextureCacheBuilderOption) ViewBuilderOption {
	return func(v *viewImpl) {
		v.cacheOptions = append(v.cacheOptions, options...)
	}
}

// WithControllerOptions adds options for the input controller.
func WithControllerOptions(options ...interaction.ControllerBuilderOption) ViewBuilderOption {
	return func(v *viewImpl) {
		v.controllerOptions = append(v.controllerOptions, options...)
	}
}

// WithColors sets the background, ground, placeholder and box-edge colors.
//
// Parameters:
//   - clear: the background color
//   - ground: the ground plane color
//   - placeholder: the face color of items without a cover
//   - side: the box edge color
//
// Returns:
//   - ViewBuilderOption: a function that sets the colors
func WithColors(clear, ground, placeholder, side [4]float32) ViewBuilderOption {
	return func(v *viewImpl) {
		v.clearColor = clear
		v.groundColor = ground
		v.placeholderColor = placeholder
		v.sideColor = side
	}
}

// WithClock sets the time source used when the host changes the focus.
func WithClock(clock func() time.Time) ViewBuilderOption {
	return func(v *viewImpl) {
		if clock != nil {
			v.clock = clock
		}
	}
}

// WithLogger sets the logger; the view logs under the "coverflow" name.
func WithLogger(logger *zap.Logger) ViewBuilderOption {
	return func(v *viewImpl) {
		if logger != nil {
			v.logger = logger.Named("coverflow")
		}
	}
}
