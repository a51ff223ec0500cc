package texture_cache

import "go.uber.org/zap"

// TextureCacheBuilderOption is a function that configures a textureCacheImpl.
type TextureCacheBuilderOption func(*textureCacheImpl)

// WithPrefetchRadius sets how many items on each side of the focus a prefetch pass covers.
//
// Parameters:
//   - radius: items per side, ignored when not positive
//
// Returns:
//   - TextureCacheBuilderOption: a function that applies the radius
func WithPrefetchRadius(radius int) TextureCacheBuilderOption {
	return func(c *textureCacheImpl) {
		if radius > 0 {
			c.radius = radius
		}
	}
}

// WithMaxTextureSize caps the longest side of decoded covers.
//
// Parameters:
//   - size: the cap in pixels, ignored when not positive
//
// Returns:
//   - TextureCacheBuilderOption: a function that applies the cap
func WithMaxTextureSize(size int) TextureCacheBuilderOption {
	return func(c *textureCacheImpl) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// WithBoxAspect sets the width/height ratio of the cover face, used to size back faces.
//
// Parameters:
//   - aspect: the face aspect, ignored when not positive
//
// Returns:
//   - TextureCacheBuilderOption: a function that applies the aspect
func WithBoxAspect(aspect float32) TextureCacheBuilderOption {
	return func(c *textureCacheImpl) {
		if aspect > 0 {
			c.boxAspect = aspect
		}
	}
}

// WithBackFaceWidth sets the pixel width of generated back faces.
func WithBackFaceWidth(width int) TextureCacheBuilderOption {
	return func(c *textureCacheImpl) {
		if width > 0 {
			c.backWidth = width
		}
	}
}

// WithBackFaceStore sets the persistent store for generated back faces.
func WithBackFaceStore(store BackFaceStore) TextureCacheBuilderOption {
	return func(c *textureCacheImpl) {
		c.store = store
	}
}

// WithBackFaceRenderer replaces the default back-face renderer.
func WithBackFaceRenderer(r BackFaceRenderer) TextureCacheBuilderOption {
	return func(c *textureCacheImpl) {
		c.backFaces = r
	}
}

// WithImageLoader replaces LoadImage.
func WithImageLoader(loader ImageLoader) TextureCacheBuilderOption {
	return func(c *textureCacheImpl) {
		if loader != nil {
			c.loader = loader
		}
	}
}

// WithLogger sets the logger; the cache logs under the "texture_cache" name.
func WithLogger(logger *zap.Logger) TextureCacheBuilderOption {
	return func(c *textureCacheImpl) {
		if logger != nil {
			c.logger = logger.Named("texture_cache")
		}
	}
}
