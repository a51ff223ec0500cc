package texture_cache

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/Carmen-Shannon/coverflow/engine/renderer"
	"go.uber.org/zap"
)

// DefaultPrefetchRadius is how many visible items on each side of the focus a prefetch pass decodes.
const DefaultPrefetchRadius = 25

// ErrNoImagePath is reported for items whose host returns no cover path.
var ErrNoImagePath = errors.New("item has no image path")

// Geometry describes a decoded cover: the source aspect ratio and the size of the kept pixels.
type Geometry struct {
	Aspect float32
	Width  int
	Height int
}

// Entry is one cached cover. Image and Geometry are set at decode time; Front and Back are only
// ever set on the render thread by MaterializeTextures.
type Entry struct {
	Row      int
	Path     string
	Image    *image.RGBA
	Geometry Geometry
	Front    renderer.TextureHandle
	Back     renderer.TextureHandle
	// Missing marks an entry whose image could not be decoded. It renders with the placeholder color.
	Missing bool
}

// ItemSource is the read-only item data the cache needs from the host.
type ItemSource interface {
	ImagePath(row int) string
	Title(row int) string
	Year(row int) string
	SynopsisSource(row int) (folder, name string)
}

// PrefetchSource is a snapshot of one visible row taken on the UI thread, so the prefetch worker
// never calls into the host.
type PrefetchSource struct {
	Row  int
	Path string
}

// TextureUploader is the part of renderer.Renderer the cache uses.
type TextureUploader interface {
	UploadTexture(label string, data *common.TextureStagingData) (renderer.TextureHandle, error)
	ReleaseTexture(h renderer.TextureHandle)
}

type prefetchRequest struct {
	center  int
	radius  int
	sources []PrefetchSource
	gen     uint64
}

type textureCacheImpl struct {
	mu *sync.Mutex

	source  ItemSource
	entries map[int]*Entry
	gen     uint64

	// frontRelease holds handles of invalidated entries until the render thread frees them.
	frontRelease []renderer.TextureHandle
	backs        map[string]renderer.TextureHandle
	backFailed   map[string]bool

	pool    worker.DynamicWorkerPool
	running bool
	pending *prefetchRequest
	passes  *sync.WaitGroup
	taskID  int

	radius      int
	maxSize     int
	boxAspect   float32
	backWidth   int
	loader      ImageLoader
	store       BackFaceStore
	backFaces   BackFaceRenderer
	logger      *zap.Logger
}

// TextureCache keeps decoded covers for the rows around the focus and their GPU textures.
//
// Ensure and StartPrefetch may decode on any goroutine. Texture handles are created and freed only by
// MaterializeTextures, ReleasePending and Close, which must run on the render thread.
type TextureCache interface {
	// SetSource sets the host the cache reads item data from and invalidates the cache.
	//
	// Parameters:
	//   - src: the item source
	SetSource(src ItemSource)

	// Ensure returns the cached entry for row, decoding its image synchronously on a miss.
	// Decode failures return an entry with Missing set. Never touches the GPU.
	//
	// Parameters:
	//   - row: the model row
	//
	// Returns:
	//   - *Entry: the entry
	Ensure(row int) *Entry

	// Lookup returns the cached entry for row without decoding.
	//
	// Parameters:
	//   - row: the model row
	//
	// Returns:
	//   - *Entry: the entry, nil on a miss
	//   - bool: whether the row is cached
	Lookup(row int) (*Entry, bool)

	// MaterializeTextures ensures row and uploads its front texture if it has none. With needBack it
	// also links or builds the back texture. Render thread only.
	//
	// Parameters:
	//   - row: the model row
	//   - needBack: whether the back face is visible
	//   - up: the uploader, normally the Renderer
	//
	// Returns:
	//   - *Entry: the entry with its handles set where possible
	MaterializeTextures(row int, needBack bool, up TextureUploader) *Entry

	// StartPrefetch decodes rows outward from sources[center] in the background. At most one pass
	// runs at a time; a call made while a pass runs replaces any earlier waiting request.
	//
	// Parameters:
	//   - center: index into sources of the focused row
	//   - radius: items on each side, 0 for the default
	//   - sources: the visible rows in order
	StartPrefetch(center, radius int, sources []PrefetchSource)

	// WaitIdle blocks until no prefetch pass is running or waiting.
	WaitIdle()

	// Invalidate drops every entry and bumps the generation so in-flight passes discard their results.
	// Front textures are queued for ReleasePending; back textures are kept.
	Invalidate()

	// ReleasePending frees front textures queued by Invalidate. Render thread only.
	//
	// Parameters:
	//   - up: the uploader that created them
	ReleasePending(up TextureUploader)

	// Generation returns the invalidation counter.
	Generation() uint64

	// Len returns the number of cached entries.
	Len() int

	// BoxAspect returns the face aspect covers are fitted to.
	BoxAspect() float32

	// Close frees every texture and closes the back-face store. Render thread only.
	//
	// Parameters:
	//   - up: the uploader that created the textures
	//
	// Returns:
	//   - error: an error from closing the store
	Close(up TextureUploader) error
}

var _ TextureCache = &textureCacheImpl{}

// NewTextureCache creates a TextureCache with a single-worker prefetch pool.
//
// Parameters:
//   - options: variadic list of TextureCacheBuilderOption
//
// Returns:
//   - TextureCache: the cache
//   - error: an error if the default back-face renderer or store cannot be created
func NewTextureCache(options ...TextureCacheBuilderOption) (TextureCache, error) {
	c := &textureCacheImpl{
		mu:         &sync.Mutex{},
		entries:    make(map[int]*Entry),
		backs:      make(map[string]renderer.TextureHandle),
		backFailed: make(map[string]bool),
		passes:     &sync.WaitGroup{},
		radius:     DefaultPrefetchRadius,
		maxSize:    DefaultMaxTextureSize,
		boxAspect:  0.52 / 0.94,
		backWidth:  512,
		loader:     LoadImage,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		opt(c)
	}

	if c.backFaces == nil {
		r, err := NewBackFaceRenderer(c.backWidth, c.boxAspect)
		if err != nil {
			return nil, fmt.Errorf("back face renderer: %w", err)
		}
		c.backFaces = r
	}
	if c.store == nil {
		s, err := NewBackFaceStore("", c.logger)
		if err != nil {
			return nil, err
		}
		c.store = s
	}

	c.pool = worker.NewDynamicWorkerPool(1, 4, time.Second)
	return c, nil
}

func (c *textureCacheImpl) SetSource(src ItemSource) {
	c.mu.Lock()
	c.source = src
	c.mu.Unlock()
	c.Invalidate()
}

func (c *textureCacheImpl) Ensure(row int) *Entry {
	c.mu.Lock()
	if e, ok := c.entries[row]; ok {
		c.mu.Unlock()
		return e
	}
	src, gen := c.source, c.gen
	c.mu.Unlock()

	path := ""
	if src != nil {
		path = src.ImagePath(row)
	}
	e := c.decode(row, path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[row]; ok {
		return existing
	}
	if gen == c.gen {
		c.entries[row] = e
	}
	return e
}

func (c *textureCacheImpl) Lookup(row int) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[row]
	return e, ok
}

// decode loads one cover. Panics from decoders are turned into a Missing entry.
func (c *textureCacheImpl) decode(row int, path string) (e *Entry) {
	e = &Entry{Row: row, Path: path}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("cover decode panicked", zap.Int("row", row), zap.String("path", path), zap.Any("panic", r))
			e = &Entry{Row: row, Path: path, Missing: true}
		}
	}()

	img, geom, err := c.loader(path, c.maxSize)
	if err != nil {
		c.logger.Debug("cover missing", zap.Int("row", row), zap.String("path", path), zap.Error(err))
		e.Missing = true
		return e
	}
	e.Image = img
	e.Geometry = geom
	return e
}

func (c *textureCacheImpl) MaterializeTextures(row int, needBack bool, up TextureUploader) *Entry {
	e := c.Ensure(row)

	c.mu.Lock()
	needFront := !e.Missing && e.Image != nil && e.Front == renderer.NoTexture
	c.mu.Unlock()

	if needFront {
		h, err := up.UploadTexture(fmt.Sprintf("Cover %d", row), common.StagingFromImage(e.Image))
		c.mu.Lock()
		if err != nil {
			c.logger.Warn("cover upload failed", zap.Int("row", row), zap.Error(err))
			e.Missing = true
		} else {
			e.Front = h
		}
		c.mu.Unlock()
	}

	if e.Back == renderer.NoTexture {
		if h := c.backTexture(row, needBack, up); h != renderer.NoTexture {
			c.mu.Lock()
			e.Back = h
			c.mu.Unlock()
		}
	}
	return e
}

// backTexture returns the back texture for row, building it when build is set and it does not exist yet.
func (c *textureCacheImpl) backTexture(row int, build bool, up TextureUploader) renderer.TextureHandle {
	c.mu.Lock()
	src := c.source
	c.mu.Unlock()
	if src == nil {
		return renderer.NoTexture
	}

	folder, name := src.SynopsisSource(row)
	if folder == "" && name == "" {
		name = src.Title(row)
	}
	key := BackFaceKey(folder, name)

	c.mu.Lock()
	h, ok := c.backs[key]
	failed := c.backFailed[key]
	c.mu.Unlock()
	if ok || failed || !build {
		return h
	}

	img, err := c.store.Get(folder, name)
	if err != nil {
		c.logger.Debug("back face store miss", zap.String("key", key), zap.Error(err))
	}
	if img == nil {
		content := BackFaceContent{
			Title:    src.Title(row),
			Year:     src.Year(row),
			Synopsis: ReadSynopsis(folder, name),
		}
		img, err = c.backFaces.Render(content)
		if err != nil {
			c.logger.Warn("back face render failed", zap.Int("row", row), zap.Error(err))
			c.markBackFailed(key)
			return renderer.NoTexture
		}
		if err := c.store.Put(folder, name, img); err != nil {
			c.logger.Warn("back face not stored", zap.String("key", key), zap.Error(err))
		}
	}

	h, err = up.UploadTexture("Back "+key, common.StagingFromImage(img))
	if err != nil {
		c.logger.Warn("back face upload failed", zap.Int("row", row), zap.Error(err))
		c.markBackFailed(key)
		return renderer.NoTexture
	}
	c.mu.Lock()
	c.backs[key] = h
	c.mu.Unlock()
	return h
}

func (c *textureCacheImpl) markBackFailed(key string) {
	c.mu.Lock()
	c.backFailed[key] = true
	c.mu.Unlock()
}

func (c *textureCacheImpl) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.Front != renderer.NoTexture {
			c.frontRelease = append(c.frontRelease, e.Front)
		}
	}
	c.entries = make(map[int]*Entry)
	c.pending = nil
	c.gen++
	c.logger.Debug("cache invalidated", zap.Uint64("generation", c.gen))
}

func (c *textureCacheImpl) ReleasePending(up TextureUploader) {
	c.mu.Lock()
	handles := c.frontRelease
	c.frontRelease = nil
	c.mu.Unlock()

	for _, h := range handles {
		up.ReleaseTexture(h)
	}
}

func (c *textureCacheImpl) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *textureCacheImpl) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *textureCacheImpl) BoxAspect() float32 {
	return c.boxAspect
}

func (c *textureCacheImpl) Close(up TextureUploader) error {
	c.Invalidate()
	c.WaitIdle()
	c.ReleasePending(up)

	c.mu.Lock()
	backs := c.backs
	c.backs = make(map[string]renderer.TextureHandle)
	c.mu.Unlock()
	for _, h := range backs {
		up.ReleaseTexture(h)
	}
	return c.store.Close()
}
