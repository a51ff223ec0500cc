package texture_cache

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/image/webp"
	_ "modernc.org/sqlite"
)

// ErrStoreClosed is returned by a BackFaceStore after Close.
var ErrStoreClosed = errors.New("back face store closed")

const backFaceSchema = `
CREATE TABLE IF NOT EXISTS back_faces (
    key TEXT PRIMARY KEY,          -- xxhash of folder and name
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    image BLOB NOT NULL,           -- lossless WebP
    created_at INTEGER NOT NULL    -- UnixNano
);
`

// BackFaceStore keeps rendered back-face images keyed by synopsis source so they are drawn once.
// A memory map always sits in front; a SQLite file behind it is optional.
type BackFaceStore interface {
	// Get returns the stored image for a synopsis source.
	//
	// Parameters:
	//   - folder: the item's folder
	//   - name: the item's base name
	//
	// Returns:
	//   - image.Image: the image, nil on a miss
	//   - error: ErrStoreClosed or a database or decode error
	Get(folder, name string) (image.Image, error)

	// Put stores an image for a synopsis source, replacing any previous one.
	//
	// Parameters:
	//   - folder: the item's folder
	//   - name: the item's base name
	//   - img: the rendered back face
	//
	// Returns:
	//   - error: ErrStoreClosed or a database or encode error
	Put(folder, name string, img image.Image) error

	// Len returns the number of images held in memory.
	Len() int

	// Close releases the database. Further calls return ErrStoreClosed.
	Close() error
}

type backFaceStoreImpl struct {
	mu     *sync.Mutex
	db     *sql.DB
	memory map[string]image.Image
	closed bool
	logger *zap.Logger
}

var _ BackFaceStore = &backFaceStoreImpl{}

// BackFaceKey returns the store key for a synopsis source.
//
// Parameters:
//   - folder: the item's folder
//   - name: the item's base name
//
// Returns:
//   - string: 16 hex digits of the xxhash of folder and name
func BackFaceKey(folder, name string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(folder+"\x00"+name))
}

// NewBackFaceStore opens a store. An empty path keeps images in memory only.
//
// Parameters:
//   - path: the SQLite file, created with its directory if missing
//   - logger: the logger, nil for none
//
// Returns:
//   - BackFaceStore: the store
//   - error: an error if the database cannot be opened or migrated
func NewBackFaceStore(path string, logger *zap.Logger) (BackFaceStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &backFaceStoreImpl{
		mu:     &sync.Mutex{},
		memory: make(map[string]image.Image),
		logger: logger.Named("backfaces"),
	}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open back face store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to back face store: %w", err)
	}
	if _, err := db.Exec(backFaceSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create back face schema: %w", err)
	}
	s.db = db
	s.logger.Debug("back face store opened", zap.String("path", path))
	return s, nil
}

func (s *backFaceStoreImpl) Get(folder, name string) (image.Image, error) {
	key := BackFaceKey(folder, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	if img, ok := s.memory[key]; ok {
		return img, nil
	}
	if s.db == nil {
		return nil, nil
	}

	var blob []byte
	err := s.db.QueryRow("SELECT image FROM back_faces WHERE key = ?", key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query back face: %w", err)
	}
	img, err := webp.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("decode back face %s: %w", key, err)
	}
	s.memory[key] = img
	return img, nil
}

func (s *backFaceStoreImpl) Put(folder, name string, img image.Image) error {
	key := BackFaceKey(folder, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.memory[key] = img
	if s.db == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return fmt.Errorf("encode back face %s: %w", key, err)
	}
	b := img.Bounds()
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO back_faces (key, width, height, image, created_at) VALUES (?, ?, ?, ?, ?)",
		key, b.Dx(), b.Dy(), buf.Bytes(), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store back face %s: %w", key, err)
	}
	return nil
}

func (s *backFaceStoreImpl) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.memory)
}

func (s *backFaceStoreImpl) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.memory = nil
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
