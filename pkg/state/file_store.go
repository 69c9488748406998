package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileStore persists each ref as <root>/<namespace>/<key><ext>.
type FileStore[T any] struct {
	root  string
	codec Codec
	perm  os.FileMode
	clock func() time.Time

	mu sync.Mutex
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*fileStoreConfig)

type fileStoreConfig struct {
	codec Codec
	perm  os.FileMode
	clock func() time.Time
}

// WithCodec selects the record format. JSON is the default.
func WithCodec(codec Codec) FileStoreOption {
	return func(cfg *fileStoreConfig) {
		if codec != nil {
			cfg.codec = codec
		}
	}
}

// WithFileMode sets the permission bits of written files (0o600 by default).
func WithFileMode(perm os.FileMode) FileStoreOption {
	return func(cfg *fileStoreConfig) {
		cfg.perm = perm
	}
}

// WithStoreClock overrides the time source used for Meta.UpdatedAt.
func WithStoreClock(clock func() time.Time) FileStoreOption {
	return func(cfg *fileStoreConfig) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

func NewFileStore[T any](root string, opts ...FileStoreOption) (*FileStore[T], error) {
	if root == "" {
		return nil, fmt.Errorf("state: file store root is required")
	}
	cfg := fileStoreConfig{codec: JSONCodec{}, perm: 0o600, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &FileStore[T]{root: root, codec: cfg.codec, perm: cfg.perm, clock: cfg.clock}, nil
}

type fileRecord[T any] struct {
	Meta     Meta `json:"meta"`
	Snapshot T    `json:"snapshot"`
}

// Path returns the file backing ref.
func (s *FileStore[T]) Path(ref Ref) (string, error) {
	if _, err := ref.Identifier(); err != nil {
		return "", err
	}
	return filepath.Join(s.root, ref.Namespace, ref.Key+s.codec.Extension()), nil
}

func (s *FileStore[T]) Load(ctx context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, Meta{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok, err := s.read(ref)
	if err != nil || !ok {
		return zero, Meta{}, false, err
	}
	return record.Snapshot, record.Meta, true, nil
}

func (s *FileStore[T]) Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, _, err := s.read(ref)
	if err != nil {
		return Meta{}, err
	}
	if err := checkETag(meta.ETag, current.Meta.ETag); err != nil {
		return Meta{}, err
	}

	saved := mergeMeta(meta, Meta{ETag: uuid.NewString()})
	if saved.UpdatedAt.IsZero() {
		saved.UpdatedAt = s.clock().UTC()
	}
	data, err := s.codec.Marshal(fileRecord[T]{Meta: saved, Snapshot: snapshot})
	if err != nil {
		return Meta{}, fmt.Errorf("state: encode %s: %w", describeRef(ref), err)
	}
	path, _ := s.Path(ref)
	if err := writeFileAtomic(path, data, s.perm); err != nil {
		return Meta{}, fmt.Errorf("state: write %s: %w", describeRef(ref), err)
	}
	return cloneMeta(saved), nil
}

func (s *FileStore[T]) read(ref Ref) (fileRecord[T], bool, error) {
	var record fileRecord[T]
	path, err := s.Path(ref)
	if err != nil {
		return record, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return record, false, nil
	}
	if err != nil {
		return record, false, fmt.Errorf("state: read %s: %w", describeRef(ref), err)
	}
	if err := s.codec.Unmarshal(data, &record); err != nil {
		return record, false, fmt.Errorf("state: decode %s: %w", describeRef(ref), err)
	}
	return record, true, nil
}

func describeRef(ref Ref) string {
	return ref.Namespace + "/" + ref.Key
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-state-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}
