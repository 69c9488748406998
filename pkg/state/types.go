package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrETagMismatch = errors.New("state: etag mismatch")
	ErrNotFound     = errors.New("state: snapshot not found")
	ErrInvalidRef   = errors.New("state: invalid ref")
)

// Ref identifies one persisted snapshot.
type Ref struct {
	Namespace string
	Key       string
}

// Identifier returns the canonical storage key, "namespace/key". Both parts
// must be non-empty single path segments.
func (r Ref) Identifier() (string, error) {
	if err := validSegment("namespace", r.Namespace); err != nil {
		return "", err
	}
	if err := validSegment("key", r.Key); err != nil {
		return "", err
	}
	return r.Namespace + "/" + r.Key, nil
}

func validSegment(name, value string) error {
	switch {
	case value == "":
		return fmt.Errorf("%w: %s is required", ErrInvalidRef, name)
	case value == "." || value == "..":
		return fmt.Errorf("%w: %s %q is reserved", ErrInvalidRef, name, value)
	case strings.ContainsAny(value, `/\`):
		return fmt.Errorf("%w: %s %q contains a path separator", ErrInvalidRef, name, value)
	}
	return nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one snapshot per ref.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// checkETag enforces optimistic concurrency: an expected ETag only conflicts
// with a different stored one.
func checkETag(expected, stored string) error {
	if expected != "" && stored != "" && expected != stored {
		return fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, expected, stored)
	}
	return nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return cloneMeta(out)
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
