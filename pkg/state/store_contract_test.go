package state_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/goliatone/go-history/pkg/state"
)

type profile struct {
	Name string   `json:"name"`
	Tags []string `json:"tags,omitempty"`
}

var profileRef = state.Ref{Namespace: "people", Key: "ada"}

func storeFactories(t *testing.T) map[string]func() state.Store[profile] {
	t.Helper()
	return map[string]func() state.Store[profile]{
		"memory": func() state.Store[profile] {
			return state.NewMemoryStore[profile]()
		},
		"file-json": func() state.Store[profile] {
			store, err := state.NewFileStore[profile](t.TempDir())
			if err != nil {
				t.Fatalf("file store: %v", err)
			}
			return store
		},
		"file-yaml": func() state.Store[profile] {
			store, err := state.NewFileStore[profile](t.TempDir(), state.WithCodec(state.YAMLCodec{}))
			if err != nil {
				t.Fatalf("file store: %v", err)
			}
			return store
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory()

			if _, _, ok, err := store.Load(ctx, profileRef); err != nil || ok {
				t.Fatalf("expected missing record, got ok=%v err=%v", ok, err)
			}

			want := profile{Name: "Ada", Tags: []string{"math"}}
			saved, err := store.Save(ctx, profileRef, want, state.Meta{SnapshotID: "rev-1"})
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if saved.ETag == "" || saved.UpdatedAt.IsZero() {
				t.Fatalf("expected etag and timestamp, got %+v", saved)
			}

			got, meta, ok, err := store.Load(ctx, profileRef)
			if err != nil || !ok {
				t.Fatalf("load: ok=%v err=%v", ok, err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Fatalf("snapshot mismatch:\nwant: %#v\n got: %#v", want, got)
			}
			if meta.SnapshotID != "rev-1" || meta.ETag != saved.ETag {
				t.Fatalf("meta mismatch: %+v vs %+v", meta, saved)
			}

			_, err = store.Save(ctx, profileRef, profile{Name: "Other"}, state.Meta{ETag: "stale"})
			if !errors.Is(err, state.ErrETagMismatch) {
				t.Fatalf("expected ErrETagMismatch, got %v", err)
			}

			next, err := store.Save(ctx, profileRef, profile{Name: "Grace"}, state.Meta{ETag: saved.ETag})
			if err != nil {
				t.Fatalf("save with matching etag: %v", err)
			}
			if next.ETag == saved.ETag {
				t.Fatalf("expected a fresh etag")
			}

			if _, err := store.Save(ctx, state.Ref{Namespace: "people"}, want, state.Meta{}); !errors.Is(err, state.ErrInvalidRef) {
				t.Fatalf("expected ErrInvalidRef, got %v", err)
			}
		})
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if _, err := factory().Save(ctx, profileRef, profile{}, state.Meta{}); !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
		})
	}
}

func TestMemoryStoreIsolatesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore[profile]()
	value := profile{Name: "Ada", Tags: []string{"math"}}
	if _, err := store.Save(ctx, profileRef, value, state.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	value.Tags[0] = "changed"

	got, _, _, _ := store.Load(ctx, profileRef)
	if got.Tags[0] != "math" {
		t.Fatalf("stored snapshot aliases caller value: %v", got.Tags)
	}

	existed, err := store.Delete(ctx, profileRef)
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	if _, _, ok, _ := store.Load(ctx, profileRef); ok {
		t.Fatalf("expected record to be gone")
	}
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := state.NewFileStore[profile](root, state.WithCodec(state.YAMLCodec{}))
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	if _, err := store.Save(ctx, profileRef, profile{Name: "Ada"}, state.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := filepath.Join(root, "people", "ada.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !strings.Contains(string(data), "name: Ada") {
		t.Fatalf("expected json keys in yaml output, got:\n%s", data)
	}

	entries, err := os.ReadDir(filepath.Join(root, "people"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the record file, found %d entries", len(entries))
	}
}

func TestFileStoreRejectsCorruptRecord(t *testing.T) {
	root := t.TempDir()
	store, _ := state.NewFileStore[profile](root)
	path, err := store.Path(profileRef)
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, _, err := store.Load(context.Background(), profileRef); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewFileStoreRequiresRoot(t *testing.T) {
	if _, err := state.NewFileStore[profile](""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}
