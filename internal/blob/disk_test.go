package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	apperrors "taskflow.dev/taskflow/internal/errors"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ctx := context.Background()
	content := "hello attachment"

	ref, size, err := store.Put(ctx, "notes.txt", strings.NewReader(content))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if size != int64(len(content)) {
		t.Errorf("expected size %d, got %d", len(content), size)
	}
	if !strings.HasSuffix(ref, ".txt") {
		t.Errorf("expected ref to keep extension, got %q", ref)
	}

	rc, err := store.Open(ctx, ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != content {
		t.Errorf("expected %q, got %q", content, got)
	}
}

func TestDiskStoreMissingBlob(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	_, err = store.Open(context.Background(), "no-such-ref.bin")
	if !errors.Is(err, apperrors.ErrBlobMissing) {
		t.Errorf("expected ErrBlobMissing, got %v", err)
	}
}

func TestDiskStoreDeleteAbsentIsNoError(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Delete(context.Background(), "gone.bin"); err != nil {
		t.Errorf("delete of absent blob should not error, got %v", err)
	}
}

func TestDiskStoreSizeIsAuthoritative(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ctx := context.Background()
	_, size100, err := store.Put(ctx, "a.bin", strings.NewReader(strings.Repeat("x", 100)))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	_, size200, err := store.Put(ctx, "b.bin", strings.NewReader(strings.Repeat("y", 200)))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if size100 != 100 || size200 != 200 {
		t.Errorf("expected sizes 100 and 200, got %d and %d", size100, size200)
	}
}
