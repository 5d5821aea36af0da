package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "taskflow.dev/taskflow/internal/errors"
)

// DiskStore keeps blobs as flat files under a single directory. Object keys
// are uuids so client-supplied names never touch the filesystem.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Put(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	ref := uuid.NewString() + safeExt(name)

	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", 0, err
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, ref))
		return "", 0, err
	}

	return ref, size, nil
}

func (s *DiskStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrBlobMissing
		}
		return nil, err
	}
	return f, nil
}

func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// safeExt keeps the original extension on the object key for easier
// operator inspection; everything else about the name is discarded.
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 16 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
