// Package blob is the attachment byte store. The contract: Put returns a
// stable reference and the authoritative byte length, Open retrieves by
// reference and reports a typed error when the content is gone.
package blob

import (
	"context"
	"io"
)

type Store interface {
	// Put stores the content and returns an opaque reference plus the number
	// of bytes actually written.
	Put(ctx context.Context, name string, r io.Reader) (ref string, size int64, err error)

	// Open retrieves stored content. Missing content yields
	// errors.ErrBlobMissing, never an empty reader.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes stored content. Deleting an absent blob is not an error.
	Delete(ctx context.Context, ref string) error
}
