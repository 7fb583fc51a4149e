package blobstore

import (
	"context"
	"errors"
	"io"
)

// Bucket names partitioning blobs by purpose.
const (
	BucketCourseUploads = "course_uploads"
	BucketCourseImages  = "course_images"
)

// ErrNotFound is returned when no blob exists for the given ID.
var ErrNotFound = errors.New("blob not found")

// Info describes a stored blob.
type Info struct {
	ID          string `json:"id"`
	Bucket      string `json:"bucket"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Store persists opaque binary objects identified by generated IDs.
// Put and Open stream content; implementations must never buffer whole
// objects in memory and must be safe for concurrent use.
type Store interface {
	// Put consumes r fully, persists it in the given bucket under a
	// freshly generated ID and returns the blob's metadata.
	Put(ctx context.Context, bucket, filename, contentType string, r io.Reader) (Info, error)

	// Open returns a streamed reader for the blob with the given ID,
	// or ErrNotFound. The caller closes the reader.
	Open(ctx context.Context, id string) (io.ReadCloser, Info, error)

	// Stat returns the blob's metadata without opening its content.
	Stat(ctx context.Context, id string) (Info, error)

	// Delete removes the blob. Deleting a missing ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}
