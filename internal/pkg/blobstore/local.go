package blobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/happysmilecode/yumenosite/internal/pkg/logger"
)

const metaSuffix = ".meta"

// LocalStore stores blobs on the local filesystem, one directory per bucket.
// Content lives at <basePath>/<bucket>/<id>; a sidecar JSON document at
// <basePath>/<bucket>/<id>.meta carries the original filename, content type
// and size so downloads can be served without a database round trip.
type LocalStore struct {
	basePath string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates a LocalStore rooted at basePath.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create blob storage directory")
		return nil, fmt.Errorf("failed to create blob storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Blob storage directory ensured")

	return &LocalStore{basePath: basePath}, nil
}

// Put streams r into the bucket under a freshly generated unique ID.
// A failed or canceled upload leaves no partial content behind.
func (s *LocalStore) Put(ctx context.Context, bucket, filename, contentType string, r io.Reader) (Info, error) {
	if err := validBucket(bucket); err != nil {
		return Info{}, err
	}

	dir := filepath.Join(s.basePath, bucket)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create bucket directory")
		return Info{}, fmt.Errorf("failed to create bucket directory: %w", err)
	}

	id := uuid.New().String()
	dstPath := filepath.Join(dir, id)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create blob file")
		return Info{}, fmt.Errorf("failed to create blob file: %w", err)
	}

	size, err := io.Copy(dst, readerWithContext(ctx, r))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Remove the partial file so nothing can ever reference it
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write blob content")
		return Info{}, fmt.Errorf("failed to write blob content: %w", err)
	}

	info := Info{
		ID:          id,
		Bucket:      bucket,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	}
	if err := s.writeMeta(dstPath+metaSuffix, info); err != nil {
		_ = os.Remove(dstPath)
		return Info{}, err
	}

	logger.Info().Str("id", id).Str("bucket", bucket).Str("filename", filename).Int64("size", size).Msg("Blob stored")
	return info, nil
}

// Open returns a streamed reader for the blob's content.
func (s *LocalStore) Open(ctx context.Context, id string) (io.ReadCloser, Info, error) {
	path, info, err := s.find(id)
	if err != nil {
		return nil, Info{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Info{}, ErrNotFound
		}
		return nil, Info{}, fmt.Errorf("failed to open blob %s: %w", id, err)
	}
	return f, info, nil
}

// Stat returns the blob's metadata.
func (s *LocalStore) Stat(ctx context.Context, id string) (Info, error) {
	_, info, err := s.find(id)
	return info, err
}

// Delete removes the blob's content and metadata. A missing ID is reported
// as ErrNotFound, not treated as fatal.
func (s *LocalStore) Delete(ctx context.Context, id string) error {
	path, _, err := s.find(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete blob")
		return fmt.Errorf("failed to delete blob %s: %w", id, err)
	}
	if err := os.Remove(path + metaSuffix); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", path+metaSuffix).Msg("Failed to delete blob metadata")
	}

	logger.Info().Str("id", id).Msg("Blob deleted")
	return nil
}

// find locates a blob by ID across all bucket directories.
func (s *LocalStore) find(id string) (string, Info, error) {
	if !validID(id) {
		return "", Info{}, ErrNotFound
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return "", Info{}, fmt.Errorf("failed to read storage directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.basePath, entry.Name(), id)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		info, err := s.readMeta(path + metaSuffix)
		if err != nil {
			return "", Info{}, err
		}
		return path, info, nil
	}
	return "", Info{}, ErrNotFound
}

func (s *LocalStore) writeMeta(path string, info Info) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode blob metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to write blob metadata")
		return fmt.Errorf("failed to write blob metadata: %w", err)
	}
	return nil
}

func (s *LocalStore) readMeta(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read blob metadata: %w", err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("failed to decode blob metadata: %w", err)
	}
	return info, nil
}

// validBucket rejects bucket names that could escape the storage root.
func validBucket(bucket string) error {
	if bucket == "" || strings.ContainsAny(bucket, "/\\") || bucket == "." || bucket == ".." {
		return fmt.Errorf("invalid bucket name %q", bucket)
	}
	return nil
}

// validID rejects IDs that are not bare file names.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, "/\\") && id != "." && id != ".." && !strings.HasSuffix(id, metaSuffix)
}

// readerWithContext cancels an in-flight copy when ctx is done.
func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
