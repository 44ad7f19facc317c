package port

import (
	"context"
	"io"
)

// StoredFile is a document written to temporary storage for the duration of one run.
type StoredFile struct {
	Path         string
	OriginalName string
	Size         int64
}

// UploadStore holds uploaded documents until the run that needs them has finished.
type UploadStore interface {
	Save(ctx context.Context, originalName string, body io.Reader) (*StoredFile, error)
	// Release deletes the stored file. Failures are logged, never returned.
	Release(file *StoredFile)
}

// SourceObject is a document fetched from object storage.
type SourceObject struct {
	Key         string
	Body        []byte
	ContentType string
}

// DocumentSource fetches documents by key from object storage.
type DocumentSource interface {
	Fetch(ctx context.Context, key string) (*SourceObject, error)
}
