// Package storage abstracts the object store holding file content. The
// service never proxies bytes: clients upload and download directly against
// presigned URLs, so this interface only deals in URLs and keys.
package storage

import "context"

// Disposition selects how a browser should treat a downloaded object.
type Disposition string

const (
	// DispositionAttachment forces a download prompt.
	DispositionAttachment Disposition = "attachment"
	// DispositionInline renders the object in the browser when possible.
	DispositionInline Disposition = "inline"
)

// UploadSlot is a presigned POST target. The client uploads the file bytes
// directly to URL with the given form fields; the backend never sees them.
type UploadSlot struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

// ObjectStore issues presigned URLs for direct client access to blobs and
// deletes blobs when files are permanently removed.
type ObjectStore interface {
	// PresignUpload returns a time-limited POST slot for the given key.
	// The slot rejects uploads larger than maxSize bytes.
	PresignUpload(ctx context.Context, key, contentType string, maxSize int64) (*UploadSlot, error)

	// PresignDownload returns a time-limited GET URL for the key. The
	// filename and disposition shape the Content-Disposition header the
	// object store will attach to the response.
	PresignDownload(ctx context.Context, key, filename string, disposition Disposition) (string, error)

	// Delete removes the blob. Deleting a key that does not exist is not
	// an error: the record is the source of truth and the blob may already
	// be gone.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the stable, unsigned URL for a key. Whether it
	// actually resolves depends on the bucket's policy; the drive stores
	// it on the file record at upload time.
	PublicURL(key string) string
}
