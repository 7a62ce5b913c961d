package gridbase

import (
	"context"
	"time"
)

// Bucket is a storage bucket's metadata.
type Bucket struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	IsPublic  bool      `json:"isPublic"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FileInfo is a stored file's metadata.
type FileInfo struct {
	ID         string    `json:"_id"`
	BucketID   string    `json:"bucketId"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mimeType"`
	IsPublic   bool      `json:"isPublic"`
	PublicPath string    `json:"publicPath,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StorageStats summarizes the app's storage usage.
type StorageStats struct {
	ObjectCount      int64     `json:"objectsCount"`
	TotalStorageSize int64     `json:"totalStorageSize"`
	BucketCount      int64     `json:"bucketsCount"`
	AvgObjectSize    int64     `json:"avgObjectSize"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BucketListOptions narrows and pages ListBuckets. Zero-valued fields are
// omitted from the request.
type BucketListOptions struct {
	// Search matches bucket names containing the given string.
	Search string
	// Page is the 1-based page to return.
	Page int
	// Limit caps the number of returned buckets.
	Limit int
}

// FileListOptions narrows and pages file listings. Zero-valued fields are
// omitted from the request.
type FileListOptions struct {
	// Search matches file names containing the given string.
	Search string
	// Page is the 1-based page to return.
	Page int
	// Limit caps the number of returned files.
	Limit int
}

// StorageManager accesses the platform storage service and hands out bucket
// handles.
type StorageManager struct {
	fetcher *fetcher
}

// Bucket returns a handle for the bucket with the given name or id. Handles
// are cheap value objects holding no server state; existence is only
// checked when an operation is issued.
func (m *StorageManager) Bucket(nameOrID string) *BucketManager {
	return &BucketManager{name: nameOrID, fetcher: m.fetcher}
}

// CreateBucketOptions contains optional parameters for CreateBucket.
type CreateBucketOptions struct {
	// IsPublic makes uploaded files publicly accessible by default.
	IsPublic bool
	// Tags are attached to the bucket at creation.
	Tags []string
}

// CreateBucket creates a new bucket and returns its metadata.
func (m *StorageManager) CreateBucket(ctx context.Context, name string, opts *CreateBucketOptions) (*Bucket, error) {
	body := map[string]interface{}{"name": name}
	if opts != nil {
		if opts.IsPublic {
			body["isPublic"] = true
		}
		if len(opts.Tags) > 0 {
			body["tags"] = opts.Tags
		}
	}

	var bucket Bucket
	if err := m.fetcher.post(ctx, "/_api/rest/v1/storage/create-bucket", body, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

// ListBuckets returns the app's buckets matching opts. A nil opts lists the
// first page with server defaults.
func (m *StorageManager) ListBuckets(ctx context.Context, opts *BucketListOptions) ([]Bucket, error) {
	body := map[string]interface{}{}
	if opts != nil {
		if opts.Search != "" {
			body["search"] = opts.Search
		}
		if opts.Page > 0 {
			body["page"] = opts.Page
		}
		if opts.Limit > 0 {
			body["limit"] = opts.Limit
		}
	}

	var buckets []Bucket
	if err := m.fetcher.post(ctx, "/_api/rest/v1/storage/list-buckets", body, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// ListFiles searches files across all buckets of the app.
func (m *StorageManager) ListFiles(ctx context.Context, opts *FileListOptions) ([]FileInfo, error) {
	body := map[string]interface{}{}
	if opts != nil {
		if opts.Search != "" {
			body["search"] = opts.Search
		}
		if opts.Page > 0 {
			body["page"] = opts.Page
		}
		if opts.Limit > 0 {
			body["limit"] = opts.Limit
		}
	}

	var files []FileInfo
	if err := m.fetcher.post(ctx, "/_api/rest/v1/storage/list-files", body, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// GetStats returns the storage usage summary of the app.
func (m *StorageManager) GetStats(ctx context.Context) (*StorageStats, error) {
	var stats StorageStats
	if err := m.fetcher.get(ctx, "/_api/rest/v1/storage/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
