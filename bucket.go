package gridbase

import (
	"context"
	"io"
	"net/url"
	"strconv"
)

// BucketManager issues operations against a single storage bucket. It is a
// lightweight handle capturing only the bucket name (or id) and the shared
// dispatcher; create as many as needed.
type BucketManager struct {
	name    string
	fetcher *fetcher
}

// File returns a handle for the named file (or file id) inside this bucket.
func (b *BucketManager) File(nameOrID string) *FileManager {
	return &FileManager{bucket: b.name, name: nameOrID, fetcher: b.fetcher}
}

// body returns a request body pre-populated with the bucket identifier.
func (b *BucketManager) body() map[string]interface{} {
	return map[string]interface{}{"bucket": b.name}
}

// Exists reports whether the bucket exists.
func (b *BucketManager) Exists(ctx context.Context) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
	}
	if err := b.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/exists", b.body(), &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// GetInfo returns the bucket's metadata. When detailed is true the response
// additionally carries size statistics of the bucket's contents.
func (b *BucketManager) GetInfo(ctx context.Context, detailed bool) (*Bucket, error) {
	body := b.body()
	if detailed {
		body["detailed"] = true
	}

	var bucket Bucket
	if err := b.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/get", body, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

// Rename renames the bucket and returns the updated metadata. Subsequent
// calls on this handle keep using the original name, so callers should take
// a fresh handle after a rename.
func (b *BucketManager) Rename(ctx context.Context, newName string) (*Bucket, error) {
	body := b.body()
	body["newName"] = newName

	var bucket Bucket
	if err := b.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/rename", body, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

// Delete removes the bucket and all files in it.
func (b *BucketManager) Delete(ctx context.Context) error {
	return b.fetcher.postDiscard(ctx, "/_api/rest/v1/storage/bucket/delete", b.body())
}

// Empty removes all files in the bucket but keeps the bucket itself.
func (b *BucketManager) Empty(ctx context.Context) error {
	return b.fetcher.postDiscard(ctx, "/_api/rest/v1/storage/bucket/empty", b.body())
}

// MakePublic marks the bucket public. When includeFiles is true the default
// visibility of existing files is changed as well.
func (b *BucketManager) MakePublic(ctx context.Context, includeFiles bool) (*Bucket, error) {
	body := b.body()
	if includeFiles {
		body["includeFiles"] = true
	}

	var bucket Bucket
	if err := b.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/make-public", body, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

// MakePrivate marks the bucket private. When includeFiles is true existing
// files are made private as well.
func (b *BucketManager) MakePrivate(ctx context.Context, includeFiles bool) (*Bucket, error) {
	body := b.body()
	if includeFiles {
		body["includeFiles"] = true
	}

	var bucket Bucket
	if err := b.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/make-private", body, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

// ListFiles returns the files of the bucket matching opts.
func (b *BucketManager) ListFiles(ctx context.Context, opts *FileListOptions) ([]FileInfo, error) {
	body := b.body()
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
	if err := b.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/list-files", body, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// UploadOptions contains optional parameters for uploads.
type UploadOptions struct {
	// ContentType of the payload. Defaults to application/octet-stream.
	ContentType string
	// IsPublic overrides the bucket's default file visibility. Omitted
	// from the request when nil.
	IsPublic *bool
	// Tags are attached to the uploaded file.
	Tags []string
	// OnProgress is invoked with (bytesSent, totalBytes) as the payload is
	// consumed by the transport.
	OnProgress ProgressFunc
}

// Upload stores size bytes read from r as a file named fileName in the
// bucket and returns the created file's metadata. The payload is sent as
// raw bytes; progress is reported through opts.OnProgress when set.
//
// Example:
//
//	f, _ := os.Open("avatar.png")
//	defer f.Close()
//	st, _ := f.Stat()
//
//	info, err := client.Storage().Bucket("avatars").Upload(ctx, "bob.png", f, st.Size(),
//	    &gridbase.UploadOptions{
//	        ContentType: "image/png",
//	        OnProgress: func(sent, total int64) {
//	            fmt.Printf("\r%d/%d bytes", sent, total)
//	        },
//	    })
func (b *BucketManager) Upload(ctx context.Context, fileName string, r io.Reader, size int64, opts *UploadOptions) (*FileInfo, error) {
	query := url.Values{}
	query.Set("bucket", b.name)

	var contentType string
	var onProgress ProgressFunc
	if opts != nil {
		contentType = opts.ContentType
		onProgress = opts.OnProgress
		if opts.IsPublic != nil {
			query.Set("isPublic", strconv.FormatBool(*opts.IsPublic))
		}
		for _, tag := range opts.Tags {
			query.Add("tags", tag)
		}
	}

	var info FileInfo
	err := b.fetcher.Upload(ctx, "/_api/rest/v1/storage/bucket/upload", r, size, fileName, contentType,
		&requestOptions{query: query, resolve: ResolveJSON}, onProgress, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteFiles removes the named files from the bucket in one call.
func (b *BucketManager) DeleteFiles(ctx context.Context, fileNames []string) error {
	body := b.body()
	body["fileNames"] = fileNames
	return b.fetcher.postDiscard(ctx, "/_api/rest/v1/storage/bucket/delete-files", body)
}

// AddTags attaches tags to the bucket and returns the updated metadata.
func (b *BucketManager) AddTags(ctx context.Context, tags []string) (*Bucket, error) {
	body := b.body()
	body["tags"] = tags

	var bucket Bucket
	if err := b.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/add-tags", body, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

// RemoveTags detaches tags from the bucket and returns the updated
// metadata.
func (b *BucketManager) RemoveTags(ctx context.Context, tags []string) (*Bucket, error) {
	body := b.body()
	body["tags"] = tags

	var bucket Bucket
	if err := b.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/remove-tags", body, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

// UpdateInfo replaces the bucket's name, visibility and tags in one call.
// When includeFiles is true the visibility change is applied to existing
// files as well.
func (b *BucketManager) UpdateInfo(ctx context.Context, newName string, isPublic bool, tags []string, includeFiles bool) (*Bucket, error) {
	body := b.body()
	body["newName"] = newName
	body["isPublic"] = isPublic
	body["tags"] = tags
	if includeFiles {
		body["includeFiles"] = true
	}

	var bucket Bucket
	if err := b.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/update", body, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}
