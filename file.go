package gridbase

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// FileManager issues operations against a single file of a bucket. Like
// BucketManager it is a cheap value object capturing only identifying keys
// and the shared dispatcher.
type FileManager struct {
	bucket  string
	name    string
	fetcher *fetcher
}

// body returns a request body pre-populated with the bucket and file
// identifiers.
func (f *FileManager) body() map[string]interface{} {
	return map[string]interface{}{
		"bucket": f.bucket,
		"file":   f.name,
	}
}

// Exists reports whether the file exists in the bucket.
//
// Example:
//
//	ok, err := client.Storage().Bucket("avatars").File("bob.png").Exists(ctx)
func (f *FileManager) Exists(ctx context.Context) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
	}
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/exists", f.body(), &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// GetInfo returns the file's metadata.
func (f *FileManager) GetInfo(ctx context.Context) (*FileInfo, error) {
	var info FileInfo
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/get", f.body(), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// MakePublic makes the file publicly accessible and returns the updated
// metadata, including its public path.
func (f *FileManager) MakePublic(ctx context.Context) (*FileInfo, error) {
	var info FileInfo
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/make-public", f.body(), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// MakePrivate makes the file accessible only through authenticated calls
// and returns the updated metadata.
func (f *FileManager) MakePrivate(ctx context.Context) (*FileInfo, error) {
	var info FileInfo
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/make-private", f.body(), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Download returns the file's contents as raw bytes. The body is never
// JSON-decoded, regardless of the content type the server reports.
func (f *FileManager) Download(ctx context.Context) ([]byte, error) {
	var data []byte
	err := f.fetcher.Send(ctx, http.MethodPost, "/_api/rest/v1/storage/bucket/file/download", &requestOptions{
		body:    f.body(),
		resolve: ResolveBinary,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Rename renames the file and returns the updated metadata. The handle
// keeps using the original name; take a fresh handle after a rename.
func (f *FileManager) Rename(ctx context.Context, newName string) (*FileInfo, error) {
	body := f.body()
	body["newName"] = newName

	var info FileInfo
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/rename", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Duplicate copies the file inside its bucket under duplicateName and
// returns the new file's metadata.
func (f *FileManager) Duplicate(ctx context.Context, duplicateName string) (*FileInfo, error) {
	body := f.body()
	body["duplicateName"] = duplicateName

	var info FileInfo
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/duplicate", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Delete removes the file from its bucket. Any response payload is
// discarded.
func (f *FileManager) Delete(ctx context.Context) error {
	return f.fetcher.postDiscard(ctx, "/_api/rest/v1/storage/bucket/file/delete", f.body())
}

// MoveTo moves the file to another bucket and returns the updated metadata.
// A file with the same name in the target bucket is overwritten.
func (f *FileManager) MoveTo(ctx context.Context, bucketNameOrID string) (*FileInfo, error) {
	body := f.body()
	body["toBucket"] = bucketNameOrID

	var info FileInfo
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/move", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CopyTo copies the file to another bucket and returns the copy's metadata.
func (f *FileManager) CopyTo(ctx context.Context, bucketNameOrID string) (*FileInfo, error) {
	body := f.body()
	body["toBucket"] = bucketNameOrID

	var info FileInfo
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/copy", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Replace uploads a new payload for the file, keeping its name and id, and
// returns the updated metadata.
func (f *FileManager) Replace(ctx context.Context, r io.Reader, size int64, opts *UploadOptions) (*FileInfo, error) {
	query := url.Values{}
	query.Set("bucket", f.bucket)

	var contentType string
	var onProgress ProgressFunc
	if opts != nil {
		contentType = opts.ContentType
		onProgress = opts.OnProgress
		if opts.IsPublic != nil {
			query.Set("isPublic", strconv.FormatBool(*opts.IsPublic))
		}
	}

	var info FileInfo
	err := f.fetcher.Upload(ctx, "/_api/rest/v1/storage/bucket/file/replace", r, size, f.name, contentType,
		&requestOptions{query: query, resolve: ResolveJSON}, onProgress, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateInfo replaces the file's name, visibility and tags in one call and
// returns the updated metadata.
func (f *FileManager) UpdateInfo(ctx context.Context, newName string, isPublic bool, tags []string) (*FileInfo, error) {
	body := f.body()
	body["newName"] = newName
	body["isPublic"] = isPublic
	body["tags"] = tags

	var info FileInfo
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/update", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AddTags attaches tags to the file and returns the updated metadata.
func (f *FileManager) AddTags(ctx context.Context, tags []string) (*FileInfo, error) {
	body := f.body()
	body["tags"] = tags

	var info FileInfo
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/add-tags", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RemoveTags detaches tags from the file and returns the updated metadata.
func (f *FileManager) RemoveTags(ctx context.Context, tags []string) (*FileInfo, error) {
	body := f.body()
	body["tags"] = tags

	var info FileInfo
	if err := f.fetcher.post(ctx, "/_api/rest/v1/storage/bucket/file/remove-tags", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
