package loaders

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
)

// Encoder is anything that can write itself as an image file
type Encoder interface {
	Encode(w io.Writer) error
}

// WriteImage encodes img to dest, which is either a local file path or a
// bucket URL such as gs://bucket/renders/out.png or file:///tmp/out.png
func WriteImage(ctx context.Context, dest string, img Encoder) error {
	if !strings.Contains(dest, "://") {
		return writeLocal(dest, img)
	}

	bucketURL, key, err := splitBlobURL(dest)
	if err != nil {
		return err
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}
	defer bucket.Close()

	return WriteImageToBucket(ctx, bucket, key, img)
}

// WriteImageToBucket encodes img into key of an open bucket
func WriteImageToBucket(ctx context.Context, bucket *blob.Bucket, key string, img Encoder) error {
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType(key)})
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", key)
	}
	if err := img.Encode(w); err != nil {
		w.Close()
		return errors.Wrapf(err, "failed to encode %s", key)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "failed to write %s", key)
	}
	return nil
}

// splitBlobURL splits a blob URL into the bucket URL and the object key.
// For file:// URLs the bucket is the parent directory, created if missing.
func splitBlobURL(dest string) (bucketURL, key string, err error) {
	u, err := url.Parse(dest)
	if err != nil {
		return "", "", errors.Wrapf(err, "invalid output URL %q", dest)
	}

	if u.Scheme == "file" {
		dir, file := path.Split(u.Path)
		if file == "" {
			return "", "", errors.Errorf("output URL %q has no file name", dest)
		}
		if err := os.MkdirAll(filepath.FromSlash(dir), 0755); err != nil {
			return "", "", errors.Wrap(err, "failed to create output directory")
		}
		return "file://" + dir, file, nil
	}

	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", errors.Errorf("output URL %q has no object key", dest)
	}
	bucket := *u
	bucket.Path = ""
	return bucket.String(), key, nil
}

// writeLocal encodes img to a file, creating parent directories
func writeLocal(filename string, img Encoder) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	if err := img.Encode(file); err != nil {
		file.Close()
		return errors.Wrapf(err, "failed to encode %s", filename)
	}
	return errors.Wrapf(file.Close(), "failed to write %s", filename)
}

func contentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
