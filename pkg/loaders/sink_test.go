package loaders

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"gocloud.dev/blob/memblob"
)

// fakeImage encodes as a fixed byte string
type fakeImage struct {
	data string
	err  error
}

func (f fakeImage) Encode(w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, f.data)
	return err
}

func TestWriteImageToBucket(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	if err := WriteImageToBucket(ctx, bucket, "renders/floor.png", fakeImage{data: "png-bytes"}); err != nil {
		t.Fatalf("WriteImageToBucket failed: %v", err)
	}

	got, err := bucket.ReadAll(ctx, "renders/floor.png")
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "png-bytes" {
		t.Errorf("stored %q, want %q", got, "png-bytes")
	}

	attrs, err := bucket.Attributes(ctx, "renders/floor.png")
	if err != nil {
		t.Fatalf("Attributes failed: %v", err)
	}
	if attrs.ContentType != "image/png" {
		t.Errorf("content type %q, want image/png", attrs.ContentType)
	}
}

func TestWriteImageToBucket_EncodeError(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	encodeErr := errors.New("encoder broke")
	err := WriteImageToBucket(ctx, bucket, "out.png", fakeImage{err: encodeErr})
	if !errors.Is(err, encodeErr) {
		t.Fatalf("expected wrapped encoder error, got %v", err)
	}
}

func TestWriteImage_LocalPath(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "dir", "out.png")

	if err := WriteImage(context.Background(), dest, fakeImage{data: "local"}); err != nil {
		t.Fatalf("WriteImage failed: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "local" {
		t.Errorf("wrote %q, want %q", got, "local")
	}
}

func TestWriteImage_FileURL(t *testing.T) {
	dir := filepath.ToSlash(t.TempDir())
	dest := "file://" + dir + "/renders/out.png"

	if err := WriteImage(context.Background(), dest, fakeImage{data: "blob"}); err != nil {
		t.Fatalf("WriteImage failed: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(filepath.FromSlash(dir), "renders", "out.png"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "blob" {
		t.Errorf("wrote %q, want %q", got, "blob")
	}
}

func TestSplitBlobURL(t *testing.T) {
	tests := []struct {
		dest       string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{"gs://my-bucket/renders/floor.png", "gs://my-bucket", "renders/floor.png", false},
		{"mem://scratch/out.png", "mem://scratch", "out.png", false},
		{"gs://my-bucket", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			bucket, key, err := splitBlobURL(tt.dest)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if bucket != tt.wantBucket || key != tt.wantKey {
				t.Errorf("got (%q, %q), want (%q, %q)", bucket, key, tt.wantBucket, tt.wantKey)
			}
		})
	}
}
