package s3

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/sparseset/internal/hash"
)

// UploadConfig configures uploads.
type UploadConfig struct {
	// PartSize is the multipart part size in bytes. Values below
	// manager.MinUploadPartSize are raised to it.
	PartSize int64
	// Concurrency is the number of parts uploaded in parallel.
	Concurrency int
	// EnableChecksum attaches a CRC32C checksum that S3 verifies on write.
	EnableChecksum bool
	// LeavePartsOnError keeps the parts of a failed multipart upload instead
	// of aborting it.
	LeavePartsOnError bool
}

// DefaultUploadConfig returns 8 MiB parts, 5 parallel uploads and CRC32C
// checksums.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:       8 << 20,
		Concurrency:    5,
		EnableChecksum: true,
	}
}

func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = max(cfg.PartSize, manager.MinUploadPartSize)
		u.Concurrency = max(cfg.Concurrency, 1)
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}

// computeCRC32C returns the base64 of the big-endian CRC32C, the form S3
// expects in ChecksumCRC32C.
func computeCRC32C(data []byte) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], hash.CRC32C(data))
	return base64.StdEncoding.EncodeToString(b[:])
}

// uploadWriter feeds a pipe into a background manager upload.
type uploadWriter struct {
	pw   *io.PipeWriter
	done chan error

	once sync.Once
	err  error
}

func startUpload(ctx context.Context, uploader *manager.Uploader, input *s3.PutObjectInput) *uploadWriter {
	pr, pw := io.Pipe()
	w := &uploadWriter{pw: pw, done: make(chan error, 1)}
	input.Body = pr

	go func() {
		_, err := uploader.Upload(ctx, input)
		// Unblock writers if the upload failed early.
		_ = pr.CloseWithError(err)
		w.done <- err
	}()
	return w
}

func (w *uploadWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

// finish closes the pipe with cause (nil for a clean EOF) and waits for the
// upload. Only the first call has an effect.
func (w *uploadWriter) finish(cause error) error {
	w.once.Do(func() {
		_ = w.pw.CloseWithError(cause)
		w.err = <-w.done
		if cause != nil {
			w.err = cause
		}
	})
	return w.err
}

// Close completes the upload. Repeated calls return the first result.
func (w *uploadWriter) Close() error { return w.finish(nil) }

// Abort cancels the upload. The uploader aborts the multipart upload unless
// LeavePartsOnError is set.
func (w *uploadWriter) Abort() error {
	_ = w.finish(context.Canceled)
	return nil
}

// Sync is a no-op; the object is committed on Close.
func (w *uploadWriter) Sync() error { return nil }
