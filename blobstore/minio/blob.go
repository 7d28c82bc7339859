package minio

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"github.com/minio/minio-go/v7"
)

var errUploadAborted = errors.New("minio: upload aborted")

type blob struct {
	client *minio.Client
	bucket string
	key    string
	size   int64
}

func (b *blob) Size() int64 { return b.size }

func (b *blob) Close() error { return nil }

// get fetches the inclusive byte range [off, end].
func (b *blob) get(ctx context.Context, off, end int64) (*minio.Object, error) {
	var opts minio.GetObjectOptions
	if err := opts.SetRange(off, end); err != nil {
		return nil, err
	}
	return b.client.GetObject(ctx, b.bucket, b.key, opts)
}

func (b *blob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= b.size {
		return 0, io.EOF
	}
	end := min(off+int64(len(p)), b.size) - 1

	obj, err := b.get(ctx, off, end)
	if err != nil {
		return 0, err
	}
	defer func() { _ = obj.Close() }()

	n, err := io.ReadFull(obj, p[:end-off+1])
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return n, io.EOF
	case err != nil:
		return n, err
	case n < len(p):
		return n, io.EOF
	}
	return n, nil
}

func (b *blob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if b.size == 0 && off == 0 {
		return io.NopCloser(strings.NewReader("")), nil
	}
	if off < 0 || off >= b.size {
		return nil, io.EOF
	}
	obj, err := b.get(ctx, off, min(off+max(length, 1), b.size)-1)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// writableBlob streams writes into a PutObject running in the background.
type writableBlob struct {
	pw       *io.PipeWriter
	done     chan error
	finished atomic.Bool
}

func (w *writableBlob) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *writableBlob) Close() error {
	if !w.finished.CompareAndSwap(false, true) {
		return io.ErrClosedPipe
	}
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

// Abort cancels the upload.
func (w *writableBlob) Abort() error {
	if !w.finished.CompareAndSwap(false, true) {
		return nil
	}
	_ = w.pw.CloseWithError(errUploadAborted)
	<-w.done
	return nil
}

// Sync is a no-op; data is committed on Close.
func (w *writableBlob) Sync() error { return nil }
