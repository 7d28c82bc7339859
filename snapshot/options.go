package snapshot

import (
	"github.com/hupe1980/sparseset"
	"github.com/hupe1980/sparseset/codec"
	"github.com/hupe1980/sparseset/internal/compress"
	"github.com/hupe1980/sparseset/resource"
)

// Options configures Save and Load.
type Options struct {
	// Codec encodes the payload on Save. Load uses the codec named in the
	// header. Default: codec.Default.
	Codec codec.Codec
	// Compression is the payload block compression used by Save.
	// Default: "lz4".
	Compression string
	// BlockSize is the uncompressed size of a payload block.
	BlockSize int
	// ResourceController throttles snapshot IO. Optional.
	ResourceController *resource.Controller
	// Logger receives a record per completed or failed operation.
	Logger *sparseset.Logger
	// SetOptions are applied to sets created by Load.
	SetOptions []sparseset.Option
}

// Option configures Options.
type Option func(*Options)

// WithCodec sets the payload codec used by Save.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) { o.Codec = c }
}

// WithCompression sets the payload compression by name: "none", "lz4",
// "zstd" or "snappy".
func WithCompression(name string) Option {
	return func(o *Options) { o.Compression = name }
}

// WithBlockSize sets the uncompressed payload block size.
func WithBlockSize(n int) Option {
	return func(o *Options) { o.BlockSize = n }
}

// WithResourceController throttles reads and writes through rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *Options) { o.ResourceController = rc }
}

// WithLogger sets the logger.
func WithLogger(l *sparseset.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithSetOptions sets the options of sets created by Load.
func WithSetOptions(optFns ...sparseset.Option) Option {
	return func(o *Options) { o.SetOptions = append(o.SetOptions, optFns...) }
}

func applyOptions(optFns []Option) (Options, compress.Type, error) {
	o := Options{
		Codec:       codec.Default,
		Compression: compress.LZ4.String(),
		BlockSize:   compress.DefaultBlockSize,
		Logger:      sparseset.NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.Codec == nil {
		o.Codec = codec.Default
	}
	if o.Logger == nil {
		o.Logger = sparseset.NoopLogger()
	}
	t, err := compress.ParseType(o.Compression)
	if err != nil {
		return o, 0, err
	}
	return o, t, nil
}
