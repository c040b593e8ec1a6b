package wordbook

import (
	"log/slog"

	"github.com/hupe1980/wordbook/blobstore"
	"github.com/hupe1980/wordbook/internal/fs"
	"github.com/hupe1980/wordbook/internal/store"
	"github.com/hupe1980/wordbook/resource"
)

type options struct {
	batchSize        int
	initialCapacity  int
	blobStore        blobstore.BlobStore
	fileSystem       fs.FileSystem
	resources        *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Dictionary.
type Option func(*options)

// WithBatchSize sets how many inserts are buffered before they are merged
// into the entry store. Values below 1 keep the default of 64.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithInitialCapacity sets the initial entry store capacity. The store
// doubles from here as it fills. Values below 1 keep the default of 1024.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialCapacity = n
		}
	}
}

// WithBlobStore sets where Load and Write resolve file names.
//
// The default is a LocalStore rooted at the working directory, so plain
// paths work as expected:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("dictionaries/"))
//	d, _ := wordbook.New(wordbook.WithBlobStore(store))
func WithBlobStore(bs blobstore.BlobStore) Option {
	return func(o *options) {
		o.blobStore = bs
	}
}

// WithFileSystem routes the default local store through fsys.
// It has no effect when WithBlobStore is also given.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fileSystem = fsys
	}
}

// WithResourceController charges arena and entry store growth to rc's memory
// budget and rate-limits Load and Write through its IO limiter.
//
// Example:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 20})
//	d, _ := wordbook.New(wordbook.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &wordbook.BasicMetricsCollector{}
//	d, _ := wordbook.New(wordbook.WithMetricsCollector(metrics))
//	// ... use d ...
//	stats := metrics.GetStats()
//	fmt.Printf("Finds: %d, hits: %d\n", stats.FindCount, stats.FindHits)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := wordbook.NewJSONLogger(slog.LevelInfo)
//	d, _ := wordbook.New(wordbook.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		batchSize:        store.DefaultBatchSize,
		initialCapacity:  store.DefaultInitialCapacity,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.blobStore == nil {
		var localOpts []blobstore.LocalOption
		if o.fileSystem != nil {
			localOpts = append(localOpts, blobstore.WithFileSystem(o.fileSystem))
		}
		o.blobStore = blobstore.NewLocalStore("", localOpts...)
	}
	return o
}
