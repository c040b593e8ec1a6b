package wordbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/wordbook/blobstore"
	"github.com/hupe1980/wordbook/internal/arena"
	"github.com/hupe1980/wordbook/internal/compress"
	"github.com/hupe1980/wordbook/internal/format"
	"github.com/hupe1980/wordbook/internal/store"
	"github.com/hupe1980/wordbook/model"
	"github.com/hupe1980/wordbook/resource"
)

// LoadReport summarizes a Load.
type LoadReport struct {
	Records  int  // entries loaded
	Skipped  int  // malformed lines skipped
	Unsorted int  // records that sort before their predecessor
	Bytes    int  // size of the (decompressed) file
	Mapped   bool // the file is memory-mapped rather than copied
}

// Load replaces the dictionary's file-backed entries with the contents of
// the named file. Entries inserted since the previous Load are kept and
// merged with the new ones.
//
// The file holds one "<text>;<class ordinal>" record per line and must be
// sorted by text, byte-wise. Malformed lines are skipped and logged. An
// unsorted file is loaded as is, with a warning; lookups then scan linearly.
// Names ending in .zst or .lz4 are decompressed.
//
// A file that cannot be read yields an *IOError; if the memory budget
// refuses the new contents the error is ErrAllocationFailed. Either way the
// dictionary is unchanged.
func (d *Dictionary) Load(ctx context.Context, name string) (LoadReport, error) {
	if d.closed {
		return LoadReport{}, ErrClosed
	}
	start := time.Now()

	logger := d.logger.WithFile(name)
	report, err := d.load(ctx, name, logger)

	d.metrics.RecordLoad(report.Records, report.Skipped, time.Since(start), err)
	logger.LogLoad(ctx, report, err)
	return report, err
}

func (d *Dictionary) load(ctx context.Context, name string, logger *Logger) (LoadReport, error) {
	backing, err := d.readBlob(ctx, name)
	if err != nil {
		return LoadReport{}, &IOError{Op: "load", Name: name, cause: err}
	}

	installed := false
	defer func() {
		if !installed && backing.Release != nil {
			_ = backing.Release()
		}
	}()

	report := LoadReport{Bytes: len(backing.Data), Mapped: backing.Mapped}
	records := format.Parse(backing.Data, func(issue format.Issue) {
		report.Skipped++
		logger.LogSkippedRecord(ctx, issue.Line, issue.Raw, issue.Err)
	})

	entries := make([]model.Entry, len(records))
	var prev []byte
	for i, r := range records {
		entries[i] = model.Entry{Text: r.Text, Class: r.Class, Active: true}

		text := backing.Data[r.Text.Offset:r.Text.End()]
		if i > 0 && store.Less(text, prev) {
			if report.Unsorted == 0 {
				logger.LogUnsorted(ctx, r.Line)
			}
			report.Unsorted++
		}
		prev = text
	}

	swap := func() error {
		if err := d.arenas.Loaded.Replace(backing); err != nil {
			if errors.Is(err, arena.ErrAllocationFailed) {
				return err
			}
			// The swap happened; only releasing the old backing failed.
			logger.WarnContext(ctx, "releasing previous dictionary failed", "error", err)
		}
		installed = true
		return nil
	}
	if err := d.store.ReplaceLoaded(entries, swap); err != nil {
		return LoadReport{}, translateError(err)
	}

	report.Records = len(entries)
	return report, nil
}

// readBlob returns the file contents ready to back the loaded arena. Plain
// mappable blobs are used in place; everything else is streamed through the
// IO limiter and decompressor into memory.
func (d *Dictionary) readBlob(ctx context.Context, name string) (arena.Backing, error) {
	blob, err := d.blobs.Open(ctx, name)
	if err != nil {
		return arena.Backing{}, err
	}

	kind := compress.ForName(name)
	if m, ok := blob.(blobstore.Mappable); ok && kind == compress.None {
		data, err := m.Bytes()
		if err != nil {
			_ = blob.Close()
			return arena.Backing{}, err
		}
		return arena.Backing{Data: data, Release: blob.Close, Mapped: m.Mapped()}, nil
	}
	defer func() { _ = blob.Close() }()

	r, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return arena.Backing{}, err
	}
	defer func() { _ = r.Close() }()

	data, err := compress.ReadAll(resource.NewRateLimitedReader(ctx, r, d.resources), kind, blob.Size())
	if err != nil {
		return arena.Backing{}, err
	}
	return arena.Backing{Data: data}, nil
}

// Write compacts the dictionary, merges buffered inserts and writes every
// active entry to the named file in order, one "<text>;<class ordinal>"
// line each. Names ending in .zst or .lz4 are compressed. The file is only
// replaced once it has been written completely; failures yield an *IOError.
func (d *Dictionary) Write(ctx context.Context, name string) error {
	if d.closed {
		return ErrClosed
	}
	start := time.Now()

	n, err := d.write(ctx, name)

	d.metrics.RecordWrite(n, time.Since(start), err)
	d.logger.WithFile(name).LogWrite(ctx, n, err)
	return err
}

func (d *Dictionary) write(ctx context.Context, name string) (int, error) {
	if err := d.store.Flush(); err != nil {
		return 0, translateError(err)
	}

	wb, err := d.blobs.Create(ctx, name)
	if err != nil {
		return 0, &IOError{Op: "write", Name: name, cause: err}
	}

	n, err := d.encode(ctx, wb, compress.ForName(name))
	if err != nil {
		return 0, &IOError{Op: "write", Name: name, cause: errors.Join(err, blobstore.Abort(wb))}
	}
	if err := wb.Close(); err != nil {
		return 0, &IOError{Op: "write", Name: name, cause: err}
	}
	return n, nil
}

func (d *Dictionary) encode(ctx context.Context, w io.Writer, kind compress.Kind) (int, error) {
	cw, err := compress.NewWriter(resource.NewRateLimitedWriter(ctx, w, d.resources), kind)
	if err != nil {
		return 0, err
	}

	fw := format.NewWriter(cw)
	var werr error
	d.store.Ascend(func(e model.Entry) bool {
		if werr = fw.Write(d.store.Text(e), e.Class); werr != nil {
			werr = fmt.Errorf("record %d: %w", fw.Count()+1, werr)
			return false
		}
		return true
	})
	if werr != nil {
		_ = cw.Close()
		return 0, werr
	}

	if err := fw.Flush(); err != nil {
		return 0, err
	}
	if err := cw.Close(); err != nil {
		return 0, err
	}
	return fw.Count(), nil
}
