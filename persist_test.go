package wordbook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/hupe1980/wordbook/blobstore"
	"github.com/hupe1980/wordbook/internal/fs"
	"github.com/hupe1980/wordbook/model"
	"github.com/hupe1980/wordbook/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPersist_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "names.txt")

	d := newDictionary(t, WithBatchSize(10), WithInitialCapacity(8))
	var names []string
	var want strings.Builder
	for c := 'a'; c <= 'o'; c++ {
		name := "test" + string(c)
		names = append(names, name)
		want.WriteString(name + ";9\n")
		require.NoError(t, d.Insert(name, model.Name))
	}

	require.NoError(t, d.Write(ctx, path))
	assert.Equal(t, want.String(), readFile(t, path))

	// Write merged everything into the store.
	s := d.Stats()
	assert.Equal(t, 15, s.StoreLen)
	assert.Equal(t, 0, s.PendingLen)

	loaded := newDictionary(t)
	report, err := loaded.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 15, report.Records)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Unsorted)
	assert.Equal(t, want.Len(), report.Bytes)
	assert.Equal(t, report.Mapped, loaded.Stats().Loaded.Mapped)
	assert.True(t, loaded.Stats().Sorted)

	assert.Equal(t, names, words(loaded))
	for text, e := range loaded.All() {
		assert.Equal(t, model.Name, e.Class, text)
	}
}

func TestPersist_RemovedEntryNotWritten(t *testing.T) {
	ctx := context.Background()

	for _, batch := range []int{1, 64} {
		d := newDictionary(t, WithBatchSize(batch))
		require.NoError(t, d.Insert("cat", model.Noun))
		require.NoError(t, d.Insert("dog", model.Noun))
		d.Remove("cat")

		_, ok := d.Find("cat")
		assert.False(t, ok)

		path := filepath.Join(t.TempDir(), "words.txt")
		require.NoError(t, d.Write(ctx, path))
		assert.Equal(t, "dog;0\n", readFile(t, path), "batch %d", batch)
	}
}

func TestPersist_EmptyDictionary(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "empty.txt")

	d := newDictionary(t)
	require.NoError(t, d.Write(ctx, path))
	assert.Empty(t, readFile(t, path))

	report, err := d.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, LoadReport{}, report)
	assert.Equal(t, 0, d.Len())
}

func TestPersist_LoadKeepsInsertedEntries(t *testing.T) {
	ctx := context.Background()
	first := writeFile(t, "first.txt", "apple;0\ncherry;0\n")
	second := writeFile(t, "second.txt", "date;0\nfig;0\n")

	for _, batch := range []int{1, 64} {
		d := newDictionary(t, WithBatchSize(batch))

		_, err := d.Load(ctx, first)
		require.NoError(t, err)
		require.NoError(t, d.Insert("banana", model.Verb))
		assert.Equal(t, []string{"apple", "banana", "cherry"}, words(d))

		_, err = d.Load(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, []string{"banana", "date", "fig"}, words(d), "batch %d", batch)

		e, ok := d.Find("banana")
		require.True(t, ok)
		assert.Equal(t, model.Verb, e.Class)
		_, ok = d.Find("apple")
		assert.False(t, ok)
	}
}

func TestPersist_WriteAfterLoad(t *testing.T) {
	ctx := context.Background()
	in := writeFile(t, "in.txt", "apple;0\ncherry;2\n")
	out := filepath.Join(filepath.Dir(in), "out.txt")

	d := newDictionary(t)
	_, err := d.Load(ctx, in)
	require.NoError(t, err)
	require.NoError(t, d.Insert("banana", model.Verb))
	d.Remove("cherry")

	require.NoError(t, d.Write(ctx, out))
	assert.Equal(t, "apple;0\nbanana;1\n", readFile(t, out))
}

func TestPersist_OverwriteLoadedFile(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "words.txt", "apple;0\npear;0\n")

	d := newDictionary(t)
	_, err := d.Load(ctx, path)
	require.NoError(t, err)
	require.NoError(t, d.Insert("fig", model.Noun))

	// The mapping stays valid while the file is replaced underneath it.
	require.NoError(t, d.Write(ctx, path))
	assert.Equal(t, "apple;0\nfig;0\npear;0\n", readFile(t, path))
	assert.Equal(t, []string{"apple", "fig", "pear"}, words(d))
}

func TestPersist_MalformedRecords(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "words.txt", "apple;0\nbroken\nbanana;1;2\ncherry;x\ndate;42\n\nfig;3\r\ngrape;5")

	var buf bytes.Buffer
	d := newDictionary(t, WithLogger(NewLogger(slog.NewTextHandler(&buf, nil))))

	report, err := d.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Records)
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, 0, report.Unsorted)

	assert.Equal(t, []string{"apple", "date", "fig", "grape"}, words(d))

	e, ok := d.Find("date")
	require.True(t, ok)
	assert.Equal(t, model.Unknown, e.Class)
	e, ok = d.Find("fig")
	require.True(t, ok)
	assert.Equal(t, model.Adverb, e.Class)
	e, ok = d.Find("grape")
	require.True(t, ok)
	assert.Equal(t, model.Preposition, e.Class)

	assert.Equal(t, 3, strings.Count(buf.String(), "skipping malformed record"))
}

func TestPersist_UnsortedFile(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "words.txt", "pear;0\napple;0\n")

	var buf bytes.Buffer
	d := newDictionary(t, WithLogger(NewLogger(slog.NewTextHandler(&buf, nil))), WithBatchSize(1))

	report, err := d.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, 1, report.Unsorted)
	assert.False(t, d.Stats().Sorted)
	assert.Contains(t, buf.String(), "dictionary is not sorted")

	for _, w := range []string{"pear", "apple"} {
		_, ok := d.Find(w)
		assert.True(t, ok, w)
	}

	require.NoError(t, d.Insert("banana", model.Noun))
	_, ok := d.Find("banana")
	assert.True(t, ok)
	assert.Equal(t, 3, d.Len())

	// A sorted reload restores binary search.
	sorted := writeFile(t, "sorted.txt", "apple;0\npear;0\n")
	_, err = d.Load(ctx, sorted)
	require.NoError(t, err)
	assert.True(t, d.Stats().Sorted)
}

func TestPersist_Compressed(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		magic []byte
	}{
		{"words.txt.zst", []byte{0x28, 0xb5, 0x2f, 0xfd}},
		{"words.txt.lz4", []byte{0x04, 0x22, 0x4d, 0x18}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name)

			d := newDictionary(t)
			for _, w := range []string{"pear", "apple", "fig", "banana"} {
				require.NoError(t, d.Insert(w, model.Noun))
			}
			require.NoError(t, d.Write(ctx, path))

			raw := readFile(t, path)
			assert.True(t, strings.HasPrefix(raw, string(tt.magic)))

			loaded := newDictionary(t)
			report, err := loaded.Load(ctx, path)
			require.NoError(t, err)
			assert.Equal(t, 4, report.Records)
			assert.False(t, report.Mapped)
			assert.Equal(t, []string{"apple", "banana", "fig", "pear"}, words(loaded))
		})
	}
}

func TestPersist_MissingFile(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "words.txt", "apple;0\n")

	d := newDictionary(t)
	_, err := d.Load(ctx, path)
	require.NoError(t, err)
	require.NoError(t, d.Insert("banana", model.Noun))
	before := d.Stats()

	_, err = d.Load(ctx, filepath.Join(filepath.Dir(path), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "load", ioErr.Op)
	assert.Contains(t, ioErr.Name, "missing.txt")

	assert.Equal(t, before, d.Stats())
	assert.Equal(t, []string{"apple", "banana"}, words(d))
}

func TestPersist_WriteFailure(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		fault fs.Fault
	}{
		{"Write", fs.Fault{FailAfterBytes: 1}},
		{"Sync", fs.Fault{FailOnSync: true}},
		{"Rename", fs.Fault{FailOnRename: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "out.txt", "old;0\n")
			ffs := fs.NewFaultyFS(nil)
			ffs.AddRule("out.txt", tt.fault)

			d := newDictionary(t, WithFileSystem(ffs))
			require.NoError(t, d.Insert("apple", model.Noun))

			err := d.Write(ctx, path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIO)
			assert.ErrorIs(t, err, fs.ErrInjected)

			var ioErr *IOError
			require.True(t, errors.As(err, &ioErr))
			assert.Equal(t, "write", ioErr.Op)

			// The previous file is intact and no temp file is left behind.
			assert.Equal(t, "old;0\n", readFile(t, path))
			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1)

			// The dictionary is still usable.
			_, ok := d.Find("apple")
			assert.True(t, ok)
		})
	}
}

func TestPersist_LoadWithoutMmap(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "words.txt", "apple;0\npear;0\n")

	d := newDictionary(t, WithFileSystem(fs.NewFaultyFS(nil)))
	report, err := d.Load(ctx, path)
	require.NoError(t, err)
	assert.False(t, report.Mapped)
	assert.Equal(t, []string{"apple", "pear"}, words(d))
}

func TestPersist_BlobStore(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()

	d := newDictionary(t, WithBlobStore(bs))
	require.NoError(t, d.Insert("run", model.Verb))
	require.NoError(t, d.Insert("apple", model.Noun))
	require.NoError(t, d.Write(ctx, "dicts/words.txt"))

	names, err := bs.List(ctx, "dicts/")
	require.NoError(t, err)
	assert.Equal(t, []string{"dicts/words.txt"}, names)

	loaded := newDictionary(t, WithBlobStore(bs))
	report, err := loaded.Load(ctx, "dicts/words.txt")
	require.NoError(t, err)
	assert.False(t, report.Mapped)
	assert.Equal(t, []string{"apple", "run"}, words(loaded))

	_, err = loaded.Load(ctx, "dicts/other.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestPersist_RateLimited(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	bs := blobstore.NewMemoryStore()

	d := newDictionary(t, WithBlobStore(bs), WithResourceController(rc))
	require.NoError(t, d.Insert("apple", model.Noun))
	require.NoError(t, d.Write(ctx, "words.txt.zst"))

	loaded := newDictionary(t, WithBlobStore(bs), WithResourceController(rc))
	_, err := loaded.Load(ctx, "words.txt.zst")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, words(loaded))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	err = d.Write(canceled, "again.txt")
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPersist_LoadRefusedByBudget(t *testing.T) {
	ctx := context.Background()
	entrySize := int64(unsafe.Sizeof(model.Entry{}))

	t.Run("EntryStore", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: entrySize + 8})
		bs := blobstore.NewMemoryStore()
		require.NoError(t, bs.Put(ctx, "words.txt", []byte("a;0\nb;0\nc;0\nd;0\n")))

		d := newDictionary(t, WithBlobStore(bs), WithResourceController(rc), WithInitialCapacity(1))
		before := rc.MemoryUsage()

		_, err := d.Load(ctx, "words.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAllocationFailed)
		assert.NotErrorIs(t, err, ErrIO)
		assert.Equal(t, before, rc.MemoryUsage())
		assert.Equal(t, 0, d.Len())
	})

	t.Run("Arena", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 8*entrySize + 4})
		bs := blobstore.NewMemoryStore()
		require.NoError(t, bs.Put(ctx, "words.txt", []byte("apple;0\npear;0\n")))

		d := newDictionary(t, WithBlobStore(bs), WithResourceController(rc), WithInitialCapacity(8))
		before := d.Stats()

		_, err := d.Load(ctx, "words.txt")
		assert.ErrorIs(t, err, ErrAllocationFailed)
		assert.Equal(t, before, d.Stats())
	})
}

func TestPersist_Metrics(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "words.txt", "apple;0\nbroken\npear;0\n")
	metrics := &BasicMetricsCollector{}

	d := newDictionary(t, WithMetricsCollector(metrics))
	_, err := d.Load(ctx, path)
	require.NoError(t, err)
	_, err = d.Load(ctx, path+".missing")
	require.Error(t, err)
	require.NoError(t, d.Write(ctx, filepath.Join(filepath.Dir(path), "out.txt")))

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Equal(t, int64(1), stats.LoadErrors)
	assert.Equal(t, int64(2), stats.LoadRecords)
	assert.Equal(t, int64(1), stats.LoadSkipped)
	assert.Equal(t, int64(1), stats.WriteCount)
	assert.Equal(t, int64(2), stats.WriteRecords)
}

func TestPersist_LogsTaggedWithFile(t *testing.T) {
	ctx := context.Background()
	in := writeFile(t, "in.txt", "pear;0\nbroken\napple;0\n")
	out := filepath.Join(filepath.Dir(in), "out.txt")

	var buf bytes.Buffer
	d := newDictionary(t, WithLogger(NewLogger(slog.NewJSONHandler(&buf, nil))))

	_, err := d.Load(ctx, in)
	require.NoError(t, err)
	require.NoError(t, d.Write(ctx, out))

	files := map[string]string{}
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var rec struct {
			Msg  string `json:"msg"`
			File string `json:"file"`
		}
		require.NoError(t, dec.Decode(&rec))
		files[rec.Msg] = rec.File
	}

	assert.Equal(t, in, files["skipping malformed record"])
	assert.Equal(t, in, files["dictionary is not sorted, lookups fall back to a linear scan"])
	assert.Equal(t, in, files["dictionary loaded"])
	assert.Equal(t, out, files["dictionary written"])
}
