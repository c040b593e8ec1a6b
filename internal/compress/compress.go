package compress

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Kind identifies a compression algorithm.
type Kind uint8

const (
	// None stores data uncompressed.
	None Kind = iota
	// LZ4 uses LZ4 frame compression.
	LZ4
	// ZSTD uses zstd compression.
	ZSTD
)

// String returns the algorithm name.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ForName picks the codec for a blob name by its suffix.
func ForName(name string) Kind {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		return ZSTD
	case strings.HasSuffix(lower, ".lz4"):
		return LZ4
	default:
		return None
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w so that writes are compressed with kind.
// Close flushes the compressor but does not close w.
func NewWriter(w io.Writer, kind Kind) (io.WriteCloser, error) {
	switch kind {
	case None:
		return nopWriteCloser{w}, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case ZSTD:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("compress: unsupported kind %s", kind)
	}
}

// ReadAll decompresses everything from r.
// sizeHint pre-sizes the output buffer when positive.
func ReadAll(r io.Reader, kind Kind, sizeHint int64) ([]byte, error) {
	var buf bytes.Buffer
	if sizeHint > 0 {
		buf.Grow(int(sizeHint))
	}

	switch kind {
	case None:
		if _, err := buf.ReadFrom(r); err != nil {
			return nil, err
		}
	case LZ4:
		if _, err := buf.ReadFrom(lz4.NewReader(r)); err != nil {
			return nil, fmt.Errorf("lz4 decode: %w", err)
		}
	case ZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		if _, err := buf.ReadFrom(dec); err != nil {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("compress: unsupported kind %s", kind)
	}

	return buf.Bytes(), nil
}
