package format

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"

	"github.com/hupe1980/wordbook/model"
)

const (
	// Separator splits the text field from the class field.
	Separator = ';'
	// Terminator ends every record.
	Terminator = '\n'
)

// Malformed-record reasons reported by Parse.
var (
	ErrMissingClass   = errors.New("missing class field")
	ErrTooManyFields  = errors.New("too many fields")
	ErrInvalidOrdinal = errors.New("class is not a decimal integer")
	ErrInvalidText    = errors.New("text contains a separator or newline")
)

// Record is a parsed line. Text addresses the parsed buffer, which becomes
// the loaded arena, so the span is tagged model.ArenaLoaded.
type Record struct {
	Text  model.Span
	Class model.WordClass
	Line  int
}

// Issue describes a skipped line.
type Issue struct {
	Line int
	Err  error
	Raw  string
}

// Parse splits data into records. Malformed lines are skipped and reported
// through onIssue (which may be nil); empty lines are ignored silently. A
// final record without a trailing newline is accepted, and a trailing '\r'
// is stripped so CRLF files load.
func Parse(data []byte, onIssue func(Issue)) []Record {
	records := make([]Record, 0, bytes.Count(data, []byte{Terminator})+1)

	line := 0
	for start := 0; start < len(data); {
		line++

		end := bytes.IndexByte(data[start:], Terminator)
		next := 0
		if end < 0 {
			end = len(data)
			next = len(data)
		} else {
			end += start
			next = end + 1
		}

		stop := end
		if stop > start && data[stop-1] == '\r' {
			stop--
		}

		if stop > start {
			rec, err := parseRecord(data, start, stop)
			if err != nil {
				if onIssue != nil {
					onIssue(Issue{Line: line, Err: err, Raw: string(data[start:stop])})
				}
			} else {
				rec.Line = line
				records = append(records, rec)
			}
		}

		start = next
	}

	return records
}

func parseRecord(data []byte, start, end int) (Record, error) {
	raw := data[start:end]

	sep := bytes.IndexByte(raw, Separator)
	if sep < 0 {
		return Record{}, ErrMissingClass
	}
	field := raw[sep+1:]
	if bytes.IndexByte(field, Separator) >= 0 {
		return Record{}, ErrTooManyFields
	}

	field = bytes.TrimSpace(field)
	if len(field) == 0 {
		return Record{}, ErrMissingClass
	}
	ordinal, err := strconv.Atoi(string(field))
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			// Overflowing ordinals are merely out of range.
			return Record{
				Text:  model.Span{Arena: model.ArenaLoaded, Offset: uint32(start), Length: uint32(sep)}, //nolint:gosec // arena size is bounded
				Class: model.Unknown,
			}, nil
		}
		return Record{}, ErrInvalidOrdinal
	}

	return Record{
		Text:  model.Span{Arena: model.ArenaLoaded, Offset: uint32(start), Length: uint32(sep)}, //nolint:gosec // arena size is bounded
		Class: model.ClassFromInt(ordinal),
	}, nil
}

// ValidText reports whether text can be written without corrupting the format.
func ValidText(text []byte) bool {
	return bytes.IndexByte(text, Separator) < 0 && bytes.IndexByte(text, Terminator) < 0
}

// AppendRecord appends the encoded record to dst.
func AppendRecord(dst, text []byte, class model.WordClass) []byte {
	dst = append(dst, text...)
	dst = append(dst, Separator)
	dst = strconv.AppendInt(dst, int64(class.Ordinal()), 10)
	return append(dst, Terminator)
}

// Writer encodes records to an underlying stream.
type Writer struct {
	w       *bufio.Writer
	scratch []byte
	n       int
}

// NewWriter returns a buffered record writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write encodes one record. Text with a separator or newline is rejected
// with ErrInvalidText.
func (w *Writer) Write(text []byte, class model.WordClass) error {
	if !ValidText(text) {
		return ErrInvalidText
	}
	w.scratch = AppendRecord(w.scratch[:0], text, class)
	if _, err := w.w.Write(w.scratch); err != nil {
		return err
	}
	w.n++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.n
}

// Flush writes buffered data to the underlying stream.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
