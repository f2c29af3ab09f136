package export

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// Writer emits Records as CSV in stream order. The header row is written on
// construction, so empty exports still produce a valid file.
type Writer struct {
	cw  *csv.Writer
	enc *csvutil.Encoder
}

// NewWriter creates a CSV writer over w and writes the header row.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(Record{}); err != nil {
		return nil, eris.Wrap(err, "export: write csv header")
	}
	return &Writer{cw: cw, enc: enc}, nil
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return eris.Wrap(err, "export: write csv row")
	}
	return nil
}

// Flush writes buffered rows to the underlying stream.
func (w *Writer) Flush() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}
