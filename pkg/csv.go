package pkg

import (
	"bufio"
	"io"
	"strings"
)

const (
	fieldDelimiter   = '|'
	quoteChar        = '"'
	recordTerminator = "\r\n"
)

// QuoteAllWriter writes '|' delimited records where every field is quoted,
// whether or not it needs escaping. Embedded quotes are doubled and records
// end with CRLF. encoding/csv only quotes fields that need it, which
// downstream loaders reject.
type QuoteAllWriter struct {
	w *bufio.Writer
}

func NewQuoteAllWriter(w io.Writer) *QuoteAllWriter {
	return &QuoteAllWriter{w: bufio.NewWriter(w)}
}

func (w *QuoteAllWriter) Write(record []string) error {
	for n, field := range record {
		if n > 0 {
			if err := w.w.WriteByte(fieldDelimiter); err != nil {
				return err
			}
		}
		if err := w.w.WriteByte(quoteChar); err != nil {
			return err
		}
		if _, err := w.w.WriteString(strings.ReplaceAll(field, `"`, `""`)); err != nil {
			return err
		}
		if err := w.w.WriteByte(quoteChar); err != nil {
			return err
		}
	}
	_, err := w.w.WriteString(recordTerminator)
	return err
}

func (w *QuoteAllWriter) Flush() error {
	return w.w.Flush()
}
