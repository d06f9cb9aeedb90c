package main

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/pkg/errors"
)

const (
	exportTimeLayout     = "2006-01-02 15:04:05"
	exportTimeNanoLayout = "2006-01-02 15:04:05.000000"
)

// Rows is the part of *sql.Rows the fetcher needs.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	ColumnTypes() ([]*sql.ColumnType, error)
	Err() error
	Close() error
}

// rowFetcher reads a result set chunk by chunk. A chunk shorter than the
// chunk size, or an empty one, means the result set is exhausted.
// The chunk grows as rows arrive, so a small result never pays for a full chunk.
type rowFetcher struct {
	rows      Rows
	columns   []string
	guids     []bool
	values    []any
	scanArgs  []any
	chunkSize int
	chunk     [][]string
	done      bool
}

func newRowFetcher(rows Rows, chunkSize int) (*rowFetcher, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read columns")
	}
	guids := make([]bool, len(columns))
	// fakes and some drivers report no types, values are then formatted by Go type only
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			if i < len(guids) && ct != nil {
				guids[i] = strings.EqualFold(ct.DatabaseTypeName(), "UNIQUEIDENTIFIER")
			}
		}
	}
	values := make([]any, len(columns))

	// rows.Scan wants '[]interface{}' as an argument, so we must copy the
	// references into such a slice
	scanArgs := make([]any, len(values))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	return &rowFetcher{
		rows:      rows,
		columns:   columns,
		guids:     guids,
		values:    values,
		scanArgs:  scanArgs,
		chunkSize: chunkSize,
	}, nil
}

func (f *rowFetcher) Columns() []string {
	return f.columns
}

// FetchMany returns up to chunkSize rows. The returned slice is reused by the next call.
func (f *rowFetcher) FetchMany() ([][]string, error) {
	if f.done {
		return nil, nil
	}
	f.chunk = f.chunk[:0]
	for len(f.chunk) < f.chunkSize && f.rows.Next() {
		if err := f.rows.Scan(f.scanArgs...); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		n := len(f.chunk)
		if n < cap(f.chunk) {
			f.chunk = f.chunk[:n+1]
		} else {
			f.chunk = append(f.chunk, make([]string, len(f.columns)))
		}
		line := f.chunk[n]
		for i, v := range f.values {
			line[i] = formatValue(v, f.guids[i])
		}
	}
	if len(f.chunk) < f.chunkSize {
		f.done = true
		if err := f.rows.Err(); err != nil {
			return nil, errors.Wrap(err, "failed to fetch rows")
		}
	}
	return f.chunk, nil
}

// formatValue renders a driver value as text. NULL is exported as an empty field,
// timestamps without the T and zone, and sql server GUIDs in their text form.
func formatValue(v any, guid bool) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		if guid && len(t) == 16 {
			var id mssql.UniqueIdentifier
			if err := id.Scan(t); err == nil {
				return id.String()
			}
		}
		return string(t)
	case string:
		return t
	case time.Time:
		if t.Nanosecond() != 0 {
			return t.Format(exportTimeNanoLayout)
		}
		return t.Format(exportTimeLayout)
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(t)
	}
}
