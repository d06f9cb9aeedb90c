package pkg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestQuoteAllWriter(t *testing.T) {
	as := assert.New(t)
	b := new(bytes.Buffer)
	w := NewQuoteAllWriter(b)
	as.NoError(w.Write([]string{"ID", "NAME", "NOTE"}))
	as.NoError(w.Write([]string{"1", "plain", ""}))
	as.NoError(w.Write([]string{"2", `say "hi"`, "a|b"}))
	as.NoError(w.Flush())

	as.Equal("\"ID\"|\"NAME\"|\"NOTE\"\r\n"+
		"\"1\"|\"plain\"|\"\"\r\n"+
		"\"2\"|\"say \"\"hi\"\"\"|\"a|b\"\r\n", b.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestQuoteAllWriterSurfacesWriteErrors(t *testing.T) {
	w := NewQuoteAllWriter(failingWriter{})
	assert.NoError(t, w.Write([]string{"buffered"}))
	assert.EqualError(t, w.Flush(), "disk full")
}

func TestQuoteAllWriterRoundTrip(t *testing.T) {
	as := assert.New(t)
	record := []string{"42", "hello world", "", "2024-01-02 03:04:05", "-1.5"}
	b := new(bytes.Buffer)
	w := NewQuoteAllWriter(b)
	as.NoError(w.Write(record))
	as.NoError(w.Flush())

	line := strings.TrimSuffix(b.String(), "\r\n")
	fields := strings.Split(line, "|")
	got := make([]string, 0, len(fields))
	for _, f := range fields {
		as.True(strings.HasPrefix(f, `"`) && strings.HasSuffix(f, `"`))
		got = append(got, f[1:len(f)-1])
	}
	as.Equal(record, got)
}

func TestQuoteAllWriterEmptyRecord(t *testing.T) {
	b := new(bytes.Buffer)
	w := NewQuoteAllWriter(b)
	assert.NoError(t, w.Write(nil))
	assert.NoError(t, w.Flush())
	assert.Equal(t, "\r\n", b.String())
}
