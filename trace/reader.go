package trace

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// maxLineLength bounds a single trace line, trailing text included.
const maxLineLength = 1 << 20

// Reader yields the records of a trace in order.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	return &Reader{scanner: scanner}
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next record. It returns io.EOF after the last record and
// a *ParseError for a malformed line. Blank lines are skipped.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		rec, err := ParseLine(text)
		if err != nil {
			return Record{}, &ParseError{Line: r.line, Text: text, Err: err}
		}
		return rec, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Record{}, errors.Wrapf(err, "reading trace after line %d", r.line)
	}
	return Record{}, io.EOF
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}
