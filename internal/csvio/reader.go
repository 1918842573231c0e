// Package csvio reads and writes CSV with a configurable quote character.
//
// encoding/csv hard-codes '"' as the quote, while GAM exports and the deletion
// CSV may use another one. The dialect here is the one GAM and Python's csv
// module agree on: ',' delimiter, doubled quote as escape, minimal quoting.
package csvio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// DefaultQuote is the quote character used when none is configured
	DefaultQuote = '"'
	comma        = ','
)

// ParseError reports malformed CSV at a given input line
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv: line %d: %s", e.Line, e.Msg)
}

// Reader reads records from UTF-8 CSV input
type Reader struct {
	r     *bufio.Reader
	quote rune

	line       int
	recordLine int
	field      strings.Builder
}

// NewReader returns a Reader using quote as the quote character. A leading
// byte order mark is stripped and invalid UTF-8 is replaced with U+FFFD.
func NewReader(r io.Reader, quote rune) *Reader {
	if quote == 0 {
		quote = DefaultQuote
	}
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	return &Reader{
		r:     bufio.NewReader(decoded),
		quote: quote,
		line:  1,
	}
}

// Line returns the input line on which the last record returned by Read started
func (r *Reader) Line() int {
	return r.recordLine
}

// Read returns the next record. Blank lines are skipped. At end of input it
// returns nil, io.EOF.
func (r *Reader) Read() ([]string, error) {
	for {
		c, _, err := r.r.ReadRune()
		if err != nil {
			return nil, r.readErr(err)
		}
		if c == '\n' {
			r.line++
			continue
		}
		if c == '\r' {
			r.skipLF()
			r.line++
			continue
		}
		if err := r.r.UnreadRune(); err != nil {
			return nil, err
		}
		break
	}

	r.recordLine = r.line
	var record []string
	for {
		value, end, err := r.readField()
		if err != nil {
			return nil, err
		}
		record = append(record, value)
		if end {
			return record, nil
		}
	}
}

// readField reads one field and reports whether it was the last of its record
func (r *Reader) readField() (string, bool, error) {
	r.field.Reset()
	quoted := false

	c, _, err := r.r.ReadRune()
	if err == io.EOF {
		return "", true, nil
	}
	if err != nil {
		return "", true, err
	}
	if c == r.quote {
		quoted = true
	} else if err := r.r.UnreadRune(); err != nil {
		return "", true, err
	}

	for {
		c, _, err := r.r.ReadRune()
		if err == io.EOF {
			if quoted {
				return "", true, &ParseError{Line: r.recordLine, Msg: "unexpected end of input in quoted field"}
			}
			return r.field.String(), true, nil
		}
		if err != nil {
			return "", true, err
		}

		if quoted {
			switch c {
			case r.quote:
				next, _, err := r.r.ReadRune()
				if err == nil && next == r.quote {
					r.field.WriteRune(r.quote)
					continue
				}
				if err == nil {
					if err := r.r.UnreadRune(); err != nil {
						return "", true, err
					}
				}
				quoted = false
			case '\r':
				r.skipLF()
				r.line++
				r.field.WriteByte('\n')
			case '\n':
				r.line++
				r.field.WriteByte('\n')
			default:
				r.field.WriteRune(c)
			}
			continue
		}

		switch c {
		case comma:
			return r.field.String(), false, nil
		case '\r':
			r.skipLF()
			r.line++
			return r.field.String(), true, nil
		case '\n':
			r.line++
			return r.field.String(), true, nil
		default:
			r.field.WriteRune(c)
		}
	}
}

func (r *Reader) skipLF() {
	next, _, err := r.r.ReadRune()
	if err == nil && next != '\n' {
		_ = r.r.UnreadRune()
	}
}

func (r *Reader) readErr(err error) error {
	if err == io.EOF {
		return io.EOF
	}
	return fmt.Errorf("csv: read line %d: %w", r.line, err)
}
