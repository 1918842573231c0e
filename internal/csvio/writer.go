package csvio

import (
	"bufio"
	"io"
	"strings"
)

// Writer writes CSV records with minimal quoting
type Writer struct {
	w              *bufio.Writer
	quote          rune
	lineTerminator string
	specials       string
}

// NewWriter returns a Writer using quote as the quote character and
// lineTerminator after every record ("\n" when empty)
func NewWriter(w io.Writer, quote rune, lineTerminator string) *Writer {
	if quote == 0 {
		quote = DefaultQuote
	}
	if lineTerminator == "" {
		lineTerminator = "\n"
	}
	return &Writer{
		w:              bufio.NewWriter(w),
		quote:          quote,
		lineTerminator: lineTerminator,
		specials:       string([]rune{comma, quote, '\r', '\n'}),
	}
}

// Write writes one record. Output is buffered until Flush.
func (w *Writer) Write(record []string) error {
	for i, field := range record {
		if i > 0 {
			if err := w.w.WriteByte(comma); err != nil {
				return err
			}
		}
		if err := w.writeField(field); err != nil {
			return err
		}
	}
	_, err := w.w.WriteString(w.lineTerminator)
	return err
}

func (w *Writer) writeField(field string) error {
	if !strings.ContainsAny(field, w.specials) {
		_, err := w.w.WriteString(field)
		return err
	}

	q := string(w.quote)
	if _, err := w.w.WriteString(q); err != nil {
		return err
	}
	if _, err := w.w.WriteString(strings.ReplaceAll(field, q, q+q)); err != nil {
		return err
	}
	_, err := w.w.WriteString(q)
	return err
}

// Flush writes any buffered data to the underlying writer
func (w *Writer) Flush() error {
	return w.w.Flush()
}
