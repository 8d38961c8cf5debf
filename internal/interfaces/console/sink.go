package console

import (
	"fmt"
	"io"

	"volrank/internal/application/port"
)

// Sink prints result lines to a writer, normally stdout.
type Sink struct {
	out io.Writer
}

// NewSink creates a sink writing to w.
func NewSink(w io.Writer) port.Sink { return &Sink{out: w} }

// WriteLine writes line followed by a newline.
func (s *Sink) WriteLine(line string) error {
	_, err := fmt.Fprintln(s.out, line)
	return err
}
