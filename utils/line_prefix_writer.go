package utils

import (
	"bytes"
	"io"
)

// LinePrefixWriter prefixes every line written through it. Executor output in development
// mode is streamed to the console this way so it can be told apart from gateway logs.
type LinePrefixWriter struct {
	prefix    []byte
	w         io.Writer
	midLine   bool
	sharedOut bool
}

// NewConsolePrefixWriter writes into the shared gateway log output under its mutex.
func NewConsolePrefixWriter(prefix string) *LinePrefixWriter {
	return &LinePrefixWriter{prefix: []byte(prefix), sharedOut: true}
}

func NewLinePrefixWriter(prefix string, w io.Writer) *LinePrefixWriter {
	return &LinePrefixWriter{prefix: []byte(prefix), w: w}
}

func (pw *LinePrefixWriter) Write(p []byte) (int, error) {

	if len(p) == 0 {
		return 0, nil
	}

	out := pw.w

	if pw.sharedOut {
		LOG_OUTPUT_MUTEX.Lock()
		defer LOG_OUTPUT_MUTEX.Unlock()
		out = LOG_OUTPUT
	}

	n := 0

	for len(p) > 0 {

		if !pw.midLine {
			if _, err := out.Write(pw.prefix); err != nil {
				return n, err
			}
			pw.midLine = true
		}

		end := bytes.IndexByte(p, '\n')
		chunk := p
		if end >= 0 {
			chunk = p[:end+1]
		}

		m, err := out.Write(chunk)
		n += m
		if err != nil {
			return n, err
		}

		if end < 0 {
			break
		}

		pw.midLine = false
		p = p[end+1:]

	}

	return n, nil

}
