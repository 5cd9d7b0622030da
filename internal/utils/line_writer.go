package utils

import (
	"bytes"
	"io"
	"sync"
)

const lineTerminatorConstant = '\n'

// LineWriter forwards data to an underlying writer one complete line at a time, so lines
// written from concurrent goroutines never interleave. The underlying writer is flushed
// after every forwarded chunk when it implements Flush. A trailing partial line is held
// until it is terminated or Close is called.
type LineWriter struct {
	mutex   sync.Mutex
	writer  io.Writer
	pending []byte
}

// NewLineWriter wraps writer. A nil writer yields a nil LineWriter that discards everything.
func NewLineWriter(writer io.Writer) *LineWriter {
	if writer == nil {
		return nil
	}
	if lineWriter, alreadyWrapped := writer.(*LineWriter); alreadyWrapped {
		return lineWriter
	}
	return &LineWriter{writer: writer}
}

// Write buffers data and forwards every complete line it now holds.
func (lineWriter *LineWriter) Write(data []byte) (int, error) {
	if lineWriter == nil || lineWriter.writer == nil {
		return len(data), nil
	}

	lineWriter.mutex.Lock()
	defer lineWriter.mutex.Unlock()

	lineWriter.pending = append(lineWriter.pending, data...)
	lastTerminatorIndex := bytes.LastIndexByte(lineWriter.pending, lineTerminatorConstant)
	if lastTerminatorIndex < 0 {
		return len(data), nil
	}

	completeLines := lineWriter.pending[:lastTerminatorIndex+1]
	remainder := append([]byte(nil), lineWriter.pending[lastTerminatorIndex+1:]...)
	if forwardError := lineWriter.forward(completeLines); forwardError != nil {
		return 0, forwardError
	}
	lineWriter.pending = remainder
	return len(data), nil
}

// Close forwards any unterminated trailing data. The underlying writer is not closed.
func (lineWriter *LineWriter) Close() error {
	if lineWriter == nil || lineWriter.writer == nil {
		return nil
	}

	lineWriter.mutex.Lock()
	defer lineWriter.mutex.Unlock()

	if len(lineWriter.pending) == 0 {
		return nil
	}
	forwardError := lineWriter.forward(lineWriter.pending)
	lineWriter.pending = nil
	return forwardError
}

func (lineWriter *LineWriter) forward(data []byte) error {
	if _, writeError := lineWriter.writer.Write(data); writeError != nil {
		return writeError
	}
	if flushableWriter, implementsFlush := lineWriter.writer.(interface{ Flush() error }); implementsFlush {
		return flushableWriter.Flush()
	}
	return nil
}
