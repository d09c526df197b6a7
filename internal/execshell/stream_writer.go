package execshell

import (
	"io"
	"sync"
)

// streamWriter forwards streamed tool output to a terminal writer. Writers that
// share a mutex never interleave within a single write, so the standard output
// and standard error of one tool arrive as whole chunks.
type streamWriter struct {
	destination io.Writer
	mutex       *sync.Mutex
}

func newStreamWriterPair(standardOutput io.Writer, standardError io.Writer) (*streamWriter, *streamWriter) {
	sharedMutex := &sync.Mutex{}
	return &streamWriter{destination: standardOutput, mutex: sharedMutex}, &streamWriter{destination: standardError, mutex: sharedMutex}
}

func (writer *streamWriter) Write(data []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushable, supportsFlush := writer.destination.(interface{ Flush() error }); supportsFlush {
		if flushError := flushable.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}
	return bytesWritten, nil
}
