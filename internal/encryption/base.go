package encryption

import (
	"io"
	"sync"
)

const chunkSize = 64 * 1024

// chunkPool is a shared buffer pool for stream writers
var chunkPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, chunkSize)
		return &buf
	},
}

// Transformer rewrites a chunk of a byte stream in place
type Transformer interface {
	Transform(data []byte)
}

// TransformFunc is an adapter to use a function as Transformer
type TransformFunc func(data []byte)

func (f TransformFunc) Transform(data []byte) {
	f(data)
}

type transformReader struct {
	reader      io.Reader
	transformer Transformer
}

// WrapReader creates a reader that transforms everything read through it
func WrapReader(r io.Reader, t Transformer) io.Reader {
	return &transformReader{
		reader:      r,
		transformer: t,
	}
}

func (r *transformReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.transformer.Transform(p[:n])
	}
	return n, err
}

// transformWriter never mutates the caller's buffer
type transformWriter struct {
	writer      io.Writer
	transformer Transformer
}

// WrapWriter creates a writer that transforms data before passing it on
func WrapWriter(w io.Writer, t Transformer) io.Writer {
	return &transformWriter{
		writer:      w,
		transformer: t,
	}
}

func (w *transformWriter) Write(p []byte) (int, error) {
	var out []byte
	if len(p) <= chunkSize {
		bufPtr := chunkPool.Get().(*[]byte)
		defer chunkPool.Put(bufPtr)
		out = (*bufPtr)[:len(p)]
	} else {
		out = make([]byte, len(p))
	}
	copy(out, p)
	w.transformer.Transform(out)
	return w.writer.Write(out)
}

// WrapReaderFunc creates a reader using a transform function
func WrapReaderFunc(r io.Reader, transform func(data []byte)) io.Reader {
	return WrapReader(r, TransformFunc(transform))
}

// WrapWriterFunc creates a writer using a transform function
func WrapWriterFunc(w io.Writer, transform func(data []byte)) io.Writer {
	return WrapWriter(w, TransformFunc(transform))
}
