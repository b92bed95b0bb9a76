package audio

import (
	"errors"
	"fmt"
	"io"
)

// DefaultBufferSize is the chunk size used by CopyPayload when none is given.
const DefaultBufferSize = 1024

// CopyPayload copies exactly n bytes from src to dst in chunks of bufSize
// bytes, leaving the data untouched. It returns the number of bytes written.
// A source that ends before n bytes is reported as ErrIO.
func CopyPayload(dst io.Writer, src io.Reader, n int64, bufSize int) (int64, error) {
	if bufSize < 1 {
		bufSize = DefaultBufferSize
	}
	buf := make([]byte, bufSize)

	var written int64
	for written < n {
		chunk := buf
		if remaining := n - written; remaining < int64(len(chunk)) {
			chunk = chunk[:remaining]
		}

		nr, rerr := src.Read(chunk)
		if nr > 0 {
			nw, werr := dst.Write(chunk[:nr])
			written += int64(nw)
			if werr != nil {
				return written, fmt.Errorf("%w: writing payload: %w", ErrOutputUnwritable, werr)
			}
			if nw != nr {
				return written, fmt.Errorf("%w: writing payload: %w", ErrOutputUnwritable, io.ErrShortWrite)
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				if written < n {
					return written, fmt.Errorf("%w: input ended after %d of %d bytes: %w",
						ErrIO, written, n, io.ErrUnexpectedEOF)
				}
				break
			}
			return written, fmt.Errorf("%w: reading payload: %w", ErrIO, rerr)
		}
	}

	return written, nil
}
