package audio

import (
	"bytes"
	"fmt"
	"io"
)

// seekBuffer wraps a bytes.Buffer to satisfy io.WriteSeeker, so the
// back-patching path can target memory as well as files.
type seekBuffer struct {
	buf *bytes.Buffer
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if s.pos == s.buf.Len() {
		n, err := s.buf.Write(p)
		s.pos += n
		return n, err
	}

	// Overwrite in place, growing the buffer for anything past the end.
	data := s.buf.Bytes()
	n := copy(data[s.pos:], p)
	if n < len(p) {
		s.buf.Write(p[n:])
	}
	s.pos += len(p)
	return len(p), nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = int64(s.pos) + offset
	case io.SeekEnd:
		newPos = int64(s.buf.Len()) + offset
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("seek before start")
	}
	if newPos > int64(s.buf.Len()) {
		return 0, fmt.Errorf("seek past end (%d > %d)", newPos, s.buf.Len())
	}
	s.pos = int(newPos)
	return newPos, nil
}
