package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

// ConvertOptions configures a Converter.
type ConvertOptions struct {
	Params Params
	// Strict rejects zero parameters and bit depths that are not whole bytes.
	Strict bool
	// BufferSize is the payload copy chunk size; DefaultBufferSize when < 1.
	BufferSize int
	// BackPatch writes the header with zero sizes first and patches the
	// RIFF and data sizes after the payload has been copied. The output must
	// be seekable.
	BackPatch bool
	Logger    *slog.Logger
}

// Result summarizes a finished conversion.
type Result struct {
	PayloadLength int64
	HeaderSize    int
	TotalSize     int64
}

// Converter wraps raw PCM payloads in a canonical WAV container.
type Converter struct {
	opts ConvertOptions
	log  *slog.Logger
}

// NewConverter returns a Converter for opts.
func NewConverter(opts ConvertOptions) *Converter {
	if opts.BufferSize < 1 {
		opts.BufferSize = DefaultBufferSize
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Converter{opts: opts, log: log}
}

// ConvertFile converts the PCM file at inPath into a WAV file at outPath.
// The input is opened and measured before the output is created, so a
// missing input never leaves an output file behind.
func (c *Converter) ConvertFile(inPath, outPath string) (Result, error) {
	// #nosec G304 -- Converting a user-selected local file is the purpose of this tool.
	in, err := os.Open(inPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %w", ErrInputNotFound, err)
		}
		return Result{}, fmt.Errorf("%w: opening input: %w", ErrIO, err)
	}
	defer c.closeFile(in, inPath)

	// Fail on bad parameters or oversized input before touching the output.
	hdr, err := c.prepare(in)
	if err != nil {
		return Result{}, err
	}

	// #nosec G304 -- Output path is chosen by the user.
	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrOutputUnwritable, err)
	}
	defer c.closeFile(out, outPath)

	res, err := c.write(out, in, hdr)
	if err != nil {
		return res, err
	}

	c.log.Debug("converted pcm to wav",
		"input", inPath,
		"output", outPath,
		"params", c.opts.Params.String(),
		"payload_bytes", res.PayloadLength,
		"total_bytes", res.TotalSize,
	)

	return res, nil
}

// Convert writes the WAV header for the remaining bytes of src to dst,
// followed by those bytes verbatim.
func (c *Converter) Convert(dst io.Writer, src io.ReadSeeker) (Result, error) {
	hdr, err := c.prepare(src)
	if err != nil {
		return Result{}, err
	}
	return c.write(dst, src, hdr)
}

// write emits hdr and then the payload length it declares from src.
func (c *Converter) write(dst io.Writer, src io.Reader, hdr []byte) (Result, error) {
	payloadLen := int64(binary.LittleEndian.Uint32(hdr[offDataSize : offDataSize+4]))

	if c.opts.BackPatch {
		return c.convertBackPatched(dst, src, hdr, payloadLen)
	}

	if _, err := dst.Write(hdr); err != nil {
		return Result{}, fmt.Errorf("%w: writing header: %w", ErrOutputUnwritable, err)
	}
	n, err := CopyPayload(dst, src, payloadLen, c.opts.BufferSize)

	return Result{PayloadLength: n, HeaderSize: HeaderSize, TotalSize: HeaderSize + n}, err
}

// prepare measures src, validates the parameters and builds the header.
// src is left positioned where it started.
func (c *Converter) prepare(src io.Seeker) ([]byte, error) {
	if err := c.opts.Params.Validate(c.opts.Strict); err != nil {
		return nil, err
	}
	n, err := measure(src)
	if err != nil {
		return nil, err
	}
	return BuildHeader(c.opts.Params, n)
}

func (c *Converter) convertBackPatched(dst io.Writer, src io.Reader, hdr []byte, payloadLen int64) (Result, error) {
	ws, ok := dst.(io.WriteSeeker)
	if !ok {
		return Result{}, fmt.Errorf("%w: back-patching requires a seekable output", ErrOutputUnwritable)
	}
	base, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return Result{}, fmt.Errorf("%w: locating header: %w", ErrOutputUnwritable, err)
	}

	placeholder := bytes.Clone(hdr)
	putSizes(placeholder, 0)
	if _, err := ws.Write(placeholder); err != nil {
		return Result{}, fmt.Errorf("%w: writing header: %w", ErrOutputUnwritable, err)
	}

	n, err := CopyPayload(ws, src, payloadLen, c.opts.BufferSize)
	res := Result{PayloadLength: n, HeaderSize: HeaderSize, TotalSize: HeaderSize + n}
	if err != nil {
		return res, err
	}

	if err := patchSizes(ws, base, n); err != nil {
		return res, err
	}

	return res, nil
}

// patchSizes rewrites the size fields of the header starting at base and
// returns the writer to the end of the payload.
func patchSizes(ws io.WriteSeeker, base, payloadLen int64) error {
	var sizes [HeaderSize]byte
	putSizes(sizes[:], uint32(payloadLen))

	for _, off := range []int64{offRIFFSize, offDataSize} {
		if _, err := ws.Seek(base+off, io.SeekStart); err != nil {
			return fmt.Errorf("%w: seeking to size field: %w", ErrOutputUnwritable, err)
		}
		if _, err := ws.Write(sizes[off : off+4]); err != nil {
			return fmt.Errorf("%w: patching size field: %w", ErrOutputUnwritable, err)
		}
	}
	if _, err := ws.Seek(base+HeaderSize+payloadLen, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to end: %w", ErrOutputUnwritable, err)
	}

	return nil
}

// measure returns the number of bytes between the current offset of s and
// its end, restoring the offset afterwards.
func measure(s io.Seeker) (int64, error) {
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w: measuring input: %w", ErrIO, err)
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: measuring input: %w", ErrIO, err)
	}
	if _, err := s.Seek(cur, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: rewinding input: %w", ErrIO, err)
	}
	return end - cur, nil
}

func (c *Converter) closeFile(f *os.File, path string) {
	if err := f.Close(); err != nil {
		c.log.Warn("closing file", "path", path, "error", err)
	}
}

// EncodePCM returns pcm wrapped in a WAV container described by opts.Params.
func EncodePCM(pcm []byte, opts ConvertOptions) ([]byte, error) {
	sb := &seekBuffer{buf: &bytes.Buffer{}}
	if _, err := NewConverter(opts).Convert(sb, bytes.NewReader(pcm)); err != nil {
		return nil, err
	}
	return sb.buf.Bytes(), nil
}
