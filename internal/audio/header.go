package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-audio/riff"
)

// Canonical PCM WAV layout.
const (
	HeaderSize   = 44
	FmtChunkSize = 16
	FormatPCM    = 1

	// riffOverhead is the part of the RIFF chunk size that precedes the
	// payload: "WAVE" + fmt chunk (8+16) + data chunk header (8).
	riffOverhead = 4 + (8 + FmtChunkSize) + 8

	// MaxPayloadLength is the largest payload whose RIFF size still fits in 32 bits.
	MaxPayloadLength = math.MaxUint32 - riffOverhead
)

// Field offsets within the 44-byte header.
const (
	offRIFFSize = 4
	offDataSize = 40
)

// Params describes the PCM sample layout of the payload.
type Params struct {
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// BlockAlign returns the size in bytes of one frame across all channels.
// Bit depths that are not a multiple of 8 are truncated.
func (p Params) BlockAlign() uint16 {
	return p.Channels * (p.BitsPerSample / 8)
}

// ByteRate returns the number of payload bytes per second of playback.
func (p Params) ByteRate() uint32 {
	return p.SampleRate * uint32(p.BlockAlign())
}

func (p Params) String() string {
	return fmt.Sprintf("%d ch, %d Hz, %d bit", p.Channels, p.SampleRate, p.BitsPerSample)
}

// Validate checks p. In lenient mode everything representable is accepted,
// producing a degenerate header for zero values. Strict mode rejects zero
// fields and bit depths that are not whole bytes.
func (p Params) Validate(strict bool) error {
	if !strict {
		return nil
	}
	switch {
	case p.Channels == 0:
		return fmt.Errorf("%w: channel count must be positive", ErrInvalidParameter)
	case p.SampleRate == 0:
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidParameter)
	case p.BitsPerSample == 0:
		return fmt.Errorf("%w: bits per sample must be positive", ErrInvalidParameter)
	case p.BitsPerSample%8 != 0:
		return fmt.Errorf("%w: bits per sample %d is not a multiple of 8", ErrInvalidParameter, p.BitsPerSample)
	}
	return nil
}

// ParseParams parses the textual channel count, sample rate and bit depth.
func ParseParams(channels, sampleRate, bitsPerSample string) (Params, error) {
	ch, err := parseUint("channel count", channels, 16)
	if err != nil {
		return Params{}, err
	}
	rate, err := parseUint("sample rate", sampleRate, 32)
	if err != nil {
		return Params{}, err
	}
	bits, err := parseUint("bits per sample", bitsPerSample, 16)
	if err != nil {
		return Params{}, err
	}

	return Params{
		Channels:      uint16(ch),
		SampleRate:    uint32(rate),
		BitsPerSample: uint16(bits),
	}, nil
}

func parseUint(name, raw string, bitSize int) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q (want unsigned %d-bit integer)", ErrInvalidParameter, name, raw, bitSize)
	}
	return v, nil
}

// BuildHeader returns the 44-byte RIFF/WAVE header for payloadLen bytes of
// PCM data described by p. Every integer field is little-endian.
func BuildHeader(p Params, payloadLen int64) ([]byte, error) {
	if err := checkPayloadLength(payloadLen); err != nil {
		return nil, err
	}

	hdr := make([]byte, HeaderSize)
	copy(hdr[0:4], riff.RiffID[:])
	copy(hdr[8:12], riff.WavFormatID[:])
	copy(hdr[12:16], riff.FmtID[:])
	binary.LittleEndian.PutUint32(hdr[16:20], FmtChunkSize)
	binary.LittleEndian.PutUint16(hdr[20:22], FormatPCM)
	binary.LittleEndian.PutUint16(hdr[22:24], p.Channels)
	binary.LittleEndian.PutUint32(hdr[24:28], p.SampleRate)
	binary.LittleEndian.PutUint32(hdr[28:32], p.ByteRate())
	binary.LittleEndian.PutUint16(hdr[32:34], p.BlockAlign())
	binary.LittleEndian.PutUint16(hdr[34:36], p.BitsPerSample)
	copy(hdr[36:40], riff.DataFormatID[:])
	putSizes(hdr, uint32(payloadLen))

	return hdr, nil
}

// RIFFSize returns the top-level chunk size for payloadLen bytes of data,
// i.e. the total file size minus 8.
func RIFFSize(payloadLen int64) (uint32, error) {
	if err := checkPayloadLength(payloadLen); err != nil {
		return 0, err
	}
	return uint32(riffOverhead + payloadLen), nil
}

func checkPayloadLength(n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: negative payload length %d", ErrFormatLimitExceeded, n)
	}
	if n > MaxPayloadLength {
		return fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrFormatLimitExceeded, n, int64(MaxPayloadLength))
	}
	return nil
}

// putSizes writes the RIFF and data chunk sizes into a header buffer.
func putSizes(hdr []byte, payloadLen uint32) {
	binary.LittleEndian.PutUint32(hdr[offRIFFSize:offRIFFSize+4], riffOverhead+payloadLen)
	binary.LittleEndian.PutUint32(hdr[offDataSize:offDataSize+4], payloadLen)
}
