// Package testutil provides assertions shared by tests that produce WAV files.
package testutil

import (
	"encoding/binary"
	"testing"
)

// PCMFormat is the sample layout a produced header is expected to declare.
type PCMFormat struct {
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// AssertPCMHeader checks that data starts with a canonical 44-byte PCM WAV
// header for f carrying payloadLen bytes of sample data, and that data is
// exactly header plus payload long.
func AssertPCMHeader(tb testing.TB, data []byte, f PCMFormat, payloadLen int) {
	tb.Helper()

	if len(data) < 44 {
		tb.Fatalf("WAV data too short: %d bytes", len(data))
	}
	if len(data) != 44+payloadLen {
		tb.Fatalf("WAV length = %d; want %d", len(data), 44+payloadLen)
	}

	for off, want := range map[int]string{0: "RIFF", 8: "WAVE", 12: "fmt ", 36: "data"} {
		if got := string(data[off : off+4]); got != want {
			tb.Fatalf("WAV: tag at offset %d = %q; want %q", off, got, want)
		}
	}

	if got := binary.LittleEndian.Uint32(data[4:8]); got != uint32(len(data)-8) {
		tb.Fatalf("WAV: RIFF size = %d; want %d", got, len(data)-8)
	}
	if got := binary.LittleEndian.Uint32(data[16:20]); got != 16 {
		tb.Fatalf("WAV: fmt chunk size = %d; want 16", got)
	}
	if got := binary.LittleEndian.Uint16(data[20:22]); got != 1 {
		tb.Fatalf("WAV: expected PCM format (1), got %d", got)
	}
	if got := binary.LittleEndian.Uint16(data[22:24]); got != f.Channels {
		tb.Fatalf("WAV: channels = %d; want %d", got, f.Channels)
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != f.SampleRate {
		tb.Fatalf("WAV: sample rate = %d; want %d", got, f.SampleRate)
	}

	blockAlign := f.Channels * (f.BitsPerSample / 8)
	if got := binary.LittleEndian.Uint32(data[28:32]); got != f.SampleRate*uint32(blockAlign) {
		tb.Fatalf("WAV: byte rate = %d; want %d", got, f.SampleRate*uint32(blockAlign))
	}
	if got := binary.LittleEndian.Uint16(data[32:34]); got != blockAlign {
		tb.Fatalf("WAV: block align = %d; want %d", got, blockAlign)
	}
	if got := binary.LittleEndian.Uint16(data[34:36]); got != f.BitsPerSample {
		tb.Fatalf("WAV: bits per sample = %d; want %d", got, f.BitsPerSample)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != uint32(payloadLen) {
		tb.Fatalf("WAV: data size = %d; want %d", got, payloadLen)
	}
}

// AssertWAVDurationApprox asserts that the duration implied by the header's
// byte rate and data size falls within [minSec, maxSec].
func AssertWAVDurationApprox(tb testing.TB, data []byte, minSec, maxSec float64) {
	tb.Helper()

	if len(data) < 44 {
		tb.Fatalf("WAV data too short: %d bytes", len(data))
	}
	byteRate := binary.LittleEndian.Uint32(data[28:32])
	if byteRate == 0 {
		tb.Fatal("WAV duration check: byte rate is zero")
	}
	dataSize := binary.LittleEndian.Uint32(data[40:44])

	durationSec := float64(dataSize) / float64(byteRate)
	if durationSec < minSec || durationSec > maxSec {
		tb.Fatalf("WAV duration %.3fs out of expected range [%.3fs, %.3fs]", durationSec, minSec, maxSec)
	}
}
