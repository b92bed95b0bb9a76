package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-pcm2wav/internal/testutil"
)

// runIn executes the CLI from an empty working directory so no pcm2wav.yaml
// from the developer's checkout is picked up.
func runIn(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func writeFixture(t *testing.T, data []byte) (string, string) {
	t.Helper()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.pcm")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	return in, filepath.Join(dir, "out.wav")
}

func TestNewRootCmd_HasInspectSubcommand(t *testing.T) {
	root := NewRootCmd()

	found := false
	for _, sub := range root.Commands() {
		if sub.Name() == "inspect" {
			found = true
			break
		}
	}

	if !found {
		t.Error("expected subcommand \"inspect\" not found in root")
	}
}

func TestNewRootCmd_HasPersistentFlags(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"config", "convert-buffer-size", "convert-strict", "convert-back-patch", "log-level"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected --%s persistent flag to be registered", name)
		}
	}
}

func TestRun_ConvertsEightByteInput(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	in, out := writeFixture(t, payload)

	code, _, stderr := runIn(t, in, out, "1", "8000", "8")
	if code != 0 {
		t.Fatalf("exit code = %d; want 0 (stderr: %s)", code, stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	testutil.AssertPCMHeader(t, data, testutil.PCMFormat{Channels: 1, SampleRate: 8000, BitsPerSample: 8}, len(payload))
	testutil.AssertWAVDurationApprox(t, data, 0.0009, 0.0011)
	if !bytes.Equal(data[44:], payload) {
		t.Errorf("payload = % x; want % x", data[44:], payload)
	}
}

func TestRun_BackPatchFlagProducesSameBytes(t *testing.T) {
	payload := bytes.Repeat([]byte{0xA5}, 4000)
	in, out := writeFixture(t, payload)
	patched := out + ".patched"

	if code, _, stderr := runIn(t, in, out, "2", "44100", "16"); code != 0 {
		t.Fatalf("exit code = %d (stderr: %s)", code, stderr)
	}
	if code, _, stderr := runIn(t, "--convert-back-patch", "--convert-buffer-size=333", in, patched, "2", "44100", "16"); code != 0 {
		t.Fatalf("exit code = %d (stderr: %s)", code, stderr)
	}

	a, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(patched)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("--convert-back-patch output differs")
	}
}

func TestRun_WrongArgumentCount(t *testing.T) {
	in, out := writeFixture(t, []byte{1, 2, 3})

	for _, args := range [][]string{
		nil,
		{in},
		{in, out, "1", "8000"},
		{in, out, "1", "8000", "8", "extra"},
	} {
		code, stdout, stderr := runIn(t, args...)
		if code != 1 {
			t.Errorf("args %v: exit code = %d; want 1", args, code)
		}
		if !strings.Contains(stdout, "Usage:") {
			t.Errorf("args %v: usage not printed to stdout, got %q", args, stdout)
		}
		if !strings.Contains(stderr, "invalid arguments") {
			t.Errorf("args %v: stderr = %q; want invalid arguments message", args, stderr)
		}
	}

	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output created by malformed invocation (stat err %v)", err)
	}
}

func TestRun_UnreadableInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.wav")

	code, _, stderr := runIn(t, filepath.Join(dir, "missing.pcm"), out, "1", "8000", "8")
	if code != 1 {
		t.Fatalf("exit code = %d; want 1", code)
	}
	if !strings.Contains(stderr, "input not found") {
		t.Errorf("stderr = %q; want input not found message", stderr)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output created for unreadable input (stat err %v)", err)
	}
}

func TestRun_InvalidNumericArgument(t *testing.T) {
	in, out := writeFixture(t, []byte{1, 2})

	code, _, stderr := runIn(t, in, out, "stereo", "44100", "16")
	if code != 1 {
		t.Fatalf("exit code = %d; want 1", code)
	}
	if !strings.Contains(stderr, "invalid parameter") {
		t.Errorf("stderr = %q; want invalid parameter message", stderr)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output created for invalid parameter (stat err %v)", err)
	}
}

func TestRun_StrictRejectsOddBitDepth(t *testing.T) {
	in, out := writeFixture(t, []byte{1, 2})

	if code, _, _ := runIn(t, "--convert-strict", in, out, "1", "8000", "12"); code != 1 {
		t.Fatalf("strict exit code = %d; want 1", code)
	}
	if code, _, _ := runIn(t, in, out, "1", "8000", "12"); code != 0 {
		t.Fatalf("lenient exit code = %d; want 0", code)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint16(data[32:34]); got != 1 {
		t.Errorf("block align = %d; want truncated 1", got)
	}
}

func TestRun_Inspect(t *testing.T) {
	in, out := writeFixture(t, make([]byte, 32000))
	if code, _, stderr := runIn(t, in, out, "1", "16000", "16"); code != 0 {
		t.Fatalf("convert exit code = %d (stderr: %s)", code, stderr)
	}

	code, stdout, stderr := runIn(t, "inspect", out)
	if code != 0 {
		t.Fatalf("inspect exit code = %d (stderr: %s)", code, stderr)
	}
	for _, want := range []string{"sample rate:     16000", "channels:        1", "data size:       32000", "duration:        1s"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output missing %q:\n%s", want, stdout)
		}
	}
}

func TestSetupLogger_InvalidLevelFallsBackToInfo(_ *testing.T) {
	var buf bytes.Buffer
	for _, level := range []string{"debug", "info", "warn", "error", "not-a-level"} {
		setupLogger(&buf, level)
	}
}

func TestRun_DoubleDashTreatsSubcommandNameAsPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("inspect", []byte{1, 2, 3}, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("-dash.pcm", []byte{4, 5}, 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--", "inspect", "a.wav", "1", "8000", "8"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d; want 0 (stderr: %s)", code, stderr.String())
	}
	if code := run([]string{"--convert-back-patch", "--", "-dash.pcm", "b.wav", "1", "8000", "8"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d; want 0 (stderr: %s)", code, stderr.String())
	}

	a, err := os.ReadFile(filepath.Join(dir, "a.wav"))
	if err != nil {
		t.Fatalf("read a.wav: %v", err)
	}
	testutil.AssertPCMHeader(t, a, testutil.PCMFormat{Channels: 1, SampleRate: 8000, BitsPerSample: 8}, 3)

	b, err := os.ReadFile(filepath.Join(dir, "b.wav"))
	if err != nil {
		t.Fatalf("read b.wav: %v", err)
	}
	testutil.AssertPCMHeader(t, b, testutil.PCMFormat{Channels: 1, SampleRate: 8000, BitsPerSample: 8}, 2)
}

func TestNewRootCmd_UsageMentionsDoubleDash(t *testing.T) {
	root := NewRootCmd()
	if !strings.Contains(root.Long, `"--"`) {
		t.Error("long help should explain using -- before positional paths")
	}
}
